package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
)

var _ repository.RatingRepository = (*RatingRepo)(nil)

// RatingRepo PostgreSQL RatingRepository.
type RatingRepo struct {
	db Querier
}

// NewRatingRepository builds the rating persistence adapter.
func NewRatingRepository(db Querier) *RatingRepo {
	return &RatingRepo{db: db}
}

// Create inserts a rating; UNIQUE (user_id, store_id) turns a resubmission into ErrAlreadyRated.
func (r *RatingRepo) Create(ctx context.Context, rating *entity.Rating) error {
	query := `
		INSERT INTO ratings (id, rating, user_id, store_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		rating.ID, rating.Value, rating.UserID, rating.StoreID, rating.CreatedAt, rating.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrAlreadyRated
		case isForeignKeyViolation(err):
			return domain.ErrStoreNotFound
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

func (r *RatingRepo) GetByID(ctx context.Context, id string) (*entity.Rating, error) {
	if !isID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get rating", `
		SELECT id, rating, user_id, store_id, created_at, updated_at
		FROM ratings WHERE id = $1`, id)
}

func (r *RatingRepo) GetByUserAndStore(ctx context.Context, userID, storeID string) (*entity.Rating, error) {
	if !isID(userID) || !isID(storeID) {
		return nil, nil
	}
	return r.getOne(ctx, "get rating by user and store", `
		SELECT id, rating, user_id, store_id, created_at, updated_at
		FROM ratings WHERE user_id = $1 AND store_id = $2`, userID, storeID)
}

func (r *RatingRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Rating, error) {
	var rt entity.Rating
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&rt.ID, &rt.Value, &rt.UserID, &rt.StoreID, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rt, nil
}

// Update persists the star value.
func (r *RatingRepo) Update(ctx context.Context, rating *entity.Rating) error {
	tag, err := r.db.Exec(ctx, `UPDATE ratings SET rating = $2, updated_at = $3 WHERE id = $1`,
		rating.ID, rating.Value, rating.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Rating, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.rating, r.user_id, r.store_id, r.created_at, r.updated_at,
		       s.id, s.name, s.address
		FROM ratings r
		JOIN stores s ON s.id = r.store_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings by user: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Rating, 0)
	for rows.Next() {
		var (
			rt    entity.Rating
			store entity.StoreSummary
		)
		if err := rows.Scan(&rt.ID, &rt.Value, &rt.UserID, &rt.StoreID, &rt.CreatedAt, &rt.UpdatedAt,
			&store.ID, &store.Name, &store.Address); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		rt.Store = &store
		list = append(list, &rt)
	}
	return list, rows.Err()
}

func (r *RatingRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.Rating, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.rating, r.user_id, r.store_id, r.created_at, r.updated_at,
		       u.id, u.name, u.email
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = $1
		ORDER BY r.created_at DESC, r.id`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list ratings by store: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Rating, 0)
	for rows.Next() {
		var (
			rt   entity.Rating
			user entity.UserSummary
		)
		if err := rows.Scan(&rt.ID, &rt.Value, &rt.UserID, &rt.StoreID, &rt.CreatedAt, &rt.UpdatedAt,
			&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		rt.User = &user
		list = append(list, &rt)
	}
	return list, rows.Err()
}

// ValuesByStores loads the star values of a page of stores in one round trip.
func (r *RatingRepo) ValuesByStores(ctx context.Context, storeIDs []string) (map[string][]int, error) {
	out := make(map[string][]int, len(storeIDs))
	if len(storeIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT store_id, rating FROM ratings WHERE store_id = ANY($1::text[]::uuid[])`, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("rating values by store: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			storeID string
			value   int
		)
		if err := rows.Scan(&storeID, &value); err != nil {
			return nil, fmt.Errorf("scan rating value: %w", err)
		}
		out[storeID] = append(out[storeID], value)
	}
	return out, rows.Err()
}

func (r *RatingRepo) AllValues(ctx context.Context) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT rating FROM ratings`)
	if err != nil {
		return nil, fmt.Errorf("all rating values: %w", err)
	}
	defer rows.Close()
	values := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan rating value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *RatingRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return n, nil
}

func (r *RatingRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ratings WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete ratings by user: %w", err)
	}
	return nil
}

func (r *RatingRepo) DeleteByStore(ctx context.Context, storeID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ratings WHERE store_id = $1`, storeID); err != nil {
		return fmt.Errorf("delete ratings by store: %w", err)
	}
	return nil
}
