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

var _ repository.StoreRepository = (*StoreRepo)(nil)

// storeColumns whitelists the filterable and sortable store fields. Rating is derived
// and sorted by the caller.
var storeColumns = map[string]string{
	repository.StoreFieldName:      "s.name",
	repository.StoreFieldEmail:     "s.email",
	repository.StoreFieldAddress:   "s.address",
	repository.StoreFieldCreatedAt: "s.created_at",
}

const selectStore = `
	SELECT s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
	       u.id, u.name, u.email
	FROM stores s
	JOIN users u ON u.id = s.owner_id`

// StoreRepo PostgreSQL StoreRepository.
type StoreRepo struct {
	db Querier
}

// NewStoreRepository builds the store persistence adapter.
func NewStoreRepository(db Querier) *StoreRepo {
	return &StoreRepo{db: db}
}

// Create inserts a store. The unique indexes on email and owner_id back up the
// checks done by the caller.
func (r *StoreRepo) Create(ctx context.Context, store *entity.Store) error {
	query := `
		INSERT INTO stores (id, name, email, address, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		store.ID, store.Name, store.Email, store.Address, store.OwnerID, store.CreatedAt, store.UpdatedAt,
	)
	if err != nil {
		return storeWriteError("insert store", err)
	}
	return nil
}

func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	if !isID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get store by id", selectStore+` WHERE s.id = $1`, id)
}

func (r *StoreRepo) GetByEmail(ctx context.Context, email string) (*entity.Store, error) {
	return r.getOne(ctx, "get store by email", selectStore+` WHERE s.email = $1`, email)
}

func (r *StoreRepo) GetByOwnerID(ctx context.Context, ownerID string) (*entity.Store, error) {
	if !isID(ownerID) {
		return nil, nil
	}
	return r.getOne(ctx, "get store by owner", selectStore+` WHERE s.owner_id = $1`, ownerID)
}

func (r *StoreRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Store, error) {
	s, err := scanStore(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Update persists name, email and address.
func (r *StoreRepo) Update(ctx context.Context, store *entity.Store) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE stores SET name = $2, email = $3, address = $4, updated_at = $5 WHERE id = $1`,
		store.ID, store.Name, store.Email, store.Address, store.UpdatedAt,
	)
	if err != nil {
		return storeWriteError("update store", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}

// List returns one page of stores (every match when q.Unpaged) and the match count.
func (r *StoreRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Store, int, error) {
	where, args, err := q.Where.SQL(storeColumns, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("list stores: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stores s WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stores: %w", err)
	}

	order, ok := q.OrderBy.SQL(storeColumns)
	query := selectStore + ` WHERE ` + where + orderClause(order, ok, "s.created_at ASC", "s.id")
	if !q.Unpaged {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, q.Page.Take, q.Page.Skip)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *StoreRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stores: %w", err)
	}
	return n, nil
}

// Delete removes the store; its ratings go with it through ON DELETE CASCADE.
func (r *StoreRepo) Delete(ctx context.Context, id string) error {
	if !isID(id) {
		return domain.ErrStoreNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}

func storeWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err) && constraintName(err) == "stores_owner_id_key":
		return domain.Conflictf("Store owner already has a store")
	case isUniqueViolation(err):
		return domain.ErrStoreEmailTaken
	case isForeignKeyViolation(err):
		return domain.NotFoundf("Store owner not found")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var (
		s     entity.Store
		owner entity.UserSummary
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.Address, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
		&owner.ID, &owner.Name, &owner.Email,
	)
	if err != nil {
		return nil, err
	}
	s.Owner = &owner
	return &s, nil
}
