package memory

import (
	"context"

	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
)

var _ repository.RatingRepository = (*RatingRepo)(nil)

// RatingRepo in-memory RatingRepository.
type RatingRepo struct {
	db *DB
}

// NewRatingRepository builds the rating repository over db.
func NewRatingRepository(db *DB) *RatingRepo {
	return &RatingRepo{db: db}
}

func (r *RatingRepo) Create(_ context.Context, rating *entity.Rating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.stores[rating.StoreID]; !ok {
		return domain.ErrStoreNotFound
	}
	if _, ok := r.db.users[rating.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, rt := range r.db.ratings {
		if rt.UserID == rating.UserID && rt.StoreID == rating.StoreID {
			return domain.ErrAlreadyRated
		}
	}
	row := *rating
	row.User, row.Store = nil, nil
	r.db.ratings[rating.ID] = ratingRow{Rating: row, seq: r.db.next()}
	return nil
}

func (r *RatingRepo) GetByID(_ context.Context, id string) (*entity.Rating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.db.ratings[id]
	if !ok {
		return nil, nil
	}
	rt := row.Rating
	return &rt, nil
}

func (r *RatingRepo) GetByUserAndStore(_ context.Context, userID, storeID string) (*entity.Rating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, row := range r.db.ratings {
		if row.UserID == userID && row.StoreID == storeID {
			rt := row.Rating
			return &rt, nil
		}
	}
	return nil, nil
}

// Update persists the star value.
func (r *RatingRepo) Update(_ context.Context, rating *entity.Rating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.ratings[rating.ID]
	if !ok {
		return domain.ErrRatingNotFound
	}
	row.Value = rating.Value
	row.UpdatedAt = rating.UpdatedAt
	r.db.ratings[rating.ID] = row
	return nil
}

func (r *RatingRepo) ListByUser(_ context.Context, userID string) ([]*entity.Rating, error) {
	return r.list(func(rt ratingRow) bool { return rt.UserID == userID }, func(db *DB, rt *entity.Rating) {
		if s, ok := db.stores[rt.StoreID]; ok {
			rt.Store = &entity.StoreSummary{ID: s.ID, Name: s.Name, Address: s.Address}
		}
	})
}

func (r *RatingRepo) ListByStore(_ context.Context, storeID string) ([]*entity.Rating, error) {
	return r.list(func(rt ratingRow) bool { return rt.StoreID == storeID }, func(db *DB, rt *entity.Rating) {
		if u, ok := db.users[rt.UserID]; ok {
			rt.User = &entity.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	})
}

func (r *RatingRepo) list(pred func(ratingRow) bool, join func(*DB, *entity.Rating)) ([]*entity.Rating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := make([]ratingRow, 0)
	for _, row := range r.db.ratings {
		if pred(row) {
			rows = append(rows, row)
		}
	}
	orderRows(rows, recentFirst, func(row ratingRow) sortable {
		return sortable{fields: func(string) any { return row.CreatedAt }, createdAt: row.CreatedAt, seq: row.seq}
	})
	out := make([]*entity.Rating, 0, len(rows))
	for _, row := range rows {
		rt := row.Rating
		join(r.db, &rt)
		out = append(out, &rt)
	}
	return out, nil
}

func (r *RatingRepo) ValuesByStores(_ context.Context, storeIDs []string) (map[string][]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	wanted := make(map[string]bool, len(storeIDs))
	for _, id := range storeIDs {
		wanted[id] = true
	}
	out := make(map[string][]int, len(storeIDs))
	for _, row := range r.db.ratings {
		if wanted[row.StoreID] {
			out[row.StoreID] = append(out[row.StoreID], row.Value)
		}
	}
	return out, nil
}

func (r *RatingRepo) AllValues(_ context.Context) ([]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	values := make([]int, 0, len(r.db.ratings))
	for _, row := range r.db.ratings {
		values = append(values, row.Value)
	}
	return values, nil
}

func (r *RatingRepo) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.ratings), nil
}

func (r *RatingRepo) DeleteByUser(_ context.Context, userID string) error {
	r.deleteWhere(func(rt ratingRow) bool { return rt.UserID == userID })
	return nil
}

func (r *RatingRepo) DeleteByStore(_ context.Context, storeID string) error {
	r.deleteWhere(func(rt ratingRow) bool { return rt.StoreID == storeID })
	return nil
}

func (r *RatingRepo) deleteWhere(pred func(ratingRow) bool) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, row := range r.db.ratings {
		if pred(row) {
			delete(r.db.ratings, id)
		}
	}
}
