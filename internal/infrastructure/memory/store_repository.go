package memory

import (
	"context"

	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo in-memory StoreRepository.
type StoreRepo struct {
	db *DB
}

// NewStoreRepository builds the store repository over db.
func NewStoreRepository(db *DB) *StoreRepo {
	return &StoreRepo{db: db}
}

func (r *StoreRepo) Create(_ context.Context, store *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[store.OwnerID]; !ok {
		return domain.NotFoundf("Store owner not found")
	}
	for _, s := range r.db.stores {
		if s.Email == store.Email {
			return domain.ErrStoreEmailTaken
		}
		if s.OwnerID == store.OwnerID {
			return domain.Conflictf("Store owner already has a store: %s", s.Name)
		}
	}
	row := *store
	row.Owner = nil
	r.db.stores[store.ID] = storeRow{Store: row, seq: r.db.next()}
	return nil
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	return r.db.storeWithOwner(row), nil
}

func (r *StoreRepo) GetByEmail(_ context.Context, email string) (*entity.Store, error) {
	return r.find(func(s storeRow) bool { return s.Email == email })
}

func (r *StoreRepo) GetByOwnerID(_ context.Context, ownerID string) (*entity.Store, error) {
	return r.find(func(s storeRow) bool { return s.OwnerID == ownerID })
}

func (r *StoreRepo) find(pred func(storeRow) bool) (*entity.Store, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, row := range r.db.stores {
		if pred(row) {
			return r.db.storeWithOwner(row), nil
		}
	}
	return nil, nil
}

// Update persists name, email and address.
func (r *StoreRepo) Update(_ context.Context, store *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.stores[store.ID]
	if !ok {
		return domain.ErrStoreNotFound
	}
	for _, s := range r.db.stores {
		if s.ID != store.ID && s.Email == store.Email {
			return domain.ErrStoreEmailTaken
		}
	}
	row.Name = store.Name
	row.Email = store.Email
	row.Address = store.Address
	row.UpdatedAt = store.UpdatedAt
	r.db.stores[store.ID] = row
	return nil
}

func (r *StoreRepo) List(_ context.Context, q repository.ListQuery) ([]*entity.Store, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := make([]storeRow, 0, len(r.db.stores))
	for _, row := range r.db.stores {
		if q.Where.Match(storeField(row)) {
			rows = append(rows, row)
		}
	}
	orderRows(rows, q.OrderBy, storeSortKey)
	total := len(rows)

	page := paged(rows, q)
	out := make([]*entity.Store, 0, len(page))
	for _, row := range page {
		out = append(out, r.db.storeWithOwner(row))
	}
	return out, total, nil
}

func (r *StoreRepo) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.stores), nil
}

// Delete removes the store and its ratings.
func (r *StoreRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.stores[id]; !ok {
		return domain.ErrStoreNotFound
	}
	for rid, rt := range r.db.ratings {
		if rt.StoreID == id {
			delete(r.db.ratings, rid)
		}
	}
	delete(r.db.stores, id)
	return nil
}

func (db *DB) storeWithOwner(row storeRow) *entity.Store {
	s := row.Store
	if u, ok := db.users[s.OwnerID]; ok {
		s.Owner = &entity.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &s
}

func storeField(row storeRow) func(string) any {
	return func(field string) any {
		switch field {
		case repository.StoreFieldName:
			return row.Name
		case repository.StoreFieldEmail:
			return row.Email
		case repository.StoreFieldAddress:
			return row.Address
		case repository.StoreFieldCreatedAt:
			return row.CreatedAt
		}
		return nil
	}
}

func storeSortKey(row storeRow) sortable {
	return sortable{fields: storeField(row), createdAt: row.CreatedAt, seq: row.seq}
}
