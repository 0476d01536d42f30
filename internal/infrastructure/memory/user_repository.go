package memory

import (
	"context"
	"time"

	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo in-memory UserRepository.
type UserRepo struct {
	db *DB
}

// NewUserRepository builds the user repository over db.
func NewUserRepository(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[user.ID]; ok {
		return domain.Conflictf("user %s already exists", user.ID)
	}
	if r.db.userByEmail(user.Email) != nil {
		return domain.ErrEmailAlreadyExists
	}
	row := *user
	row.Store = nil
	r.db.users[user.ID] = userRow{User: row, seq: r.db.next()}
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	return r.db.userWithStore(row), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row := r.db.userByEmail(email)
	if row == nil {
		return nil, nil
	}
	return r.db.userWithStore(*row), nil
}

func (r *UserRepo) GetByRefreshToken(_ context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, nil
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, row := range r.db.users {
		if row.RefreshToken == token {
			return r.db.userWithStore(row), nil
		}
	}
	return nil, nil
}

// Update persists name, email, address and password hash.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if other := r.db.userByEmail(user.Email); other != nil && other.ID != user.ID {
		return domain.ErrEmailAlreadyExists
	}
	row.Name = user.Name
	row.Email = user.Email
	row.Address = user.Address
	row.PasswordHash = user.PasswordHash
	row.UpdatedAt = user.UpdatedAt
	r.db.users[user.ID] = row
	return nil
}

func (r *UserRepo) UpdateRole(_ context.Context, id string, role entity.Role) error {
	return r.db.updateUser(id, func(u *userRow) {
		u.Role = role
		u.UpdatedAt = time.Now().UTC()
	})
}

func (r *UserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	return r.db.updateUser(id, func(u *userRow) { u.RefreshToken = token })
}

func (r *UserRepo) List(_ context.Context, q repository.ListQuery) ([]*entity.User, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := make([]userRow, 0, len(r.db.users))
	for _, row := range r.db.users {
		if q.Where.Match(userField(row)) {
			rows = append(rows, row)
		}
	}
	orderRows(rows, q.OrderBy, userSortKey)
	total := len(rows)

	page := paged(rows, q)
	out := make([]*entity.User, 0, len(page))
	for _, row := range page {
		out = append(out, r.db.userWithStore(row))
	}
	return out, total, nil
}

func (r *UserRepo) ListRecent(_ context.Context, n int) ([]*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := make([]userRow, 0, len(r.db.users))
	for _, row := range r.db.users {
		rows = append(rows, row)
	}
	orderRows(rows, recentFirst, userSortKey)
	if n < len(rows) {
		rows = rows[:n]
	}
	out := make([]*entity.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.db.userWithStore(row))
	}
	return out, nil
}

func (r *UserRepo) ListRoles(_ context.Context) ([]entity.Role, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	roles := make([]entity.Role, 0, len(r.db.users))
	for _, row := range r.db.users {
		roles = append(roles, row.Role)
	}
	return roles, nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.users), nil
}

// Delete removes the user and, like the foreign key, the ratings they gave.
// A user who still owns a store cannot be deleted.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	for _, s := range r.db.stores {
		if s.OwnerID == id {
			return domain.Conflictf("User still owns store %q", s.Name)
		}
	}
	for rid, rt := range r.db.ratings {
		if rt.UserID == id {
			delete(r.db.ratings, rid)
		}
	}
	delete(r.db.users, id)
	return nil
}

// ── table helpers (callers hold the lock) ────────────────────────────────────

func (db *DB) userByEmail(email string) *userRow {
	for _, row := range db.users {
		if row.Email == email {
			return &row
		}
	}
	return nil
}

func (db *DB) userWithStore(row userRow) *entity.User {
	u := row.User
	for _, s := range db.stores {
		if s.OwnerID == u.ID {
			u.Store = &entity.StoreSummary{ID: s.ID, Name: s.Name, Address: s.Address}
			break
		}
	}
	return &u
}

func (db *DB) updateUser(id string, fn func(*userRow)) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	row, ok := db.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(&row)
	db.users[id] = row
	return nil
}

func userField(row userRow) func(string) any {
	return func(field string) any {
		switch field {
		case repository.UserFieldName:
			return row.Name
		case repository.UserFieldEmail:
			return row.Email
		case repository.UserFieldAddress:
			return row.Address
		case repository.UserFieldRole:
			return row.Role
		case repository.UserFieldCreatedAt:
			return row.CreatedAt
		}
		return nil
	}
}

func userSortKey(row userRow) sortable {
	return sortable{fields: userField(row), createdAt: row.CreatedAt, seq: row.seq}
}
