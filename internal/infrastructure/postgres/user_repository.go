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

var _ repository.UserRepository = (*UserRepo)(nil)

// userColumns whitelists the filterable and sortable user fields.
var userColumns = map[string]string{
	repository.UserFieldName:      "u.name",
	repository.UserFieldEmail:     "u.email",
	repository.UserFieldAddress:   "u.address",
	repository.UserFieldRole:      "u.role",
	repository.UserFieldCreatedAt: "u.created_at",
}

const selectUser = `
	SELECT u.id, u.name, u.email, u.address, u.password_hash, u.role,
	       COALESCE(u.refresh_token, ''), u.created_at, u.updated_at,
	       s.id, s.name, s.address
	FROM users u
	LEFT JOIN stores s ON s.owner_id = u.id`

// UserRepo PostgreSQL UserRepository.
type UserRepo struct {
	db Querier
}

// NewUserRepository builds the user persistence adapter.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, address, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Address, user.PasswordHash, string(user.Role),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !isID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get user by id", selectUser+` WHERE u.id = $1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email", selectUser+` WHERE u.email = $1`, email)
}

func (r *UserRepo) GetByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.getOne(ctx, "get user by refresh token", selectUser+` WHERE u.refresh_token = $1`, token)
}

func (r *UserRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update persists name, email, address and password hash.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET name = $2, email = $3, address = $4, password_hash = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Address, user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id string, role entity.Role) error {
	if !isID(id) {
		return domain.ErrUserNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, string(role))
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET refresh_token = NULLIF($2, '') WHERE id = $1`, id, token)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns one page of users and the number of users matching the filter.
func (r *UserRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.User, int, error) {
	where, args, err := q.Where.SQL(userColumns, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	order, ok := q.OrderBy.SQL(userColumns)
	query := selectUser + ` WHERE ` + where + orderClause(order, ok, "u.created_at ASC", "u.id")
	if !q.Unpaged {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, q.Page.Take, q.Page.Skip)
	}
	users, err := r.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) ListRecent(ctx context.Context, n int) ([]*entity.User, error) {
	return r.queryUsers(ctx, selectUser+` ORDER BY u.created_at DESC, u.id LIMIT $1`, n)
}

func (r *UserRepo) ListRoles(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT role FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var roles []entity.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, entity.Role(role))
	}
	return roles, rows.Err()
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Delete removes the user; ratings they gave are removed by the foreign key.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if !isID(id) {
		return domain.ErrUserNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflictf("User still owns a store")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) queryUsers(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u                            entity.User
		role                         string
		storeID, storeName, storeAdr *string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Address, &u.PasswordHash, &role,
		&u.RefreshToken, &u.CreatedAt, &u.UpdatedAt,
		&storeID, &storeName, &storeAdr,
	)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	if storeID != nil {
		u.Store = &entity.StoreSummary{ID: *storeID, Name: deref(storeName), Address: deref(storeAdr)}
	}
	return &u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
