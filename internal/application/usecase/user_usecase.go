package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
	qb "github.com/jhoicas/storerating-api/pkg/querybuilder"
)

// UserUseCase profile management and the administrator's user operations.
type UserUseCase struct {
	users  repository.UserRepository
	stores repository.StoreRepository
	tx     TxRunner
}

// NewUserUseCase builds the use case.
func NewUserUseCase(users repository.UserRepository, stores repository.StoreRepository, tx TxRunner) *UserUseCase {
	return &UserUseCase{users: users, stores: stores, tx: tx}
}

// Profile returns the user; store owners get their store attached.
func (uc *UserUseCase) Profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := dto.NewUserResponse(user)
	if user.Role == entity.RoleStoreOwner {
		store, err := uc.stores.GetByOwnerID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if store != nil {
			ref := dto.NewStoreRef(store)
			resp.Store = &ref
		}
	}
	return &resp, nil
}

// UpdateProfile changes the name and/or address.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.Profile(ctx, userID)
}

// List returns one page of users matching the filter.
func (uc *UserUseCase) List(ctx context.Context, f dto.UserFilter) (*dto.UserListResponse, error) {
	q := repository.ListQuery{
		Where: qb.WhereFromFilters(
			map[string]string{
				repository.UserFieldName:    f.Name,
				repository.UserFieldEmail:   f.Email,
				repository.UserFieldAddress: f.Address,
			},
			map[string]any{repository.UserFieldRole: f.Role},
		),
		OrderBy: qb.Sort(f.SortBy, qb.ParseOrder(f.SortOrder)),
		Page:    f.Window(),
	}
	users, total, err := uc.users.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.UserListResponse{
		Users:      dto.NewUserResponses(users),
		Pagination: dto.NewPagination(f.PageQuery, total),
	}, nil
}

// UpdateRole sets a user's role. A user who owns a store keeps STORE_OWNER
// until the store is deleted.
func (uc *UserUseCase) UpdateRole(ctx context.Context, userID string, role entity.Role) (*dto.UserResponse, error) {
	if !role.Valid() {
		return nil, domain.Validationf("Invalid role")
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Role == entity.RoleStoreOwner && role != entity.RoleStoreOwner {
		store, err := uc.stores.GetByOwnerID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if store != nil {
			return nil, domain.Conflictf("User owns store %q; delete the store before changing the role", store.Name)
		}
	}
	if err := uc.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	user.Role = role
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Delete removes a user, their ratings and their store (with its ratings) in one
// transaction. Administrators cannot delete themselves.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return domain.Validationf("You cannot delete your own account")
	}
	return uc.tx.Run(ctx, func(r Repos) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if err := r.Ratings.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		store, err := r.Stores.GetByOwnerID(ctx, userID)
		if err != nil {
			return err
		}
		if store != nil {
			if err := r.Ratings.DeleteByStore(ctx, store.ID); err != nil {
				return err
			}
			if err := r.Stores.Delete(ctx, store.ID); err != nil {
				return err
			}
		}
		return r.Users.Delete(ctx, userID)
	})
}
