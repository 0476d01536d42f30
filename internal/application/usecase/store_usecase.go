package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
	qb "github.com/jhoicas/storerating-api/pkg/querybuilder"
)

var errNoOwnedStore = domain.NotFoundf("No store found for this user")

// StoreUseCase store administration, owner self-service and public browsing.
type StoreUseCase struct {
	users   repository.UserRepository
	stores  repository.StoreRepository
	ratings repository.RatingRepository
	tx      TxRunner
}

// NewStoreUseCase builds the use case.
func NewStoreUseCase(users repository.UserRepository, stores repository.StoreRepository, ratings repository.RatingRepository, tx TxRunner) *StoreUseCase {
	return &StoreUseCase{users: users, stores: stores, ratings: ratings, tx: tx}
}

// Create registers a store for an existing user and promotes that user to
// STORE_OWNER, both in one transaction.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if err := uc.checkEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}
	owner, err := uc.users.GetByID(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.NotFoundf("Store owner not found")
	}
	owned, err := uc.stores.GetByOwnerID(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if owned != nil {
		return nil, domain.Conflictf("User already owns a store: %s", owned.Name)
	}

	now := time.Now().UTC()
	store := &entity.Store{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Address:   in.Address,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.tx.Run(ctx, func(r Repos) error {
		if err := r.Stores.Create(ctx, store); err != nil {
			return err
		}
		if owner.Role != entity.RoleStoreOwner {
			return r.Users.UpdateRole(ctx, owner.ID, entity.RoleStoreOwner)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	store.Owner = &entity.UserSummary{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	resp := dto.NewStoreResponse(store, nil)
	return &resp, nil
}

// Update changes any of name, email and address of a store.
func (uc *StoreUseCase) Update(ctx context.Context, id string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	return uc.apply(ctx, store, in)
}

// Delete removes the store with its ratings and demotes its owner to NORMAL_USER,
// all in one transaction.
func (uc *StoreUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r Repos) error {
		store, err := r.Stores.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.ErrStoreNotFound
		}
		if err := r.Ratings.DeleteByStore(ctx, id); err != nil {
			return err
		}
		if err := r.Stores.Delete(ctx, id); err != nil {
			return err
		}
		return r.Users.UpdateRole(ctx, store.OwnerID, entity.RoleNormalUser)
	})
}

// List filters, sorts and pages stores. Sorting by rating runs in memory over
// every matching store before the page is cut.
func (uc *StoreUseCase) List(ctx context.Context, f dto.StoreFilter) (*dto.StoreListResponse, error) {
	order := qb.ParseOrder(f.SortOrder)
	byRating := f.SortBy == repository.StoreFieldRating

	q := repository.ListQuery{
		Where: qb.WhereFromFilters(map[string]string{
			repository.StoreFieldName:    f.Name,
			repository.StoreFieldEmail:   f.Email,
			repository.StoreFieldAddress: f.Address,
		}, nil),
		Page: f.Window(),
	}
	if byRating {
		q.Unpaged = true
	} else {
		q.OrderBy = qb.Sort(f.SortBy, order)
	}

	stores, total, err := uc.stores.List(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := uc.withRatings(ctx, stores)
	if err != nil {
		return nil, err
	}
	if byRating {
		sortByAverage(items, order)
		items = qb.Slice(items, f.Window())
	}
	return &dto.StoreListResponse{Stores: items, Pagination: dto.NewPagination(f.PageQuery, total)}, nil
}

// Search matches the query against store name or address, ordered by name.
func (uc *StoreUseCase) Search(ctx context.Context, s dto.StoreSearchQuery) (*dto.StoreListResponse, error) {
	stores, total, err := uc.stores.List(ctx, repository.ListQuery{
		Where: qb.Or(
			qb.Contains(repository.StoreFieldName, s.Query),
			qb.Contains(repository.StoreFieldAddress, s.Query),
		),
		OrderBy: qb.Sort(repository.StoreFieldName, qb.Asc),
		Page:    s.Window(),
	})
	if err != nil {
		return nil, err
	}
	items, err := uc.withRatings(ctx, stores)
	if err != nil {
		return nil, err
	}
	return &dto.StoreListResponse{
		Stores:      items,
		Pagination:  dto.NewPagination(s.PageQuery, total),
		SearchQuery: s.Query,
	}, nil
}

// Get returns a store with every rating it received.
func (uc *StoreUseCase) Get(ctx context.Context, id string) (*dto.StoreDetailResponse, error) {
	store, err := uc.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	ratings, err := uc.ratings.ListByStore(ctx, id)
	if err != nil {
		return nil, err
	}
	values := make([]int, 0, len(ratings))
	for _, r := range ratings {
		values = append(values, r.Value)
	}
	return &dto.StoreDetailResponse{
		StoreResponse: dto.NewStoreResponse(store, values),
		Ratings:       dto.NewRatingResponses(ratings),
	}, nil
}

// CreateOwn lets a store owner open their single store.
func (uc *StoreUseCase) CreateOwn(ctx context.Context, ownerID string, in dto.OwnStoreRequest) (*dto.StoreResponse, error) {
	owned, err := uc.stores.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owned != nil {
		return nil, domain.Conflictf("You already have a store: %s", owned.Name)
	}
	if err := uc.checkEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	store := &entity.Store{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Address:   in.Address,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	resp := dto.NewStoreResponse(store, nil)
	return &resp, nil
}

// UpdateOwn updates the store owned by ownerID.
func (uc *StoreUseCase) UpdateOwn(ctx context.Context, ownerID string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.stores.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errNoOwnedStore
	}
	return uc.apply(ctx, store, in)
}

func (uc *StoreUseCase) apply(ctx context.Context, store *entity.Store, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	if in.Email != nil && *in.Email != store.Email {
		if err := uc.checkEmailFree(ctx, *in.Email, store.ID); err != nil {
			return nil, err
		}
		store.Email = *in.Email
	}
	if in.Name != nil {
		store.Name = *in.Name
	}
	if in.Address != nil {
		store.Address = *in.Address
	}
	store.UpdatedAt = time.Now().UTC()
	if err := uc.stores.Update(ctx, store); err != nil {
		return nil, err
	}
	items, err := uc.withRatings(ctx, []*entity.Store{store})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// checkEmailFree fails with a conflict naming the store that already uses email.
func (uc *StoreUseCase) checkEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := uc.stores.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return domain.Conflictf("A store with this email already exists: %s", existing.Name)
	}
	return nil
}

// withRatings attaches the average and count to every store with one query.
func (uc *StoreUseCase) withRatings(ctx context.Context, stores []*entity.Store) ([]dto.StoreResponse, error) {
	ids := make([]string, 0, len(stores))
	for _, s := range stores {
		ids = append(ids, s.ID)
	}
	values, err := uc.ratings.ValuesByStores(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, dto.NewStoreResponse(s, values[s.ID]))
	}
	return out, nil
}

func sortByAverage(items []dto.StoreResponse, order qb.Order) {
	sort.SliceStable(items, func(i, j int) bool {
		if order == qb.Desc {
			return items[i].AverageRating > items[j].AverageRating
		}
		return items[i].AverageRating < items[j].AverageRating
	})
}
