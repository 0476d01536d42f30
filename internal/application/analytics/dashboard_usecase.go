// Package analytics builds the read-only dashboards of administrators and store
// owners, and the owner's printable rating report.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/rating"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
)

const (
	adminSummaryKey    = "dashboard:admin:summary"
	recentUsersLimit   = 5
	recentRatingsLimit = 10
)

// DashboardUseCase aggregates current rows in memory; nothing is persisted.
type DashboardUseCase struct {
	users    repository.UserRepository
	stores   repository.StoreRepository
	ratings  repository.RatingRepository
	cache    Cache
	cacheTTL time.Duration
	renderer ReportRenderer
}

// NewDashboardUseCase builds the use case. A nil cache or a zero TTL disables caching.
func NewDashboardUseCase(
	users repository.UserRepository,
	stores repository.StoreRepository,
	ratings repository.RatingRepository,
	cache Cache,
	cacheTTL time.Duration,
	renderer ReportRenderer,
) *DashboardUseCase {
	return &DashboardUseCase{
		users:    users,
		stores:   stores,
		ratings:  ratings,
		cache:    cache,
		cacheTTL: cacheTTL,
		renderer: renderer,
	}
}

// AdminSummary returns platform totals, users per role, the newest users and the
// platform-wide rating histogram.
//
// Five independent reads run in parallel:
//  1. users.Count      → TotalUsers
//  2. stores.Count     → TotalStores
//  3. ratings.AllValues → TotalRatings, AverageRating, RatingDistribution
//  4. users.ListRoles  → UsersByRole
//  5. users.ListRecent → RecentUsers
func (uc *DashboardUseCase) AdminSummary(ctx context.Context) (*dto.AdminDashboard, error) {
	if uc.cacheEnabled() {
		var cached dto.AdminDashboard
		if ok, err := uc.cache.Get(ctx, adminSummaryKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	var (
		totalUsers, totalStores int
		values                  []int
		roles                   []entity.Role
		recent                  []*entity.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalUsers, err = uc.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		totalStores, err = uc.stores.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		values, err = uc.ratings.AllValues(gctx)
		return err
	})
	g.Go(func() (err error) {
		roles, err = uc.users.ListRoles(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = uc.users.ListRecent(gctx, recentUsersLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin dashboard: %w", err)
	}

	byRole := make(map[string]int, len(entity.Roles))
	for _, r := range entity.Roles {
		byRole[r.String()] = 0
	}
	for _, r := range roles {
		byRole[r.String()]++
	}
	sum := rating.Summarize(values)

	out := &dto.AdminDashboard{
		Statistics: dto.AdminStatistics{
			TotalUsers:         totalUsers,
			TotalStores:        totalStores,
			TotalRatings:       sum.Total,
			AverageRating:      sum.Average,
			UsersByRole:        byRole,
			RatingDistribution: sum.Distribution,
		},
		RecentUsers: dto.NewUserResponses(recent),
	}
	if uc.cacheEnabled() {
		// a cache failure never fails the request
		_ = uc.cache.Set(ctx, adminSummaryKey, out, uc.cacheTTL)
	}
	return out, nil
}

// OwnerDashboard returns the statistics of the store owned by ownerID.
func (uc *DashboardUseCase) OwnerDashboard(ctx context.Context, ownerID string) (*dto.OwnerDashboard, error) {
	store, err := uc.stores.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.NotFoundf("No store found for this user")
	}
	ratings, err := uc.ratings.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("owner dashboard: %w", err)
	}

	sum := rating.Summarize(rating.Values(ratings))
	recent := ratings
	if len(recent) > recentRatingsLimit {
		recent = recent[:recentRatingsLimit]
	}
	customers := make([]dto.CustomerRating, 0, len(ratings))
	for _, r := range ratings {
		c := dto.CustomerRating{RatingID: r.ID, Rating: r.Value, RatedAt: r.UpdatedAt}
		if r.User != nil {
			c.UserRef = dto.UserRef{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email}
		}
		customers = append(customers, c)
	}

	return &dto.OwnerDashboard{
		Store: dto.NewStoreRef(store),
		Statistics: dto.OwnerStatistics{
			AverageRating:      sum.Average,
			TotalRatings:       sum.Total,
			RatingDistribution: sum.Distribution,
		},
		RecentRatings: dto.NewRatingResponses(recent),
		Customers:     customers,
	}, nil
}

// OwnerReport renders the owner dashboard as a document.
//
// Returns (bytes, filename, nil) on success and the OwnerDashboard errors otherwise.
func (uc *DashboardUseCase) OwnerReport(ctx context.Context, ownerID string) ([]byte, string, error) {
	report, err := uc.OwnerDashboard(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	doc, err := uc.renderer.RenderStoreReport(ctx, report, now)
	if err != nil {
		return nil, "", fmt.Errorf("owner report: %w", err)
	}
	return doc, fmt.Sprintf("store-report-%s.pdf", now.Format("2006-01-02")), nil
}

// Invalidate drops the cached admin summary so the next read sees current rows.
// Called after every write that changes users, stores or ratings.
func (uc *DashboardUseCase) Invalidate(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	if err := uc.cache.Delete(ctx, adminSummaryKey); err != nil {
		return fmt.Errorf("invalidate admin dashboard: %w", err)
	}
	return nil
}

func (uc *DashboardUseCase) cacheEnabled() bool {
	return uc.cache != nil && uc.cacheTTL > 0
}
