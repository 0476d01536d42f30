package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
	"github.com/jhoicas/storerating-api/internal/infrastructure/memory"
	qb "github.com/jhoicas/storerating-api/pkg/querybuilder"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T) (*memory.DB, usecase.Repos) {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	repos := memory.Repositories(db)

	users := []*entity.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Address: "Oak Street", Role: entity.RoleNormalUser, CreatedAt: t0},
		{ID: "u2", Name: "bob", Email: "bob@example.com", Address: "Elm Street", Role: entity.RoleStoreOwner, CreatedAt: t0.Add(time.Hour)},
		{ID: "u3", Name: "Carol", Email: "carol@example.com", Address: "Pine Road", Role: entity.RoleSystemAdmin, CreatedAt: t0.Add(2 * time.Hour)},
	}
	for _, u := range users {
		require.NoError(t, repos.Users.Create(ctx, u))
	}
	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Corner Shop", Email: "shop@example.com", Address: "Elm Street 1", OwnerID: "u2", CreatedAt: t0}))
	require.NoError(t, repos.Ratings.Create(ctx, &entity.Rating{ID: "r1", Value: 4, UserID: "u1", StoreID: "s1", CreatedAt: t0}))
	return db, repos
}

func TestUserRepo_UniqueEmail(t *testing.T) {
	_, repos := seed(t)
	err := repos.Users.Create(context.Background(), &entity.User{ID: "u9", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_ListFiltersSortsAndPages(t *testing.T) {
	_, repos := seed(t)
	ctx := context.Background()

	users, total, err := repos.Users.List(ctx, repository.ListQuery{
		Where:   qb.Contains(repository.UserFieldAddress, "street"),
		OrderBy: qb.Sort(repository.UserFieldName, qb.Asc),
		Page:    qb.Paginate(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "bob", users[1].Name)
	require.NotNil(t, users[1].Store)
	assert.Equal(t, "s1", users[1].Store.ID)

	users, total, err = repos.Users.List(ctx, repository.ListQuery{
		OrderBy: qb.Sort(repository.UserFieldCreatedAt, qb.Desc),
		Page:    qb.Paginate(2, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}

func TestRatingRepo_DuplicatePair(t *testing.T) {
	_, repos := seed(t)
	err := repos.Ratings.Create(context.Background(), &entity.Rating{ID: "r2", Value: 1, UserID: "u1", StoreID: "s1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyRated)

	existing, err := repos.Ratings.GetByUserAndStore(context.Background(), "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, existing.Value)
}

func TestStoreRepo_DeleteCascadesRatings(t *testing.T) {
	_, repos := seed(t)
	ctx := context.Background()

	require.NoError(t, repos.Stores.Delete(ctx, "s1"))
	n, err := repos.Ratings.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStoreRepo_OneStorePerOwner(t *testing.T) {
	_, repos := seed(t)
	err := repos.Stores.Create(context.Background(), &entity.Store{ID: "s2", Name: "Second", Email: "second@example.com", OwnerID: "u2"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTxRunner_CommitAndRollback(t *testing.T) {
	db, repos := seed(t)
	ctx := context.Background()
	tx := memory.NewTxRunner(db)

	boom := errors.New("boom")
	err := tx.Run(ctx, func(r usecase.Repos) error {
		require.NoError(t, r.Stores.Delete(ctx, "s1"))
		require.NoError(t, r.Users.UpdateRole(ctx, "u2", entity.RoleNormalUser))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	store, err := repos.Stores.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, store, "rolled back store must still exist")
	owner, err := repos.Users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStoreOwner, owner.Role)

	err = tx.Run(ctx, func(r usecase.Repos) error {
		if err := r.Stores.Delete(ctx, "s1"); err != nil {
			return err
		}
		return r.Users.UpdateRole(ctx, "u2", entity.RoleNormalUser)
	})
	require.NoError(t, err)

	store, err = repos.Stores.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, store)
	owner, err = repos.Users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleNormalUser, owner.Role)
}
