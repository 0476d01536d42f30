package usecase

import (
	"context"

	"github.com/jhoicas/storerating-api/internal/domain/repository"
)

// Repos is the repository set bound to one transaction.
type Repos struct {
	Users   repository.UserRepository
	Stores  repository.StoreRepository
	Ratings repository.RatingRepository
}

// TxRunner runs fn inside a database transaction, passing repositories bound to it.
// fn returning an error rolls every write back; nil commits them together.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
