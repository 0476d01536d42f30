package memory

import (
	"context"

	"github.com/jhoicas/storerating-api/internal/application/usecase"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner runs callbacks against a private copy of the database and publishes
// the copy only when the callback succeeds. Transactions are serialized and
// block every other reader and writer while open.
type TxRunner struct {
	db *DB
}

// NewTxRunner builds the runner over db.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run executes fn with repositories bound to the copy; an error discards the copy.
func (r *TxRunner) Run(ctx context.Context, fn func(repos usecase.Repos) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	work := r.db.clone()
	if err := fn(Repositories(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.seq = work.seq
	r.db.users = work.users
	r.db.stores = work.stores
	r.db.ratings = work.ratings
	return nil
}

// Repositories returns the full repository set over db.
func Repositories(db *DB) usecase.Repos {
	return usecase.Repos{
		Users:   NewUserRepository(db),
		Stores:  NewStoreRepository(db),
		Ratings: NewRatingRepository(db),
	}
}
