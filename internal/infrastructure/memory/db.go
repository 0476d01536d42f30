// Package memory is an in-process persistence adapter implementing every repository port.
//
// It backs STORAGE_DRIVER=memory and the test suites. Unique constraints and
// cascades mirror the PostgreSQL schema so both adapters behave the same way.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
	qb "github.com/jhoicas/storerating-api/pkg/querybuilder"
)

// DB holds every table. The zero value is not usable; call New.
type DB struct {
	mu      sync.RWMutex
	seq     int64
	users   map[string]userRow
	stores  map[string]storeRow
	ratings map[string]ratingRow
}

type userRow struct {
	entity.User
	seq int64
}

type storeRow struct {
	entity.Store
	seq int64
}

type ratingRow struct {
	entity.Rating
	seq int64
}

// New returns an empty database.
func New() *DB {
	return &DB{
		users:   map[string]userRow{},
		stores:  map[string]storeRow{},
		ratings: map[string]ratingRow{},
	}
}

func (db *DB) next() int64 {
	db.seq++
	return db.seq
}

// clone copies every table. Callers hold at least a read lock.
func (db *DB) clone() *DB {
	c := &DB{
		seq:     db.seq,
		users:   make(map[string]userRow, len(db.users)),
		stores:  make(map[string]storeRow, len(db.stores)),
		ratings: make(map[string]ratingRow, len(db.ratings)),
	}
	for k, v := range db.users {
		c.users[k] = v
	}
	for k, v := range db.stores {
		c.stores[k] = v
	}
	for k, v := range db.ratings {
		c.ratings[k] = v
	}
	return c
}

// ── Helpers shared by the repositories ───────────────────────────────────────

type sortable struct {
	fields    func(string) any
	createdAt time.Time
	seq       int64
}

// orderRows sorts rows by ob, breaking ties by creation order in the same direction.
// Strings compare case-insensitively.
func orderRows[T any](rows []T, ob qb.OrderBy, key func(T) sortable) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := key(rows[i]), key(rows[j])
		if !ob.IsZero() {
			c := compare(a.fields(ob.Field), b.fields(ob.Field))
			if c != 0 {
				if ob.Order == qb.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		desc := !ob.IsZero() && ob.Order == qb.Desc
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt) != desc
		}
		return (a.seq < b.seq) != desc
	})
}

// recentFirst orders by creation time, newest first.
var recentFirst = qb.Sort(repository.UserFieldCreatedAt, qb.Desc)

func compare(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case entity.Role:
		bv, _ := b.(entity.Role)
		return strings.Compare(string(av), string(bv))
	}
	return 0
}

// paged applies the query window unless every row was requested.
func paged[T any](rows []T, q repository.ListQuery) []T {
	if q.Unpaged {
		return rows
	}
	return qb.Slice(rows, q.Page)
}
