package cache

import (
	"context"
	"time"

	"github.com/jhoicas/storerating-api/internal/application/analytics"
)

var _ analytics.Cache = Noop{}

// Noop never stores anything; used when REDIS_URL is empty.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }
