package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/storerating-api/internal/application/dto"
)

// Cache stores JSON-serializable values for a limited time.
type Cache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ReportRenderer turns an owner dashboard into a printable document.
type ReportRenderer interface {
	RenderStoreReport(ctx context.Context, report *dto.OwnerDashboard, generatedAt time.Time) ([]byte, error)
}
