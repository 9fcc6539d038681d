package cache

import (
	"context"

	"github.com/google/uuid"
)

// ProductCache fronts catalog name resolution. It is advisory: a miss
// or a cache outage only costs an extra database lookup.
type ProductCache interface {
	GetProductID(ctx context.Context, name string) (uuid.UUID, bool)
	SetProductID(ctx context.Context, name string, id uuid.UUID)
	// Invalidate drops a cached name, used when a product is renamed.
	Invalidate(ctx context.Context, name string)
}

// NoopProductCache is used when redis is not configured (and in tests).
type NoopProductCache struct{}

func (NoopProductCache) GetProductID(ctx context.Context, name string) (uuid.UUID, bool) {
	return uuid.Nil, false
}

func (NoopProductCache) SetProductID(ctx context.Context, name string, id uuid.UUID) {}

func (NoopProductCache) Invalidate(ctx context.Context, name string) {}
