package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching services.
type Cache interface {
	// Get returns the cached value, or ("", nil) when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
