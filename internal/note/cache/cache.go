package cache

import (
	"context"
	"time"
)

// Cache holds rendered thread documents between syncs. A miss is not
// an error.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop satisfies Cache without storing anything. Used when no redis
// address is configured and in tests.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }

func (Noop) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }

func (Noop) Delete(ctx context.Context, key string) error { return nil }
