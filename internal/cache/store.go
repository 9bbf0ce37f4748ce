// Package cache is a small TTL key/value abstraction shared by the rate gate
// and the currency rate provider. A process-local map or redis can back it.
package cache

import (
	"context"
	"time"
)

type Store interface {
	// Get returns the value and true, or false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
