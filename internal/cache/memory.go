package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps entries in process memory. A background janitor evicts
// expired entries; Get also checks the deadline against the store clock.
type MemoryStore struct {
	items *ttlcache.Cache[string, entry]
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	items := ttlcache.New[string, entry](
		ttlcache.WithDisableTouchOnHit[string, entry](),
	)
	go items.Start()
	return &MemoryStore{items: items, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := m.items.Get(key)
	if item == nil {
		return nil, false, nil
	}
	e := item.Value()
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.items.Delete(key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	libTTL := ttlcache.NoTTL
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
		libTTL = ttl
	}
	m.items.Set(key, e, libTTL)
	return nil
}

func (m *MemoryStore) Len() int {
	return m.items.Len()
}

// Close stops the eviction janitor.
func (m *MemoryStore) Close() {
	m.items.Stop()
}
