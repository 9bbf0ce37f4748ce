// Package ratelimit limits how many orders one identifier may create per window.
package ratelimit

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"commission-service/internal/cache"
)

const (
	DefaultWindow = 24 * time.Hour
	DefaultQuota  = 5
)

type window struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"resetAt"`
}

// Gate is best-effort admission control. A failing backing store lets the
// request through.
type Gate struct {
	store  cache.Store
	window time.Duration
	quota  int
	now    func() time.Time
	logger *zap.SugaredLogger

	mu sync.Mutex
}

func NewGate(store cache.Store, window time.Duration, quota int, logger *zap.SugaredLogger) *Gate {
	if window <= 0 {
		window = DefaultWindow
	}
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &Gate{store: store, window: window, quota: quota, now: time.Now, logger: logger}
}

func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

func (g *Gate) Admit(ctx context.Context, identifier string) bool {
	key := "ratelimit:" + strings.ToLower(strings.TrimSpace(identifier))

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	w, err := g.load(ctx, key)
	if err != nil {
		g.logger.Warnw("rate gate load failed, admitting", "key", key, "error", err)
		return true
	}

	switch {
	case w == nil || !now.Before(w.ResetAt):
		w = &window{Count: 1, ResetAt: now.Add(g.window)}
	case w.Count >= g.quota:
		return false
	default:
		w.Count++
	}

	if err := g.save(ctx, key, w, w.ResetAt.Sub(now)); err != nil {
		g.logger.Warnw("rate gate save failed", "key", key, "error", err)
	}
	return true
}

func (g *Gate) load(ctx context.Context, key string) (*window, error) {
	b, ok, err := g.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var w window
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, nil
	}
	return &w, nil
}

func (g *Gate) save(ctx context.Context, key string, w *window, ttl time.Duration) error {
	b, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return g.store.Set(ctx, key, b, ttl)
}
