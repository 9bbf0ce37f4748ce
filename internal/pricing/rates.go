package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"commission-service/internal/cache"
	"commission-service/internal/infra"
)

const (
	DefaultRateTTL = time.Hour
	rateCacheKey   = "fx:USD:KES"

	// rateFetchTimeout bounds a shared fetch, which outlives the request that started it.
	rateFetchTimeout = 10 * time.Second
)

// DefaultFallbackRate is served when no rate was ever fetched.
var DefaultFallbackRate = decimal.NewFromInt(129)

// RateProvider serves the USD to KES rate. It never fails: a fresh cached
// rate is preferred, then a live fetch, then the last known rate, then the
// fallback constant.
type RateProvider struct {
	source   infra.ExchangeRateSource
	store    cache.Store
	ttl      time.Duration
	fallback decimal.Decimal
	logger   *zap.SugaredLogger

	group singleflight.Group
	mu    sync.RWMutex
	last  decimal.Decimal
}

func NewRateProvider(source infra.ExchangeRateSource, store cache.Store, ttl time.Duration, fallback decimal.Decimal, logger *zap.SugaredLogger) *RateProvider {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	if !fallback.IsPositive() {
		fallback = DefaultFallbackRate
	}
	return &RateProvider{source: source, store: store, ttl: ttl, fallback: fallback, logger: logger}
}

func (p *RateProvider) USDToKES(ctx context.Context) decimal.Decimal {
	if rate, ok := p.cached(ctx); ok {
		return rate
	}

	ch := p.group.DoChan(rateCacheKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rateFetchTimeout)
		defer cancel()

		rate, err := p.source.USDRate(fetchCtx, "KES")
		if err != nil {
			return nil, err
		}
		if err := p.store.Set(fetchCtx, rateCacheKey, []byte(rate.String()), p.ttl); err != nil {
			p.logger.Warnw("caching exchange rate failed", "error", err)
		}
		p.remember(rate)
		return rate, nil
	})

	var err error
	select {
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(decimal.Decimal)
		}
		err = res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}

	if last := p.lastKnown(); last.IsPositive() {
		p.logger.Warnw("exchange rate fetch failed, serving last known rate", "rate", last, "error", err)
		return last
	}
	p.logger.Warnw("exchange rate fetch failed, serving fallback rate", "rate", p.fallback, "error", err)
	return p.fallback
}

func (p *RateProvider) cached(ctx context.Context) (decimal.Decimal, bool) {
	b, ok, err := p.store.Get(ctx, rateCacheKey)
	if err != nil || !ok {
		return decimal.Zero, false
	}
	rate, err := decimal.NewFromString(string(b))
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, false
	}
	p.remember(rate)
	return rate, true
}

func (p *RateProvider) remember(rate decimal.Decimal) {
	p.mu.Lock()
	p.last = rate
	p.mu.Unlock()
}

func (p *RateProvider) lastKnown() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}
