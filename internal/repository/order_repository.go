package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"commission-service/internal/domain"
)

// OrderRepository persists orders. Finders return nil, nil when nothing matches.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByAccessToken(ctx context.Context, token string) (*domain.Order, error)
	// UpdateConditional applies patch only while the order is still in
	// expected status, as one atomic statement. It reports whether a row changed.
	UpdateConditional(ctx context.Context, id string, expected domain.OrderStatus, patch domain.OrderPatch) (bool, error)
	// ListAll compares prices in USD; KES amounts are divided by kesPerUSD.
	ListAll(ctx context.Context, order domain.ListOrder, kesPerUSD decimal.Decimal) ([]domain.Order, error)
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type TestimonialRepository interface {
	// Insert fails with domain.ErrTestimonialExists when the order already has one.
	Insert(ctx context.Context, t *domain.Testimonial) error
	FindByOrderID(ctx context.Context, orderID string) (*domain.Testimonial, error)
	SetVisibility(ctx context.Context, id string, visible bool) (bool, error)
	ListVisible(ctx context.Context, limit int) ([]domain.Testimonial, error)
}
