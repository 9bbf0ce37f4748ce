package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"commission-service/internal/domain"
	"commission-service/internal/infra/email"
	"commission-service/internal/infra/payment"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockTestimonialRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockSender struct {
	mock.Mock
}

type MockSink struct {
	mock.Mock
}

type MockProvider struct {
	mock.Mock
	ProviderName domain.PaymentProvider
	Settles      domain.Currency
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

func (m *MockSender) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockSink) OrderCreated(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockSink) PaymentConfirmed(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockSink) OrderCancelled(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockSink) PoemDelivered(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockProvider) Name() domain.PaymentProvider { return m.ProviderName }

// SettlementCurrency returns Settles, or the display currency when Settles is unset.
func (m *MockProvider) SettlementCurrency(display domain.Currency) domain.Currency {
	if m.Settles != "" {
		return m.Settles
	}
	return display
}

func (m *MockProvider) Initiate(ctx context.Context, req payment.InitiateRequest) (*payment.RedirectTarget, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.RedirectTarget), args.Error(1)
}

func (m *MockProvider) Verify(ctx context.Context, reference string) (*payment.VerificationResult, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.VerificationResult), args.Error(1)
}

func (m *MockOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByAccessToken(ctx context.Context, token string) (*domain.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateConditional(ctx context.Context, id string, expected domain.OrderStatus, patch domain.OrderPatch) (bool, error) {
	args := m.Called(ctx, id, expected, patch)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context, order domain.ListOrder, kesPerUSD decimal.Decimal) ([]domain.Order, error) {
	args := m.Called(ctx, order, kesPerUSD)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.OrderStatus]int64), args.Error(1)
}

func (m *MockOrderRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTestimonialRepository) Insert(ctx context.Context, t *domain.Testimonial) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTestimonialRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Testimonial, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Testimonial), args.Error(1)
}

func (m *MockTestimonialRepository) SetVisibility(ctx context.Context, id string, visible bool) (bool, error) {
	args := m.Called(ctx, id, visible)
	return args.Bool(0), args.Error(1)
}

func (m *MockTestimonialRepository) ListVisible(ctx context.Context, limit int) ([]domain.Testimonial, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Testimonial), args.Error(1)
}
