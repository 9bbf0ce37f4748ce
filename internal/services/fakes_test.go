package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"commission-service/internal/cache"
	"commission-service/internal/domain"
	"commission-service/internal/infra/payment"
	"commission-service/internal/mocks"
	"commission-service/internal/notification"
	"commission-service/internal/pricing"
	"commission-service/internal/ratelimit"
	"commission-service/internal/repository"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

const testBaseURL = "https://poems.test"

type fixedRate decimal.Decimal

func (r fixedRate) USDToKES(context.Context) decimal.Decimal { return decimal.Decimal(r) }

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// memOrders is an order store whose conditional update is a real
// compare-and-swap under a mutex.
type memOrders struct {
	mu      sync.Mutex
	orders  map[string]domain.Order
	applied int
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[string]domain.Order{}}
}

func (m *memOrders) Insert(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = *o
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memOrders) FindByAccessToken(_ context.Context, token string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.AccessToken == token {
			return &o, nil
		}
	}
	return nil, nil
}

func (m *memOrders) UpdateConditional(_ context.Context, id string, expected domain.OrderStatus, patch domain.OrderPatch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != expected {
		return false, nil
	}
	patch.Apply(&o)
	m.orders[id] = o
	m.applied++
	return true, nil
}

func (m *memOrders) ListAll(context.Context, domain.ListOrder, decimal.Decimal) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) CountByStatus(context.Context) (map[domain.OrderStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[domain.OrderStatus]int64{}
	for _, o := range m.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (m *memOrders) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		if !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memOrders) get(id string) domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memOrders) appliedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

type memTestimonials struct {
	mu    sync.Mutex
	items map[string]domain.Testimonial
}

func newMemTestimonials() *memTestimonials {
	return &memTestimonials{items: map[string]domain.Testimonial{}}
}

func (m *memTestimonials) Insert(_ context.Context, t *domain.Testimonial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.OrderID == t.OrderID {
			return domain.ErrTestimonialExists
		}
	}
	m.items[t.ID] = *t
	return nil
}

func (m *memTestimonials) FindByOrderID(_ context.Context, orderID string) (*domain.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.items {
		if t.OrderID == orderID {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memTestimonials) SetVisibility(_ context.Context, id string, visible bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[id]
	if !ok {
		return false, nil
	}
	t.Visible = visible
	m.items[id] = t
	return true, nil
}

func (m *memTestimonials) ListVisible(_ context.Context, limit int) ([]domain.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Testimonial
	for _, t := range m.items {
		if t.Visible && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

var (
	_ repository.OrderRepository       = (*memOrders)(nil)
	_ repository.TestimonialRepository = (*memTestimonials)(nil)
)

type fixture struct {
	svc          *OrderService
	orders       *memOrders
	testimonials *memTestimonials
	paypal       *mocks.MockProvider
	paystack     *mocks.MockProvider
	sink         *mocks.MockSink
	clock        *clock
}

func quietSink() *mocks.MockSink {
	s := new(mocks.MockSink)
	s.On("OrderCreated", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.On("PaymentConfirmed", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.On("OrderCancelled", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.On("PoemDelivered", mock.Anything, mock.Anything).Return(nil).Maybe()
	return s
}

func newTestEngine() *pricing.Engine {
	return pricing.NewEngine(fixedRate(decimal.NewFromInt(129)))
}

// newFixture wires the service to in-memory stores. A nil sink gets one
// that accepts everything.
func newFixture(sink *mocks.MockSink) *fixture {
	if sink == nil {
		sink = quietSink()
	}
	f := &fixture{
		orders:       newMemOrders(),
		testimonials: newMemTestimonials(),
		paypal:       &mocks.MockProvider{ProviderName: domain.ProviderPayPal, Settles: domain.USD},
		paystack:     &mocks.MockProvider{ProviderName: domain.ProviderPaystack, Settles: domain.KES},
		sink:         sink,
		clock:        &clock{t: testNow},
	}
	logger := zap.NewNop().Sugar()
	f.svc = NewOrderService(Deps{
		Orders:        f.orders,
		Testimonials:  f.testimonials,
		Pricing:       newTestEngine(),
		Gate:          ratelimit.NewGate(cache.NewMemoryStore(), 24*time.Hour, 5, logger),
		Payments:      payment.NewRegistry(f.paypal, f.paystack),
		Sink:          notification.Sink(sink),
		Logger:        logger,
		PublicBaseURL: testBaseURL + "/",
	}).WithClock(f.clock.Now)
	return f
}

// seed stores an order directly, bypassing creation.
func (f *fixture) seed(status domain.OrderStatus) *domain.Order {
	o := &domain.Order{
		ID:            "order-" + string(status),
		AccessToken:   "token-" + string(status),
		Type:          domain.TypeCustom,
		CustomerName:  "Amina",
		CustomerEmail: "a@x.com",
		Currency:      domain.USD,
		QuotedPrice:   decimal.RequireFromString("3.00"),
		DeliveryHours: 10,
		Status:        status,
		CreatedAt:     testNow,
	}
	if status.IsPaid() {
		paidAt := testNow
		o.PricePaid = o.QuotedPrice
		o.PaidCurrency = domain.USD
		o.PaymentProvider = domain.ProviderPayPal
		o.PaymentID = "PP-EXISTING"
		o.PaidAt = &paidAt
	}
	_ = f.orders.Insert(context.Background(), o)
	return o
}

func succeeded(amount string, currency domain.Currency) *payment.VerificationResult {
	return &payment.VerificationResult{
		Status:     payment.VerificationSucceeded,
		RawStatus:  "COMPLETED",
		AmountPaid: decimal.RequireFromString(amount),
		Currency:   currency,
	}
}

func customUSD(budget string) domain.CustomOrder {
	return domain.CustomOrder{
		Customer: domain.Customer{Name: "Amina", Email: "a@x.com"},
		Currency: domain.USD,
		Budget:   decimal.RequireFromString(budget),
		Brief:    domain.Brief{Title: "For my mother", Mood: "warm"},
	}
}
