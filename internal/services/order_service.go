package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"commission-service/internal/domain"
	"commission-service/internal/infra/payment"
	"commission-service/internal/notification"
	"commission-service/internal/pricing"
	"commission-service/internal/repository"
)

const (
	notifyTimeout         = 30 * time.Second
	maxTransitionAttempts = 3
)

// Admitter decides whether an identifier may create another order.
type Admitter interface {
	Admit(ctx context.Context, identifier string) bool
}

type Deps struct {
	Orders       repository.OrderRepository
	Testimonials repository.TestimonialRepository
	Pricing      *pricing.Engine
	Gate         Admitter
	Payments     *payment.Registry
	Sink         notification.Sink
	Logger       *zap.SugaredLogger
	// PublicBaseURL prefixes the provider return URLs and tracking links.
	PublicBaseURL string
}

// OrderService owns the order lifecycle. Every status change goes through
// a conditional update so concurrent callers cannot both win.
type OrderService struct {
	orders       repository.OrderRepository
	testimonials repository.TestimonialRepository
	pricing      *pricing.Engine
	gate         Admitter
	payments     *payment.Registry
	sink         notification.Sink
	logger       *zap.SugaredLogger
	baseURL      string
	now          func() time.Time

	wg sync.WaitGroup
}

func NewOrderService(d Deps) *OrderService {
	sink := d.Sink
	if sink == nil {
		sink = notification.Multi{}
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OrderService{
		orders:       d.Orders,
		testimonials: d.Testimonials,
		pricing:      d.Pricing,
		gate:         d.Gate,
		payments:     d.Payments,
		sink:         sink,
		logger:       logger,
		baseURL:      strings.TrimRight(d.PublicBaseURL, "/"),
		now:          time.Now,
	}
}

func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Wait blocks until every in-flight notification has finished.
func (s *OrderService) Wait() {
	s.wg.Wait()
}

func (s *OrderService) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: order request is required", domain.ErrInvalidInput)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.pricing.QuoteRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	buyer := req.Buyer()
	if s.gate != nil && !s.gate.Admit(ctx, strings.ToLower(buyer.Email)) {
		s.logger.Infow("order creation rate limited", "email", buyer.Email)
		return nil, domain.ErrRateLimited
	}

	token, err := newAccessToken()
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		AccessToken:   token,
		Type:          req.OrderType(),
		CustomerName:  strings.TrimSpace(buyer.Name),
		CustomerEmail: strings.TrimSpace(buyer.Email),
		Currency:      quote.Currency,
		QuotedPrice:   quote.Price,
		PricePaid:     decimal.Zero,
		DeliveryHours: quote.DeliveryHours,
		Status:        domain.StatusPending,
		CreatedAt:     s.now().UTC(),
	}
	if custom, ok := req.(domain.CustomOrder); ok {
		order.Title = strings.TrimSpace(custom.Brief.Title)
		order.Mood = strings.TrimSpace(custom.Brief.Mood)
		order.Instructions = strings.TrimSpace(custom.Brief.Instructions)
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	s.logger.Infow("order created", "orderId", order.ID, "type", order.Type, "currency", order.Currency, "price", order.QuotedPrice)
	s.notify(domain.EventOrderCreated, order, s.sink.OrderCreated)
	return order, nil
}

// InitiatePayment starts a hosted checkout with provider for a PENDING order.
// The order itself is not modified.
func (s *OrderService) InitiatePayment(ctx context.Context, orderID string, provider domain.PaymentProvider) (*payment.RedirectTarget, error) {
	adapter, err := s.payments.Get(provider)
	if err != nil {
		return nil, err
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch {
	case order.Status == domain.StatusCancelled:
		return nil, domain.ErrOrderNotPayable
	case order.Status.IsPaid():
		return nil, domain.ErrOrderAlreadyPaid
	}

	currency := adapter.SettlementCurrency(order.Currency)
	amount, err := s.pricing.Convert(ctx, order.QuotedPrice, order.Currency, currency)
	if err != nil {
		return nil, err
	}

	target, err := adapter.Initiate(ctx, payment.InitiateRequest{
		OrderID:       order.ID,
		Amount:        amount,
		Currency:      currency,
		CustomerEmail: order.CustomerEmail,
		ReturnURL:     s.returnURL(provider, order.ID),
		CancelURL:     s.trackURL(order.AccessToken),
	})
	if err != nil {
		s.logger.Warnw("payment initiation failed", "orderId", order.ID, "provider", provider, "error", err)
		return nil, err
	}

	s.logger.Infow("payment initiated", "orderId", order.ID, "provider", provider, "reference", target.Reference, "amount", amount, "currency", currency)
	return target, nil
}

func (s *OrderService) returnURL(provider domain.PaymentProvider, orderID string) string {
	path := "/api/payments/paypal/return"
	if provider == domain.ProviderPaystack {
		path = "/api/payments/paystack/callback"
	}
	return s.baseURL + path + "?orderId=" + url.QueryEscape(orderID)
}

func (s *OrderService) trackURL(token string) string {
	return s.baseURL + "/track/" + token
}

func (s *OrderService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, domain.OrderPatch{Status: domain.StatusCancelled}, domain.ErrOrderNotCancellable)
	if err != nil {
		if order != nil && order.Status == domain.StatusCancelled {
			return order, nil
		}
		return nil, err
	}

	s.logger.Infow("order cancelled", "orderId", order.ID)
	s.notify(domain.EventOrderCancelled, order, s.sink.OrderCancelled)
	return order, nil
}

// GetByAccessToken resolves a customer tracking token. Unknown and empty
// tokens both report domain.ErrOrderNotFound.
func (s *OrderService) GetByAccessToken(ctx context.Context, token string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.orders.FindByAccessToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find order by token: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.loadOrder(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, sort domain.ListOrder) ([]domain.Order, error) {
	orders, err := s.orders.ListAll(ctx, sort, s.pricing.KESPerUSD(ctx))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Quote(ctx context.Context, t domain.OrderType, c domain.Currency, budget *decimal.Decimal) (pricing.Quote, error) {
	return s.pricing.Quote(ctx, t, c, budget)
}

func (s *OrderService) PriceRange(ctx context.Context, c domain.Currency) (decimal.Decimal, decimal.Decimal, error) {
	return s.pricing.PriceRange(ctx, c)
}

func (s *OrderService) loadOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// transition moves an order to patch.Status from whatever allowed status it
// is in now, reloading and retrying when another writer got there first.
// On a disallowed move it returns the current order with an error wrapping
// conflict.
func (s *OrderService) transition(ctx context.Context, id string, patch domain.OrderPatch, conflict error) (*domain.Order, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		order, err := s.loadOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckTransition(order.Status, patch.Status); err != nil {
			return order, fmt.Errorf("%w: %w", conflict, err)
		}

		applied, err := s.orders.UpdateConditional(ctx, id, order.Status, patch)
		if err != nil {
			return nil, fmt.Errorf("update order %s: %w", id, err)
		}
		if applied {
			patch.Apply(order)
			return order, nil
		}
	}
	return nil, fmt.Errorf("%w: order %s kept changing", conflict, id)
}

// notify hands a copy of o to send in the background. Failures are logged.
func (s *OrderService) notify(event string, o *domain.Order, send func(context.Context, *domain.Order) error) {
	snapshot := *o
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := send(ctx, &snapshot); err != nil {
			s.logger.Warnw("notification failed", "event", event, "orderId", snapshot.ID, "error", err)
		}
	}()
}

func newAccessToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
