package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"commission-service/internal/auth"
	"commission-service/internal/domain"
	"commission-service/internal/infra/payment"
	"commission-service/internal/pricing"
	"commission-service/internal/services"
)

var errNotStubbed = errors.New("not stubbed")

// fakeService implements OrderService with optional per-method funcs.
type fakeService struct {
	CreateOrderFunc      func(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	InitiatePaymentFunc  func(ctx context.Context, orderID string, provider domain.PaymentProvider) (*payment.RedirectTarget, error)
	ConfirmPaymentFunc   func(ctx context.Context, orderID string, provider domain.PaymentProvider, reference string) (*services.ConfirmResult, error)
	CancelFunc           func(ctx context.Context, orderID string) (*domain.Order, error)
	GetByAccessTokenFunc func(ctx context.Context, token string) (*domain.Order, error)
	ListOrdersFunc       func(ctx context.Context, sort domain.ListOrder) ([]domain.Order, error)
	QuoteFunc            func(ctx context.Context, t domain.OrderType, c domain.Currency, budget *decimal.Decimal) (pricing.Quote, error)
	DeliverFunc          func(ctx context.Context, orderID, content string) (*domain.Order, error)
	AddTestimonialFunc   func(ctx context.Context, orderID string, rating int, comment string) (*domain.Testimonial, error)
	SetVisibilityFunc    func(ctx context.Context, id string, visible bool) error
}

func (f *fakeService) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	if f.CreateOrderFunc != nil {
		return f.CreateOrderFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (f *fakeService) InitiatePayment(ctx context.Context, orderID string, provider domain.PaymentProvider) (*payment.RedirectTarget, error) {
	if f.InitiatePaymentFunc != nil {
		return f.InitiatePaymentFunc(ctx, orderID, provider)
	}
	return nil, errNotStubbed
}

func (f *fakeService) ConfirmPayment(ctx context.Context, orderID string, provider domain.PaymentProvider, reference string) (*services.ConfirmResult, error) {
	if f.ConfirmPaymentFunc != nil {
		return f.ConfirmPaymentFunc(ctx, orderID, provider, reference)
	}
	return nil, errNotStubbed
}

func (f *fakeService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	if f.CancelFunc != nil {
		return f.CancelFunc(ctx, orderID)
	}
	return nil, errNotStubbed
}

func (f *fakeService) GetByAccessToken(ctx context.Context, token string) (*domain.Order, error) {
	if f.GetByAccessTokenFunc != nil {
		return f.GetByAccessTokenFunc(ctx, token)
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeService) GetOrderByID(context.Context, string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (f *fakeService) ListOrders(ctx context.Context, sort domain.ListOrder) ([]domain.Order, error) {
	if f.ListOrdersFunc != nil {
		return f.ListOrdersFunc(ctx, sort)
	}
	return nil, nil
}

func (f *fakeService) Stats(context.Context) (*services.Stats, error) {
	return &services.Stats{}, nil
}

func (f *fakeService) Quote(ctx context.Context, t domain.OrderType, c domain.Currency, budget *decimal.Decimal) (pricing.Quote, error) {
	if f.QuoteFunc != nil {
		return f.QuoteFunc(ctx, t, c, budget)
	}
	return pricing.Quote{}, errNotStubbed
}

func (f *fakeService) PriceRange(context.Context, domain.Currency) (decimal.Decimal, decimal.Decimal, error) {
	return decimal.RequireFromString("1.99"), decimal.RequireFromString("4.99"), nil
}

func (f *fakeService) StartWriting(context.Context, string) (*domain.Order, error) {
	return nil, errNotStubbed
}

func (f *fakeService) Deliver(ctx context.Context, orderID, content string) (*domain.Order, error) {
	if f.DeliverFunc != nil {
		return f.DeliverFunc(ctx, orderID, content)
	}
	return nil, errNotStubbed
}

func (f *fakeService) AddTestimonial(ctx context.Context, orderID string, rating int, comment string) (*domain.Testimonial, error) {
	if f.AddTestimonialFunc != nil {
		return f.AddTestimonialFunc(ctx, orderID, rating, comment)
	}
	return nil, errNotStubbed
}

func (f *fakeService) SetTestimonialVisibility(ctx context.Context, id string, visible bool) error {
	if f.SetVisibilityFunc != nil {
		return f.SetVisibilityFunc(ctx, id, visible)
	}
	return errNotStubbed
}

func (f *fakeService) ListVisibleTestimonials(context.Context) ([]domain.Testimonial, error) {
	return nil, nil
}

const testSecret = "handler-test-secret"

func setupRouter(svc OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, zap.NewNop().Sugar()).RegisterRoutes(r, AdminAuth(auth.NewJWTService(testSecret)))
	return r
}

func doRequest(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func adminHeader(t *testing.T) map[string]string {
	t.Helper()
	token, _, err := auth.NewJWTService(testSecret).IssueAdminToken("owner", time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		svc            *fakeService
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "custom order",
			body: map[string]any{"type": "custom", "name": "Amina", "email": "a@x.com", "currency": "USD", "budget": "3.00", "title": "Ode"},
			svc: &fakeService{CreateOrderFunc: func(_ context.Context, req domain.OrderRequest) (*domain.Order, error) {
				custom, ok := req.(domain.CustomOrder)
				if !ok || !custom.Budget.Equal(decimal.RequireFromString("3")) || custom.Brief.Title != "Ode" {
					return nil, errors.New("unexpected request")
				}
				return &domain.Order{ID: "o-1", AccessToken: "tok", QuotedPrice: custom.Budget, Currency: domain.USD, DeliveryHours: 10}, nil
			}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "custom order without budget",
			body:           map[string]any{"type": "CUSTOM", "name": "Amina", "email": "a@x.com", "currency": "USD"},
			svc:            &fakeService{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_request",
		},
		{
			name:           "unknown currency",
			body:           map[string]any{"type": "QUICK", "name": "Amina", "email": "a@x.com", "currency": "EUR"},
			svc:            &fakeService{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_request",
		},
		{
			name:           "missing fields",
			body:           map[string]any{"type": "QUICK"},
			svc:            &fakeService{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_request",
		},
		{
			name: "rate limited",
			body: map[string]any{"type": "QUICK", "name": "Amina", "email": "a@x.com", "currency": "KES"},
			svc: &fakeService{CreateOrderFunc: func(context.Context, domain.OrderRequest) (*domain.Order, error) {
				return nil, domain.ErrRateLimited
			}},
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "rate_limited",
		},
		{
			name: "internal error is hidden",
			body: map[string]any{"type": "QUICK", "name": "Amina", "email": "a@x.com", "currency": "KES"},
			svc: &fakeService{CreateOrderFunc: func(context.Context, domain.OrderRequest) (*domain.Order, error) {
				return nil, errors.New("dial tcp 10.0.0.3:3306: refused")
			}},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupRouter(tt.svc), http.MethodPost, "/api/orders", tt.body, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				resp := decodeError(t, w)
				assert.Equal(t, tt.expectedCode, resp.Error)
				assert.NotContains(t, resp.Message, "10.0.0.3")
				return
			}
			var resp CreateOrderResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "o-1", resp.ID)
			assert.Equal(t, "tok", resp.AccessToken)
			assert.Equal(t, 10, resp.DeliveryHours)
		})
	}
}

func TestHandler_InitiatePayment(t *testing.T) {
	svc := &fakeService{InitiatePaymentFunc: func(_ context.Context, id string, p domain.PaymentProvider) (*payment.RedirectTarget, error) {
		if p == domain.ProviderPaystack {
			return nil, domain.ErrProviderUnavailable
		}
		return &payment.RedirectTarget{URL: "https://paypal.test/approve?id=" + id, Reference: "PP-1"}, nil
	}}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/orders/o-1/pay", map[string]string{"provider": "paypal"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var target payment.RedirectTarget
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &target))
	assert.Equal(t, "https://paypal.test/approve?id=o-1", target.URL)

	w = doRequest(r, http.MethodPost, "/api/orders/o-1/pay", map[string]string{"provider": "PAYSTACK"}, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doRequest(r, http.MethodPost, "/api/orders/o-1/pay", map[string]string{"provider": "stripe"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_PaymentCallbacks(t *testing.T) {
	paidAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	paid := &domain.Order{ID: "o-1", Status: domain.StatusPaid, PricePaid: decimal.RequireFromString("3.00"), PaidAt: &paidAt, DeliveryHours: 10}

	tests := []struct {
		name           string
		path           string
		confirm        func(ctx context.Context, orderID string, provider domain.PaymentProvider, reference string) (*services.ConfirmResult, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "paypal token is the reference",
			path: "/api/payments/paypal/return?orderId=o-1&token=PP-1&PayerID=X",
			confirm: func(_ context.Context, id string, p domain.PaymentProvider, ref string) (*services.ConfirmResult, error) {
				if id != "o-1" || p != domain.ProviderPayPal || ref != "PP-1" {
					return nil, errors.New("unexpected call")
				}
				return &services.ConfirmResult{Order: paid}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "paystack duplicate callback",
			path: "/api/payments/paystack/callback?orderId=o-1&trxref=ref-1&reference=ref-1",
			confirm: func(_ context.Context, _ string, p domain.PaymentProvider, ref string) (*services.ConfirmResult, error) {
				if p != domain.ProviderPaystack || ref != "ref-1" {
					return nil, errors.New("unexpected call")
				}
				return &services.ConfirmResult{Order: paid, AlreadyConfirmed: true}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "cancelled order",
			path: "/api/payments/paypal/return?orderId=o-1&token=PP-late",
			confirm: func(context.Context, string, domain.PaymentProvider, string) (*services.ConfirmResult, error) {
				return nil, domain.ErrOrderNotPayable
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "order_not_payable",
		},
		{
			name: "payment declined",
			path: "/api/payments/paystack/callback?orderId=o-1&reference=ref-2",
			confirm: func(context.Context, string, domain.PaymentProvider, string) (*services.ConfirmResult, error) {
				return nil, domain.ErrProviderRejected
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedCode:   "payment_rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupRouter(&fakeService{ConfirmPaymentFunc: tt.confirm}), http.MethodGet, tt.path, nil, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
				return
			}
			var resp ConfirmResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, domain.StatusPaid, resp.Status)
			require.NotNil(t, resp.Order.Deadline)
			assert.Equal(t, paidAt.Add(10*time.Hour), resp.Order.Deadline.UTC())
		})
	}
}

func TestHandler_ProviderErrorsUseFixedMessages(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "rejected capture",
			err:             fmt.Errorf("%w: status 422: {\"name\":\"UNPROCESSABLE_ENTITY\",\"debug_id\":\"f00ba4\"}", domain.ErrProviderRejected),
			expectedStatus:  http.StatusPaymentRequired,
			expectedCode:    "payment_rejected",
			expectedMessage: customerMessages["payment_rejected"],
		},
		{
			name:            "provider outage",
			err:             fmt.Errorf("%w: status 503: upstream connect error", domain.ErrProviderUnavailable),
			expectedStatus:  http.StatusBadGateway,
			expectedCode:    "provider_unavailable",
			expectedMessage: customerMessages["provider_unavailable"],
		},
		{
			name:            "already paid with another reference",
			err:             fmt.Errorf("%w: order o-1 paid with PP-OTHER", domain.ErrOrderAlreadyPaid),
			expectedStatus:  http.StatusConflict,
			expectedCode:    "order_already_paid",
			expectedMessage: customerMessages["order_already_paid"],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{ConfirmPaymentFunc: func(context.Context, string, domain.PaymentProvider, string) (*services.ConfirmResult, error) {
				return nil, tt.err
			}}

			w := doRequest(setupRouter(svc), http.MethodGet, "/api/payments/paypal/return?orderId=o-1&token=PP-1", nil, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.expectedCode, resp.Error)
			assert.Equal(t, tt.expectedMessage, resp.Message)
			assert.NotContains(t, w.Body.String(), "debug_id")
			assert.NotContains(t, w.Body.String(), "PP-OTHER")
		})
	}
}

func TestHandler_TrackOrder_UniformNotFound(t *testing.T) {
	poem := "verse"
	svc := &fakeService{GetByAccessTokenFunc: func(_ context.Context, token string) (*domain.Order, error) {
		if token == "good" {
			return &domain.Order{ID: "o-1", AccessToken: "good", Status: domain.StatusDelivered, PoemContent: &poem}, nil
		}
		return nil, domain.ErrOrderNotFound
	}}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/track/good", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "good")
	assert.Contains(t, w.Body.String(), "verse")

	first := doRequest(r, http.MethodGet, "/api/track/unknown", nil, nil)
	second := doRequest(r, http.MethodGet, "/api/track/o-1", nil, nil)
	assert.Equal(t, http.StatusNotFound, first.Code)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestHandler_AddTestimonial(t *testing.T) {
	svc := &fakeService{
		GetByAccessTokenFunc: func(context.Context, string) (*domain.Order, error) {
			return &domain.Order{ID: "o-1", Status: domain.StatusPaid}, nil
		},
		AddTestimonialFunc: func(context.Context, string, int, string) (*domain.Testimonial, error) {
			return nil, domain.ErrTestimonialNotAllowed
		},
	}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/track/tok/testimonial", map[string]any{"rating": 5, "comment": "lovely"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, http.MethodPost, "/api/track/tok/testimonial", map[string]any{"rating": 9}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CancelOrder(t *testing.T) {
	var cancelled []string
	svc := &fakeService{
		GetByAccessTokenFunc: func(_ context.Context, token string) (*domain.Order, error) {
			switch token {
			case "tok-pending":
				return &domain.Order{ID: "o-1", Status: domain.StatusPending}, nil
			case "tok-paid":
				return &domain.Order{ID: "o-2", Status: domain.StatusPaid}, nil
			}
			return nil, domain.ErrOrderNotFound
		},
		CancelFunc: func(_ context.Context, id string) (*domain.Order, error) {
			cancelled = append(cancelled, id)
			if id == "o-2" {
				return nil, domain.ErrOrderNotCancellable
			}
			return &domain.Order{ID: id, Status: domain.StatusCancelled}, nil
		},
	}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/track/tok-pending/cancel", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view OrderView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, domain.StatusCancelled, view.Status)

	w = doRequest(r, http.MethodPost, "/api/track/tok-paid/cancel", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "order_not_cancellable", decodeError(t, w).Error)

	w = doRequest(r, http.MethodPost, "/api/track/unknown/cancel", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the internal id is not a customer credential
	w = doRequest(r, http.MethodPost, "/api/orders/o-1/cancel", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPost, "/admin/orders/o-1/cancel", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodPost, "/admin/orders/o-1/cancel", nil, adminHeader(t))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"o-1", "o-2", "o-1"}, cancelled)
}

func TestHandler_Quote(t *testing.T) {
	svc := &fakeService{QuoteFunc: func(_ context.Context, typ domain.OrderType, c domain.Currency, budget *decimal.Decimal) (pricing.Quote, error) {
		if typ != domain.TypeCustom || c != domain.KES || budget == nil {
			return pricing.Quote{}, domain.ErrInvalidBudget
		}
		return pricing.Quote{Currency: c, Price: *budget, DeliveryHours: 9}, nil
	}}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/quote?type=custom&currency=KES&budget=400", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var q pricing.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, 9, q.DeliveryHours)

	w = doRequest(r, http.MethodGet, "/api/quote?type=custom&currency=KES&budget=lots", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/price-range?currency=USD", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"currency":"USD","min":"1.99","max":"4.99"}`, w.Body.String())
}

func TestHandler_AdminAuth(t *testing.T) {
	customerToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Role:             "customer",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{name: "no token", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", headers: map[string]string{"Authorization": "Bearer nope"}, expectedStatus: http.StatusUnauthorized},
		{name: "customer token", headers: map[string]string{"Authorization": "Bearer " + customerToken}, expectedStatus: http.StatusForbidden},
		{name: "admin token", headers: adminHeader(t), expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupRouter(&fakeService{}), http.MethodGet, "/admin/orders", nil, tt.headers)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHandler_AdminListOrders(t *testing.T) {
	var gotSort domain.ListOrder
	svc := &fakeService{ListOrdersFunc: func(_ context.Context, sort domain.ListOrder) ([]domain.Order, error) {
		gotSort = sort
		return []domain.Order{{ID: "o-1", AccessToken: "secret"}}, nil
	}}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/admin/orders?sort=newest", nil, adminHeader(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ListNewest, gotSort)
	assert.NotContains(t, w.Body.String(), "secret")

	doRequest(r, http.MethodGet, "/admin/orders", nil, adminHeader(t))
	assert.Equal(t, domain.ListFulfillment, gotSort)
}

func TestHandler_AdminDeliver(t *testing.T) {
	svc := &fakeService{DeliverFunc: func(_ context.Context, id, content string) (*domain.Order, error) {
		if id == "o-done" {
			return nil, domain.ErrOrderNotDeliverable
		}
		return &domain.Order{ID: id, Status: domain.StatusDelivered, PoemContent: &content}, nil
	}}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodPost, "/admin/orders/o-1/deliver", map[string]string{"content": "verse"}, adminHeader(t))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/admin/orders/o-done/deliver", map[string]string{"content": "verse"}, adminHeader(t))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "order_not_deliverable", decodeError(t, w).Error)

	w = doRequest(r, http.MethodPost, "/admin/orders/o-1/deliver", map[string]string{}, adminHeader(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_AdminTestimonialVisibility(t *testing.T) {
	svc := &fakeService{SetVisibilityFunc: func(_ context.Context, id string, visible bool) error {
		if id == "missing" {
			return domain.ErrTestimonialNotFound
		}
		if !visible {
			return errors.New("unexpected")
		}
		return nil
	}}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodPatch, "/admin/testimonials/t-1", map[string]bool{"visible": true}, adminHeader(t))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodPatch, "/admin/testimonials/missing", map[string]bool{"visible": true}, adminHeader(t))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPatch, "/admin/testimonials/t-1", map[string]any{}, adminHeader(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
