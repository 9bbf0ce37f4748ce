package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"commission-service/internal/domain"
	"commission-service/internal/infra/payment"
	"commission-service/internal/pricing"
	"commission-service/internal/services"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	InitiatePayment(ctx context.Context, orderID string, provider domain.PaymentProvider) (*payment.RedirectTarget, error)
	ConfirmPayment(ctx context.Context, orderID string, provider domain.PaymentProvider, reference string) (*services.ConfirmResult, error)
	Cancel(ctx context.Context, orderID string) (*domain.Order, error)
	GetByAccessToken(ctx context.Context, token string) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, sort domain.ListOrder) ([]domain.Order, error)
	Stats(ctx context.Context) (*services.Stats, error)
	Quote(ctx context.Context, t domain.OrderType, c domain.Currency, budget *decimal.Decimal) (pricing.Quote, error)
	PriceRange(ctx context.Context, c domain.Currency) (decimal.Decimal, decimal.Decimal, error)
	StartWriting(ctx context.Context, orderID string) (*domain.Order, error)
	Deliver(ctx context.Context, orderID, content string) (*domain.Order, error)
	AddTestimonial(ctx context.Context, orderID string, rating int, comment string) (*domain.Testimonial, error)
	SetTestimonialVisibility(ctx context.Context, id string, visible bool) error
	ListVisibleTestimonials(ctx context.Context) ([]domain.Testimonial, error)
}

var _ OrderService = (*services.OrderService)(nil)

type Handler struct {
	service OrderService
	logger  *zap.SugaredLogger
}

func NewHandler(s OrderService, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: s, logger: logger}
}

// RegisterRoutes mounts the customer API under /api and the back office
// under /admin behind adminAuth.
func (h *Handler) RegisterRoutes(r *gin.Engine, adminAuth gin.HandlerFunc) {
	api := r.Group("/api")
	api.POST("/orders", h.CreateOrder)
	api.POST("/orders/:id/pay", h.InitiatePayment)
	api.GET("/payments/paypal/return", h.PayPalReturn)
	api.GET("/payments/paystack/callback", h.PaystackCallback)
	api.GET("/track/:token", h.TrackOrder)
	api.POST("/track/:token/cancel", h.CancelOrder)
	api.POST("/track/:token/testimonial", h.AddTestimonial)
	api.GET("/testimonials", h.ListTestimonials)
	api.GET("/quote", h.Quote)
	api.GET("/price-range", h.PriceRange)

	admin := r.Group("/admin", adminAuth)
	admin.GET("/orders", h.AdminListOrders)
	admin.GET("/orders/:id", h.AdminGetOrder)
	admin.GET("/stats", h.AdminStats)
	admin.POST("/orders/:id/cancel", h.AdminCancel)
	admin.POST("/orders/:id/writing", h.AdminStartWriting)
	admin.POST("/orders/:id/deliver", h.AdminDeliver)
	admin.PATCH("/testimonials/:id", h.AdminSetTestimonialVisibility)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	orderReq, err := req.toDomain()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), orderReq)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{
		ID:            order.ID,
		AccessToken:   order.AccessToken,
		QuotedPrice:   order.QuotedPrice,
		Currency:      order.Currency,
		DeliveryHours: order.DeliveryHours,
	})
}

func (h *Handler) InitiatePayment(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	provider, err := domain.ParsePaymentProvider(req.Provider)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	target, err := h.service.InitiatePayment(c.Request.Context(), c.Param("id"), provider)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

// CancelOrder lets the customer holding the access token cancel an unpaid order.
func (h *Handler) CancelOrder(c *gin.Context) {
	order, ok := h.orderByToken(c)
	if !ok {
		return
	}
	order, err := h.service.Cancel(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newOrderView(order))
}

// PayPalReturn handles the buyer coming back from PayPal, which appends the
// PayPal order id as token.
func (h *Handler) PayPalReturn(c *gin.Context) {
	h.confirm(c, domain.ProviderPayPal, c.Query("token"))
}

func (h *Handler) PaystackCallback(c *gin.Context) {
	h.confirm(c, domain.ProviderPaystack, c.Query("reference"))
}

func (h *Handler) confirm(c *gin.Context, provider domain.PaymentProvider, reference string) {
	res, err := h.service.ConfirmPayment(c.Request.Context(), c.Query("orderId"), provider, reference)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newConfirmResponse(res))
}

func (h *Handler) TrackOrder(c *gin.Context) {
	order, ok := h.orderByToken(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newOrderView(order))
}

func (h *Handler) AddTestimonial(c *gin.Context) {
	var req TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, ok := h.orderByToken(c)
	if !ok {
		return
	}

	t, err := h.service.AddTestimonial(c.Request.Context(), order.ID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// orderByToken writes the same 404 for unknown and malformed tokens.
func (h *Handler) orderByToken(c *gin.Context) (*domain.Order, bool) {
	order, err := h.service.GetByAccessToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return order, true
}

func (h *Handler) ListTestimonials(c *gin.Context) {
	items, err := h.service.ListVisibleTestimonials(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if items == nil {
		items = []domain.Testimonial{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Quote(c *gin.Context) {
	t, err := domain.ParseOrderType(c.Query("type"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	currency, err := domain.ParseCurrency(c.DefaultQuery("currency", string(domain.USD)))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var budget *decimal.Decimal
	if raw := c.Query("budget"); raw != "" {
		b, err := decimal.NewFromString(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		budget = &b
	}

	quote, err := h.service.Quote(c.Request.Context(), t, currency, budget)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) PriceRange(c *gin.Context) {
	currency, err := domain.ParseCurrency(c.DefaultQuery("currency", string(domain.USD)))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	lo, hi, err := h.service.PriceRange(c.Request.Context(), currency)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PriceRangeResponse{Currency: currency, Min: lo, Max: hi})
}
