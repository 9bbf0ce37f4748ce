package http

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"commission-service/internal/domain"
	"commission-service/internal/services"
)

type CreateOrderRequest struct {
	Type         string           `json:"type" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Email        string           `json:"email" binding:"required"`
	Currency     string           `json:"currency" binding:"required"`
	Budget       *decimal.Decimal `json:"budget"`
	Title        string           `json:"title"`
	Mood         string           `json:"mood"`
	Instructions string           `json:"instructions"`
}

func (r CreateOrderRequest) toDomain() (domain.OrderRequest, error) {
	t, err := domain.ParseOrderType(r.Type)
	if err != nil {
		return nil, err
	}
	currency, err := domain.ParseCurrency(r.Currency)
	if err != nil {
		return nil, err
	}
	customer := domain.Customer{Name: r.Name, Email: r.Email}

	if t == domain.TypeQuick {
		return domain.QuickOrder{Customer: customer, Currency: currency}, nil
	}
	if r.Budget == nil {
		return nil, fmt.Errorf("%w: budget is required for custom orders", domain.ErrInvalidBudget)
	}
	return domain.CustomOrder{
		Customer: customer,
		Currency: currency,
		Budget:   *r.Budget,
		Brief:    domain.Brief{Title: r.Title, Mood: r.Mood, Instructions: r.Instructions},
	}, nil
}

type CreateOrderResponse struct {
	ID            string          `json:"id"`
	AccessToken   string          `json:"accessToken"`
	QuotedPrice   decimal.Decimal `json:"quotedPrice"`
	Currency      domain.Currency `json:"currency"`
	DeliveryHours int             `json:"deliveryHours"`
}

type PayRequest struct {
	Provider string `json:"provider" binding:"required"`
}

type TestimonialRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type DeliverRequest struct {
	Content string `json:"content" binding:"required"`
}

type VisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// OrderView is what a customer sees on the tracking page.
type OrderView struct {
	ID              string                 `json:"id"`
	Type            domain.OrderType       `json:"type"`
	Status          domain.OrderStatus     `json:"status"`
	Currency        domain.Currency        `json:"currency"`
	QuotedPrice     decimal.Decimal        `json:"quotedPrice"`
	PricePaid       *decimal.Decimal       `json:"pricePaid,omitempty"`
	PaidCurrency    domain.Currency        `json:"paidCurrency,omitempty"`
	PaymentProvider domain.PaymentProvider `json:"paymentProvider,omitempty"`
	DeliveryHours   int                    `json:"deliveryHours"`
	Deadline        *time.Time             `json:"deadline,omitempty"`
	Title           string                 `json:"title,omitempty"`
	Mood            string                 `json:"mood,omitempty"`
	Instructions    string                 `json:"instructions,omitempty"`
	PoemContent     *string                `json:"poemContent,omitempty"`
	PaidAt          *time.Time             `json:"paidAt,omitempty"`
	DeliveredAt     *time.Time             `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func newOrderView(o *domain.Order) OrderView {
	v := OrderView{
		ID:              o.ID,
		Type:            o.Type,
		Status:          o.Status,
		Currency:        o.Currency,
		QuotedPrice:     o.QuotedPrice,
		PaidCurrency:    o.PaidCurrency,
		PaymentProvider: o.PaymentProvider,
		DeliveryHours:   o.DeliveryHours,
		Title:           o.Title,
		Mood:            o.Mood,
		Instructions:    o.Instructions,
		PoemContent:     o.PoemContent,
		PaidAt:          o.PaidAt,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
	}
	if o.Status.IsPaid() {
		paid := o.PricePaid
		deadline := o.Deadline()
		v.PricePaid = &paid
		v.Deadline = &deadline
	}
	return v
}

type ConfirmResponse struct {
	Status           domain.OrderStatus `json:"status"`
	AlreadyConfirmed bool               `json:"alreadyConfirmed"`
	Order            OrderView          `json:"order"`
}

func newConfirmResponse(res *services.ConfirmResult) ConfirmResponse {
	return ConfirmResponse{
		Status:           res.Order.Status,
		AlreadyConfirmed: res.AlreadyConfirmed,
		Order:            newOrderView(res.Order),
	}
}

type PriceRangeResponse struct {
	Currency domain.Currency `json:"currency"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
