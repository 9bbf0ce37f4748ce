package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderPaid      = "order.paid"
	EventOrderCancelled = "order.cancelled"
	EventOrderDelivered = "order.delivered"
)

type OrderEvent struct {
	OrderID       string          `json:"orderId"`
	Type          OrderType       `json:"type"`
	Status        OrderStatus     `json:"status"`
	Currency      Currency        `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	CustomerEmail string          `json:"customerEmail"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func NewOrderEvent(o *Order, at time.Time) OrderEvent {
	evt := OrderEvent{
		OrderID:       o.ID,
		Type:          o.Type,
		Status:        o.Status,
		Currency:      o.Currency,
		Amount:        o.QuotedPrice,
		CustomerEmail: o.CustomerEmail,
		OccurredAt:    at,
	}
	if o.Status.IsPaid() {
		evt.Currency = o.PaidCurrency
		evt.Amount = o.PricePaid
	}
	return evt
}
