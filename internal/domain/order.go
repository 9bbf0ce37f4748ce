package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	TypeQuick  OrderType = "QUICK"
	TypeCustom OrderType = "CUSTOM"
)

func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeQuick, TypeCustom:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

type Currency string

const (
	USD Currency = "USD"
	KES Currency = "KES"
)

func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case USD, KES:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
}

type PaymentProvider string

const (
	ProviderPayPal   PaymentProvider = "PAYPAL"
	ProviderPaystack PaymentProvider = "PAYSTACK"
)

func ParsePaymentProvider(s string) (PaymentProvider, error) {
	switch p := PaymentProvider(strings.ToUpper(strings.TrimSpace(s))); p {
	case ProviderPayPal, ProviderPaystack:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown payment provider %q", ErrInvalidInput, s)
}

type OrderStatus string

// Declaration order is the admin listing order.
const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusWriting   OrderStatus = "WRITING"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

var AllStatuses = []OrderStatus{StatusPending, StatusPaid, StatusWriting, StatusDelivered, StatusCancelled}

// IsPaid reports whether a payment has been verified for an order in this status.
func (s OrderStatus) IsPaid() bool {
	return s == StatusPaid || s == StatusWriting || s == StatusDelivered
}

type Order struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	AccessToken string `json:"-" gorm:"size:64;not null;uniqueIndex"`

	Type          OrderType       `json:"type" gorm:"size:16;not null"`
	CustomerName  string          `json:"customerName" gorm:"size:120;not null"`
	CustomerEmail string          `json:"customerEmail" gorm:"size:255;not null;index"`
	Currency      Currency        `json:"currency" gorm:"size:3;not null"`
	QuotedPrice   decimal.Decimal `json:"quotedPrice" gorm:"type:decimal(12,2);not null"`
	PricePaid     decimal.Decimal `json:"pricePaid" gorm:"type:decimal(12,2);not null;default:0"`
	PaidCurrency  Currency        `json:"paidCurrency,omitempty" gorm:"size:3"`
	DeliveryHours int             `json:"deliveryHours" gorm:"not null"`

	Title        string `json:"title,omitempty" gorm:"size:200"`
	Mood         string `json:"mood,omitempty" gorm:"size:100"`
	Instructions string `json:"instructions,omitempty" gorm:"type:text"`

	PaymentProvider PaymentProvider `json:"paymentProvider,omitempty" gorm:"size:16"`
	PaymentID       string          `json:"paymentId,omitempty" gorm:"size:128;index"`
	PaymentStatus   string          `json:"paymentStatus,omitempty" gorm:"size:32"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`

	PoemContent *string    `json:"poemContent,omitempty" gorm:"type:text"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	Status    OrderStatus `json:"status" gorm:"size:16;not null;default:'PENDING';index"`
	CreatedAt time.Time   `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Deadline is when the poem is due: delivery hours counted from payment,
// or from creation while the order is unpaid.
func (o *Order) Deadline() time.Time {
	start := o.CreatedAt
	if o.PaidAt != nil {
		start = *o.PaidAt
	}
	return start.Add(time.Duration(o.DeliveryHours) * time.Hour)
}

// OrderPatch is the set of columns a lifecycle transition writes. Status is
// always written; nil and zero fields are left untouched.
type OrderPatch struct {
	Status          OrderStatus
	PricePaid       *decimal.Decimal
	PaidCurrency    Currency
	PaymentProvider PaymentProvider
	PaymentID       string
	PaymentStatus   string
	PaidAt          *time.Time
	PoemContent     *string
	DeliveredAt     *time.Time
}

func (p OrderPatch) Apply(o *Order) {
	o.Status = p.Status
	if p.PricePaid != nil {
		o.PricePaid = *p.PricePaid
	}
	if p.PaidCurrency != "" {
		o.PaidCurrency = p.PaidCurrency
	}
	if p.PaymentProvider != "" {
		o.PaymentProvider = p.PaymentProvider
	}
	if p.PaymentID != "" {
		o.PaymentID = p.PaymentID
	}
	if p.PaymentStatus != "" {
		o.PaymentStatus = p.PaymentStatus
	}
	if p.PaidAt != nil {
		o.PaidAt = p.PaidAt
	}
	if p.PoemContent != nil {
		o.PoemContent = p.PoemContent
	}
	if p.DeliveredAt != nil {
		o.DeliveredAt = p.DeliveredAt
	}
}

// Columns returns the patch as a column map for a conditional update.
func (p OrderPatch) Columns() map[string]any {
	cols := map[string]any{"status": p.Status}
	if p.PricePaid != nil {
		cols["price_paid"] = *p.PricePaid
	}
	if p.PaidCurrency != "" {
		cols["paid_currency"] = p.PaidCurrency
	}
	if p.PaymentProvider != "" {
		cols["payment_provider"] = p.PaymentProvider
	}
	if p.PaymentID != "" {
		cols["payment_id"] = p.PaymentID
	}
	if p.PaymentStatus != "" {
		cols["payment_status"] = p.PaymentStatus
	}
	if p.PaidAt != nil {
		cols["paid_at"] = *p.PaidAt
	}
	if p.PoemContent != nil {
		cols["poem_content"] = *p.PoemContent
	}
	if p.DeliveredAt != nil {
		cols["delivered_at"] = *p.DeliveredAt
	}
	return cols
}

// ListOrder selects the sort applied by the order listing.
type ListOrder int

const (
	// ListFulfillment sorts pending first, custom before quick, higher price
	// first, then soonest deadline.
	ListFulfillment ListOrder = iota
	ListNewest
)
