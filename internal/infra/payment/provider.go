// Package payment integrates the hosted-checkout payment providers.
package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"commission-service/internal/domain"
)

type InitiateRequest struct {
	OrderID       string
	Amount        decimal.Decimal
	Currency      domain.Currency
	CustomerEmail string
	// ReturnURL is where the provider sends the customer back; the provider
	// appends its own reference parameter.
	ReturnURL string
	CancelURL string
}

type RedirectTarget struct {
	URL       string `json:"redirectUrl"`
	Reference string `json:"reference"`
}

type VerificationStatus string

const (
	VerificationSucceeded VerificationStatus = "SUCCEEDED"
	VerificationPending   VerificationStatus = "PENDING"
	VerificationFailed    VerificationStatus = "FAILED"
)

type VerificationResult struct {
	Status     VerificationStatus
	RawStatus  string
	AmountPaid decimal.Decimal
	Currency   domain.Currency
	ProviderID string
	// OrderRef is the order id the provider recorded at initiation, if it echoes one.
	OrderRef string
}

// Provider is one payment processor. Errors wrap domain.ErrProviderUnavailable
// for network failures, timeouts and 5xx responses, and domain.ErrProviderRejected
// for explicit declines.
type Provider interface {
	Name() domain.PaymentProvider
	// SettlementCurrency is the currency the provider charges in for a
	// customer who picked display.
	SettlementCurrency(display domain.Currency) domain.Currency
	Initiate(ctx context.Context, req InitiateRequest) (*RedirectTarget, error)
	Verify(ctx context.Context, reference string) (*VerificationResult, error)
}

type Registry struct {
	providers map[domain.PaymentProvider]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[domain.PaymentProvider]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name domain.PaymentProvider) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: payment provider %q is not configured", domain.ErrInvalidInput, name)
	}
	return p, nil
}

var (
	_ Provider = (*PayPal)(nil)
	_ Provider = (*Paystack)(nil)
)
