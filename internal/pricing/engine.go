// Package pricing computes prices and delivery times for poem orders.
package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"commission-service/internal/domain"
)

const (
	QuickDeliveryHours = 24
	CustomMaxHours     = 12
	CustomMinHours     = 6
)

var (
	QuickPriceUSD     = decimal.RequireFromString("0.99")
	CustomMinPriceUSD = decimal.RequireFromString("1.99")
	CustomMaxPriceUSD = decimal.RequireFromString("4.99")
)

type Rates interface {
	USDToKES(ctx context.Context) decimal.Decimal
}

type Quote struct {
	Currency      domain.Currency `json:"currency"`
	Price         decimal.Decimal `json:"price"`
	DeliveryHours int             `json:"deliveryHours"`
}

type Engine struct {
	rates Rates
}

func NewEngine(rates Rates) *Engine {
	return &Engine{rates: rates}
}

// QuoteRequest prices a validated order request.
func (e *Engine) QuoteRequest(ctx context.Context, req domain.OrderRequest) (Quote, error) {
	switch r := req.(type) {
	case domain.QuickOrder:
		return e.Quote(ctx, domain.TypeQuick, r.Currency, nil)
	case domain.CustomOrder:
		return e.Quote(ctx, domain.TypeCustom, r.Currency, &r.Budget)
	}
	return Quote{}, fmt.Errorf("%w: %T", domain.ErrInvalidType, req)
}

// Quote prices an order. QUICK orders ignore budget; CUSTOM orders require
// one inside PriceRange, and a higher budget buys a faster delivery.
func (e *Engine) Quote(ctx context.Context, t domain.OrderType, c domain.Currency, budget *decimal.Decimal) (Quote, error) {
	c, err := domain.ParseCurrency(string(c))
	if err != nil {
		return Quote{}, err
	}

	switch t {
	case domain.TypeQuick:
		return Quote{Currency: c, Price: e.fromUSD(ctx, QuickPriceUSD, c), DeliveryHours: QuickDeliveryHours}, nil
	case domain.TypeCustom:
		if budget == nil {
			return Quote{}, fmt.Errorf("%w: budget is required for custom orders", domain.ErrInvalidBudget)
		}
		lo, hi := e.priceRange(ctx, c)
		if budget.LessThan(lo) || budget.GreaterThan(hi) {
			return Quote{}, fmt.Errorf("%w: %s %s not in [%s, %s]", domain.ErrInvalidBudget, budget, c, lo, hi)
		}
		return Quote{Currency: c, Price: roundFor(*budget, c), DeliveryHours: deliveryHours(*budget, lo, hi)}, nil
	}
	return Quote{}, fmt.Errorf("%w: %q", domain.ErrInvalidType, t)
}

// PriceRange is the inclusive custom budget range for a currency.
func (e *Engine) PriceRange(ctx context.Context, c domain.Currency) (decimal.Decimal, decimal.Decimal, error) {
	c, err := domain.ParseCurrency(string(c))
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	lo, hi := e.priceRange(ctx, c)
	return lo, hi, nil
}

// Convert moves an amount between the supported currencies at the current rate.
func (e *Engine) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	from, err := domain.ParseCurrency(string(from))
	if err != nil {
		return decimal.Zero, err
	}
	to, err = domain.ParseCurrency(string(to))
	if err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return roundFor(amount, to), nil
	}
	rate := e.rates.USDToKES(ctx)
	if from == domain.USD {
		return roundFor(amount.Mul(rate), domain.KES), nil
	}
	return roundFor(amount.Div(rate), domain.USD), nil
}

// KESPerUSD is the current conversion rate.
func (e *Engine) KESPerUSD(ctx context.Context) decimal.Decimal {
	return e.rates.USDToKES(ctx)
}

func (e *Engine) priceRange(ctx context.Context, c domain.Currency) (decimal.Decimal, decimal.Decimal) {
	if c == domain.USD {
		return CustomMinPriceUSD, CustomMaxPriceUSD
	}
	rate := e.rates.USDToKES(ctx)
	return roundFor(CustomMinPriceUSD.Mul(rate), c), roundFor(CustomMaxPriceUSD.Mul(rate), c)
}

func (e *Engine) fromUSD(ctx context.Context, usd decimal.Decimal, c domain.Currency) decimal.Decimal {
	if c == domain.USD {
		return usd
	}
	return roundFor(usd.Mul(e.rates.USDToKES(ctx)), c)
}

// KES is charged in whole shillings, USD in cents.
func roundFor(amount decimal.Decimal, c domain.Currency) decimal.Decimal {
	if c == domain.KES {
		return amount.Round(0)
	}
	return amount.Round(2)
}

func deliveryHours(budget, lo, hi decimal.Decimal) int {
	span := hi.Sub(lo)
	if !span.IsPositive() {
		return CustomMinHours
	}
	ratio := budget.Sub(lo).Div(span).InexactFloat64()
	ratio = math.Max(0, math.Min(1, ratio))
	return int(math.Round(CustomMaxHours - ratio*(CustomMaxHours-CustomMinHours)))
}
