package infra

import (
	"context"

	"github.com/shopspring/decimal"
)

type ExchangeRateSource interface {
	USDRate(ctx context.Context, currency string) (decimal.Decimal, error)
}

var _ ExchangeRateSource = (*ExchangeClient)(nil)
