package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type exchangeRatesResponse struct {
	Result string                     `json:"result"`
	Base   string                     `json:"base_code"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// ExchangeClient reads USD based rates from an open.er-api.com style endpoint.
type ExchangeClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewExchangeClient(baseURL string, timeout time.Duration) *ExchangeClient {
	return &ExchangeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ExchangeClient) USDRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest/USD", nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("exchange rate service returned status %d", resp.StatusCode)
	}

	var body exchangeRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, err
	}
	if body.Result != "" && body.Result != "success" {
		return decimal.Zero, fmt.Errorf("exchange rate service result %q", body.Result)
	}
	rate, ok := body.Rates[currency]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("no usable USD/%s rate in response", currency)
	}
	return rate, nil
}
