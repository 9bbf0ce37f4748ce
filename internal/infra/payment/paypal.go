package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"commission-service/internal/domain"
)

type PayPalConfig struct {
	BaseURL  string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

// PayPal charges in USD only through the Orders v2 API.
type PayPal struct {
	cfg        PayPalConfig
	httpClient *http.Client
	now        func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewPayPal(cfg PayPalConfig) *PayPal {
	return &PayPal{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

func (p *PayPal) Name() domain.PaymentProvider { return domain.ProviderPayPal }

func (p *PayPal) SettlementCurrency(domain.Currency) domain.Currency { return domain.USD }

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type paypalCapture struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Amount paypalAmount `json:"amount"`
}

type paypalOrder struct {
	ID            string       `json:"id"`
	Status        string       `json:"status"`
	Links         []paypalLink `json:"links"`
	PurchaseUnits []struct {
		ReferenceID string `json:"reference_id"`
		Payments    struct {
			Captures []paypalCapture `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (p *PayPal) Initiate(ctx context.Context, req InitiateRequest) (*RedirectTarget, error) {
	if req.Currency != domain.USD {
		return nil, fmt.Errorf("%w: paypal settles in USD, got %s", domain.ErrInvalidCurrency, req.Currency)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": req.OrderID,
			"custom_id":    req.OrderID,
			"amount":       paypalAmount{CurrencyCode: "USD", Value: req.Amount.StringFixed(2)},
		}},
		"application_context": map[string]string{
			"return_url":          req.ReturnURL,
			"cancel_url":          req.CancelURL,
			"user_action":         "PAY_NOW",
			"shipping_preference": "NO_SHIPPING",
		},
	}

	var order paypalOrder
	if err := p.call(ctx, http.MethodPost, "/v2/checkout/orders", "", payload, &order); err != nil {
		return nil, err
	}

	for _, l := range order.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return &RedirectTarget{URL: l.Href, Reference: order.ID}, nil
		}
	}
	return nil, fmt.Errorf("%w: paypal order %s has no approval link", domain.ErrProviderUnavailable, order.ID)
}

// Verify captures the approved order. The capture carries a request id so a
// retried capture is answered with the original result. An order captured
// through another path, or not yet approved by the buyer, is read back
// instead; the latter reports as pending.
func (p *PayPal) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: missing paypal order id", domain.ErrInvalidInput)
	}
	path := "/v2/checkout/orders/" + url.PathEscape(reference)

	var order paypalOrder
	err := p.call(ctx, http.MethodPost, path+"/capture", "capture-"+reference, struct{}{}, &order)
	var apiErr *apiError
	if errors.As(err, &apiErr) && (strings.Contains(apiErr.body, "ORDER_ALREADY_CAPTURED") || strings.Contains(apiErr.body, "ORDER_NOT_APPROVED")) {
		err = p.call(ctx, http.MethodGet, path, "", nil, &order)
	}
	if err != nil {
		return nil, err
	}
	return paypalResult(&order), nil
}

func paypalResult(order *paypalOrder) *VerificationResult {
	res := &VerificationResult{RawStatus: order.Status, ProviderID: order.ID}

	var capture *paypalCapture
	if len(order.PurchaseUnits) > 0 {
		unit := order.PurchaseUnits[0]
		res.OrderRef = unit.ReferenceID
		if len(unit.Payments.Captures) > 0 {
			capture = &unit.Payments.Captures[0]
		}
	}
	if capture != nil {
		res.ProviderID = capture.ID
		res.Currency = domain.Currency(capture.Amount.CurrencyCode)
		if v, err := decimal.NewFromString(capture.Amount.Value); err == nil {
			res.AmountPaid = v
		}
	}

	switch {
	case order.Status == "COMPLETED" && capture != nil && capture.Status == "COMPLETED":
		res.Status = VerificationSucceeded
	case order.Status == "VOIDED", capture != nil && (capture.Status == "DECLINED" || capture.Status == "FAILED"):
		res.Status = VerificationFailed
	default:
		res.Status = VerificationPending
	}
	return res
}

func (p *PayPal) call(ctx context.Context, method, path, requestID string, in, out any) error {
	token, err := p.accessToken(ctx)
	if err != nil {
		return err
	}

	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}
	return doJSON(p.httpClient, req, out)
}

func (p *PayPal) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.cfg.ClientID, p.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := doJSON(p.httpClient, req, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: paypal returned an empty access token", domain.ErrProviderUnavailable)
	}

	p.token = tok.AccessToken
	// refresh a minute early
	p.tokenExpiry = p.now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return p.token, nil
}
