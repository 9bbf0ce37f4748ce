package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"commission-service/internal/domain"
)

type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Paystack charges in KES (card and M-Pesa). Amounts travel in minor units.
type Paystack struct {
	cfg        PaystackConfig
	httpClient *http.Client
	newRef     func() string
}

func NewPaystack(cfg PaystackConfig) *Paystack {
	return &Paystack{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		newRef:     uuid.NewString,
	}
}

func (p *Paystack) Name() domain.PaymentProvider { return domain.ProviderPaystack }

func (p *Paystack) SettlementCurrency(domain.Currency) domain.Currency { return domain.KES }

type paystackEnvelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type paystackInit struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackTransaction struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`

	// Paystack sends metadata as an object, or as "" when none was set.
	Metadata json.RawMessage `json:"metadata"`
}

func (tx paystackTransaction) orderID() string {
	var md struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(tx.Metadata, &md); err != nil {
		return ""
	}
	return md.OrderID
}

func (p *Paystack) Initiate(ctx context.Context, req InitiateRequest) (*RedirectTarget, error) {
	if req.Currency != domain.KES {
		return nil, fmt.Errorf("%w: paystack settles in KES, got %s", domain.ErrInvalidCurrency, req.Currency)
	}
	minor := req.Amount.Mul(decimal.NewFromInt(100)).Round(0)
	if !minor.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	payload := map[string]any{
		"email":        req.CustomerEmail,
		"amount":       minor.IntPart(),
		"currency":     string(domain.KES),
		"reference":    p.newRef(),
		"callback_url": req.ReturnURL,
		"metadata":     map[string]string{"order_id": req.OrderID, "cancel_action": req.CancelURL},
	}

	var out paystackEnvelope[paystackInit]
	if err := p.call(ctx, http.MethodPost, "/transaction/initialize", payload, &out); err != nil {
		return nil, err
	}
	if !out.Status || out.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderRejected, out.Message)
	}
	return &RedirectTarget{URL: out.Data.AuthorizationURL, Reference: out.Data.Reference}, nil
}

func (p *Paystack) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: missing paystack reference", domain.ErrInvalidInput)
	}

	var out paystackEnvelope[paystackTransaction]
	if err := p.call(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderRejected, out.Message)
	}

	tx := out.Data
	res := &VerificationResult{
		RawStatus:  tx.Status,
		AmountPaid: decimal.New(tx.Amount, -2),
		Currency:   domain.Currency(tx.Currency),
		ProviderID: fmt.Sprintf("%d", tx.ID),
		OrderRef:   tx.orderID(),
	}
	switch tx.Status {
	case "success":
		res.Status = VerificationSucceeded
	case "failed", "reversed":
		res.Status = VerificationFailed
	default:
		res.Status = VerificationPending
	}
	return res, nil
}

func (p *Paystack) call(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")
	return doJSON(p.httpClient, req, out)
}
