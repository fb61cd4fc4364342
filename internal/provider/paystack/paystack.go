// Package paystack implements the provider.Gateway contract against the
// Paystack API: transaction initialize/verify for collections and the charge
// endpoint for bank transfers. Amounts cross the wire in kobo.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/provider"
)

// Config holds Paystack adapter configuration.
type Config struct {
	BaseURL   string        `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
	SecretKey string        `env:"PAYSTACK_SECRET_KEY"`
	Timeout   time.Duration `env:"PAYSTACK_TIMEOUT"  envDefault:"15s"`
}

// Gateway is the Paystack adapter.
type Gateway struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// New creates a Paystack gateway.
func New(cfg Config, logger zerolog.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("provider", "paystack").Logger(),
	}
}

// Kind implements provider.Gateway.
func (g *Gateway) Kind() provider.Kind { return provider.KindPaystack }

type apiEnvelope struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// InitializePayment creates a checkout session and returns the authorization
// URL plus the Paystack reference.
func (g *Gateway) InitializePayment(ctx context.Context, customer provider.Customer, amount decimal.Decimal) (*provider.InitResult, error) {
	payload := map[string]any{
		"email":  customer.Email,
		"amount": toKobo(amount),
	}

	var resp apiEnvelope
	if err := g.post(ctx, "/transaction/initialize", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, provider.Unavailablef(provider.KindPaystack, "initialize rejected: %s", resp.Message)
	}

	link, _ := resp.Data["authorization_url"].(string)
	ref, _ := resp.Data["reference"].(string)

	return &provider.InitResult{
		PaymentLink: link,
		Reference:   ref,
		Raw:         resp.Data,
	}, nil
}

// VerifyPayment checks a transaction by reference and normalizes the status.
func (g *Gateway) VerifyPayment(ctx context.Context, reference string) (*provider.VerifyResult, error) {
	var resp apiEnvelope
	if err := g.get(ctx, "/transaction/verify/"+reference, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, provider.Unavailablef(provider.KindPaystack, "verify rejected: %s", resp.Message)
	}

	status, _ := resp.Data["status"].(string)
	amount := fromKobo(resp.Data["amount"])
	currency, _ := resp.Data["currency"].(string)
	if currency == "" {
		currency = "NGN"
	}

	return &provider.VerifyResult{
		Status:    normalizeStatus(status),
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
		Raw:       resp.Data,
	}, nil
}

// ChargeToBank issues a charge against a bank account.
func (g *Gateway) ChargeToBank(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error) {
	payload := map[string]any{
		"email":  req.PayeeEmail,
		"amount": toKobo(req.Amount),
		"bank": map[string]any{
			"code":           req.BankCode,
			"account_number": req.AccountNumber,
		},
	}

	var resp apiEnvelope
	if err := g.post(ctx, "/charge", payload, &resp); err != nil {
		return nil, err
	}

	ref, _ := resp.Data["reference"].(string)
	if ref == "" {
		ref = req.Reference
	}

	result := &provider.ChargeResult{
		Status:            provider.StatusFailed,
		ProviderReference: ref,
		Raw:               resp.Data,
	}
	if resp.Status {
		chargeStatus, _ := resp.Data["status"].(string)
		result.Status = normalizeStatus(chargeStatus)
	}

	return result, nil
}

func (g *Gateway) post(ctx context.Context, path string, payload any, out *apiEnvelope) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal paystack request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return provider.Unavailablef(provider.KindPaystack, "build request: %v", err)
	}

	return g.do(req, out)
}

func (g *Gateway) get(ctx context.Context, path string, out *apiEnvelope) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+path, nil)
	if err != nil {
		return provider.Unavailablef(provider.KindPaystack, "build request: %v", err)
	}

	return g.do(req, out)
}

func (g *Gateway) do(req *http.Request, out *apiEnvelope) error {
	req.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return provider.Unavailablef(provider.KindPaystack, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return provider.Unavailablef(provider.KindPaystack, "http %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return provider.Unavailablef(provider.KindPaystack, "malformed response: %v", err)
	}

	return nil
}

// normalizeStatus maps Paystack's vocabulary to the shared tri-state.
func normalizeStatus(s string) provider.Status {
	switch strings.ToLower(s) {
	case "success", "successful":
		return provider.StatusSuccess
	case "failed", "abandoned", "reversed":
		return provider.StatusFailed
	default:
		return provider.StatusUnknown
	}
}

// toKobo converts a 2dp naira amount to integer kobo.
func toKobo(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func fromKobo(v any) decimal.Decimal {
	f, ok := v.(float64)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Div(decimal.NewFromInt(100)).Round(2)
}
