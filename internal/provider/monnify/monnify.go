// Package monnify implements the provider.Gateway contract against the
// Monnify API: payment init/verify for collections and single disbursements
// for bank payouts. Disbursements are drawn from a configured Monnify wallet.
package monnify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/provider"
)

// Config holds Monnify adapter configuration.
type Config struct {
	BaseURL     string        `env:"MONNIFY_BASE_URL" envDefault:"https://sandbox.monnify.com/api/v1"`
	APIKey      string        `env:"MONNIFY_API_KEY"`
	Secret      string        `env:"MONNIFY_SECRET"`
	WalletID    string        `env:"MONNIFY_WALLET_ID"`
	RedirectURL string        `env:"MONNIFY_REDIRECT_URL"`
	Timeout     time.Duration `env:"MONNIFY_TIMEOUT" envDefault:"15s"`
}

// Gateway is the Monnify adapter.
type Gateway struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// New creates a Monnify gateway.
func New(cfg Config, logger zerolog.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("provider", "monnify").Logger(),
	}
}

// Kind implements provider.Gateway.
func (g *Gateway) Kind() provider.Kind { return provider.KindMonnify }

type apiEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// InitializePayment initializes a Monnify payment and returns the checkout
// link plus our generated reference.
func (g *Gateway) InitializePayment(ctx context.Context, customer provider.Customer, amount decimal.Decimal) (*provider.InitResult, error) {
	reference := strings.ToLower(ulid.Make().String())

	payload := map[string]any{
		"tx_ref":         reference,
		"amount":         amount.StringFixed(2),
		"currency":       "NGN",
		"customer_name":  customer.Name,
		"customer_email": customer.Email,
	}
	if g.cfg.RedirectURL != "" {
		payload["redirect_url"] = g.cfg.RedirectURL
	}

	var resp apiEnvelope
	if err := g.post(ctx, "/payments/init", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, provider.Unavailablef(provider.KindMonnify, "init rejected: %s", resp.Message)
	}

	link, _ := resp.Data["payment_url"].(string)
	if link == "" {
		link, _ = resp.Data["checkout_link"].(string)
	}

	return &provider.InitResult{
		PaymentLink: link,
		Reference:   reference,
		Raw:         resp.Data,
	}, nil
}

// VerifyPayment checks a payment's status by reference.
func (g *Gateway) VerifyPayment(ctx context.Context, reference string) (*provider.VerifyResult, error) {
	var resp apiEnvelope
	if err := g.get(ctx, "/payments/"+reference+"/verify", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, provider.Unavailablef(provider.KindMonnify, "verify rejected: %s", resp.Message)
	}

	status, _ := resp.Data["status"].(string)
	amount := decimal.Zero
	if f, ok := resp.Data["amount"].(float64); ok {
		amount = decimal.NewFromFloat(f).Round(2)
	}

	return &provider.VerifyResult{
		Status:    normalizeStatus(status),
		Amount:    amount,
		Currency:  "NGN",
		Reference: reference,
		Raw:       resp.Data,
	}, nil
}

// ChargeToBank issues a single disbursement from the configured wallet.
func (g *Gateway) ChargeToBank(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error) {
	reference := fmt.Sprintf("MNF-%s", strings.ToLower(ulid.Make().String()[:10]))

	payload := map[string]any{
		"amount":        req.Amount.StringFixed(2),
		"reference":     reference,
		"narration":     req.Narration,
		"bankCode":      req.BankCode,
		"accountNumber": req.AccountNumber,
		"walletId":      g.cfg.WalletID,
	}

	var resp apiEnvelope
	if err := g.post(ctx, "/disbursements/single", payload, &resp); err != nil {
		return nil, err
	}

	result := &provider.ChargeResult{
		Status:            provider.StatusFailed,
		ProviderReference: reference,
		Raw:               resp.Data,
	}
	if resp.Success {
		status, _ := resp.Data["status"].(string)
		result.Status = normalizeStatus(status)
	}

	return result, nil
}

func (g *Gateway) post(ctx context.Context, path string, payload any, out *apiEnvelope) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal monnify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return provider.Unavailablef(provider.KindMonnify, "build request: %v", err)
	}

	return g.do(req, out)
}

func (g *Gateway) get(ctx context.Context, path string, out *apiEnvelope) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+path, nil)
	if err != nil {
		return provider.Unavailablef(provider.KindMonnify, "build request: %v", err)
	}

	return g.do(req, out)
}

func (g *Gateway) do(req *http.Request, out *apiEnvelope) error {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s:%s", g.cfg.APIKey, g.cfg.Secret))
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return provider.Unavailablef(provider.KindMonnify, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return provider.Unavailablef(provider.KindMonnify, "http %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return provider.Unavailablef(provider.KindMonnify, "malformed response: %v", err)
	}

	return nil
}

// normalizeStatus maps Monnify's vocabulary to the shared tri-state.
func normalizeStatus(s string) provider.Status {
	switch strings.ToUpper(s) {
	case "SUCCESS", "SUCCESSFUL", "PAID", "COMPLETED":
		return provider.StatusSuccess
	case "FAILED", "EXPIRED", "CANCELLED":
		return provider.StatusFailed
	default:
		return provider.StatusUnknown
	}
}
