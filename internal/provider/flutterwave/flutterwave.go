// Package flutterwave implements the provider.Gateway contract against the
// Flutterwave v3 API: standard checkout for collections, transaction verify,
// and the transfers endpoint for bank payouts.
package flutterwave

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

// Config holds Flutterwave adapter configuration.
type Config struct {
	BaseURL     string        `env:"FLW_BASE_URL" envDefault:"https://api.flutterwave.com/v3"`
	SecretKey   string        `env:"FLW_SECRET_KEY"`
	RedirectURL string        `env:"FLW_REDIRECT_URL"`
	Timeout     time.Duration `env:"FLW_TIMEOUT"  envDefault:"15s"`
}

// Gateway is the Flutterwave adapter.
type Gateway struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// New creates a Flutterwave gateway.
func New(cfg Config, logger zerolog.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("provider", "flutterwave").Logger(),
	}
}

// Kind implements provider.Gateway.
func (g *Gateway) Kind() provider.Kind { return provider.KindFlutterwave }

type apiEnvelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func (e *apiEnvelope) ok() bool {
	return strings.EqualFold(e.Status, "success")
}

// InitializePayment creates a standard checkout link.
func (g *Gateway) InitializePayment(ctx context.Context, customer provider.Customer, amount decimal.Decimal) (*provider.InitResult, error) {
	txRef := fmt.Sprintf("%s:%s", strings.ToLower(ulid.Make().String()), customer.UserID)

	payload := map[string]any{
		"tx_ref":   txRef,
		"amount":   amount.StringFixed(2),
		"currency": "NGN",
		"customer": map[string]any{
			"email":       customer.Email,
			"phonenumber": customer.Phone,
			"name":        customer.Name,
		},
		"meta": map[string]any{"user_id": customer.UserID},
	}
	if g.cfg.RedirectURL != "" {
		payload["redirect_url"] = g.cfg.RedirectURL
	}

	var resp apiEnvelope
	if err := g.post(ctx, "/payments", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, provider.Unavailablef(provider.KindFlutterwave, "init rejected: %s", resp.Message)
	}

	link, _ := resp.Data["link"].(string)

	return &provider.InitResult{
		PaymentLink: link,
		Reference:   txRef,
		Raw:         resp.Data,
	}, nil
}

// VerifyPayment verifies a transaction by id, falling back to a tx_ref search
// when the id lookup misses.
func (g *Gateway) VerifyPayment(ctx context.Context, reference string) (*provider.VerifyResult, error) {
	var resp apiEnvelope
	err := g.get(ctx, "/transactions/"+reference+"/verify", &resp)
	if err != nil {
		return nil, err
	}

	if !resp.ok() {
		// Webhooks carry the numeric id; callers sometimes only have tx_ref.
		if err := g.get(ctx, "/transactions?tx_ref="+reference, &resp); err != nil {
			return nil, err
		}
		if !resp.ok() {
			return nil, provider.Unavailablef(provider.KindFlutterwave, "verify rejected: %s", resp.Message)
		}
	}

	status, _ := resp.Data["status"].(string)
	currency, _ := resp.Data["currency"].(string)
	if currency == "" {
		currency = "NGN"
	}

	return &provider.VerifyResult{
		Status:    normalizeStatus(status),
		Amount:    amountField(resp.Data),
		Currency:  currency,
		Reference: reference,
		Raw:       resp.Data,
	}, nil
}

// ChargeToBank issues a bank transfer.
func (g *Gateway) ChargeToBank(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error) {
	payload := map[string]any{
		"account_bank":   req.BankCode,
		"account_number": req.AccountNumber,
		"amount":         req.Amount.StringFixed(2),
		"narration":      req.Narration,
		"currency":       "NGN",
		"reference":      req.Reference,
	}

	var resp apiEnvelope
	if err := g.post(ctx, "/transfers", payload, &resp); err != nil {
		return nil, err
	}

	result := &provider.ChargeResult{
		Status:            provider.StatusFailed,
		ProviderReference: req.Reference,
		Raw:               resp.Data,
	}
	if resp.ok() {
		transferStatus, _ := resp.Data["status"].(string)
		result.Status = normalizeStatus(transferStatus)
		if id, ok := resp.Data["id"].(float64); ok {
			result.ProviderReference = fmt.Sprintf("%.0f", id)
		}
	}

	return result, nil
}

func (g *Gateway) post(ctx context.Context, path string, payload any, out *apiEnvelope) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal flutterwave request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return provider.Unavailablef(provider.KindFlutterwave, "build request: %v", err)
	}

	return g.do(req, out)
}

func (g *Gateway) get(ctx context.Context, path string, out *apiEnvelope) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+path, nil)
	if err != nil {
		return provider.Unavailablef(provider.KindFlutterwave, "build request: %v", err)
	}

	return g.do(req, out)
}

func (g *Gateway) do(req *http.Request, out *apiEnvelope) error {
	req.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return provider.Unavailablef(provider.KindFlutterwave, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return provider.Unavailablef(provider.KindFlutterwave, "http %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return provider.Unavailablef(provider.KindFlutterwave, "malformed response: %v", err)
	}

	return nil
}

// normalizeStatus maps Flutterwave's vocabulary to the shared tri-state.
// Transfers report NEW/PENDING while queued; that is ambiguous, not success.
func normalizeStatus(s string) provider.Status {
	switch strings.ToUpper(s) {
	case "SUCCESSFUL", "SUCCESS":
		return provider.StatusSuccess
	case "FAILED", "ERROR":
		return provider.StatusFailed
	default:
		return provider.StatusUnknown
	}
}

func amountField(data map[string]any) decimal.Decimal {
	for _, key := range []string{"amount", "charged_amount"} {
		if f, ok := data[key].(float64); ok {
			return decimal.NewFromFloat(f).Round(2)
		}
	}
	return decimal.Zero
}
