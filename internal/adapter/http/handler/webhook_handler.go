package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/infrastructure/metrics"
	"github.com/gofoodhq/settlement/internal/provider"
	"github.com/gofoodhq/settlement/internal/usecase"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// SettlementService defines the behavior needed by WebhookHandler.
type SettlementService interface {
	ProcessInboundPayment(ctx context.Context, event usecase.InboundPaymentEvent) (*usecase.SettlementResult, error)
}

// WebhookHandler receives provider payment notifications, verifies their
// signatures, and feeds them into the settlement matcher. Providers retry
// until they see 200, so anything past signature and shape validation
// answers 200. The ledger's uniqueness constraint absorbs redeliveries.
type WebhookHandler struct {
	settlement     SettlementService
	paystackSecret string
	monnifySecret  string
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(
	settlement SettlementService,
	paystackSecret, monnifySecret string,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		settlement:     settlement,
		paystackSecret: paystackSecret,
		monnifySecret:  monnifySecret,
		metrics:        m,
		logger:         logger.With().Str("component", "webhook").Logger(),
	}
}

// Paystack handles POST /webhooks/paystack.
func (h *WebhookHandler) Paystack(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readAndVerify(w, r, "paystack", h.paystackSecret, r.Header.Get("x-paystack-signature"))
	if !ok {
		return
	}

	var payload struct {
		Event string `json:"event"`
		Data  struct {
			ID            json.Number    `json:"id"`
			Reference     string         `json:"reference"`
			Amount        json.Number    `json:"amount"`
			Currency      string         `json:"currency"`
			Status        string         `json:"status"`
			Authorization map[string]any `json:"authorization"`
			Customer      map[string]any `json:"customer"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		h.reject(w, "paystack", "malformed payload")
		return
	}

	if payload.Event != "charge.success" {
		h.observe("paystack", "ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	kobo, err := decimal.NewFromString(payload.Data.Amount.String())
	if err != nil {
		h.reject(w, "paystack", "malformed amount")
		return
	}

	event := usecase.InboundPaymentEvent{
		Provider:      string(provider.KindPaystack),
		ProviderTxnID: payload.Data.Reference,
		Amount:        kobo.Div(decimal.NewFromInt(100)).Round(2),
		Currency:      orDefault(payload.Data.Currency, "NGN"),
		Status:        payload.Data.Status,
		PayerName:     paystackPayerName(payload.Data.Authorization, payload.Data.Customer),
	}
	h.process(w, r, event)
}

// Monnify handles POST /webhooks/monnify.
func (h *WebhookHandler) Monnify(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readAndVerify(w, r, "monnify", h.monnifySecret, r.Header.Get("monnify-signature"))
	if !ok {
		return
	}

	var payload struct {
		EventType string `json:"eventType"`
		EventData struct {
			TransactionReference string      `json:"transactionReference"`
			AmountPaid           json.Number `json:"amountPaid"`
			PaymentStatus        string      `json:"paymentStatus"`
			Customer             struct {
				Name string `json:"name"`
			} `json:"customer"`
			PaymentSourceInformation []struct {
				AccountName string `json:"accountName"`
			} `json:"paymentSourceInformation"`
		} `json:"eventData"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		h.reject(w, "monnify", "malformed payload")
		return
	}

	if payload.EventType != "SUCCESSFUL_TRANSACTION" {
		h.observe("monnify", "ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	amount, err := decimal.NewFromString(payload.EventData.AmountPaid.String())
	if err != nil {
		h.reject(w, "monnify", "malformed amount")
		return
	}

	payerName := payload.EventData.Customer.Name
	if len(payload.EventData.PaymentSourceInformation) > 0 {
		payerName = payload.EventData.PaymentSourceInformation[0].AccountName
	}

	status := "success"
	if !strings.EqualFold(payload.EventData.PaymentStatus, "PAID") {
		status = strings.ToLower(payload.EventData.PaymentStatus)
	}

	event := usecase.InboundPaymentEvent{
		Provider:      string(provider.KindMonnify),
		ProviderTxnID: payload.EventData.TransactionReference,
		Amount:        amount,
		Currency:      "NGN",
		Status:        status,
		PayerName:     payerName,
	}
	h.process(w, r, event)
}

func (h *WebhookHandler) process(w http.ResponseWriter, r *http.Request, event usecase.InboundPaymentEvent) {
	result, err := h.settlement.ProcessInboundPayment(r.Context(), event)
	if err != nil {
		h.observe(event.Provider, "error")
		h.logger.Error().Err(err).
			Str("provider", event.Provider).
			Str("provider_txn_id", event.ProviderTxnID).
			Msg("inbound payment processing failed")
		writeError(w, http.StatusInternalServerError, "processing failed", "")
		return
	}

	h.observe(event.Provider, string(result.Outcome))
	writeJSON(w, http.StatusOK, map[string]string{"status": string(result.Outcome)})
}

// readAndVerify drains the body and checks the provider's HMAC-SHA512
// signature over the raw bytes. An empty configured secret disables
// verification (local development).
func (h *WebhookHandler) readAndVerify(w http.ResponseWriter, r *http.Request, providerName, secret, signature string) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.reject(w, providerName, "unreadable body")
		return nil, false
	}

	if secret != "" && !validSignature(body, secret, signature) {
		h.observe(providerName, "bad_signature")
		h.logger.Warn().Str("provider", providerName).Msg("webhook signature mismatch")
		writeError(w, http.StatusUnauthorized, "invalid signature", "")
		return nil, false
	}

	return body, true
}

func (h *WebhookHandler) reject(w http.ResponseWriter, providerName, reason string) {
	h.observe(providerName, "rejected")
	writeError(w, http.StatusBadRequest, reason, "")
}

func (h *WebhookHandler) observe(providerName, result string) {
	if h.metrics == nil {
		return
	}
	h.metrics.WebhookDeliveries.WithLabelValues(providerName, result).Inc()
}

func validSignature(body []byte, secret, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func paystackPayerName(authorization, customer map[string]any) string {
	if authorization != nil {
		if name, _ := authorization["sender_name"].(string); name != "" {
			return name
		}
		if name, _ := authorization["account_name"].(string); name != "" {
			return name
		}
	}
	if customer != nil {
		first, _ := customer["first_name"].(string)
		last, _ := customer["last_name"].(string)
		return strings.TrimSpace(first + " " + last)
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
