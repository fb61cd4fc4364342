package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gofoodhq/settlement/internal/adapter/http/dto"
	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	Report(ctx context.Context) (*usecase.ReconciliationReport, error)
	ListUnmatched(ctx context.Context, limit, offset int) ([]*domain.PaymentTransaction, error)
	ResolveUnmatched(ctx context.Context, transactionID, userID string) (*usecase.SettlementResult, error)
	ListPayouts(ctx context.Context, status domain.PayoutStatus, limit, offset int) ([]*domain.VendorPayout, error)
}

// ReconciliationHandler exposes the operator-facing reconciliation surface.
type ReconciliationHandler struct {
	recon ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(recon ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{recon: recon}
}

// Report handles GET /api/v1/reconciliation/report.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.recon.Report(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}

// ListUnmatched handles GET /api/v1/reconciliation/unmatched.
func (h *ReconciliationHandler) ListUnmatched(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.recon.ListUnmatched(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.TransactionResponse]{
		Items:  dto.TransactionsFromDomain(txns),
		Limit:  limit,
		Offset: offset,
	})
}

// ResolveUnmatched handles POST /api/v1/reconciliation/unmatched/{id}/resolve.
func (h *ReconciliationHandler) ResolveUnmatched(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveUnmatchedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body", "user_id is required")
		return
	}

	result, err := h.recon.ResolveUnmatched(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromUseCase(result))
}

// ListPayouts handles GET /api/v1/reconciliation/payouts?status=.
func (h *ReconciliationHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	status := domain.PayoutStatus(r.URL.Query().Get("status"))
	switch status {
	case domain.PayoutStatusPending, domain.PayoutStatusProcessing,
		domain.PayoutStatusCompleted, domain.PayoutStatusFailed:
	default:
		writeError(w, http.StatusBadRequest, "invalid status", "status must be one of pending, processing, completed, failed")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	payouts, err := h.recon.ListPayouts(r.Context(), status, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.PayoutResponse]{
		Items:  dto.PayoutsFromDomain(payouts),
		Limit:  limit,
		Offset: offset,
	})
}
