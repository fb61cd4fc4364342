package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gofoodhq/settlement/internal/adapter/http/dto"
	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/usecase"
)

// PayoutService defines the behavior needed by PayoutHandler.
type PayoutService interface {
	PayVendor(ctx context.Context, input usecase.PayVendorInput) (*usecase.PayoutResult, error)
	GetPayout(ctx context.Context, id string) (*domain.VendorPayout, error)
	GetPayoutByReference(ctx context.Context, reference string) (*domain.VendorPayout, error)
}

// PayoutHandler exposes vendor payouts.
type PayoutHandler struct {
	payouts PayoutService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payouts PayoutService) *PayoutHandler {
	return &PayoutHandler{payouts: payouts}
}

// Create handles POST /api/v1/payouts.
func (h *PayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PayVendorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.UserID == "" || req.VendorID == "" || req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body", "user_id, vendor_id and order_id are required")
		return
	}

	result, err := h.payouts.PayVendor(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, dto.PayoutResultFromUseCase(result))
}

// Get handles GET /api/v1/payouts/{id}.
func (h *PayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	payout, err := h.payouts.GetPayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PayoutFromDomain(payout))
}

// GetByReference handles GET /api/v1/payouts/reference/{reference}.
func (h *PayoutHandler) GetByReference(w http.ResponseWriter, r *http.Request) {
	payout, err := h.payouts.GetPayoutByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PayoutFromDomain(payout))
}
