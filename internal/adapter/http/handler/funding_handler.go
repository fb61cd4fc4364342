package handler

import (
	"context"
	"net/http"

	"github.com/gofoodhq/settlement/internal/adapter/http/dto"
	"github.com/gofoodhq/settlement/internal/usecase"
)

// FundingService defines the behavior needed by FundingHandler.
type FundingService interface {
	FundWalletIntent(ctx context.Context, input usecase.FundIntentInput) (*usecase.FundIntent, error)
	VerifyAndCredit(ctx context.Context, providerName, reference, userID string) (*usecase.SettlementResult, error)
}

// FundingHandler exposes the deposit side: top-up intents and payment
// verification.
type FundingHandler struct {
	funding FundingService
}

// NewFundingHandler creates a new FundingHandler.
func NewFundingHandler(funding FundingService) *FundingHandler {
	return &FundingHandler{funding: funding}
}

// FundWallet handles POST /api/v1/wallets/fund.
func (h *FundingHandler) FundWallet(w http.ResponseWriter, r *http.Request) {
	var req dto.FundWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	intent, err := h.funding.FundWalletIntent(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FundIntentFromUseCase(intent))
}

// VerifyPayment handles POST /api/v1/payments/verify. The provider is asked
// to confirm the reference; a confirmed payment credits the user's wallet.
func (h *FundingHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Provider == "" || req.Reference == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body", "provider, reference and user_id are required")
		return
	}

	result, err := h.funding.VerifyAndCredit(r.Context(), req.Provider, req.Reference, req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromUseCase(result))
}
