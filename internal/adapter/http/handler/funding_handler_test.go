package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/adapter/http/dto"
	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/usecase"
)

type fundingServiceStub struct {
	fundFn   func(ctx context.Context, input usecase.FundIntentInput) (*usecase.FundIntent, error)
	verifyFn func(ctx context.Context, providerName, reference, userID string) (*usecase.SettlementResult, error)
}

func (s *fundingServiceStub) FundWalletIntent(ctx context.Context, input usecase.FundIntentInput) (*usecase.FundIntent, error) {
	return s.fundFn(ctx, input)
}

func (s *fundingServiceStub) VerifyAndCredit(ctx context.Context, providerName, reference, userID string) (*usecase.SettlementResult, error) {
	return s.verifyFn(ctx, providerName, reference, userID)
}

func TestFundingHandler_FundWallet(t *testing.T) {
	var captured usecase.FundIntentInput
	h := NewFundingHandler(&fundingServiceStub{
		fundFn: func(ctx context.Context, input usecase.FundIntentInput) (*usecase.FundIntent, error) {
			captured = input
			return &usecase.FundIntent{
				AccountNumber: "0123456789",
				BankName:      "Wema Bank",
				Narration:     "john doe | +2348012345678",
			}, nil
		},
	})

	body, _ := json.Marshal(dto.FundWalletRequest{
		UserID:   "user-1",
		FullName: "John Doe",
		Phone:    "+2348012345678",
		Amount:   decimal.NewFromInt(5000),
	})

	req := httptest.NewRequest(http.MethodPost, "/wallets/fund", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.FundWallet(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.FullName != "John Doe" || captured.UserID != "user-1" {
		t.Fatalf("unexpected input forwarded: %+v", captured)
	}

	var resp dto.FundIntentResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccountNumber != "0123456789" || resp.Narration == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestFundingHandler_FundWallet_MissingName(t *testing.T) {
	h := NewFundingHandler(&fundingServiceStub{
		fundFn: func(ctx context.Context, input usecase.FundIntentInput) (*usecase.FundIntent, error) {
			return nil, domain.ErrInvalidFullName
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/wallets/fund", bytes.NewBufferString(`{"user_id":"user-1"}`))
	rr := httptest.NewRecorder()
	h.FundWallet(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestFundingHandler_VerifyPayment(t *testing.T) {
	h := NewFundingHandler(&fundingServiceStub{
		verifyFn: func(ctx context.Context, providerName, reference, userID string) (*usecase.SettlementResult, error) {
			return &usecase.SettlementResult{
				Outcome:       usecase.OutcomeCredited,
				UserID:        userID,
				Amount:        decimal.NewFromInt(5000),
				WalletBalance: decimal.NewFromInt(5000),
			}, nil
		},
	})

	body := `{"provider":"paystack","reference":"ps-ref-1","user_id":"user-1"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/verify", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	h.VerifyPayment(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp dto.SettlementResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Outcome != "credited" {
		t.Fatalf("unexpected outcome %q", resp.Outcome)
	}
}

func TestFundingHandler_VerifyPayment_MissingFields(t *testing.T) {
	h := NewFundingHandler(&fundingServiceStub{
		verifyFn: func(ctx context.Context, providerName, reference, userID string) (*usecase.SettlementResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/payments/verify", bytes.NewBufferString(`{"provider":"paystack"}`))
	rr := httptest.NewRecorder()
	h.VerifyPayment(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
