package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/adapter/http/dto"
	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/provider"
	"github.com/gofoodhq/settlement/internal/usecase"
)

type payoutServiceStub struct {
	payFn    func(ctx context.Context, input usecase.PayVendorInput) (*usecase.PayoutResult, error)
	getFn    func(ctx context.Context, id string) (*domain.VendorPayout, error)
	getRefFn func(ctx context.Context, reference string) (*domain.VendorPayout, error)
}

func (s *payoutServiceStub) PayVendor(ctx context.Context, input usecase.PayVendorInput) (*usecase.PayoutResult, error) {
	return s.payFn(ctx, input)
}

func (s *payoutServiceStub) GetPayout(ctx context.Context, id string) (*domain.VendorPayout, error) {
	return s.getFn(ctx, id)
}

func (s *payoutServiceStub) GetPayoutByReference(ctx context.Context, reference string) (*domain.VendorPayout, error) {
	return s.getRefFn(ctx, reference)
}

func samplePayout() *domain.VendorPayout {
	return &domain.VendorPayout{
		ID:           "po-1",
		UserID:       "user-1",
		VendorID:     "vendor-1",
		OrderID:      "order-1",
		Amount:       decimal.NewFromInt(5000),
		Fee:          decimal.NewFromInt(700),
		VendorAmount: decimal.NewFromInt(4300),
		Provider:     "paystack",
		Status:       domain.PayoutStatusCompleted,
		Reference:    "TRX-test-id-1",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestPayoutHandler_Create_Success(t *testing.T) {
	var captured usecase.PayVendorInput
	h := NewPayoutHandler(&payoutServiceStub{
		payFn: func(ctx context.Context, input usecase.PayVendorInput) (*usecase.PayoutResult, error) {
			captured = input
			return &usecase.PayoutResult{
				Payout:        samplePayout(),
				Provider:      provider.KindPaystack,
				WalletBalance: decimal.NewFromInt(0),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.PayVendorRequest{
		UserID:   "user-1",
		VendorID: "vendor-1",
		OrderID:  "order-1",
		Amount:   decimal.NewFromInt(5000),
	})

	req := httptest.NewRequest(http.MethodPost, "/payouts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.OrderID != "order-1" || captured.UserID != "user-1" {
		t.Fatalf("unexpected input forwarded: %+v", captured)
	}

	var resp dto.PayoutResultResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Provider != "paystack" || resp.Payout.Status != "completed" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPayoutHandler_Create_DuplicateReturns200(t *testing.T) {
	h := NewPayoutHandler(&payoutServiceStub{
		payFn: func(ctx context.Context, input usecase.PayVendorInput) (*usecase.PayoutResult, error) {
			return &usecase.PayoutResult{Payout: samplePayout(), Duplicate: true}, nil
		},
	})

	body, _ := json.Marshal(dto.PayVendorRequest{
		UserID:   "user-1",
		VendorID: "vendor-1",
		OrderID:  "order-1",
		Amount:   decimal.NewFromInt(5000),
	})

	req := httptest.NewRequest(http.MethodPost, "/payouts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", rr.Code)
	}
}

func TestPayoutHandler_Create_MissingFields(t *testing.T) {
	h := NewPayoutHandler(&payoutServiceStub{
		payFn: func(ctx context.Context, input usecase.PayVendorInput) (*usecase.PayoutResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/payouts", bytes.NewBufferString(`{"user_id":"user-1"}`))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPayoutHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"vendor missing", domain.ErrVendorNotFound, http.StatusNotFound},
		{"all providers failed", domain.ErrAllProvidersFailed, http.StatusBadGateway},
		{"unknown provider", provider.ErrUnknownKind, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPayoutHandler(&payoutServiceStub{
				payFn: func(ctx context.Context, input usecase.PayVendorInput) (*usecase.PayoutResult, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.PayVendorRequest{
				UserID:   "user-1",
				VendorID: "vendor-1",
				OrderID:  "order-1",
				Amount:   decimal.NewFromInt(5000),
			})

			req := httptest.NewRequest(http.MethodPost, "/payouts", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			h.Create(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestPayoutHandler_Get(t *testing.T) {
	h := NewPayoutHandler(&payoutServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.VendorPayout, error) {
			if id != "po-1" {
				return nil, domain.ErrPayoutNotFound
			}
			return samplePayout(), nil
		},
	})

	r := chi.NewRouter()
	r.Get("/payouts/{id}", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/payouts/po-1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/payouts/missing", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
