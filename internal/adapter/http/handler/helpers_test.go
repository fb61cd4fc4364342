package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/provider"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrWalletNotFound, http.StatusNotFound},
		{domain.ErrVendorNotFound, http.StatusNotFound},
		{domain.ErrPayoutNotFound, http.StatusNotFound},
		{domain.ErrTransactionNotFound, http.StatusNotFound},
		{domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{domain.ErrDuplicateTransaction, http.StatusConflict},
		{domain.ErrDuplicatePayout, http.StatusConflict},
		{domain.ErrInvalidPayoutTransition, http.StatusConflict},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidFullName, http.StatusBadRequest},
		{provider.ErrUnknownKind, http.StatusBadRequest},
		{domain.ErrAllProvidersFailed, http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", domain.ErrInsufficientFunds), http.StatusUnprocessableEntity},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Fatalf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=7&bad=abc", nil)

	if got := parseIntQuery(req, "limit", 20); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := parseIntQuery(req, "bad", 20); got != 20 {
		t.Fatalf("expected default for unparsable value, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 20); got != 20 {
		t.Fatalf("expected default for missing value, got %d", got)
	}
}
