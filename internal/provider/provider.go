// Package provider defines the uniform contract for external bank-transfer
// and payment-collection APIs. Adapters are pure translation layers: they
// build the provider-specific request, call the network, and map the
// provider's vocabulary onto the shared three-valued Status. All retry and
// fallback policy lives with the caller.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies a concrete payment provider. The set is closed.
type Kind string

const (
	KindPaystack    Kind = "paystack"
	KindFlutterwave Kind = "flutterwave"
	KindMonnify     Kind = "monnify"
)

// DefaultOrder is the fixed preference order used for ordered fallback.
var DefaultOrder = []Kind{KindPaystack, KindFlutterwave, KindMonnify}

// ParseKind validates a provider name from the outside world.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPaystack, KindFlutterwave, KindMonnify:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Status is the normalized outcome of a provider operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	// StatusUnknown means the provider reported an ambiguous or pending
	// state; callers must not treat it as delivered.
	StatusUnknown Status = "unknown"
)

var (
	// ErrUnavailable marks transport failures and malformed responses,
	// distinct from a provider explicitly reporting payment failure.
	// Callers retry or fall back on either, but log them differently.
	ErrUnavailable = errors.New("payment provider unavailable")

	// ErrUnknownKind is returned for provider names outside the closed set.
	ErrUnknownKind = errors.New("unknown payment provider")
)

// Unavailablef wraps ErrUnavailable with provider context.
func Unavailablef(kind Kind, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", kind, ErrUnavailable, fmt.Sprintf(format, args...))
}

// Customer carries the minimum payer identity a collection API needs.
type Customer struct {
	UserID string
	Email  string
	Phone  string
	Name   string
}

// InitResult is the outcome of initializing a payment collection.
type InitResult struct {
	PaymentLink string
	Reference   string
	Raw         map[string]any
}

// VerifyResult is the normalized outcome of a payment verification.
type VerifyResult struct {
	Status    Status
	Amount    decimal.Decimal
	Currency  string
	Reference string
	Raw       map[string]any
}

// ChargeRequest describes a bank transfer to a payee account.
type ChargeRequest struct {
	AccountNumber string
	BankCode      string
	Amount        decimal.Decimal
	PayeeName     string
	PayeeEmail    string
	Narration     string
	Reference     string
}

// ChargeResult is the normalized outcome of a bank transfer attempt. Raw is
// preserved for audit metadata.
type ChargeResult struct {
	Status            Status
	ProviderReference string
	Raw               map[string]any
}

// Gateway is the contract every concrete provider implements.
type Gateway interface {
	Kind() Kind
	InitializePayment(ctx context.Context, customer Customer, amount decimal.Decimal) (*InitResult, error)
	VerifyPayment(ctx context.Context, reference string) (*VerifyResult, error)
	ChargeToBank(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Registry holds the configured gateways keyed by kind.
type Registry struct {
	gateways map[Kind]Gateway
	order    []Kind
}

// NewRegistry builds a registry preserving DefaultOrder for fallback.
func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[Kind]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Kind()] = g
	}
	for _, k := range DefaultOrder {
		if _, ok := r.gateways[k]; ok {
			r.order = append(r.order, k)
		}
	}
	return r
}

// Get returns the gateway for a kind.
func (r *Registry) Get(kind Kind) (Gateway, error) {
	g, ok := r.gateways[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return g, nil
}

// All returns the configured gateways in fallback order.
func (r *Registry) All() []Gateway {
	out := make([]Gateway, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.gateways[k])
	}
	return out
}
