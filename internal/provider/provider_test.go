package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type stubGateway struct{ kind Kind }

func (s *stubGateway) Kind() Kind { return s.kind }
func (s *stubGateway) InitializePayment(ctx context.Context, c Customer, a decimal.Decimal) (*InitResult, error) {
	return nil, nil
}
func (s *stubGateway) VerifyPayment(ctx context.Context, ref string) (*VerifyResult, error) {
	return nil, nil
}
func (s *stubGateway) ChargeToBank(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return nil, nil
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"paystack", "flutterwave", "monnify"} {
		if _, err := ParseKind(valid); err != nil {
			t.Errorf("ParseKind(%q): unexpected error %v", valid, err)
		}
	}

	_, err := ParseKind("stripe")
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRegistryOrder(t *testing.T) {
	// Register out of order; fallback order must stay fixed.
	r := NewRegistry(
		&stubGateway{kind: KindMonnify},
		&stubGateway{kind: KindPaystack},
		&stubGateway{kind: KindFlutterwave},
	)

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 gateways, got %d", len(all))
	}

	want := []Kind{KindPaystack, KindFlutterwave, KindMonnify}
	for i, g := range all {
		if g.Kind() != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], g.Kind())
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(&stubGateway{kind: KindPaystack})

	if _, err := r.Get(KindMonnify); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestUnavailablefWraps(t *testing.T) {
	err := Unavailablef(KindPaystack, "timeout after %ds", 15)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected wrapped ErrUnavailable, got %v", err)
	}
}
