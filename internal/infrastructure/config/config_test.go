package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("HTTPPort = %s, want 8080", cfg.HTTPPort)
	}
	if cfg.DatabaseMaxConns != 25 {
		t.Fatalf("DatabaseMaxConns = %d, want 25", cfg.DatabaseMaxConns)
	}
	if cfg.PayoutRaceTimeout != 30*time.Second {
		t.Fatalf("PayoutRaceTimeout = %s, want 30s", cfg.PayoutRaceTimeout)
	}
	if cfg.Paystack.BaseURL == "" || cfg.Monnify.BaseURL == "" || cfg.Flutterwave.BaseURL == "" {
		t.Fatal("provider base URLs not defaulted")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_PLATFORM_FEE", "450.50")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("HTTPPort = %s, want 9090", cfg.HTTPPort)
	}
	if cfg.Paystack.SecretKey != "sk_test_123" {
		t.Fatal("paystack secret not loaded")
	}

	fee, err := cfg.PlatformFee()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.Equal(decimal.RequireFromString("450.50")) {
		t.Fatalf("fee = %s, want 450.50", fee)
	}
}

func TestPlatformFeeInvalid(t *testing.T) {
	cfg := &Config{DefaultPlatformFee: "seven hundred"}
	if _, err := cfg.PlatformFee(); err == nil {
		t.Fatal("expected error for invalid fee")
	}

	cfg = &Config{DefaultPlatformFee: "-10"}
	if _, err := cfg.PlatformFee(); err == nil {
		t.Fatal("expected error for negative fee")
	}
}
