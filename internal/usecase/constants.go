package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Provider network calls never run inside one.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultCurrency is assumed when an inbound event omits one.
	DefaultCurrency = "NGN"

	// PayoutSummaryTTL is how long completed payout summaries are cached.
	PayoutSummaryTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
