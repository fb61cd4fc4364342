package domain

import "time"

// Event types published on the operator notification channel.
const (
	EventTypeTopupMatched     = "settlement.matched"
	EventTypeTopupUnmatched   = "settlement.unmatched"
	EventTypeTopupDuplicate   = "settlement.duplicate"
	EventTypePayoutCompleted  = "payout.completed"
	EventTypePayoutFailed     = "payout.failed"
	EventTypeWalletFundIntent = "wallet.fund_intent"
)

// Event is an operator-facing notification. Unmatched inbound payments in
// particular must be surfaced, never silently dropped.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}
