package domain

import (
	"strings"
	"time"
)

// FullName binds a user to the exact legal name they use when wiring money
// into the central account. One active record per user; inbound deposits are
// matched against it.
type FullName struct {
	ID       string
	UserID   string
	FullName string
	AddedAt  time.Time
}

// NormalizeName prepares a payer name for matching: trims surrounding space,
// collapses internal runs of whitespace, and case-folds. Anything smarter
// (fuzzy matching, transliteration) belongs behind the repository interface.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
