package tui

import (
	"time"

	"folio/internal/quote"
)

// Message types for async operations

// QuotesResolvedMsg carries the complete quote map of one resolution round.
// The map is immutable once published; later rounds replace it wholesale, so
// a valuation never observes a partially updated map.
type QuotesResolvedMsg struct {
	Quotes   map[string]quote.Quote
	Warnings []string
}

// SavedMsg is sent when the position file write-back succeeds.
type SavedMsg struct{}

// SaveErrorMsg is sent when the position file write-back fails. The session
// stays interactive; only the on-disk copy is behind.
type SaveErrorMsg struct {
	Err error
}

// TickMsg is sent periodically for quote auto-refresh.
type TickMsg time.Time
