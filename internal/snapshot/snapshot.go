// Package snapshot persists daily portfolio totals so performance deltas
// survive process restarts.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/valuation"
)

// dateLayout is the day granularity of the history.
const dateLayout = "2006-01-02"

// Entry is one recorded total.
type Entry struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

// History is a day -> total file. At most one entry is kept per day;
// recording twice on the same day overwrites.
type History struct {
	path string
}

// NewHistory creates a history backed by the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// LatestBefore returns the most recent total recorded strictly before the
// given day, as a valuation baseline. Returns nil when no such entry exists;
// a missing history file is not an error.
func (h *History) LatestBefore(day time.Time) (*valuation.Baseline, error) {
	entries, err := h.load()
	if err != nil {
		return nil, err
	}
	cutoff := day.Format(dateLayout)

	var best *Entry
	for i := range entries {
		if entries[i].Date >= cutoff {
			continue
		}
		if best == nil || entries[i].Date > best.Date {
			best = &entries[i]
		}
	}
	if best == nil {
		return nil, nil
	}

	total, err := decimal.NewFromString(best.Total)
	if err != nil {
		return nil, err
	}
	asOf, err := time.Parse(dateLayout, best.Date)
	if err != nil {
		return nil, err
	}
	return &valuation.Baseline{Total: total, AsOf: asOf}, nil
}

// Record upserts the total for the given day and writes the history back,
// sorted by date.
func (h *History) Record(day time.Time, total decimal.Decimal) error {
	entries, err := h.load()
	if err != nil {
		return err
	}

	date := day.Format(dateLayout)
	updated := false
	for i := range entries {
		if entries[i].Date == date {
			entries[i].Total = total.String()
			updated = true
			break
		}
	}
	if !updated {
		entries = append(entries, Entry{Date: date, Total: total.String()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	if err := os.MkdirAll(filepath.Dir(h.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(h.path, data, 0600)
}

func (h *History) load() ([]Entry, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
