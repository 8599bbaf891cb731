// Package position holds the in-memory portfolio position store: parsing,
// validated edits, and deterministic re-serialization of the source file.
package position

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an edit targets a position that does not exist.
var ErrNotFound = errors.New("position not found")

// ErrInvalidAmount is returned when an amount is negative or not a number.
var ErrInvalidAmount = errors.New("invalid amount")

// Position is one portfolio line item. Identity within a portfolio is Name.
type Position struct {
	Name       string
	AssetClass string
	Amount     decimal.Decimal
	// Symbol is the external quote lookup key. Empty means the amount is
	// cash-like and counts directly as its own balance.
	Symbol string
}

// record is the on-disk shape of a position. Field names match the files the
// original tool reads, and json.Number keeps amounts unquoted on re-encode.
type record struct {
	Name       string      `json:"Name"`
	AssetClass string      `json:"AssetClass"`
	Amount     json.Number `json:"Amount"`
	Ticker     string      `json:"Ticker,omitempty"`
}

// Store owns the canonical position list for one portfolio file.
type Store struct {
	positions []Position
	dirty     bool
}

// Load parses a decrypted position file into a Store. The whole load fails on
// malformed JSON, empty or duplicate names, or negative amounts.
func Load(data []byte) (*Store, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse positions: %w", err)
	}

	positions := make([]Position, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("position %d: name is required", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("position %d: duplicate name %q", i, r.Name)
		}
		seen[r.Name] = true

		amount, err := ParseAmount(r.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("position %q: %w", r.Name, err)
		}

		positions = append(positions, Position{
			Name:       r.Name,
			AssetClass: r.AssetClass,
			Amount:     amount,
			Symbol:     r.Ticker,
		})
	}

	return &Store{positions: positions}, nil
}

// ParseAmount validates user- or file-supplied text as a non-negative decimal.
// It backs both the load path and the TUI's live edit validation.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}
	return amount, nil
}

// Positions returns a copy of the position list in file order.
func (s *Store) Positions() []Position {
	out := make([]Position, len(s.positions))
	copy(out, s.positions)
	return out
}

// Len returns the number of positions.
func (s *Store) Len() int {
	return len(s.positions)
}

// Symbols returns the unique quote symbols in file order.
func (s *Store) Symbols() []string {
	var symbols []string
	seen := make(map[string]bool)
	for _, p := range s.positions {
		if p.Symbol != "" && !seen[p.Symbol] {
			seen[p.Symbol] = true
			symbols = append(symbols, p.Symbol)
		}
	}
	return symbols
}

// ApplyEdit replaces the amount of the named position. The store is left
// unchanged when the new amount is invalid or the name is unknown.
func (s *Store) ApplyEdit(name, newAmount string) error {
	amount, err := ParseAmount(newAmount)
	if err != nil {
		return err
	}
	for i := range s.positions {
		if s.positions[i].Name == name {
			s.positions[i].Amount = amount
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Serialize re-encodes the positions with stable field order and the original
// record order, so load/serialize round-trips are stable.
func (s *Store) Serialize() ([]byte, error) {
	records := make([]record, 0, len(s.positions))
	for _, p := range s.positions {
		records = append(records, record{
			Name:       p.Name,
			AssetClass: p.AssetClass,
			Amount:     json.Number(p.Amount.String()),
			Ticker:     p.Symbol,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize positions: %w", err)
	}
	return append(data, '\n'), nil
}

// Dirty reports whether an edit has been committed since the last write-back.
func (s *Store) Dirty() bool {
	return s.dirty
}

// ClearDirty marks the store as written back.
func (s *Store) ClearDirty() {
	s.dirty = false
}
