// Package valuation turns positions plus a quote snapshot into balances,
// total value, per-class allocation, and a performance delta. Compute is a
// pure function: deterministic given its inputs, no I/O, no shared state.
package valuation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/position"
	"folio/internal/quote"
)

var hundred = decimal.NewFromInt(100)

// PositionBalance is one valued position, in position-store order.
type PositionBalance struct {
	Name       string
	AssetClass string
	Symbol     string
	Amount     decimal.Decimal
	Price      decimal.Decimal
	Balance    decimal.Decimal
	// Unknown is true when the symbol had no quote this round: the position
	// is still listed but excluded from the total and allocation.
	Unknown bool
	// Stale is true when the balance is based on a cached quote.
	Stale bool
}

// ClassAllocation is the summed balance and share of one asset class.
type ClassAllocation struct {
	Class   string
	Value   decimal.Decimal
	Percent decimal.Decimal
}

// Performance is the change of the total versus a baseline total.
type Performance struct {
	Delta       decimal.Decimal
	Percent     decimal.Decimal
	HasBaseline bool
}

// Baseline is the prior total a performance delta is computed against.
type Baseline struct {
	Total decimal.Decimal
	AsOf  time.Time
}

// Snapshot is the derived portfolio state for one render. Ephemeral: it is
// recomputed whenever positions or quotes change and never persisted.
type Snapshot struct {
	Balances    []PositionBalance
	Total       decimal.Decimal
	Allocation  []ClassAllocation
	Performance Performance
}

// Compute values every position against the quote map. A position without a
// symbol counts its amount directly as balance. A position whose symbol is
// missing from quotes is marked Unknown rather than silently priced at zero.
// A nil baseline yields a zero performance with HasBaseline false.
func Compute(positions []position.Position, quotes map[string]quote.Quote, baseline *Baseline) Snapshot {
	balances := make([]PositionBalance, 0, len(positions))
	total := decimal.Zero
	classValues := make(map[string]decimal.Decimal)
	classOrder := make([]string, 0)

	for _, p := range positions {
		b := PositionBalance{
			Name:       p.Name,
			AssetClass: p.AssetClass,
			Symbol:     p.Symbol,
			Amount:     p.Amount,
		}
		switch {
		case p.Symbol == "":
			b.Price = decimal.NewFromInt(1)
			b.Balance = p.Amount
		default:
			q, ok := quotes[p.Symbol]
			if !ok {
				b.Unknown = true
				balances = append(balances, b)
				continue
			}
			b.Price = q.Price
			b.Balance = p.Amount.Mul(q.Price)
			b.Stale = q.Stale
		}

		total = total.Add(b.Balance)
		if _, seen := classValues[b.AssetClass]; !seen {
			classOrder = append(classOrder, b.AssetClass)
		}
		classValues[b.AssetClass] = classValues[b.AssetClass].Add(b.Balance)
		balances = append(balances, b)
	}

	allocation := make([]ClassAllocation, 0, len(classOrder))
	for _, class := range classOrder {
		value := classValues[class]
		percent := decimal.Zero
		if total.IsPositive() {
			percent = value.Mul(hundred).Div(total)
		}
		allocation = append(allocation, ClassAllocation{Class: class, Value: value, Percent: percent})
	}
	// Largest class first; ties broken by name for a stable render order.
	sort.SliceStable(allocation, func(i, j int) bool {
		if !allocation[i].Value.Equal(allocation[j].Value) {
			return allocation[i].Value.GreaterThan(allocation[j].Value)
		}
		return allocation[i].Class < allocation[j].Class
	})

	return Snapshot{
		Balances:    balances,
		Total:       total,
		Allocation:  allocation,
		Performance: computePerformance(total, baseline),
	}
}

func computePerformance(total decimal.Decimal, baseline *Baseline) Performance {
	if baseline == nil {
		return Performance{}
	}
	delta := total.Sub(baseline.Total)
	percent := decimal.Zero
	if !baseline.Total.IsZero() {
		percent = delta.Mul(hundred).Div(baseline.Total)
	}
	return Performance{Delta: delta, Percent: percent, HasBaseline: true}
}
