package tui

import (
	"github.com/shopspring/decimal"
)

// formatMoney renders a decimal as a dollar value with two places.
func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// formatSignedMoney renders a gain/loss value with an explicit sign.
func formatSignedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "+$" + d.StringFixed(2)
}

// formatPercent renders a percentage value with two places.
func formatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// formatSignedPercent renders a percentage change with an explicit sign.
func formatSignedPercent(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}
