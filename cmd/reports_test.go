package cmd

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/config"
	"folio/internal/keyring"
	"folio/internal/output"
	"folio/internal/valuation"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleSnapshot() valuation.Snapshot {
	return valuation.Snapshot{
		Balances: []valuation.PositionBalance{
			{
				Name:       "S&P500",
				AssetClass: "Stocks",
				Symbol:     "SPX",
				Amount:     dec("2"),
				Price:      dec("374.64"),
				Balance:    dec("749.28"),
			},
			{
				Name:       "Cash",
				AssetClass: "Cash",
				Amount:     dec("200"),
				Price:      dec("1"),
				Balance:    dec("200"),
			},
		},
		Total: dec("949.28"),
		Allocation: []valuation.ClassAllocation{
			{Class: "Stocks", Value: dec("749.28"), Percent: dec("78.93")},
			{Class: "Cash", Value: dec("200"), Percent: dec("21.07")},
		},
	}
}

func TestRenderBalancesReport(t *testing.T) {
	var out bytes.Buffer
	err := renderBalancesReport(output.New(&out, false), sampleSnapshot())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Name")
	assert.Contains(t, text, "S&P500")
	assert.Contains(t, text, "$374.64")
	assert.Contains(t, text, "$749.28")
	assert.Contains(t, text, "TOTAL")
	assert.Contains(t, text, "$949.28")
}

func TestRenderBalancesReport_UnknownAndStale(t *testing.T) {
	snap := sampleSnapshot()
	snap.Balances[0].Stale = true
	snap.Balances = append(snap.Balances, valuation.PositionBalance{
		Name:       "Mystery",
		AssetClass: "Crypto",
		Symbol:     "XYZ",
		Amount:     dec("5"),
		Unknown:    true,
	})

	var out bytes.Buffer
	err := renderBalancesReport(output.New(&out, false), snap)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "$374.64*")
	assert.Contains(t, text, "Mystery")
	assert.Contains(t, text, "—")
}

func TestRenderBalancesReport_JSON(t *testing.T) {
	var out bytes.Buffer
	err := renderBalancesReport(output.New(&out, true), sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, out.String(), `"Name": "S&P500"`)
	assert.Contains(t, out.String(), `"Balance": "$749.28"`)
}

func TestRenderAllocationReport(t *testing.T) {
	var out bytes.Buffer
	err := renderAllocationReport(output.New(&out, false), sampleSnapshot())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Stocks")
	assert.Contains(t, text, "78.93%")
	assert.Contains(t, text, "Cash")
	assert.Contains(t, text, "21.07%")
}

func TestRenderPerformanceReport_NoBaseline(t *testing.T) {
	var out bytes.Buffer
	err := renderPerformanceReport(output.New(&out, false), sampleSnapshot())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "$949.28")
	assert.Contains(t, text, "no baseline yet")
}

func TestRenderPerformanceReport_Gain(t *testing.T) {
	snap := sampleSnapshot()
	snap.Performance = valuation.Performance{
		Delta:       dec("49.28"),
		Percent:     dec("5.48"),
		HasBaseline: true,
	}

	var out bytes.Buffer
	err := renderPerformanceReport(output.New(&out, false), snap)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "+$49.28")
	assert.Contains(t, text, "+5.48%")
}

func TestRenderPerformanceReport_Loss(t *testing.T) {
	snap := sampleSnapshot()
	snap.Performance = valuation.Performance{
		Delta:       dec("-10.50"),
		Percent:     dec("-1.09"),
		HasBaseline: true,
	}

	var out bytes.Buffer
	err := renderPerformanceReport(output.New(&out, false), snap)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "-$10.50")
	assert.Contains(t, text, "-1.09%")
}

func TestValidateComponents(t *testing.T) {
	assert.NoError(t, validateComponents(nil))
	assert.NoError(t, validateComponents([]string{"header", "allocation"}))

	err := validateComponents([]string{"header", "sidebar"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown component "sidebar"`)
}

func TestNewResolver_MissingKeyWarns(t *testing.T) {
	cfg := &config.Config{QuoteBaseURL: config.DefaultQuoteBaseURL, QuoteTimeoutSeconds: 5}
	var warn bytes.Buffer

	r := newResolver(cfg, keyring.NewMockStore(), &warn)

	assert.NotNil(t, r)
	assert.Contains(t, warn.String(), "quote API key not configured")
}

func TestNewResolver_WithKey(t *testing.T) {
	cfg := &config.Config{QuoteBaseURL: config.DefaultQuoteBaseURL, QuoteTimeoutSeconds: 5}
	store := keyring.NewMockStore().WithData(keyring.ServiceName, keyring.KeyAPIKey, "secret")
	var warn bytes.Buffer

	r := newResolver(cfg, store, &warn)

	assert.NotNil(t, r)
	assert.Empty(t, warn.String())
}

func TestLoadBaseline_SessionModeSkipsHistory(t *testing.T) {
	cfg := &config.Config{PerformanceBaseline: config.BaselineSession}

	baseline, err := loadBaseline(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, baseline)
}
