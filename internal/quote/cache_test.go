package quote

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "quotes.json")
	c := NewFileCache(path)

	asOf := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	err := c.Put(Quote{Symbol: "SPX", Price: decimal.NewFromFloat(374.64), AsOf: asOf})
	require.NoError(t, err)

	got, ok := c.Get("SPX")
	require.True(t, ok)
	assert.Equal(t, "SPX", got.Symbol)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(374.64)))
	assert.True(t, got.AsOf.Equal(asOf))
	assert.False(t, got.Stale)
}

func TestFileCache_MissingFile(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "nope.json"))

	_, ok := c.Get("SPX")
	assert.False(t, ok)
}

func TestFileCache_UnknownSymbol(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	c := NewFileCache(path)
	require.NoError(t, c.Put(Quote{Symbol: "SPX", Price: decimal.NewFromInt(1), AsOf: time.Now()}))

	_, ok := c.Get("BTC")
	assert.False(t, ok)
}

func TestFileCache_CorruptFileIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	c := NewFileCache(path)

	_, ok := c.Get("SPX")
	assert.False(t, ok)
}

func TestFileCache_PutRecoversCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	c := NewFileCache(path)

	require.NoError(t, c.Put(Quote{Symbol: "SPX", Price: decimal.NewFromInt(2), AsOf: time.Now()}))

	got, ok := c.Get("SPX")
	require.True(t, ok)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(2)))
}

func TestFileCache_PutUpdatesExistingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	c := NewFileCache(path)

	require.NoError(t, c.Put(Quote{Symbol: "SPX", Price: decimal.NewFromInt(1), AsOf: time.Now()}))
	require.NoError(t, c.Put(Quote{Symbol: "BTC", Price: decimal.NewFromInt(2), AsOf: time.Now()}))
	require.NoError(t, c.Put(Quote{Symbol: "SPX", Price: decimal.NewFromInt(3), AsOf: time.Now()}))

	spx, ok := c.Get("SPX")
	require.True(t, ok)
	assert.True(t, spx.Price.Equal(decimal.NewFromInt(3)))

	btc, ok := c.Get("BTC")
	require.True(t, ok)
	assert.True(t, btc.Price.Equal(decimal.NewFromInt(2)))
}

func TestFileCache_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "quotes.json")
	c := NewFileCache(path)
	require.NoError(t, c.Put(Quote{Symbol: "SPX", Price: decimal.NewFromInt(1), AsOf: time.Now()}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
