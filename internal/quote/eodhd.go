package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoAPIKey is returned by NoSource when no quote API key is configured.
// The resolver then falls back to cached prices for every symbol.
var ErrNoAPIKey = errors.New("quote API key not configured (run: folio configure)")

// NoSource is the Source used when the CLI has no API key. Every fetch fails,
// which degrades the session to cached prices instead of aborting it.
var NoSource Source = SourceFunc(func(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return decimal.Zero, ErrNoAPIKey
})

// EODHDSource fetches real-time prices from the EODHD market data API.
type EODHDSource struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewEODHDSource creates a source for the given base URL and API key.
func NewEODHDSource(baseURL, apiKey string) *EODHDSource {
	return &EODHDSource{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// realTimeResponse is the subset of the real-time endpoint payload we read.
type realTimeResponse struct {
	Code  string      `json:"code"`
	Close json.Number `json:"close"`
}

// Fetch implements Source. Any non-positive or unparsable price counts as a
// failure for the symbol so the caller can fall back to its cache.
func (s *EODHDSource) Fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	query := url.Values{
		"api_token": {s.APIKey},
		"fmt":       {"json"},
	}
	endpoint := fmt.Sprintf("%s/api/real-time/%s?%s", s.BaseURL, url.PathEscape(symbol), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("quote API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rt realTimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rt); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	price, err := decimal.NewFromString(rt.Close.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("no price for %s", symbol)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive price %s for %s", price, symbol)
	}
	return price, nil
}
