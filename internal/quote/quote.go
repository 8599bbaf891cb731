// Package quote resolves current market prices for position symbols, with a
// bounded-concurrency fan-out and a fallback to the last cached price when a
// live fetch fails.
package quote

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single symbol fetch.
const DefaultTimeout = 5 * time.Second

// maxInFlight caps concurrent requests to the quote source.
const maxInFlight = 8

// Quote is the last known price for a symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	AsOf   time.Time
	// Stale is true when the price came from the local cache because the
	// live fetch failed this round.
	Stale bool
}

// Source fetches the current price for one symbol.
type Source interface {
	Fetch(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, symbol string) (decimal.Decimal, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return f(ctx, symbol)
}

// Cache persists last-known quotes for fallback. Both operations are
// best-effort: a failure never aborts a resolution round.
type Cache interface {
	Get(symbol string) (Quote, bool)
	Put(q Quote) error
}

// Resolver issues one concurrent fetch per unique symbol and publishes a
// complete, immutable quote map per round.
type Resolver struct {
	source  Source
	cache   Cache // may be nil
	timeout time.Duration
}

// NewResolver creates a resolver. A zero timeout falls back to DefaultTimeout;
// cache may be nil to disable fallback.
func NewResolver(source Source, cache Cache, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{source: source, cache: cache, timeout: timeout}
}

// Resolve fetches quotes for the given symbols. Partial failure is not fatal:
// a symbol whose fetch fails falls back to its cached quote marked stale, or
// is omitted with a warning when no cache entry exists. The returned map is
// complete for this round and never mutated afterwards.
func (r *Resolver) Resolve(ctx context.Context, symbols []string) (map[string]Quote, []string) {
	unique := dedupe(symbols)

	var (
		mu       sync.Mutex
		quotes   = make(map[string]Quote, len(unique))
		fresh    = make([]Quote, 0, len(unique))
		warnings []string
	)

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	for _, symbol := range unique {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			price, err := r.source.Fetch(fetchCtx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if cached, ok := r.cachedQuote(symbol); ok {
					quotes[symbol] = cached
					warnings = append(warnings, fmt.Sprintf("%s: using cached price from %s (%v)", symbol, cached.AsOf.Format("2006-01-02"), err))
					return nil
				}
				warnings = append(warnings, fmt.Sprintf("%s: no price available (%v)", symbol, err))
				return nil
			}
			q := Quote{Symbol: symbol, Price: price, AsOf: time.Now()}
			quotes[symbol] = q
			fresh = append(fresh, q)
			return nil
		})
	}
	_ = g.Wait()

	// Fresh quotes go to the cache for future fallback. Skipped after
	// cancellation so an abandoned round never touches the cache.
	if r.cache != nil && ctx.Err() == nil {
		for _, q := range fresh {
			if err := r.cache.Put(q); err != nil {
				log.Printf("quote cache write failed (ignored): %v", err)
			}
		}
	}

	sort.Strings(warnings)
	return quotes, warnings
}

func (r *Resolver) cachedQuote(symbol string) (Quote, bool) {
	if r.cache == nil {
		return Quote{}, false
	}
	q, ok := r.cache.Get(symbol)
	if !ok {
		return Quote{}, false
	}
	q.Stale = true
	return q, true
}

func dedupe(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
