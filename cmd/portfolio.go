package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"folio/internal/config"
	"folio/internal/keyring"
	"folio/internal/position"
	"folio/internal/quote"
	"folio/internal/snapshot"
	"folio/internal/valuation"
)

// loadStore reads and parses a position file. A parse failure here is the
// only fatal error class: the command exits non-zero.
func loadStore(path string) (*position.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	store, err := position.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return store, nil
}

// newResolver builds the quote resolver from config and the keyring-held API
// key. A missing key degrades to cached prices instead of failing.
func newResolver(cfg *config.Config, secrets keyring.Store, warn io.Writer) *quote.Resolver {
	source := quote.NoSource
	apiKey, err := secrets.Get(keyring.ServiceName, keyring.KeyAPIKey)
	switch {
	case err == nil:
		source = quote.NewEODHDSource(cfg.QuoteBaseURL, apiKey)
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Fprintln(warn, "quote API key not configured; using cached prices (run: folio configure)")
	default:
		fmt.Fprintf(warn, "failed to read API key: %v; using cached prices\n", err)
	}
	return quote.NewResolver(source, quote.NewFileCache(config.CachePath()), cfg.QuoteTimeout())
}

// loadBaseline returns the stored performance baseline, or nil in session
// mode or when no prior day was recorded.
func loadBaseline(cfg *config.Config, history *snapshot.History) (*valuation.Baseline, error) {
	if cfg.PerformanceBaseline != config.BaselineStored {
		return nil, nil
	}
	return history.LatestBefore(time.Now())
}

// valueFile loads a position file and computes a one-shot valuation for the
// report commands.
func valueFile(path string, warn io.Writer) (valuation.Snapshot, []string, error) {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return valuation.Snapshot{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	store, err := loadStore(path)
	if err != nil {
		return valuation.Snapshot{}, nil, err
	}

	resolver := newResolver(cfg, keyring.NewEnvStore(keyring.NewSystemStore()), warn)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	quotes, warnings := resolver.Resolve(ctx, store.Symbols())

	history := snapshot.NewHistory(config.SnapshotsPath())
	baseline, err := loadBaseline(cfg, history)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("snapshot history unreadable: %v", err))
	}

	return valuation.Compute(store.Positions(), quotes, baseline), warnings, nil
}
