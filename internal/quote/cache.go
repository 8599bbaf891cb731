package quote

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

// cacheEntry is the JSON structure for one cached quote.
type cacheEntry struct {
	Price string `json:"price"`
	AsOf  int64  `json:"as_of"`
}

// FileCache is a symbol -> last-known-quote map persisted as a single JSON
// file. Reads and writes go through the file on every call; the map is small
// (one entry per portfolio symbol).
type FileCache struct {
	path string
}

// NewFileCache creates a file cache at the given path. The file is created
// lazily on the first Put.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Get returns the cached quote for a symbol, if any. A missing or unreadable
// cache file is a miss, never an error.
func (c *FileCache) Get(symbol string) (Quote, bool) {
	entries, err := c.read()
	if err != nil {
		return Quote{}, false
	}
	e, ok := entries[symbol]
	if !ok {
		return Quote{}, false
	}
	price, err := decimal.NewFromString(e.Price)
	if err != nil || !price.IsPositive() {
		return Quote{}, false
	}
	return Quote{
		Symbol: symbol,
		Price:  price,
		AsOf:   time.Unix(e.AsOf, 0),
	}, true
}

// Put stores a quote, creating parent directories if needed with 0700
// permissions. The file is written with 0600 permissions.
func (c *FileCache) Put(q Quote) error {
	entries, err := c.read()
	if err != nil {
		entries = make(map[string]cacheEntry)
	}
	entries[q.Symbol] = cacheEntry{
		Price: q.Price.String(),
		AsOf:  q.AsOf.Unix(),
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

func (c *FileCache) read() (map[string]cacheEntry, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]cacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
