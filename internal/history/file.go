// Package history persists the last known price per product identity.
// Stores hold exactly one entry per identity, replaced wholesale each run.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"TVPriceScanner/internal/domain"
	"TVPriceScanner/internal/ports"
)

// FileStore keeps the history as a single JSON document on disk.
type FileStore struct {
	path   string
	logger *slog.Logger
}

var _ ports.HistoryStore = (*FileStore)(nil)

// NewFileStore wires a store at the given path. The file is created on the
// first Save.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// wireEntry is the on-disk shape. Prices travel as JSON numbers and
// round-trip exactly through json.Number.
type wireEntry struct {
	Price json.Number `json:"price"`
	Date  string      `json:"date"`
	URL   string      `json:"url"`
}

// Load reads the persisted history. A missing or corrupt file is treated as
// no history at all: the next run re-establishes the baseline silently.
func (s *FileStore) Load(ctx context.Context) domain.History {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warn("history file unreadable, starting empty", "path", s.path, "error", err)
		}
		return domain.History{}
	}

	var wire map[string]wireEntry
	if err := json.Unmarshal(raw, &wire); err != nil {
		s.warn("history file corrupt, starting empty", "path", s.path, "error", err)
		return domain.History{}
	}

	loaded := make(domain.History, len(wire))
	for key, entry := range wire {
		price, err := decimal.NewFromString(entry.Price.String())
		if err != nil {
			s.warn("skipping history entry with bad price", "key", key, "price", entry.Price)
			continue
		}
		loaded[key] = domain.HistoryEntry{Price: price, Date: entry.Date, URL: entry.URL}
	}

	return loaded
}

// Save replaces the persisted state. The document is written to a temp file
// in the same directory and renamed over the old one, so readers never see
// a partially written store.
func (s *FileStore) Save(ctx context.Context, h domain.History) error {
	wire := make(map[string]wireEntry, len(h))
	for key, entry := range h {
		wire[key] = wireEntry{
			Price: json.Number(entry.Price.String()),
			Date:  entry.Date,
			URL:   entry.URL,
		}
	}

	raw, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".price_history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history file: %w", err)
	}

	return nil
}

func (s *FileStore) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
