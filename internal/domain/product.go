package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used in history entries and exports.
const DateLayout = "2006-01-02"

// ProductRecord is one normalized observation of a product's price at a
// retailer on a given date.
type ProductRecord struct {
	Retailer     string
	Title        string
	Price        decimal.Decimal
	URL          string
	ObservedDate time.Time
}

// Validate rejects records that must never reach the change detector.
func (p ProductRecord) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("product record has empty title")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %q has negative price %s", p.Title, p.Price)
	}
	return nil
}

// Identity is the stable history key: lowercased title plus retailer.
// Derivation is pure, so the same observation always maps to the same entry.
func (p ProductRecord) Identity() string {
	return fmt.Sprintf("%s_%s", strings.ToLower(p.Title), p.Retailer)
}

// TitleKey is the retailer-agnostic key used for cross-retailer grouping.
func (p ProductRecord) TitleKey() string {
	return strings.ToLower(p.Title)
}

// HistoryEntry is the last known state for one product identity. The store
// holds exactly one entry per identity, overwritten on every run.
type HistoryEntry struct {
	Price decimal.Decimal
	Date  string
	URL   string
}

// History maps identity keys to their latest observation.
type History map[string]HistoryEntry

// Rebuild produces the next persisted state from the current run's records:
// the latest observation wins per identity, unchanged prices included.
func (h History) Rebuild(records []ProductRecord) History {
	next := make(History, len(h)+len(records))
	for k, v := range h {
		next[k] = v
	}
	for _, r := range records {
		next[r.Identity()] = HistoryEntry{
			Price: r.Price,
			Date:  r.ObservedDate.Format(DateLayout),
			URL:   r.URL,
		}
	}
	return next
}
