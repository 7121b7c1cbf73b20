package ports

import (
	"context"
	"time"

	"TVPriceScanner/internal/domain"
)

// ProductSource collects the complete current-observation set. The detector
// needs all retailers' records up front, so there is no incremental feed.
type ProductSource interface {
	FetchAll(ctx context.Context, day time.Time) []domain.FetchOutcome
}

// HistoryStore owns the persisted last-known state per product identity.
// Load fails open: missing or corrupt state is an empty history, never an
// error. Save replaces the whole store atomically.
type HistoryStore interface {
	Load(ctx context.Context) domain.History
	Save(ctx context.Context, h domain.History) error
}

// Exporter writes the run's records to the external export sink.
type Exporter interface {
	Export(ctx context.Context, records []domain.ProductRecord) error
}

// Notifier hands the rendered report to an external delivery mechanism.
// The core does not depend on delivery succeeding.
type Notifier interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Scheduler controls when scans execute in daemon mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
