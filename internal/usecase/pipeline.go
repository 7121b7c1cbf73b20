// Package usecase orchestrates one scan: collect, detect, persist, export,
// notify.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"TVPriceScanner/internal/detect"
	"TVPriceScanner/internal/domain"
	"TVPriceScanner/internal/ports"
	"TVPriceScanner/internal/report"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source        ports.ProductSource
	Store         ports.HistoryStore
	Exporter      ports.Exporter
	Notifier      ports.Notifier
	ReportHeading string
	Logger        *slog.Logger
}

// Pipeline implements the batch price-scan workflow.
type Pipeline struct {
	source        ports.ProductSource
	store         ports.HistoryStore
	exporter      ports.Exporter
	notifier      ports.Notifier
	reportHeading string
	logger        *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:        deps.Source,
		store:         deps.Store,
		exporter:      deps.Exporter,
		notifier:      deps.Notifier,
		reportHeading: deps.ReportHeading,
		logger:        deps.Logger,
	}
}

// Run executes one batch pass. Detection always compares the fresh
// observations against the state loaded before this run; the rebuilt
// history is written back only afterwards. History write-back and export
// failures surface to the caller; a notification failure is logged and
// swallowed, since the run's state has already committed.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	if p.source == nil || p.store == nil {
		return fmt.Errorf("pipeline is missing source or store")
	}

	outcomes := p.source.FetchAll(ctx, now)

	var records []domain.ProductRecord
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			p.warn("retailer fetch failed", "retailer", outcome.Retailer, "error", outcome.Err)
			continue
		}
		if outcome.Dropped > 0 {
			p.warn("dropped malformed items", "retailer", outcome.Retailer, "count", outcome.Dropped)
		}
		records = append(records, outcome.Records...)
	}
	p.info("collected products", "count", len(records), "retailers", len(outcomes))

	history := p.store.Load(ctx)
	changes := detect.Detect(records, history)
	p.info("detected changes",
		"price_drops", len(changes.PriceDrops),
		"cross_retailer_deals", len(changes.CrossRetailerDeals),
		"new_products", len(changes.NewProducts))

	if err := p.store.Save(ctx, history.Rebuild(records)); err != nil {
		return fmt.Errorf("save price history: %w", err)
	}

	if p.exporter != nil {
		if err := p.exporter.Export(ctx, records); err != nil {
			return fmt.Errorf("export products: %w", err)
		}
	}

	p.notify(ctx, changes, now)
	return nil
}

func (p *Pipeline) notify(ctx context.Context, changes domain.ChangeSet, now time.Time) {
	if p.notifier == nil {
		p.info("notification not configured, skipping")
		return
	}

	body := report.RenderHTML(p.reportHeading, changes, now)

	subject := "Daily TV Price Report - " + now.Format(domain.DateLayout)
	if err := p.notifier.Send(ctx, subject, body); err != nil {
		p.warn("notification failed", "error", err)
		return
	}
	p.info("notification sent")
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
