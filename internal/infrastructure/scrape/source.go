package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"TVPriceScanner/internal/config"
	"TVPriceScanner/internal/domain"
	"TVPriceScanner/internal/filter"
	"TVPriceScanner/internal/ports"
	"TVPriceScanner/internal/retailer"
)

// Source runs every configured retailer through its registered adapter,
// filters the raw items and normalizes survivors into ProductRecords.
type Source struct {
	registry  *retailer.Registry
	retailers []config.RetailerConfig
	filter    *filter.Filter
	logger    *slog.Logger
}

var _ ports.ProductSource = (*Source)(nil)

// NewSource wires the adapter registry with config-defined retailers.
func NewSource(reg *retailer.Registry, retailers []config.RetailerConfig, f *filter.Filter, log *slog.Logger) *Source {
	return &Source{
		registry:  reg,
		retailers: retailers,
		filter:    f,
		logger:    log,
	}
}

// FetchAll collects one FetchOutcome per retailer. One retailer's failure
// never prevents processing of the others; the error travels in its
// outcome and the caller decides what to log.
func (s *Source) FetchAll(ctx context.Context, day time.Time) []domain.FetchOutcome {
	outcomes := make([]domain.FetchOutcome, 0, len(s.retailers))

	for _, rc := range s.retailers {
		s.debug("fetch retailer", "retailer", rc.Name, "adapter", rc.Adapter)
		outcomes = append(outcomes, s.fetchOne(ctx, rc, day))
	}

	return outcomes
}

func (s *Source) fetchOne(ctx context.Context, rc config.RetailerConfig, day time.Time) domain.FetchOutcome {
	outcome := domain.FetchOutcome{Retailer: rc.Name}

	adapter, err := s.registry.Resolve(rc.Adapter)
	if err != nil {
		outcome.Err = fmt.Errorf("retailer %s: %w", rc.Name, err)
		return outcome
	}

	raw, err := adapter.Fetch(ctx, retailer.Request{
		Retailer:  rc.Name,
		URL:       rc.URL,
		Selectors: toSelectors(rc.Selectors),
		Options:   rc.Options,
	})
	if err != nil {
		outcome.Err = fmt.Errorf("fetch retailer %s: %w", rc.Name, err)
		return outcome
	}

	for _, item := range raw {
		if item.Title == "" {
			outcome.Dropped++
			continue
		}
		if !s.filter.Matches(item.Title) {
			continue
		}

		price, err := domain.ParsePrice(item.PriceText)
		if err != nil {
			s.debug("dropping item with bad price", "retailer", rc.Name, "title", item.Title, "error", err)
			outcome.Dropped++
			continue
		}

		record := domain.ProductRecord{
			Retailer:     rc.Name,
			Title:        item.Title,
			Price:        price,
			URL:          item.URL,
			ObservedDate: day,
		}
		if err := record.Validate(); err != nil {
			s.debug("dropping invalid record", "retailer", rc.Name, "error", err)
			outcome.Dropped++
			continue
		}

		outcome.Records = append(outcome.Records, record)
	}

	s.debug("retailer produced records", "retailer", rc.Name,
		"raw", len(raw), "kept", len(outcome.Records), "dropped", outcome.Dropped)
	return outcome
}

func toSelectors(cfg config.SelectorConfig) retailer.Selectors {
	return retailer.Selectors{
		Item:     cfg.Item,
		Title:    cfg.Title,
		Price:    cfg.Price,
		Link:     cfg.Link,
		NextPage: cfg.NextPage,
	}
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
