// Package app wires configuration to the scan pipeline and owns the run
// lifecycle.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"TVPriceScanner/internal/config"
	"TVPriceScanner/internal/export"
	"TVPriceScanner/internal/filter"
	"TVPriceScanner/internal/history"
	"TVPriceScanner/internal/infrastructure/email"
	"TVPriceScanner/internal/infrastructure/scheduler"
	"TVPriceScanner/internal/infrastructure/scrape"
	"TVPriceScanner/internal/logging"
	"TVPriceScanner/internal/ports"
	"TVPriceScanner/internal/retailer"
	"TVPriceScanner/internal/usecase"
)

const httpTimeout = 20 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	pgStore  *history.PostgresStore
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := retailer.NewRegistry()
	client := resty.New().
		SetTimeout(httpTimeout).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	registry.Register(scrape.NewListingAdapter(client))
	registry.Register(scrape.NewCrawlAdapter(""))

	productFilter := filter.New(cfg.Scanner.Brands, cfg.Scanner.SizeInches)
	source := scrape.NewSource(registry, cfg.Retailers, productFilter,
		baseLogger.With("component", "source"))

	a := &Application{cfg: cfg, logger: baseLogger}

	store, err := a.buildStore(baseLogger)
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Notifications.Email.Configured() {
		notifier = email.NewNotifier(cfg.Notifications.Email)
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:        source,
		Store:         store,
		Exporter:      export.NewCSVFileExporter(cfg.Export.CSVPath),
		Notifier:      notifier,
		ReportHeading: cfg.Scanner.ReportHeading,
		Logger:        baseLogger.With("component", "pipeline"),
	})
	return a, nil
}

func (a *Application) buildStore(baseLogger *slog.Logger) (ports.HistoryStore, error) {
	switch a.cfg.Storage.Backend {
	case "postgres":
		db, err := sql.Open("postgres", a.cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open history database: %w", err)
		}
		a.pgStore = history.NewPostgresStore(db, baseLogger.With("component", "history.postgres"))
		return a.pgStore, nil
	case "", "file":
		return history.NewFileStore(a.cfg.Storage.HistoryPath,
			baseLogger.With("component", "history.file")), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

// Run executes a single scan, or keeps rescanning when a scheduler
// interval is configured.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if a.pgStore != nil {
		if err := a.pgStore.Migrate(ctx); err != nil {
			return err
		}
	}

	every := a.cfg.Scheduler.Every()
	if every <= 0 {
		return a.pipeline.Run(ctx, time.Now())
	}

	sched := usecase.NewScheduler(scheduler.NewIntervalScheduler(every), a.pipeline,
		a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("daemon mode", "interval", every.String())

	<-ctx.Done()
	return sched.Stop(context.Background())
}
