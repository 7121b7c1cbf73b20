package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TVPriceScanner/internal/domain"
)

type stubSource struct {
	outcomes []domain.FetchOutcome
}

func (s *stubSource) FetchAll(ctx context.Context, day time.Time) []domain.FetchOutcome {
	return s.outcomes
}

type memStore struct {
	loaded  domain.History
	saved   domain.History
	saveErr error
}

func (m *memStore) Load(ctx context.Context) domain.History {
	if m.loaded == nil {
		return domain.History{}
	}
	return m.loaded
}

func (m *memStore) Save(ctx context.Context, h domain.History) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = h
	return nil
}

type memExporter struct {
	records []domain.ProductRecord
	err     error
	calls   int
}

func (m *memExporter) Export(ctx context.Context, records []domain.ProductRecord) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.records = records
	return nil
}

type stubNotifier struct {
	subject string
	body    string
	err     error
	calls   int
}

func (s *stubNotifier) Send(ctx context.Context, subject, htmlBody string) error {
	s.calls++
	s.subject = subject
	s.body = htmlBody
	return s.err
}

func observation(retailer, title string, price int64, day time.Time) domain.ProductRecord {
	return domain.ProductRecord{
		Retailer:     retailer,
		Title:        title,
		Price:        decimal.NewFromInt(price),
		ObservedDate: day,
	}
}

func TestRunEndToEndScenario(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	a := observation("Retailer A", `Samsung 65" 4K UHD TV`, 15000, day)
	b := observation("Retailer B", `Samsung 65" 4K UHD TV`, 13500, day)

	source := &stubSource{outcomes: []domain.FetchOutcome{
		{Retailer: "Retailer A", Records: []domain.ProductRecord{a}},
		{Retailer: "Retailer B", Records: []domain.ProductRecord{b}},
	}}
	store := &memStore{}
	exporter := &memExporter{}
	notifier := &stubNotifier{}

	p := NewPipeline(PipelineDeps{
		Source:        source,
		Store:         store,
		Exporter:      exporter,
		Notifier:      notifier,
		ReportHeading: "Daily TV Price Report",
	})

	require.NoError(t, p.Run(context.Background(), day))

	// History now holds both identities with the fresh observations.
	require.Len(t, store.saved, 2)
	assert.True(t, store.saved[a.Identity()].Price.Equal(a.Price))
	assert.True(t, store.saved[b.Identity()].Price.Equal(b.Price))

	assert.Len(t, exporter.records, 2)

	// Empty history: both products are new, and A is beaten by B.
	require.Equal(t, 1, notifier.calls)
	assert.Equal(t, "Daily TV Price Report - 2026-08-28", notifier.subject)
	assert.Contains(t, notifier.body, "New Products Found")
	assert.Contains(t, notifier.body, "Cheaper Elsewhere")
	assert.Contains(t, notifier.body, "Cheaper at Retailer B")
	assert.Contains(t, notifier.body, "R1,500")
}

func TestRunComparesNewAgainstOldHistory(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	rec := observation("Game", "LG 65in UHD TV", 10000, day)

	store := &memStore{loaded: domain.History{
		rec.Identity(): {Price: decimal.NewFromInt(12000), Date: "2026-08-27"},
	}}
	notifier := &stubNotifier{}

	p := NewPipeline(PipelineDeps{
		Source:   &stubSource{outcomes: []domain.FetchOutcome{{Retailer: "Game", Records: []domain.ProductRecord{rec}}}},
		Store:    store,
		Notifier: notifier,
	})

	require.NoError(t, p.Run(context.Background(), day))

	// The drop was detected against the pre-run price even though the
	// store was rewritten in the same run.
	assert.Contains(t, notifier.body, "Price Drops")
	assert.Contains(t, notifier.body, "R2,000")
	assert.True(t, store.saved[rec.Identity()].Price.Equal(decimal.NewFromInt(10000)))
}

func TestRunSurvivesRetailerFailure(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	rec := observation("Game", "LG 65in UHD TV", 10000, day)

	store := &memStore{}
	p := NewPipeline(PipelineDeps{
		Source: &stubSource{outcomes: []domain.FetchOutcome{
			{Retailer: "Takealot", Err: errors.New("connection refused")},
			{Retailer: "Game", Records: []domain.ProductRecord{rec}},
		}},
		Store: store,
	})

	require.NoError(t, p.Run(context.Background(), day))
	require.Len(t, store.saved, 1)
	assert.Contains(t, store.saved, rec.Identity())
}

func TestRunNotificationFailureDoesNotFailRun(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	rec := observation("Game", "LG 65in UHD TV", 10000, day)

	store := &memStore{}
	exporter := &memExporter{}
	notifier := &stubNotifier{err: errors.New("smtp auth failed")}

	p := NewPipeline(PipelineDeps{
		Source:   &stubSource{outcomes: []domain.FetchOutcome{{Retailer: "Game", Records: []domain.ProductRecord{rec}}}},
		Store:    store,
		Exporter: exporter,
		Notifier: notifier,
	})

	require.NoError(t, p.Run(context.Background(), day))

	// History and export committed despite the delivery failure.
	assert.NotNil(t, store.saved)
	assert.Equal(t, 1, exporter.calls)
	assert.Equal(t, 1, notifier.calls)
}

func TestRunExportFailureSurfaces(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	p := NewPipeline(PipelineDeps{
		Source:   &stubSource{},
		Store:    &memStore{},
		Exporter: &memExporter{err: errors.New("disk full")},
	})

	assert.Error(t, p.Run(context.Background(), day))
}

func TestRunSaveFailureSurfaces(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	p := NewPipeline(PipelineDeps{
		Source: &stubSource{},
		Store:  &memStore{saveErr: errors.New("permission denied")},
	})

	assert.Error(t, p.Run(context.Background(), day))
}

func TestRunWithoutNotifierSucceeds(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	p := NewPipeline(PipelineDeps{Source: &stubSource{}, Store: &memStore{}})

	require.NoError(t, p.Run(context.Background(), day))
}
