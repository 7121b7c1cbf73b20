package export

import (
	"context"

	"TVPriceScanner/internal/domain"
	"TVPriceScanner/internal/ports"
)

// CSVFileExporter writes each run's records to a fixed CSV path.
type CSVFileExporter struct {
	path string
}

var _ ports.Exporter = (*CSVFileExporter)(nil)

// NewCSVFileExporter builds an exporter targeting path.
func NewCSVFileExporter(path string) *CSVFileExporter {
	return &CSVFileExporter{path: path}
}

// Export replaces the file with the current run's rows.
func (e *CSVFileExporter) Export(ctx context.Context, records []domain.ProductRecord) error {
	return WriteCSVFile(e.path, records)
}
