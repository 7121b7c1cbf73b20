// Package export writes the run's product records to the tabular export
// sink consumed outside the system.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"TVPriceScanner/internal/domain"
)

var header = []string{"date", "retailer", "title", "price", "url"}

// WriteCSV streams records as UTF-8 CSV with a header row. Unlike fetch or
// notification failures, a write failure here surfaces to the caller: an
// export that cannot be produced at all fails the run.
func WriteCSV(w io.Writer, records []domain.ProductRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ObservedDate.Format(domain.DateLayout),
			r.Retailer,
			r.Title,
			r.Price.String(),
			r.URL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %q: %w", r.Title, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile replaces the file at path with the current run's export.
func WriteCSVFile(path string, records []domain.ProductRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file %s: %w", path, err)
	}

	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file %s: %w", path, err)
	}
	return nil
}
