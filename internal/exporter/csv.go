package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
	"github.com/samborg-dev/darts-fair-workflows/internal/table"
)

// WriteCSV writes a table as CSV: one header record in column order,
// then one record per row with missing cells as empty fields. Byte
// buffers cannot be represented in CSV, so a table holding any fails
// with a STORAGE error; summarize it first. Parent directories are
// created as needed.
func WriteCSV(path string, t *table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	cols := t.Columns()
	if err := writer.Write(cols); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		record := make([]string, len(cols))
		for j, col := range cols {
			cell, ok := t.Cell(i, col)
			if !ok {
				continue
			}
			if cell.IsBlob() {
				return apperrors.NewStorageError(
					fmt.Sprintf("column %s row %d holds a byte buffer, summarize before exporting", col, i), nil)
			}
			record[j] = cell.Text
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV data: %w", err)
	}
	return nil
}
