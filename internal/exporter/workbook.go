package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
	"github.com/samborg-dev/darts-fair-workflows/internal/table"
)

// WriteWorkbook writes one xlsx workbook with a sheet per named table:
// header row in column order, then text cells. Sheets are emitted in
// sorted name order. Byte-buffer cells fail with a STORAGE error, as
// with CSV.
func WriteWorkbook(path string, sheets map[string]*table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	for idx, name := range names {
		if idx == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("failed to add sheet %s: %w", name, err)
			}
		}
		if err := writeSheet(f, name, sheets[name]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *table.Table) error {
	cols := t.Columns()
	for j, col := range cols {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header cell %s: %w", cell, err)
		}
	}

	for i := 0; i < t.Len(); i++ {
		for j, col := range cols {
			c, ok := t.Cell(i, col)
			if !ok {
				continue
			}
			if c.IsBlob() {
				return apperrors.NewStorageError(
					fmt.Sprintf("column %s row %d holds a byte buffer, summarize before exporting", col, i), nil)
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, c.Text); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}
	return nil
}
