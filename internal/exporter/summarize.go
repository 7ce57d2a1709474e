package exporter

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
	"github.com/samborg-dev/darts-fair-workflows/internal/sinton"
	"github.com/samborg-dev/darts-fair-workflows/internal/table"
)

// Summarized clones a table with every byte-buffer cell replaced by a
// one-line statistical summary of its float64 contents. The input
// table is left untouched.
func Summarized(t *table.Table) (*table.Table, error) {
	out := t.Clone()
	for i := 0; i < out.Len(); i++ {
		row := out.Row(i)
		for col, cell := range row {
			if !cell.IsBlob() {
				continue
			}
			values, err := sinton.UnpackFloats(cell.Blob)
			if err != nil {
				return nil, apperrors.NewStorageError(
					fmt.Sprintf("column %s row %d holds a malformed buffer", col, i), err)
			}
			row[col] = table.TextCell(summarizeValues(values))
		}
	}
	return out, nil
}

func summarizeValues(values []float64) string {
	return fmt.Sprintf("Array[%d] - Mean: %.3e, Std: %.3e",
		len(values), stat.Mean(values, nil), stat.PopStdDev(values, nil))
}
