package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
	"github.com/samborg-dev/darts-fair-workflows/internal/table"
)

func TestWriteWorkbook(t *testing.T) {
	el := table.New()
	el.Append(table.Row{"module_id": table.TextCell("M1")})

	iv := table.New()
	iv.Append(table.Row{"module_id": table.TextCell("M2"), "cycle": table.TextCell("1")})

	path := filepath.Join(t.TempDir(), "reports", "combined.xlsx")
	require.NoError(t, WriteWorkbook(path, map[string]*table.Table{
		"el_image_data": el,
		"sinton_data":   iv,
	}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"el_image_data", "sinton_data"}, f.GetSheetList())

	rows, err := f.GetRows("el_image_data")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"module_id"}, rows[0])
	assert.Equal(t, []string{"M1"}, rows[1])

	rows, err = f.GetRows("sinton_data")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"cycle", "module_id"}, rows[0])
	assert.Equal(t, []string{"1", "M2"}, rows[1])
}

func TestWriteWorkbookRejectsBuffers(t *testing.T) {
	tbl := table.New()
	tbl.Append(table.Row{"isc_array_raw": table.BlobCell([]byte{1})})

	err := WriteWorkbook(filepath.Join(t.TempDir(), "bad.xlsx"), map[string]*table.Table{"data": tbl})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
