package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendColumnUnion(t *testing.T) {
	tbl := New()
	tbl.Append(Row{"module_id": TextCell("M1"), "cycle": TextCell("250")})
	tbl.Append(Row{"module_id": TextCell("M2"), "pressure": TextCell("840")})

	assert.Equal(t, []string{"cycle", "module_id", "pressure"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())

	c, ok := tbl.Cell(1, "pressure")
	require.True(t, ok)
	assert.Equal(t, "840", c.Text)

	_, ok = tbl.Cell(0, "pressure")
	assert.False(t, ok)
}

func TestAppendZeroValueUsable(t *testing.T) {
	var tbl Table
	tbl.Append(Row{"a": TextCell("1")})
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{"a"}, tbl.Columns())
}

func TestAddConstant(t *testing.T) {
	tbl := New()
	tbl.Append(Row{"module_id": TextCell("M1")})
	tbl.Append(Row{"module_id": TextCell("M2")})
	tbl.AddConstant("camera", "EL_CCD")

	assert.Equal(t, []string{"module_id", "camera"}, tbl.Columns())
	for i := 0; i < tbl.Len(); i++ {
		c, ok := tbl.Cell(i, "camera")
		require.True(t, ok)
		assert.Equal(t, "EL_CCD", c.Text)
	}
}

func TestAddConstantOverwritesExisting(t *testing.T) {
	tbl := New()
	tbl.Append(Row{"camera": TextCell("old")})
	tbl.AddConstant("camera", "EL_CCD")

	assert.Equal(t, []string{"camera"}, tbl.Columns())
	c, _ := tbl.Cell(0, "camera")
	assert.Equal(t, "EL_CCD", c.Text)
}

func TestBlankTextAsMissing(t *testing.T) {
	tbl := New()
	tbl.Append(Row{
		"a": TextCell("value"),
		"b": TextCell("   "),
		"c": TextCell(""),
		"d": BlobCell([]byte{}),
	})
	tbl.BlankTextAsMissing()

	_, ok := tbl.Cell(0, "a")
	assert.True(t, ok)
	_, ok = tbl.Cell(0, "b")
	assert.False(t, ok)
	_, ok = tbl.Cell(0, "c")
	assert.False(t, ok)
	// Empty blob is still a present cell.
	_, ok = tbl.Cell(0, "d")
	assert.True(t, ok)
}

func TestDropIncompleteColumns(t *testing.T) {
	tbl := New()
	tbl.Append(Row{"a": TextCell("1"), "b": TextCell("2")})
	tbl.Append(Row{"a": TextCell("3")})
	tbl.Append(Row{"a": TextCell("4"), "b": TextCell("5")})

	dropped := tbl.DropIncompleteColumns()
	assert.Equal(t, []string{"b"}, dropped)
	assert.Equal(t, []string{"a"}, tbl.Columns())

	for i := 0; i < tbl.Len(); i++ {
		_, ok := tbl.Cell(i, "b")
		assert.False(t, ok)
	}
}

func TestDropIncompleteColumnsComplete(t *testing.T) {
	tbl := New()
	tbl.Append(Row{"a": TextCell("1")})
	tbl.Append(Row{"a": TextCell("2")})

	assert.Empty(t, tbl.DropIncompleteColumns())
	assert.Equal(t, []string{"a"}, tbl.Columns())
}

func TestDropIncompleteColumnsEmptyTable(t *testing.T) {
	tbl := New()
	assert.Nil(t, tbl.DropIncompleteColumns())
}

func TestDropThenAppendReaddsColumn(t *testing.T) {
	tbl := New()
	tbl.Append(Row{"a": TextCell("1"), "b": TextCell("2")})
	tbl.Append(Row{"a": TextCell("3")})
	tbl.DropIncompleteColumns()

	tbl.Append(Row{"a": TextCell("4"), "b": TextCell("5")})
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
}

func TestClone(t *testing.T) {
	tbl := New()
	tbl.Append(Row{"a": TextCell("1"), "buf": BlobCell([]byte{1, 2, 3})})

	cp := tbl.Clone()
	cp.Row(0)["a"] = TextCell("changed")
	cp.Row(0)["buf"].Blob[0] = 99
	cp.AddConstant("extra", "x")

	c, _ := tbl.Cell(0, "a")
	assert.Equal(t, "1", c.Text)
	buf, _ := tbl.Cell(0, "buf")
	assert.Equal(t, []byte{1, 2, 3}, buf.Blob)
	assert.Equal(t, []string{"a", "buf"}, tbl.Columns())
}

func TestCellKinds(t *testing.T) {
	assert.False(t, TextCell("x").IsBlob())
	assert.True(t, BlobCell([]byte{1}).IsBlob())
	assert.True(t, BlobCell([]byte{}).IsBlob())
}
