package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samborg-dev/darts-fair-workflows/internal/table"
)

// FormatOptions configures display formatting.
type FormatOptions struct {
	// DecimalPlaces is the fixed precision numeric columns are
	// re-rendered to.
	DecimalPlaces int
	// DateFormats are the candidate layouts date columns are parsed
	// with, tried in order.
	DateFormats []string
	// NoDateMarker replaces date values no layout could parse.
	NoDateMarker string
	// MaxColWidth clips cells in text rendering.
	MaxColWidth int
}

// DefaultFormatOptions returns the display conventions the lab reports
// use.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		DecimalPlaces: 3,
		DateFormats: []string{
			"20060102",
			"2006-01-02",
			"02/01/2006",
			"01/02/2006",
			"20060102 15:04:05",
			"2006-01-02 15:04:05",
			"2006:01:02 15:04:05",
		},
		NoDateMarker: "no date",
		MaxColWidth:  30,
	}
}

// FormatTable clones a table into its display form. Columns named
// like dates are reparsed through the candidate layouts, numeric
// columns are re-rendered to fixed precision, array summary columns
// keep their text. The result is display-only: raw values do not
// survive the round trip.
func FormatTable(t *table.Table, opts FormatOptions) *table.Table {
	out := t.Clone()
	for _, col := range out.Columns() {
		lower := strings.ToLower(col)
		switch {
		case strings.Contains(lower, "date") || strings.Contains(lower, "time"):
			formatDateColumn(out, col, opts)
		case strings.Contains(lower, "array"):
		case isNumericColumn(out, col):
			formatNumericColumn(out, col, opts.DecimalPlaces)
		}
	}
	return out
}

func formatDateColumn(t *table.Table, col string, opts FormatOptions) {
	for i := 0; i < t.Len(); i++ {
		cell, ok := t.Cell(i, col)
		if !ok || cell.IsBlob() {
			continue
		}
		t.Row(i)[col] = table.TextCell(reformatDate(cell.Text, opts))
	}
}

// reformatDate renders the first layout match in ISO form, with the
// clock kept when the matching layout carried one.
func reformatDate(value string, opts FormatOptions) string {
	value = strings.TrimSpace(value)
	for _, layout := range opts.DateFormats {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if strings.Contains(layout, "15:04:05") {
			return parsed.Format("2006-01-02 15:04:05")
		}
		return parsed.Format("2006-01-02")
	}
	return opts.NoDateMarker
}

// isNumericColumn reports whether every present cell parses as a
// float. Columns with no present cells are not numeric.
func isNumericColumn(t *table.Table, col string) bool {
	present := 0
	for i := 0; i < t.Len(); i++ {
		cell, ok := t.Cell(i, col)
		if !ok {
			continue
		}
		if cell.IsBlob() {
			return false
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell.Text), 64); err != nil {
			return false
		}
		present++
	}
	return present > 0
}

func formatNumericColumn(t *table.Table, col string, decimalPlaces int) {
	for i := 0; i < t.Len(); i++ {
		cell, ok := t.Cell(i, col)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell.Text), 64)
		if err != nil {
			continue
		}
		t.Row(i)[col] = table.TextCell(fmt.Sprintf("%.*f", decimalPlaces, v))
	}
}

// RenderText writes a fixed-width text rendering of the table, cells
// clipped to MaxColWidth, for terminal inspection.
func RenderText(w io.Writer, t *table.Table, opts FormatOptions) error {
	cols := t.Columns()
	if len(cols) == 0 {
		return nil
	}

	header := make([]string, len(cols))
	widths := make([]int, len(cols))
	for j, col := range cols {
		header[j] = clip(col, opts.MaxColWidth)
		widths[j] = len([]rune(header[j]))
	}

	rows := make([][]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		rows[i] = make([]string, len(cols))
		for j, col := range cols {
			text := ""
			if cell, ok := t.Cell(i, col); ok {
				if cell.IsBlob() {
					text = fmt.Sprintf("<%d bytes>", len(cell.Blob))
				} else {
					text = cell.Text
				}
			}
			text = clip(text, opts.MaxColWidth)
			rows[i][j] = text
			if n := len([]rune(text)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	if err := writeTextRow(w, header, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeTextRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeTextRow(w io.Writer, fields []string, widths []int) error {
	var sb strings.Builder
	for j, field := range fields {
		if j > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(field)
		for n := len([]rune(field)); n < widths[j]; n++ {
			sb.WriteByte(' ')
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	return err
}

func clip(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
