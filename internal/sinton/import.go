package sinton

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
)

// RawMeasurement holds one imported .mfr file: the four parallel data
// columns plus the raw header lines in file order.
type RawMeasurement struct {
	Current   []float64
	Voltage   []float64
	Intensity []float64
	Load      []float64
	Header    []string
}

// Samples returns the number of data rows.
func (m RawMeasurement) Samples() int { return len(m.Load) }

// sampleColumns is the fixed column count of the .mfr data block.
const sampleColumns = 4

// ImportRawData reads a Sinton FMT .mfr file. Lines containing '=' are
// header lines wherever they appear; remaining non-blank lines form
// the data block. Non-numeric lines before the first sample are the
// column caption and are skipped; after data has started they make the
// file malformed.
func ImportRawData(path string) (RawMeasurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawMeasurement{}, fmt.Errorf("failed to open measurement file %s: %w", path, err)
	}
	defer f.Close()

	var m RawMeasurement
	base := filepath.Base(path)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.Contains(line, "=") {
			m.Header = append(m.Header, line)
			continue
		}

		fields := strings.Fields(line)
		values, numeric := parseFloatFields(fields)
		if !numeric {
			if m.Samples() == 0 {
				// Column caption ahead of the data block.
				continue
			}
			return RawMeasurement{}, apperrors.NewFileFormatError(
				fmt.Sprintf("%s: non-numeric line %d inside the data block", base, lineNo), nil)
		}
		if len(values) != sampleColumns {
			return RawMeasurement{}, apperrors.NewFileFormatError(
				fmt.Sprintf("%s: line %d has %d columns, expected %d", base, lineNo, len(values), sampleColumns), nil)
		}

		m.Current = append(m.Current, values[0])
		m.Voltage = append(m.Voltage, values[1])
		m.Intensity = append(m.Intensity, values[2])
		m.Load = append(m.Load, values[3])
	}
	if err := scanner.Err(); err != nil {
		return RawMeasurement{}, fmt.Errorf("failed to read measurement file %s: %w", path, err)
	}

	if m.Samples() == 0 {
		return RawMeasurement{}, apperrors.NewFileFormatError(
			fmt.Sprintf("%s: no data rows found", base), nil)
	}
	return m, nil
}

// parseFloatFields parses every field as a float64, reporting whether
// the whole line was numeric.
func parseFloatFields(fields []string) ([]float64, bool) {
	values := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// ParseHeader turns raw key="value" header lines into a map. Values
// keep their inner content with surrounding quotes and whitespace
// stripped; later duplicates win.
func ParseHeader(lines []string) map[string]string {
	header := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if key == "" {
			continue
		}
		header[key] = value
	}
	return header
}
