package sinton

import (
	"fmt"
	"math"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
)

// CorrectedMeasurement holds the deterministic per-sample corrections
// of a raw measurement. Current is normalized to one sun, Voltage is
// compensated for the series resistance of the test leads, Intensity
// and Load pass through unchanged.
type CorrectedMeasurement struct {
	Current   []float64
	Voltage   []float64
	Intensity []float64
	Load      []float64
}

// Samples returns the number of data rows.
func (m CorrectedMeasurement) Samples() int { return len(m.Load) }

// CorrectRawData applies the sun-normalization and series-resistance
// corrections. It is pure: no I/O, and the input is never modified.
// A zero-intensity sample or a non-finite result fails with a NUMERIC
// error naming the sample index.
func CorrectRawData(raw RawMeasurement, cfg Config) (CorrectedMeasurement, error) {
	n := raw.Samples()
	out := CorrectedMeasurement{
		Current:   make([]float64, n),
		Voltage:   make([]float64, n),
		Intensity: make([]float64, n),
		Load:      make([]float64, n),
	}

	for i := 0; i < n; i++ {
		if raw.Intensity[i] == 0 {
			return CorrectedMeasurement{}, apperrors.NewNumericError(
				fmt.Sprintf("zero intensity at sample %d", i), nil)
		}
		suns := raw.Intensity[i] / cfg.ReferenceIntensity
		current := raw.Current[i] / suns
		voltage := raw.Voltage[i] + raw.Current[i]*cfg.SeriesResistance
		if !isFinite(suns) || !isFinite(current) || !isFinite(voltage) {
			return CorrectedMeasurement{}, apperrors.NewNumericError(
				fmt.Sprintf("non-finite correction result at sample %d", i), nil)
		}

		out.Current[i] = current
		out.Voltage[i] = voltage
		out.Intensity[i] = raw.Intensity[i]
		out.Load[i] = raw.Load[i]
	}
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
