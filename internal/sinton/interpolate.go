package sinton

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
)

// ArrayColumns lists the packed-buffer column names a measurement
// contributes to the aggregate table, in table order.
var ArrayColumns = []string{
	"isc_array_raw",
	"isc_array_interp",
	"intensity_array",
	"voc_array_raw",
	"voc_array_interp",
	"vload_array",
	"vload_array_interp",
}

// InterpolatedMeasurement holds the packed result buffers of one
// measurement, keyed by the ArrayColumns names. Raw buffers keep the
// measured sample count, the _interp buffers the configured grid size.
// Treated as immutable once built.
type InterpolatedMeasurement struct {
	Buffers map[string][]byte
}

// InterpolateLoadData resamples a corrected measurement onto a uniform
// load-voltage grid of cfg.GridPoints spanning the measured ramp. The
// ramp must be strictly monotonic; decreasing ramps are reversed
// before fitting. Violations fail with an INTERPOLATION error.
func InterpolateLoadData(corrected CorrectedMeasurement, cfg Config) (InterpolatedMeasurement, error) {
	if cfg.GridPoints < 2 {
		return InterpolatedMeasurement{}, apperrors.NewInterpolationError(
			fmt.Sprintf("grid needs at least 2 points, got %d", cfg.GridPoints), nil)
	}
	n := corrected.Samples()
	if n < 2 {
		return InterpolatedMeasurement{}, apperrors.NewInterpolationError(
			fmt.Sprintf("need at least 2 samples to interpolate, got %d", n), nil)
	}

	load := corrected.Load
	current := corrected.Current
	voltage := corrected.Voltage
	switch monotonicDirection(load) {
	case 1:
	case -1:
		load = reversed(load)
		current = reversed(current)
		voltage = reversed(voltage)
	default:
		return InterpolatedMeasurement{}, apperrors.NewInterpolationError(
			"load ramp is not strictly monotonic", nil)
	}

	var currentFit, voltageFit interp.PiecewiseLinear
	if err := currentFit.Fit(load, current); err != nil {
		return InterpolatedMeasurement{}, apperrors.NewInterpolationError(
			"failed to fit current against the load ramp", err)
	}
	if err := voltageFit.Fit(load, voltage); err != nil {
		return InterpolatedMeasurement{}, apperrors.NewInterpolationError(
			"failed to fit voltage against the load ramp", err)
	}

	grid := uniformGrid(load[0], load[len(load)-1], cfg.GridPoints)
	currentInterp := make([]float64, len(grid))
	voltageInterp := make([]float64, len(grid))
	for i, x := range grid {
		currentInterp[i] = currentFit.Predict(x)
		voltageInterp[i] = voltageFit.Predict(x)
	}

	return InterpolatedMeasurement{Buffers: map[string][]byte{
		"isc_array_raw":      PackFloats(corrected.Current),
		"isc_array_interp":   PackFloats(currentInterp),
		"intensity_array":    PackFloats(corrected.Intensity),
		"voc_array_raw":      PackFloats(corrected.Voltage),
		"voc_array_interp":   PackFloats(voltageInterp),
		"vload_array":        PackFloats(corrected.Load),
		"vload_array_interp": PackFloats(grid),
	}}, nil
}

// uniformGrid spans [min, max] with n evenly spaced points. The last
// point is pinned to max so rounding never pushes it past the fitted
// domain.
func uniformGrid(min, max float64, n int) []float64 {
	grid := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range grid {
		grid[i] = min + float64(i)*step
	}
	grid[n-1] = max
	return grid
}

// monotonicDirection returns 1 for strictly increasing, -1 for
// strictly decreasing, 0 otherwise.
func monotonicDirection(s []float64) int {
	increasing, decreasing := true, true
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			increasing = false
		}
		if s[i] >= s[i-1] {
			decreasing = false
		}
	}
	switch {
	case increasing:
		return 1
	case decreasing:
		return -1
	default:
		return 0
	}
}

func reversed(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// PackFloats encodes values as little-endian float64 bytes, the layout
// numpy's tobytes() produces for a float64 array.
func PackFloats(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// UnpackFloats decodes a PackFloats buffer.
func UnpackFloats(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of 8", len(buf))
	}
	values := make([]float64, len(buf)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return values, nil
}
