package sinton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
)

func TestCorrectRawData(t *testing.T) {
	raw := RawMeasurement{
		Current:   []float64{2, 4},
		Voltage:   []float64{0.5, 0.6},
		Intensity: []float64{50, 200},
		Load:      []float64{0.1, 0.2},
	}
	cfg := Config{ReferenceIntensity: 100, SeriesResistance: 0.05}

	got, err := CorrectRawData(raw, cfg)
	require.NoError(t, err)

	// 50 mW/cm2 is half a sun, 200 is two suns.
	assert.InDeltaSlice(t, []float64{4, 2}, got.Current, 1e-12)
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, got.Voltage, 1e-12)
	assert.Equal(t, raw.Intensity, got.Intensity)
	assert.Equal(t, raw.Load, got.Load)
}

func TestCorrectRawDataZeroSeriesResistance(t *testing.T) {
	raw := RawMeasurement{
		Current:   []float64{1},
		Voltage:   []float64{0.7},
		Intensity: []float64{100},
		Load:      []float64{0},
	}

	got, err := CorrectRawData(raw, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, got.Current)
	assert.Equal(t, []float64{0.7}, got.Voltage)
}

func TestCorrectRawDataLeavesInputUnchanged(t *testing.T) {
	raw := RawMeasurement{
		Current:   []float64{2},
		Voltage:   []float64{0.5},
		Intensity: []float64{50},
		Load:      []float64{0.1},
	}

	_, err := CorrectRawData(raw, Config{ReferenceIntensity: 100, SeriesResistance: 1})
	require.NoError(t, err)

	assert.Equal(t, []float64{2}, raw.Current)
	assert.Equal(t, []float64{0.5}, raw.Voltage)
}

func TestCorrectRawDataZeroIntensity(t *testing.T) {
	raw := RawMeasurement{
		Current:   []float64{1, 2},
		Voltage:   []float64{0.5, 0.6},
		Intensity: []float64{100, 0},
		Load:      []float64{0.1, 0.2},
	}

	_, err := CorrectRawData(raw, DefaultConfig())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNumeric))
	assert.Contains(t, err.Error(), "sample 1")
}

func TestCorrectRawDataNonFiniteResult(t *testing.T) {
	// The sun normalization overflows float64 range.
	raw := RawMeasurement{
		Current:   []float64{1e308},
		Voltage:   []float64{0.5},
		Intensity: []float64{1e-300},
		Load:      []float64{0.1},
	}

	_, err := CorrectRawData(raw, DefaultConfig())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNumeric))
	assert.Contains(t, err.Error(), "sample 0")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 128, cfg.GridPoints)
	assert.Equal(t, 100.0, cfg.ReferenceIntensity)
	assert.Equal(t, 0.0, cfg.SeriesResistance)
}
