package sinton

// Config carries the measurement-processing parameters.
type Config struct {
	// GridPoints is the shared load-voltage grid size every measurement
	// is resampled onto.
	GridPoints int
	// ReferenceIntensity is the one-sun irradiance in mW/cm2.
	ReferenceIntensity float64
	// SeriesResistance is the cabling resistance in ohm used for the
	// voltage correction.
	SeriesResistance float64
}

// DefaultConfig returns the standard test-bench parameters.
func DefaultConfig() Config {
	return Config{
		GridPoints:         128,
		ReferenceIntensity: 100,
		SeriesResistance:   0,
	}
}
