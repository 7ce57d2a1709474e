package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
)

// Config is the complete application configuration.
type Config struct {
	// Folders are the source folder trees walked for instrument files.
	Folders []string `yaml:"folders" envconfig:"FOLDERS" validate:"dive,required"`
	// DatabasePath is the SQLite file the output tables are handed to.
	// Empty disables the database sink.
	DatabasePath string `yaml:"database_path" envconfig:"DATABASE_PATH"`

	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Sinton  SintonConfig  `yaml:"sinton" envconfig:"SINTON"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// OutputConfig names the flat-file exports.
type OutputConfig struct {
	Dir       string `yaml:"dir" envconfig:"DIR" validate:"required"`
	ImageCSV  string `yaml:"image_csv" envconfig:"IMAGE_CSV" validate:"required"`
	SintonCSV string `yaml:"sinton_csv" envconfig:"SINTON_CSV" validate:"required"`
	// Workbook is an optional xlsx export holding both tables; empty
	// disables it.
	Workbook string `yaml:"workbook" envconfig:"WORKBOOK"`
}

// SintonConfig holds the FMT numeric pipeline settings.
type SintonConfig struct {
	// GridPoints is the fixed length of the interpolated arrays.
	GridPoints int `yaml:"grid_points" envconfig:"GRID_POINTS" validate:"min=2"`
	// ReferenceIntensity is the one-sun irradiance in mW/cm².
	ReferenceIntensity float64 `yaml:"reference_intensity" envconfig:"REFERENCE_INTENSITY" validate:"gt=0"`
	// SeriesResistance is the per-module series resistance in ohm used for
	// voltage compensation. Zero disables the compensation.
	SeriesResistance float64 `yaml:"series_resistance" envconfig:"SERIES_RESISTANCE" validate:"gte=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"required"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:       ".",
			ImageCSV:  "el_image_data.csv",
			SintonCSV: "sinton_data.csv",
		},
		Sinton: SintonConfig{
			GridPoints:         128,
			ReferenceIntensity: 100.0,
			SeriesResistance:   0,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/ingest.log",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides (prefix DARTS), in that precedence order, then
// validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to parse config file", err)
		}
	}

	if err := envconfig.Process("DARTS", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags. Called by Load
// and again by the CLI after flag overrides.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}
