package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "osccli/internal/errors"
)

// EnvPrefix is the namespace for all environment variables (OSC_*)
const EnvPrefix = "OSC"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// DataConfig describes where source files live and how their columns are named
type DataConfig struct {
	Dir             string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Patterns        []string `yaml:"patterns" envconfig:"PATTERNS" validate:"min=1,dive,required"`
	TimestampColumn string   `yaml:"timestamp_column" envconfig:"TIMESTAMP_COLUMN" validate:"required"`
	FrequencyColumn string   `yaml:"frequency_column" envconfig:"FREQUENCY_COLUMN" validate:"required"`
	MagnitudeColumn string   `yaml:"magnitude_column" envconfig:"MAGNITUDE_COLUMN" validate:"required"`
}

// PipelineConfig tunes reconstruction and cleaning
type PipelineConfig struct {
	Workers       int           `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	Window        time.Duration `yaml:"window" envconfig:"WINDOW" validate:"min=1s"`
	Interpolation string        `yaml:"interpolation" envconfig:"INTERPOLATION" validate:"oneof=linear time"`
}

// ExportConfig controls where and how per-source views are written
type ExportConfig struct {
	Dir    string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx"`
	BOM    bool   `yaml:"bom" envconfig:"BOM"`
}

// TelemetryConfig controls tracing and metrics output
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	TracePretty bool   `yaml:"trace_pretty" envconfig:"TRACE_PRETTY"` // indent exported spans
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// DefaultPatterns cover both spellings of the station name in every accepted format
var DefaultPatterns = []string{
	"Bhada Oscillation Data_*.xlsx",
	"Bhadla Oscillation Data_*.xlsx",
	"Bhada Oscillation Data_*.xls",
	"Bhadla Oscillation Data_*.xls",
	"Bhada Oscillation Data_*.csv",
	"Bhadla Oscillation Data_*.csv",
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/osccli.log",
		},
		Data: DataConfig{
			Dir:             ".",
			Patterns:        append([]string(nil), DefaultPatterns...),
			TimestampColumn: "STARTDATE",
			FrequencyColumn: "HZ",
			MagnitudeColumn: "VPM",
		},
		Pipeline: PipelineConfig{
			Workers:       1,
			Window:        time.Minute,
			Interpolation: "linear",
		},
		Export: ExportConfig{
			Dir:    "exports",
			Format: "csv",
			BOM:    true,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty path falls back to
// the well-known locations; a missing file there is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConfigError("config file not readable", err)
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML document at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field against its validate tag
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// findConfigFile returns the first config file found in the common locations
func findConfigFile() string {
	locations := []string{
		"osccli.yaml",
		"configs/osccli.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return ""
}

// String renders the effective configuration for debug logging
func (c *Config) String() string {
	return fmt.Sprintf("dir=%s patterns=%d workers=%d window=%s interpolation=%s log=%s/%s",
		c.Data.Dir, len(c.Data.Patterns), c.Pipeline.Workers, c.Pipeline.Window,
		c.Pipeline.Interpolation, c.Logging.Level, c.Logging.Output)
}
