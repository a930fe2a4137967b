// Package config loads settings for the purify command.
//
// Configuration comes from a single file named by the --config flag or the
// PURIFY_CONFIG environment variable. YAML (.yaml, .yml) and TOML (.toml)
// are accepted. There is no automatic discovery; without a file the
// defaults apply and flags override either.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "PURIFY_CONFIG"

// Naming policies for purified output files.
const (
	// NamingTimestamp produces purified_file_<unix-ms>.<ext>.
	NamingTimestamp = "timestamp"
	// NamingSource produces <source-stem>.purified.<ext>.
	NamingSource = "source"
)

// Report sidecar encodings.
const (
	ReportNone = "none"
	ReportJSON = "json"
	ReportCBOR = "cbor"
)

// Quarantine compression codecs.
const (
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// Config holds every tunable of the purify command.
type Config struct {
	// Workers bounds the number of files purified concurrently.
	Workers int `yaml:"workers" toml:"workers"`

	// MaxFileSize is the largest input accepted, in bytes.
	// Default: 100 MiB
	MaxFileSize int64 `yaml:"max_file_size" toml:"max_file_size"`

	// OutputDir receives purified files and sidecars.
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// Naming is "timestamp" or "source".
	Naming string `yaml:"naming" toml:"naming"`

	// Report is "none", "json" or "cbor".
	Report string `yaml:"report" toml:"report"`

	// Quarantine keeps the stripped segments in a compressed sidecar.
	Quarantine bool `yaml:"quarantine" toml:"quarantine"`

	// QuarantineCompression is "zstd" or "lz4".
	QuarantineCompression string `yaml:"quarantine_compression" toml:"quarantine_compression"`

	// HexPreviewBytes, when positive, prints a hex view of that many
	// leading bytes of each input with removed ranges highlighted.
	HexPreviewBytes int `yaml:"hex_preview_bytes" toml:"hex_preview_bytes"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workers:               4,
		MaxFileSize:           100 * 1024 * 1024,
		OutputDir:             ".",
		Naming:                NamingTimestamp,
		Report:                ReportNone,
		QuarantineCompression: CompressionZstd,
		LogLevel:              "warn",
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read purify configuration file")
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode YAML config")
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML config")
		}
	default:
		return nil, errors.Errorf("unsupported config file extension %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by PURIFY_CONFIG, or returns the defaults
// when the variable is unset.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects out-of-range values.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxFileSize < 1 {
		return errors.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	switch c.Naming {
	case NamingTimestamp, NamingSource:
	default:
		return errors.Errorf("unknown naming %q", c.Naming)
	}
	switch c.Report {
	case ReportNone, ReportJSON, ReportCBOR:
	default:
		return errors.Errorf("unknown report format %q", c.Report)
	}
	switch c.QuarantineCompression {
	case CompressionZstd, CompressionLZ4:
	default:
		return errors.Errorf("unknown quarantine compression %q", c.QuarantineCompression)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.HexPreviewBytes < 0 {
		return errors.Errorf("hex_preview_bytes must not be negative, got %d", c.HexPreviewBytes)
	}
	return nil
}
