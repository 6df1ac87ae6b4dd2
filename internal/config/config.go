// Package config loads server configuration from defaults, an optional YAML
// file, and environment variables, in that order of precedence (last wins).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/signature-tools-mcp/internal/detection"
	"github.com/ironsheep/signature-tools-mcp/internal/imaging"
	"github.com/ironsheep/signature-tools-mcp/internal/source"
)

// Environment variables recognised by Load.
const (
	EnvConfigPath  = "SIGNATURE_MCP_CONFIG"
	EnvLogLevel    = "SIGNATURE_MCP_LOG_LEVEL"
	EnvWorkers     = "SIGNATURE_MCP_WORKERS"
	EnvPDFDPI      = "SIGNATURE_MCP_PDF_DPI"
	EnvOCRLanguage = "SIGNATURE_MCP_OCR_LANGUAGE"
)

// Config is the complete server configuration.
type Config struct {
	// LogLevel is a logrus level name: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// Workers bounds concurrent crops in batch extraction (0 = unlimited).
	Workers int `yaml:"workers"`

	// PDFDPI is the resolution PDF pages are rasterized at.
	PDFDPI int `yaml:"pdf_dpi"`

	// OCRLanguage is the Tesseract language for the OCR locator.
	OCRLanguage string `yaml:"ocr_language"`

	// OCRMaxConfidence is the default word-confidence ceiling for the OCR
	// locator; words recognised more confidently are printed text.
	OCRMaxConfidence float64 `yaml:"ocr_max_confidence"`

	// Processing are the crop settings used when a request supplies none.
	Processing imaging.Settings `yaml:"processing"`

	// Detection tunes the region detection engine.
	Detection detection.Options `yaml:"detection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:         "info",
		Workers:          4,
		PDFDPI:           source.DefaultDPI,
		OCRLanguage:      "eng",
		OCRMaxConfidence: 0.6,
		Processing:       imaging.DefaultSettings(),
		Detection:        detection.DefaultOptions(),
	}
}

// Load builds the configuration. path may be empty, in which case
// SIGNATURE_MCP_CONFIG is consulted; if neither names a file only defaults
// and environment overrides apply. Fields missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.OCRLanguage = getEnv(EnvOCRLanguage, c.OCRLanguage)

	var err error
	if c.Workers, err = getEnvInt(EnvWorkers, c.Workers); err != nil {
		return err
	}
	if c.PDFDPI, err = getEnvInt(EnvPDFDPI, c.PDFDPI); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if err := c.Processing.Validate(); err != nil {
		return fmt.Errorf("processing: %w", err)
	}
	if err := c.Detection.Validate(); err != nil {
		return fmt.Errorf("detection: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.PDFDPI <= 0 {
		return fmt.Errorf("pdf_dpi must be positive, got %d", c.PDFDPI)
	}
	if c.OCRMaxConfidence < 0 || c.OCRMaxConfidence > 1 {
		return fmt.Errorf("ocr_max_confidence %g outside [0,1]", c.OCRMaxConfidence)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
