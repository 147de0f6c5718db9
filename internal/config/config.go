// Package config loads server and pipeline settings from the environment.
//
// An optional .env file is read first; variables already set in the process
// environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ironsheep/wireframe-mcp/internal/wireframe"
)

// Environment variable names.
const (
	EnvCanonicalWidth  = "WIREFRAME_CANONICAL_WIDTH"
	EnvThreshold       = "WIREFRAME_THRESHOLD"
	EnvBlurRadius      = "WIREFRAME_BLUR_RADIUS"
	EnvMaxCanvasPixels = "WIREFRAME_MAX_CANVAS_PIXELS"
	EnvMinBlobWidth    = "WIREFRAME_MIN_BLOB_WIDTH"
	EnvMinBlobHeight   = "WIREFRAME_MIN_BLOB_HEIGHT"
	EnvMinBlobPixels   = "WIREFRAME_MIN_BLOB_PIXELS"
	EnvOCRLanguage     = "WIREFRAME_OCR_LANGUAGE"
	EnvTessdataPrefix  = "WIREFRAME_TESSDATA_PREFIX"
	EnvLogLevel        = "WIREFRAME_LOG_LEVEL"
)

// DefaultEnvFile is the file Load reads when it exists.
const DefaultEnvFile = ".env"

// Config holds all runtime settings.
type Config struct {
	CanonicalWidth  int
	Threshold       int
	BlurRadius      float64
	MaxCanvasPixels int

	MinBlobWidth  int
	MinBlobHeight int
	MinBlobPixels int

	OCRLanguage    string
	TessdataPrefix string

	LogLevel string
}

// Load reads envFile (if it exists) and then the process environment.
// An empty envFile skips the file step.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment, applying defaults
// for unset variables.
func FromEnv() (*Config, error) {
	defaults := wireframe.DefaultConfig()
	p := &parser{}

	cfg := &Config{
		CanonicalWidth:  p.intOr(EnvCanonicalWidth, defaults.CanonicalWidth),
		Threshold:       p.intOr(EnvThreshold, defaults.Threshold),
		BlurRadius:      p.floatOr(EnvBlurRadius, defaults.BlurRadius),
		MaxCanvasPixels: p.intOr(EnvMaxCanvasPixels, defaults.MaxCanvasPixels),
		MinBlobWidth:    p.intOr(EnvMinBlobWidth, defaults.Blobs.MinWidth),
		MinBlobHeight:   p.intOr(EnvMinBlobHeight, defaults.Blobs.MinHeight),
		MinBlobPixels:   p.intOr(EnvMinBlobPixels, defaults.Blobs.MinPixels),
		OCRLanguage:     getEnvOrDefault(EnvOCRLanguage, defaults.OCR.Language),
		TessdataPrefix:  getEnvOrDefault(EnvTessdataPrefix, ""),
		LogLevel:        getEnvOrDefault(EnvLogLevel, "info"),
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.CanonicalWidth < 1 || c.CanonicalWidth > 10000 {
		return fmt.Errorf("%s must be between 1 and 10000, got %d", EnvCanonicalWidth, c.CanonicalWidth)
	}
	if c.Threshold < 0 || c.Threshold > 256 {
		return fmt.Errorf("%s must be between 0 and 256, got %d", EnvThreshold, c.Threshold)
	}
	if c.BlurRadius < 0 {
		return fmt.Errorf("%s must not be negative, got %g", EnvBlurRadius, c.BlurRadius)
	}
	if c.MaxCanvasPixels < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvMaxCanvasPixels, c.MaxCanvasPixels)
	}
	if c.OCRLanguage == "" {
		return fmt.Errorf("%s must not be empty", EnvOCRLanguage)
	}
	return nil
}

// Pipeline converts the settings into a pipeline configuration.
func (c *Config) Pipeline() wireframe.Config {
	pc := wireframe.DefaultConfig()
	pc.CanonicalWidth = c.CanonicalWidth
	pc.Threshold = c.Threshold
	pc.BlurRadius = c.BlurRadius
	pc.MaxCanvasPixels = c.MaxCanvasPixels
	pc.Blobs.MinWidth = c.MinBlobWidth
	pc.Blobs.MinHeight = c.MinBlobHeight
	pc.Blobs.MinPixels = c.MinBlobPixels
	pc.OCR.Language = c.OCRLanguage
	pc.OCR.TessdataPrefix = c.TessdataPrefix
	return pc
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser records the first malformed numeric variable.
type parser struct {
	err error
}

func (p *parser) intOr(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		p.fail(key, valueStr, err)
		return defaultValue
	}
	return value
}

func (p *parser) floatOr(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		p.fail(key, valueStr, err)
		return defaultValue
	}
	return value
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, value, err)
	}
}
