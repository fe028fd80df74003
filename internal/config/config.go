// Package config centralizes configuration for the soundtag CLI and
// server, loaded from config files, environment variables and flags.
package config

import (
	"fmt"

	"github.com/soundtag-tech/soundtag/internal/render"
)

// Config represents the complete configuration for the soundtag
// application. It covers all commands (encode, decode, render, scan,
// detect, serve) and supports loading from configuration files,
// environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Barcode rendering settings
	Render RenderConfig `mapstructure:"render" yaml:"render" json:"render"`

	// Barcode detection settings
	Detect DetectConfig `mapstructure:"detect" yaml:"detect" json:"detect"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// RenderConfig contains barcode rendering settings.
type RenderConfig struct {
	BarWidth    int    `mapstructure:"bar_width" yaml:"bar_width" json:"bar_width"`
	BarPadding  int    `mapstructure:"bar_padding" yaml:"bar_padding" json:"bar_padding"`
	LogoPadding int    `mapstructure:"logo_padding" yaml:"logo_padding" json:"logo_padding"`
	Height      int    `mapstructure:"height" yaml:"height" json:"height"`
	Background  string `mapstructure:"background" yaml:"background" json:"background"`
	Bar         string `mapstructure:"bar" yaml:"bar" json:"bar"`
	LogoPath    string `mapstructure:"logo_path" yaml:"logo_path" json:"logo_path"`
}

// DetectConfig contains barcode detection settings.
type DetectConfig struct {
	LogoPath          string  `mapstructure:"logo_path" yaml:"logo_path" json:"logo_path"`
	MinLogoConfidence float64 `mapstructure:"min_logo_confidence" yaml:"min_logo_confidence" json:"min_logo_confidence"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	renderDefaults := render.DefaultOptions()
	return &Config{
		LogLevel: "info",
		Render: RenderConfig{
			BarWidth:    renderDefaults.BarWidth,
			BarPadding:  renderDefaults.BarPadding,
			LogoPadding: renderDefaults.LogoPadding,
			Height:      renderDefaults.Height,
			Background:  renderDefaults.Background,
			Bar:         renderDefaults.Bar,
		},
		Detect: DetectConfig{
			MinLogoConfidence: 0.4,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     10,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", c.LogLevel)
	}

	if _, ok := render.Palette[c.Render.Background]; !ok {
		return fmt.Errorf("invalid render.background %q", c.Render.Background)
	}
	if _, ok := render.Palette[c.Render.Bar]; !ok {
		return fmt.Errorf("invalid render.bar %q", c.Render.Bar)
	}
	if c.Render.Background == c.Render.Bar {
		return fmt.Errorf("render.background and render.bar must differ")
	}
	if c.Render.BarWidth <= 0 {
		return fmt.Errorf("render.bar_width must be positive, got %d", c.Render.BarWidth)
	}
	if c.Render.Height <= 0 {
		return fmt.Errorf("render.height must be positive, got %d", c.Render.Height)
	}
	if c.Render.BarPadding < 1 {
		return fmt.Errorf("render.bar_padding must be at least 1, got %d", c.Render.BarPadding)
	}

	if c.Detect.MinLogoConfidence < 0 || c.Detect.MinLogoConfidence > 1 {
		return fmt.Errorf("detect.min_logo_confidence must be in [0,1], got %g", c.Detect.MinLogoConfidence)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("server.timeout_sec must be positive, got %d", c.Server.TimeoutSec)
	}

	return nil
}

// RenderOptions converts the render section to render.Options. The logo
// image, if configured, is loaded by the caller.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		BarWidth:    c.Render.BarWidth,
		BarPadding:  c.Render.BarPadding,
		LogoPadding: c.Render.LogoPadding,
		Height:      c.Render.Height,
		Background:  c.Render.Background,
		Bar:         c.Render.Bar,
	}
}
