// Package config loads capture configuration from a YAML file, with
// environment overrides applied on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	capture "github.com/Istiakmorsalin/Signal-iOS"
)

// AudioPolicy decides what a denied audio-activity token means for video
// recording.
type AudioPolicy string

// Audio policies.
const (
	// AudioOptional proceeds with a silent recording when the token is
	// denied. The denial is still reported.
	AudioOptional AudioPolicy = "optional"

	// AudioRequired fails the begin-video flow when the token is denied.
	AudioRequired AudioPolicy = "required"
)

// Config holds the capture session configuration.
type Config struct {
	// MinimumZoom and MaximumZoom bound the user-visible zoom factor.
	MinimumZoom float64 `yaml:"minimum_zoom"`
	MaximumZoom float64 `yaml:"maximum_zoom"`

	// InitialPosition is the camera the session starts with: "back" or
	// "front".
	InitialPosition string `yaml:"initial_position"`

	// PreferredCodec constrains movie encoding to a broadly-compatible
	// codec.
	PreferredCodec string `yaml:"preferred_codec"`

	// AudioPolicy decides whether denied audio blocks video recording.
	AudioPolicy AudioPolicy `yaml:"audio_policy"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// MetricsAddr, if set, serves Prometheus metrics on this address.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		MinimumZoom:     capture.DefaultZoomRange.Min,
		MaximumZoom:     capture.DefaultZoomRange.Max,
		InitialPosition: "back",
		PreferredCodec:  "h264",
		AudioPolicy:     AudioOptional,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnv reads a .env file into the process environment, if one exists.
// A missing file is not an error worth stopping for; callers typically
// ignore the result.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// ApplyEnv overrides fields from CAPTURE_* environment variables.
func (c *Config) ApplyEnv() {
	c.MinimumZoom = envFloat("CAPTURE_MINIMUM_ZOOM", c.MinimumZoom)
	c.MaximumZoom = envFloat("CAPTURE_MAXIMUM_ZOOM", c.MaximumZoom)
	c.InitialPosition = envString("CAPTURE_INITIAL_POSITION", c.InitialPosition)
	c.PreferredCodec = envString("CAPTURE_PREFERRED_CODEC", c.PreferredCodec)
	c.AudioPolicy = AudioPolicy(envString("CAPTURE_AUDIO_POLICY", string(c.AudioPolicy)))
	c.LogLevel = envString("CAPTURE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envString("CAPTURE_LOG_FORMAT", c.LogFormat)
	c.MetricsAddr = envString("CAPTURE_METRICS_ADDR", c.MetricsAddr)
}

// Validate checks field consistency.
func (c Config) Validate() error {
	if c.MinimumZoom <= 0 || c.MaximumZoom < c.MinimumZoom {
		return fmt.Errorf("invalid zoom range [%v, %v]", c.MinimumZoom, c.MaximumZoom)
	}
	switch c.InitialPosition {
	case "back", "front":
	default:
		return fmt.Errorf("invalid initial_position %q, need back or front", c.InitialPosition)
	}
	switch c.AudioPolicy {
	case AudioOptional, AudioRequired:
	default:
		return fmt.Errorf("invalid audio_policy %q, need optional or required", c.AudioPolicy)
	}
	return nil
}

// ZoomRange returns the configured zoom bounds.
func (c Config) ZoomRange() capture.ZoomRange {
	return capture.ZoomRange{Min: c.MinimumZoom, Max: c.MaximumZoom}
}

// Position returns the configured initial camera position.
func (c Config) Position() capture.Position {
	if c.InitialPosition == "front" {
		return capture.PositionFront
	}
	return capture.PositionBack
}

func envString(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return fallback
}
