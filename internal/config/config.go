// Package config defines service configuration and its defaults.
//
// Conventions:
//   - New(ctx) returns a Config holding every default.
//   - Load layers a YAML file and SKILLWHEEL_ environment variables on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/skillwheel/internal/domain/curve"
)

// Log formats understood by the logger.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath points at a .json, .yaml or .toml dataset. Empty serves
	// the embedded sample.
	DatasetPath string `koanf:"dataset_path"`

	// WatchDataset reloads DatasetPath when it changes on disk.
	WatchDataset bool `koanf:"watch_dataset"`

	// WatchDebounceMS waits for writes to settle before reloading.
	WatchDebounceMS int `koanf:"watch_debounce_ms"`

	// Canvas and ring geometry.
	CanvasWidth  int     `koanf:"canvas_width"`
	CanvasHeight int     `koanf:"canvas_height"`
	CenterX      float64 `koanf:"center_x"`
	CenterY      float64 `koanf:"center_y"`
	Radius       float64 `koanf:"radius"`

	// HighlightStyle is sbend or quadratic.
	HighlightStyle string `koanf:"highlight_style"`

	// DimUnselected dims nodes unrelated to the selection.
	DimUnselected bool `koanf:"dim_unselected"`

	// Relation colours.
	MainColor    string `koanf:"main_color"`
	OtherColor   string `koanf:"other_color"`
	NeutralColor string `koanf:"neutral_color"`

	// ClickQueueSize bounds pending redraw triggers.
	ClickQueueSize int `koanf:"click_queue_size"`

	// MaxSessions bounds viewer sessions held in memory.
	MaxSessions int `koanf:"max_sessions"`

	// Per live connection click rate.
	WSClicksPerSecond float64 `koanf:"ws_clicks_per_second"`
	WSClickBurst      int     `koanf:"ws_click_burst"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         LogFormatText,
		Addr:              ":9080",
		WatchDebounceMS:   1000,
		CanvasWidth:       1920,
		CanvasHeight:      1000,
		CenterX:           960,
		CenterY:           450,
		Radius:            350,
		HighlightStyle:    string(curve.StyleSBend),
		DimUnselected:     true,
		MainColor:         "orange",
		OtherColor:        "purple",
		NeutralColor:      "#ADADAD",
		ClickQueueSize:    1024,
		MaxSessions:       10_000,
		WSClicksPerSecond: 20,
		WSClickBurst:      40,
	}
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Radius <= 0:
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfig, c.Radius)
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas must be positive, got %dx%d", ErrInvalidConfig, c.CanvasWidth, c.CanvasHeight)
	case c.ClickQueueSize <= 0:
		return fmt.Errorf("%w: click_queue_size must be positive", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	if _, err := curve.ParseStyle(c.HighlightStyle); err != nil {
		return fmt.Errorf("%w: highlight_style: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Style returns the parsed highlight style. Call after Validate.
func (c *Config) Style() curve.Style {
	s, err := curve.ParseStyle(c.HighlightStyle)
	if err != nil {
		return curve.StyleSBend
	}
	return s
}
