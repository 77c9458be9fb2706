package tui

import (
	"context"
	"time"

	"github.com/wapinheiro/money/internal/capture"
	"github.com/wapinheiro/money/internal/gesture"
	"github.com/wapinheiro/money/internal/haptics"
	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/service"
	"github.com/wapinheiro/money/internal/tui/themes"
)

// Predictor guesses the fields of a new capture.
type Predictor interface {
	Predict(ctx context.Context) (model.Prediction, error)
}

// Publisher receives every presentation frame, e.g. a broadcast hub.
type Publisher interface {
	Publish(v any) error
}

// Config holds TUI configuration.
type Config struct {
	Theme         themes.Theme
	Storage       service.Storage
	Predictor     Predictor
	Pulser        haptics.Pulser
	Publisher     Publisher
	Capture       capture.Config
	Wheel         gesture.WheelConfig
	FrameInterval time.Duration
	StoreTimeout  time.Duration
	Width         int
	Height        int
	CloseOnSave   bool
	ShowHelp      bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:         themes.Default,
		Pulser:        haptics.Noop{},
		Capture:       capture.DefaultConfig(),
		Wheel:         gesture.DefaultWheelConfig(),
		FrameInterval: 16 * time.Millisecond,
		StoreTimeout:  10 * time.Second,
		Width:         80,
		Height:        24,
	}
}

// WithStorage sets the storage service.
func WithStorage(storage service.Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithPredictor sets the field predictor. Without one, predictions are
// computed from storage.
func WithPredictor(p Predictor) Option {
	return func(c *Config) {
		c.Predictor = p
	}
}

// WithPulser sets the haptic output.
func WithPulser(p haptics.Pulser) Option {
	return func(c *Config) {
		if p != nil {
			c.Pulser = p
		}
	}
}

// WithPublisher streams every frame to p.
func WithPublisher(p Publisher) Option {
	return func(c *Config) {
		c.Publisher = p
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithWheel tunes the rotary input.
func WithWheel(cfg gesture.WheelConfig, frameInterval time.Duration) Option {
	return func(c *Config) {
		c.Wheel = cfg
		if frameInterval > 0 {
			c.FrameInterval = frameInterval
		}
	}
}

// WithCapture tunes the capture flow.
func WithCapture(cfg capture.Config) Option {
	return func(c *Config) {
		c.Capture = cfg
	}
}

// WithCloseOnSave quits after the first saved transaction.
func WithCloseOnSave(enabled bool) Option {
	return func(c *Config) {
		c.CloseOnSave = enabled
	}
}

// WithStoreTimeout bounds every storage call.
func WithStoreTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.StoreTimeout = d
		}
	}
}
