package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/wapinheiro/money/internal/capture"
	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/gesture"
	"github.com/wapinheiro/money/internal/haptics"
)

// Default file locations.
const (
	DefaultDatabasePath = "~/.local/share/money/money.db"
	DefaultLogFile      = "~/.local/share/money/money.log"
)

// Settings is the resolved application configuration.
type Settings struct {
	Database     DatabaseSettings
	Logging      LoggingSettings
	Presentation PresentationSettings
	Haptics      haptics.Mode
	Wheel        WheelSettings
	Capture      CaptureSettings
}

// DatabaseSettings locates the SQLite file.
type DatabaseSettings struct {
	Path string
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string
	Format string
	File   string // Used while the capture screen owns the terminal
}

// WheelSettings tunes the rotary gesture engine.
type WheelSettings struct {
	SelectionThresholdDeg   float64
	NavigationThresholdDeg  float64
	Decay                   float64
	StopEpsilon             float64
	TapThresholdDeg         float64
	FeedbackVelocity        float64
	InertiaFeedbackVelocity float64
	FrameInterval           time.Duration
}

// PresentationSettings enables the frame broadcast server when WSAddr is set.
type PresentationSettings struct {
	WSAddr string
}

// CaptureSettings controls the capture session lifecycle.
type CaptureSettings struct {
	CloseOnSave bool
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	wheel := gesture.DefaultWheelConfig()

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", DefaultLogFile)
	v.SetDefault("wheel.selection_threshold_deg", gesture.SelectionThresholdDeg)
	v.SetDefault("wheel.navigation_threshold_deg", gesture.NavigationThresholdDeg)
	v.SetDefault("wheel.decay", wheel.Inertia.Decay)
	v.SetDefault("wheel.stop_epsilon", wheel.Inertia.StopEpsilon)
	v.SetDefault("wheel.tap_threshold_deg", wheel.TapThresholdDeg)
	v.SetDefault("wheel.feedback_velocity", wheel.FeedbackVelocity)
	v.SetDefault("wheel.inertia_feedback_velocity", wheel.InertiaFeedbackVelocity)
	v.SetDefault("wheel.frame_interval", 16*time.Millisecond)
	v.SetDefault("haptics.mode", string(haptics.ModeAuto))
	v.SetDefault("presentation.ws_addr", "")
	v.SetDefault("capture.close_on_save", false)
}

// Load reads settings from v, applying defaults for unset keys, and
// validates them.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	s := &Settings{
		Database: DatabaseSettings{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Logging: LoggingSettings{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
		Wheel: WheelSettings{
			SelectionThresholdDeg:   v.GetFloat64("wheel.selection_threshold_deg"),
			NavigationThresholdDeg:  v.GetFloat64("wheel.navigation_threshold_deg"),
			Decay:                   v.GetFloat64("wheel.decay"),
			StopEpsilon:             v.GetFloat64("wheel.stop_epsilon"),
			TapThresholdDeg:         v.GetFloat64("wheel.tap_threshold_deg"),
			FeedbackVelocity:        v.GetFloat64("wheel.feedback_velocity"),
			InertiaFeedbackVelocity: v.GetFloat64("wheel.inertia_feedback_velocity"),
			FrameInterval:           v.GetDuration("wheel.frame_interval"),
		},
		Haptics: haptics.Mode(v.GetString("haptics.mode")),
		Presentation: PresentationSettings{
			WSAddr: v.GetString("presentation.ws_addr"),
		},
		Capture: CaptureSettings{
			CloseOnSave: v.GetBool("capture.close_on_save"),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	if s.Database.Path == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		return err
	}
	switch s.Logging.Format {
	case "text", "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", common.ErrInvalidConfig, s.Logging.Format)
	}

	w := s.Wheel
	positive := map[string]float64{
		"wheel.selection_threshold_deg":   w.SelectionThresholdDeg,
		"wheel.navigation_threshold_deg":  w.NavigationThresholdDeg,
		"wheel.stop_epsilon":              w.StopEpsilon,
		"wheel.tap_threshold_deg":         w.TapThresholdDeg,
		"wheel.feedback_velocity":         w.FeedbackVelocity,
		"wheel.inertia_feedback_velocity": w.InertiaFeedbackVelocity,
	}
	for key, value := range positive {
		if value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", common.ErrInvalidConfig, key, value)
		}
	}
	if w.Decay <= 0 || w.Decay >= 1 {
		return fmt.Errorf("%w: wheel.decay must be between 0 and 1, got %v", common.ErrInvalidConfig, w.Decay)
	}
	if w.FrameInterval <= 0 {
		return fmt.Errorf("%w: wheel.frame_interval must be positive", common.ErrInvalidConfig)
	}

	switch s.Haptics {
	case haptics.ModeAuto, haptics.ModeBell, haptics.ModeOff:
	default:
		return fmt.Errorf("%w: haptics.mode %q", common.ErrInvalidConfig, s.Haptics)
	}
	return nil
}

// WheelConfig converts the wheel settings for the gesture engine.
func (s *Settings) WheelConfig() gesture.WheelConfig {
	return gesture.WheelConfig{
		Inertia: gesture.InertiaConfig{
			Decay:       s.Wheel.Decay,
			StopEpsilon: s.Wheel.StopEpsilon,
		},
		TickThresholdDeg:        s.Wheel.SelectionThresholdDeg,
		TapThresholdDeg:         s.Wheel.TapThresholdDeg,
		FeedbackVelocity:        s.Wheel.FeedbackVelocity,
		InertiaFeedbackVelocity: s.Wheel.InertiaFeedbackVelocity,
	}
}

// CaptureConfig converts the detent spacing for the capture controller.
func (s *Settings) CaptureConfig() capture.Config {
	cfg := capture.DefaultConfig()
	cfg.SelectionThresholdDeg = s.Wheel.SelectionThresholdDeg
	cfg.NavigationThresholdDeg = s.Wheel.NavigationThresholdDeg
	return cfg
}

// LogDir returns the directory holding the log file.
func (s *Settings) LogDir() string {
	return filepath.Dir(s.Logging.File)
}
