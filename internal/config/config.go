package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ViewerConfig holds the tuning knobs for the viewer loop and the controller.
type ViewerConfig struct {
	// Tick rate adaptation
	InitialTick  time.Duration `yaml:"initial_tick"`
	MinTick      time.Duration `yaml:"min_tick"`
	MaxTick      time.Duration `yaml:"max_tick"`
	TargetFrame  time.Duration `yaml:"target_frame"`
	TickStepUp   time.Duration `yaml:"tick_step_up"`
	TickStepDown time.Duration `yaml:"tick_step_down"`

	// Graph history length, in samples
	HistorySize int `yaml:"history_size"`
	StartView   int `yaml:"start_view"`

	// Controller
	PollInterval  time.Duration `yaml:"poll_interval"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

const (
	DefaultInitialTick  = 50 * time.Millisecond
	DefaultMinTick      = 16 * time.Millisecond  // ~60fps
	DefaultMaxTick      = 200 * time.Millisecond // 5fps floor
	DefaultTargetFrame  = 33 * time.Millisecond  // ~30fps
	DefaultTickStepUp   = 10 * time.Millisecond
	DefaultTickStepDown = 5 * time.Millisecond
	DefaultHistorySize  = 60
)

// Default returns a configuration with sensible defaults.
func Default() *ViewerConfig {
	return &ViewerConfig{
		InitialTick:  DefaultInitialTick,
		MinTick:      DefaultMinTick,
		MaxTick:      DefaultMaxTick,
		TargetFrame:  DefaultTargetFrame,
		TickStepUp:   DefaultTickStepUp,
		TickStepDown: DefaultTickStepDown,

		HistorySize: DefaultHistorySize,
		StartView:   0,

		PollInterval:  100 * time.Millisecond,
		ShutdownGrace: 2 * time.Second,
	}
}

// Validate checks that the configuration values are usable.
func (c *ViewerConfig) Validate() error {
	if c.MinTick <= 0 {
		return errors.New("min_tick must be positive")
	}
	if c.MaxTick < c.MinTick {
		return errors.New("max_tick cannot be less than min_tick")
	}
	if c.InitialTick < c.MinTick || c.InitialTick > c.MaxTick {
		return errors.Errorf("initial_tick must be within [%s, %s]", c.MinTick, c.MaxTick)
	}
	if c.TargetFrame <= 0 {
		return errors.New("target_frame must be positive")
	}
	if c.TickStepUp <= 0 {
		return errors.New("tick_step_up must be positive")
	}
	if c.TickStepDown <= 0 {
		return errors.New("tick_step_down must be positive")
	}
	if c.HistorySize <= 0 {
		return errors.New("history_size must be positive")
	}
	if c.StartView < 0 {
		return errors.New("start_view cannot be negative")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll_interval must be positive")
	}
	if c.ShutdownGrace <= 0 {
		return errors.New("shutdown_grace must be positive")
	}
	return nil
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
// Keys missing from the file keep their default value.
func Load(path string) (*ViewerConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

const (
	FlagConfig = "config"
	FlagTick   = "tick"
	FlagView   = "view"
	FlagPoll   = "poll"
)

// RegisterFlags adds the config-related flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagConfig, "", "path to a YAML config file")
	fs.Duration(FlagTick, d.InitialTick, "initial tick rate of the viewer")
	fs.Int(FlagView, d.StartView, "index of the view shown at start")
	fs.Duration(FlagPoll, d.PollInterval, "how often the controller polls viewer messages")
}

// FromFlags loads the file named by --config and applies explicitly set flags
// on top of it, then validates the result.
func FromFlags(fs *pflag.FlagSet) (*ViewerConfig, error) {
	path, err := fs.GetString(FlagConfig)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if fs.Changed(FlagTick) {
		if cfg.InitialTick, err = fs.GetDuration(FlagTick); err != nil {
			return nil, err
		}
	}
	if fs.Changed(FlagView) {
		if cfg.StartView, err = fs.GetInt(FlagView); err != nil {
			return nil, err
		}
	}
	if fs.Changed(FlagPoll) {
		if cfg.PollInterval, err = fs.GetDuration(FlagPoll); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
