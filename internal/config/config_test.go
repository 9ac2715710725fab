package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultInitialTick, cfg.InitialTick)
	assert.Equal(t, DefaultMinTick, cfg.MinTick)
	assert.Equal(t, DefaultMaxTick, cfg.MaxTick)
	assert.Equal(t, DefaultTargetFrame, cfg.TargetFrame)
	assert.Equal(t, DefaultHistorySize, cfg.HistorySize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ViewerConfig)
		errorMsg string
	}{
		{"valid config", func(*ViewerConfig) {}, ""},
		{"zero min tick", func(c *ViewerConfig) { c.MinTick = 0 }, "min_tick must be positive"},
		{"max below min", func(c *ViewerConfig) { c.MaxTick = c.MinTick - time.Millisecond }, "max_tick cannot be less than min_tick"},
		{"initial below min", func(c *ViewerConfig) { c.InitialTick = time.Millisecond }, "initial_tick must be within"},
		{"initial above max", func(c *ViewerConfig) { c.InitialTick = time.Second }, "initial_tick must be within"},
		{"zero target", func(c *ViewerConfig) { c.TargetFrame = 0 }, "target_frame must be positive"},
		{"zero step up", func(c *ViewerConfig) { c.TickStepUp = 0 }, "tick_step_up must be positive"},
		{"zero step down", func(c *ViewerConfig) { c.TickStepDown = 0 }, "tick_step_down must be positive"},
		{"zero history", func(c *ViewerConfig) { c.HistorySize = 0 }, "history_size must be positive"},
		{"negative view", func(c *ViewerConfig) { c.StartView = -1 }, "start_view cannot be negative"},
		{"zero poll", func(c *ViewerConfig) { c.PollInterval = 0 }, "poll_interval must be positive"},
		{"zero grace", func(c *ViewerConfig) { c.ShutdownGrace = 0 }, "shutdown_grace must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sysmonitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides only the keys it sets", func(t *testing.T) {
		path := writeConfig(t, "initial_tick: 80ms\nhistory_size: 120\nstart_view: 2\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 80*time.Millisecond, cfg.InitialTick)
		assert.Equal(t, 120, cfg.HistorySize)
		assert.Equal(t, 2, cfg.StartView)
		assert.Equal(t, DefaultMaxTick, cfg.MaxTick)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "initial_tick: [not a duration"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestFromFlags(t *testing.T) {
	t.Run("flags win over file", func(t *testing.T) {
		path := writeConfig(t, "initial_tick: 80ms\nstart_view: 1\n")
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		RegisterFlags(fs)
		require.NoError(t, fs.Parse([]string{"--config", path, "--tick", "100ms"}))

		cfg, err := FromFlags(fs)
		require.NoError(t, err)
		assert.Equal(t, 100*time.Millisecond, cfg.InitialTick)
		assert.Equal(t, 1, cfg.StartView)
	})

	t.Run("unset flags keep defaults", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		RegisterFlags(fs)
		require.NoError(t, fs.Parse(nil))

		cfg, err := FromFlags(fs)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("invalid result is rejected", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		RegisterFlags(fs)
		require.NoError(t, fs.Parse([]string{"--poll", "0s", "--view", "3"}))

		_, err := FromFlags(fs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "poll_interval")
	})
}
