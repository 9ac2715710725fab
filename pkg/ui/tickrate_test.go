package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rescp17/sysmonitor/internal/config"
)

func TestTickRate_Adjust(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name  string
		start time.Duration
		frame time.Duration
		want  time.Duration
	}{
		{"slow frame backs off", 50 * ms, 60 * ms, 60 * ms},
		{"slow frame capped at max", 195 * ms, 60 * ms, 200 * ms},
		{"fast frame speeds up", 50 * ms, 1 * ms, 45 * ms},
		{"fast frame floored at min", 18 * ms, 1 * ms, 16 * ms},
		{"frame within band keeps rate", 50 * ms, 33 * ms, 50 * ms},
		{"upper edge of band keeps rate", 50 * ms, 43 * ms, 50 * ms},
		{"lower edge of band keeps rate", 50 * ms, 28 * ms, 50 * ms},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.InitialTick = tt.start
			tr := NewTickRate(cfg)

			assert.Equal(t, tt.want, tr.Adjust(tt.frame))
			assert.Equal(t, tt.want, tr.Current())
		})
	}
}

func TestTickRate_ConvergesToBounds(t *testing.T) {
	tr := NewTickRate(config.Default())
	assert.Equal(t, config.DefaultInitialTick, tr.Current())

	for range 100 {
		tr.Adjust(time.Second)
	}
	assert.Equal(t, config.DefaultMaxTick, tr.Current())

	for range 100 {
		tr.Adjust(0)
	}
	assert.Equal(t, config.DefaultMinTick, tr.Current())
}
