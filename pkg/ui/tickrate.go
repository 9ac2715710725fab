package ui

import (
	"time"

	"github.com/rescp17/sysmonitor/internal/config"
)

const (
	// A frame counts as slow once it overruns the target by slowMargin,
	// and as fast once it finishes fastMargin ahead of it.
	slowMargin = 10 * time.Millisecond
	fastMargin = 5 * time.Millisecond
)

// TickRate adapts the interval between viewer ticks to how long each frame takes.
type TickRate struct {
	current  time.Duration
	min      time.Duration
	max      time.Duration
	target   time.Duration
	stepUp   time.Duration
	stepDown time.Duration
}

func NewTickRate(cfg *config.ViewerConfig) *TickRate {
	return &TickRate{
		current:  cfg.InitialTick,
		min:      cfg.MinTick,
		max:      cfg.MaxTick,
		target:   cfg.TargetFrame,
		stepUp:   cfg.TickStepUp,
		stepDown: cfg.TickStepDown,
	}
}

func (t *TickRate) Current() time.Duration { return t.current }

// Adjust records the duration of the last frame and returns the next tick
// interval. Slow frames back the rate off toward max, fast frames speed it up
// toward min.
func (t *TickRate) Adjust(frame time.Duration) time.Duration {
	switch {
	case frame > t.target+slowMargin:
		t.current = min(t.current+t.stepUp, t.max)
	case frame < t.target-fastMargin:
		t.current = max(t.current-t.stepDown, t.min)
	}
	return t.current
}
