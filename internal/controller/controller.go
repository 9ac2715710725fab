// Package controller is the control side of the viewer bus. It turns process
// signals and timers into viewer commands and watches the viewer's messages.
package controller

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	appevents "github.com/rescp17/sysmonitor/internal/app_events"
	"github.com/rescp17/sysmonitor/internal/config"
	"github.com/rescp17/sysmonitor/pkg/viewerbus"
)

// ErrViewerUnresponsive is returned by Run when the viewer does not confirm a
// quit request within the shutdown grace period.
var ErrViewerUnresponsive = errors.New("viewer did not acknowledge quit")

// Bus is the control side of the viewer bus.
type Bus interface {
	SendCommand(cmd appevents.ViewerCommand) error
	PollMessage() (appevents.ViewerMessage, bool)
}

var _ Bus = (*viewerbus.Registry)(nil)

// Controller drives the viewer through the bus.
type Controller struct {
	bus          Bus
	logger       *log.Logger
	pollInterval time.Duration
	quitAfter    time.Duration
	grace        time.Duration

	quitOnce sync.Once
	quitSent chan struct{}
	quitErr  error
}

type Option func(*Controller)

func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) { c.pollInterval = d }
}

// WithQuitAfter makes Run ask the viewer to quit after d. Zero disables it.
func WithQuitAfter(d time.Duration) Option {
	return func(c *Controller) { c.quitAfter = d }
}

func WithShutdownGrace(d time.Duration) Option {
	return func(c *Controller) { c.grace = d }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller using the default poll interval and grace period.
func New(bus Bus, opts ...Option) *Controller {
	d := config.Default()
	c := &Controller{
		bus:          bus,
		logger:       log.New(io.Discard),
		pollInterval: d.PollInterval,
		grace:        d.ShutdownGrace,
		quitSent:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send forwards a command to the viewer.
func (c *Controller) Send(cmd appevents.ViewerCommand) error {
	if err := c.bus.SendCommand(cmd); err != nil {
		return err
	}
	c.logger.Debug("sent viewer command", "kind", cmd.Kind())
	return nil
}

// RequestQuit asks the viewer to quit. Only the first call sends the command;
// later calls return the first call's result.
func (c *Controller) RequestQuit() error {
	c.quitOnce.Do(func() {
		c.quitErr = c.Send(appevents.QuitCommand{})
		close(c.quitSent)
	})
	return c.quitErr
}

// Run polls viewer messages until the viewer reports Quit. Cancelling ctx or
// the quit-after timer requests a quit; Run then waits up to the grace period
// for the viewer to confirm. A viewer whose command channel is gone counts as
// already stopped.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var quitAfter <-chan time.Time
	if c.quitAfter > 0 {
		t := time.NewTimer(c.quitAfter)
		defer t.Stop()
		quitAfter = t.C
	}

	var grace *time.Timer
	var deadline <-chan time.Time
	defer func() {
		if grace != nil {
			grace.Stop()
		}
	}()

	done := ctx.Done()
	quitSent := c.quitSent
	for {
		if c.drain() {
			return nil
		}
		select {
		case <-done:
			done = nil
			c.logger.Info("context cancelled, asking viewer to quit")
			_ = c.RequestQuit()
		case <-quitAfter:
			quitAfter = nil
			c.logger.Info("quit timer fired, asking viewer to quit", "after", c.quitAfter)
			_ = c.RequestQuit()
		case <-quitSent:
			quitSent = nil
			if errors.Is(c.quitErr, viewerbus.ErrChannelClosed) {
				c.logger.Info("viewer already gone")
				return nil
			}
			if c.quitErr != nil {
				return errors.Wrap(c.quitErr, "request quit")
			}
			grace = time.NewTimer(c.grace)
			deadline = grace.C
		case <-deadline:
			// one last look before giving up
			if c.drain() {
				return nil
			}
			return errors.Wrapf(ErrViewerUnresponsive, "after %s", c.grace)
		case <-ticker.C:
		}
	}
}

// drain handles every pending message and reports whether the viewer quit.
func (c *Controller) drain() bool {
	for {
		msg, ok := c.bus.PollMessage()
		if !ok {
			return false
		}
		switch m := msg.(type) {
		case appevents.QuitMessage:
			c.logger.Info("viewer quit")
			return true
		case appevents.ReadyMessage:
			c.logger.Info("viewer ready", "view", m.View)
		case appevents.ViewChangedMessage:
			c.logger.Debug("viewer changed view", "index", m.Index, "name", m.Name)
		case appevents.ErrorMessage:
			c.logger.Warn("viewer error", "reason", m.Reason)
		default:
			c.logger.Warn("unhandled viewer message", "kind", msg.Kind())
		}
	}
}
