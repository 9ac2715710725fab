package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appevents "github.com/rescp17/sysmonitor/internal/app_events"
	"github.com/rescp17/sysmonitor/pkg/viewerbus"
)

const (
	testPoll  = 5 * time.Millisecond
	testGrace = 100 * time.Millisecond
)

// fakeViewer answers Quit commands the way the terminal viewer does.
func fakeViewer(ctx context.Context, bus *viewerbus.Registry) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		for {
			cmd, ok := bus.PollCommand()
			if !ok {
				break
			}
			if _, quit := cmd.(appevents.QuitCommand); quit {
				_ = bus.SendMessage(appevents.QuitMessage{})
				return
			}
		}
	}
}

func runAsync(ctx context.Context, c *Controller) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("controller did not return within 3 seconds")
		return nil
	}
}

func TestRun_ContextCancelSendsQuit(t *testing.T) {
	bus := viewerbus.New()
	viewerCtx, stopViewer := context.WithCancel(context.Background())
	defer stopViewer()
	go fakeViewer(viewerCtx, bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, New(bus, WithPollInterval(testPoll), WithShutdownGrace(time.Second)))

	cancel()
	assert.NoError(t, wait(t, done))
}

func TestRun_QuitAfter(t *testing.T) {
	bus := viewerbus.New()
	viewerCtx, stopViewer := context.WithCancel(context.Background())
	defer stopViewer()
	go fakeViewer(viewerCtx, bus)

	start := time.Now()
	c := New(bus, WithPollInterval(testPoll), WithQuitAfter(30*time.Millisecond), WithShutdownGrace(time.Second))
	assert.NoError(t, wait(t, runAsync(context.Background(), c)))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRun_ViewerQuitsFirst(t *testing.T) {
	bus := viewerbus.New()
	require.NoError(t, bus.SendMessage(appevents.ReadyMessage{View: "Status"}))
	require.NoError(t, bus.SendMessage(appevents.ViewChangedMessage{Index: 1, Name: "System Monitor"}))
	require.NoError(t, bus.SendMessage(appevents.ErrorMessage{Reason: "sensor unavailable"}))
	require.NoError(t, bus.SendMessage(appevents.QuitMessage{}))

	c := New(bus, WithPollInterval(testPoll))
	assert.NoError(t, wait(t, runAsync(context.Background(), c)))

	_, pending := bus.PollCommand()
	assert.False(t, pending, "no quit is requested when the viewer leaves on its own")
}

func TestRun_UnresponsiveViewer(t *testing.T) {
	bus := viewerbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, New(bus, WithPollInterval(testPoll), WithShutdownGrace(testGrace)))

	cancel()
	err := wait(t, done)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrViewerUnresponsive))

	cmd, ok := bus.PollCommand()
	require.True(t, ok)
	assert.Equal(t, appevents.ViewerCommand(appevents.QuitCommand{}), cmd)
}

type closedBus struct {
	mu   sync.Mutex
	sent int
}

func (b *closedBus) SendCommand(appevents.ViewerCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent++
	return errors.Wrap(viewerbus.ErrChannelClosed, "send command.quit")
}

func (b *closedBus) PollMessage() (appevents.ViewerMessage, bool) { return nil, false }

func TestRun_ClosedChannelMeansViewerGone(t *testing.T) {
	bus := &closedBus{}
	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, New(bus, WithPollInterval(testPoll), WithShutdownGrace(time.Minute)))

	cancel()
	assert.NoError(t, wait(t, done))
}

func TestRequestQuit_SendsOnce(t *testing.T) {
	bus := viewerbus.New()
	c := New(bus)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.RequestQuit())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, bus.PendingCommands())
}

func TestRequestQuit_BeforeRun(t *testing.T) {
	bus := viewerbus.New()
	c := New(bus, WithPollInterval(testPoll), WithShutdownGrace(time.Second))
	require.NoError(t, c.RequestQuit())

	viewerCtx, stopViewer := context.WithCancel(context.Background())
	defer stopViewer()
	go fakeViewer(viewerCtx, bus)

	assert.NoError(t, wait(t, runAsync(context.Background(), c)))
}

func TestSend(t *testing.T) {
	bus := viewerbus.New()
	c := New(bus)

	require.NoError(t, c.Send(appevents.SelectViewCommand{Index: 2}))
	require.NoError(t, c.Send(appevents.RefreshCommand{}))

	cmd, ok := bus.PollCommand()
	require.True(t, ok)
	assert.Equal(t, appevents.ViewerCommand(appevents.SelectViewCommand{Index: 2}), cmd)
	cmd, ok = bus.PollCommand()
	require.True(t, ok)
	assert.Equal(t, appevents.ViewerCommand(appevents.RefreshCommand{}), cmd)

	closed := &closedBus{}
	err := New(closed).Send(appevents.NextViewCommand{})
	assert.True(t, errors.Is(err, viewerbus.ErrChannelClosed))
}
