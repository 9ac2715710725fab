package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rescp17/sysmonitor/internal/config"
	"github.com/rescp17/sysmonitor/internal/controller"
	"github.com/rescp17/sysmonitor/internal/version"
	"github.com/rescp17/sysmonitor/pkg/bustrace"
	"github.com/rescp17/sysmonitor/pkg/system"
	"github.com/rescp17/sysmonitor/pkg/ui"
	"github.com/rescp17/sysmonitor/pkg/viewerbus"
)

const (
	flagDebug     = "debug"
	flagTrace     = "trace"
	flagQuitAfter = "quit-after"
)

func main() {
	cmd := &cobra.Command{
		Use:     "sysmonitor",
		Version: version.Short(),
		Short:   "A terminal monitor for CPU, memory and host status",
		Long: `sysmonitor shows host facts, overall usage graphs and per-core CPU usage in the terminal.
The viewer and the controlling process talk over an in-process bus; --trace logs that traffic.`,
		SilenceUsage: true,
		RunE:         run,
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().Duration(flagQuitAfter, 0, "ask the viewer to quit after this long (0 = never)")
	cmd.Flags().Bool(flagTrace, false, "publish bus traffic through a pub/sub tracer and log it")
	cmd.PersistentFlags().Bool(flagDebug, false, "write debug output to debug.log")
	cmd.SetVersionTemplate(fmt.Sprintf("%s\n", version.Full()))

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Flags().GetBool(flagDebug)
	trace, _ := cmd.Flags().GetBool(flagTrace)
	quitAfter, _ := cmd.Flags().GetDuration(flagQuitAfter)

	logger, closeLog, err := newLogger(debug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.FromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := viewerbus.Get()

	traceCtx, stopTrace := context.WithCancel(context.Background())
	defer stopTrace()
	traceDone := make(chan error, 1)
	if trace {
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, bustrace.NewLoggerAdapter(logger))
		defer func() {
			if err := pubSub.Close(); err != nil {
				logger.Warn("close trace pubsub", "err", err)
			}
		}()
		follower, err := bustrace.Subscribe(traceCtx, pubSub, logger)
		if err != nil {
			return err
		}
		bus.SetTap(bustrace.NewPublisher(pubSub, logger))
		defer bus.SetTap(nil)
		go func() { traceDone <- follower.Run(traceCtx) }()
	} else {
		traceDone <- nil
	}

	// The viewer is only torn down from here if the controller gives up on it.
	viewerCtx, killViewer := context.WithCancel(context.Background())
	defer killViewer()

	sampler := system.NewHostSampler(viewerCtx)
	model := ui.New(viewerCtx, bus, sampler, cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(viewerCtx))

	ctrl := controller.New(bus,
		controller.WithPollInterval(cfg.PollInterval),
		controller.WithShutdownGrace(cfg.ShutdownGrace),
		controller.WithQuitAfter(quitAfter),
		controller.WithLogger(logger),
	)

	logger.Info("starting sysmonitor", "version", version.Short(), "tick", cfg.InitialTick, "view", cfg.StartView)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := program.Run()
		return errors.Wrap(err, "run viewer")
	})
	g.Go(func() error {
		err := ctrl.Run(gctx)
		if err != nil {
			killViewer()
		}
		return err
	})
	err = g.Wait()

	stopTrace()
	if traceErr := <-traceDone; traceErr != nil {
		logger.Warn("trace follower", "err", traceErr)
	}
	if err != nil {
		logger.Error("sysmonitor stopped", "err", err)
		return err
	}
	logger.Info("sysmonitor stopped")
	return nil
}

// newLogger writes to debug.log when debug is set. Otherwise only fatal
// messages reach stderr so the alternate screen stays clean.
func newLogger(debug bool) (*log.Logger, func(), error) {
	if !debug {
		return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel}), func() {}, nil
	}
	f, err := os.OpenFile("debug.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open debug.log")
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		ReportCaller:    true,
	})
	logger.Info("Logging to debug.log")
	return logger, func() { _ = f.Close() }, nil
}
