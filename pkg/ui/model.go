package ui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	appevents "github.com/rescp17/sysmonitor/internal/app_events"
	"github.com/rescp17/sysmonitor/internal/config"
	"github.com/rescp17/sysmonitor/internal/style"
	"github.com/rescp17/sysmonitor/pkg/system"
	"github.com/rescp17/sysmonitor/pkg/ui/components"
	"github.com/rescp17/sysmonitor/pkg/viewerbus"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Bus is the viewer's side of the viewer bus.
type Bus interface {
	PollCommand() (appevents.ViewerCommand, bool)
	SendMessage(msg appevents.ViewerMessage) error
}

var _ Bus = (*viewerbus.Registry)(nil)

type tickMsg time.Time

// Model is the bubbletea model of the viewer.
type Model struct {
	ctx    context.Context
	bus    Bus
	logger *log.Logger

	views   []View
	current int
	keys    *components.KeyboardManager
	help    help.Model
	tick    *TickRate

	width, height int
	lastErr       string
	quitting      bool
	now           func() time.Time
}

// New builds the viewer with its three views. ctx bounds metric sampling.
func New(ctx context.Context, bus Bus, sampler system.Sampler, cfg *config.ViewerConfig, logger *log.Logger) *Model {
	views := []View{
		NewStatusView(sampler),
		NewMonitorView(sampler, cfg.HistorySize),
		NewCoresView(sampler, cfg.HistorySize),
	}
	return newModel(ctx, bus, views, cfg, logger)
}

func newModel(ctx context.Context, bus Bus, views []View, cfg *config.ViewerConfig, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	keys := components.NewKeyboardManager()
	for _, v := range views {
		for _, b := range v.Bindings() {
			keys.AddContextBinding(v.Name(), b)
		}
	}
	current := cfg.StartView
	if current >= len(views) {
		logger.Warn("start view out of range, using first view", "start_view", current, "views", len(views))
		current = 0
	}
	keys.SetContext(views[current].Name())

	return &Model{
		ctx:     ctx,
		bus:     bus,
		logger:  logger,
		views:   views,
		current: current,
		keys:    keys,
		help:    help.New(),
		tick:    NewTickRate(cfg),
		width:   defaultWidth,
		height:  defaultHeight,
		now:     time.Now,
	}
}

// Init announces the viewer and starts the tick loop.
func (m *Model) Init() tea.Cmd {
	m.send(appevents.ReadyMessage{View: m.views[m.current].Name()})
	m.refresh()
	return m.scheduleTick()
}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.tick.Current(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		return m, m.onTick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	action := m.keys.ProcessKey(msg)
	if action == components.KeyActionNone {
		return nil
	}
	if m.views[m.current].HandleAction(action) {
		return nil
	}
	switch action {
	case components.KeyActionQuit:
		return m.shutdown()
	case components.KeyActionNextView:
		m.switchTo(m.current + 1)
	case components.KeyActionPrevView:
		m.switchTo(m.current - 1)
	case components.KeyActionRefresh:
		m.refresh()
	case components.KeyActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// onTick drains pending commands, refreshes the visible view and schedules
// the next tick at a rate adapted to how long this one took.
func (m *Model) onTick() tea.Cmd {
	if m.quitting {
		return nil
	}
	start := m.now()
	if cmd := m.drainCommands(); cmd != nil {
		return cmd
	}
	m.refresh()
	m.tick.Adjust(m.now().Sub(start))
	return m.scheduleTick()
}

// drainCommands applies every queued command. It stops early on Quit and
// returns the command that ends the program.
func (m *Model) drainCommands() tea.Cmd {
	for {
		cmd, ok := m.bus.PollCommand()
		if !ok {
			return nil
		}
		m.logger.Debug("viewer command", "kind", cmd.Kind())
		switch c := cmd.(type) {
		case appevents.QuitCommand:
			return m.shutdown()
		case appevents.NextViewCommand:
			m.switchTo(m.current + 1)
		case appevents.PrevViewCommand:
			m.switchTo(m.current - 1)
		case appevents.SelectViewCommand:
			if c.Index < 0 || c.Index >= len(m.views) {
				m.logger.Warn("select view out of range", "index", c.Index, "views", len(m.views))
				continue
			}
			m.switchTo(c.Index)
		case appevents.RefreshCommand:
			m.refresh()
		default:
			m.logger.Warn("unhandled viewer command", "kind", cmd.Kind())
		}
	}
}

// shutdown tells the other side the viewer is going away and quits. It is
// safe to call more than once.
func (m *Model) shutdown() tea.Cmd {
	if !m.quitting {
		m.quitting = true
		m.send(appevents.QuitMessage{})
	}
	return tea.Quit
}

// switchTo shows view i, wrapping around at both ends.
func (m *Model) switchTo(i int) {
	n := len(m.views)
	i = ((i % n) + n) % n
	if i == m.current {
		return
	}
	m.current = i
	m.keys.SetContext(m.views[i].Name())
	m.send(appevents.ViewChangedMessage{Index: i, Name: m.views[i].Name()})
}

func (m *Model) refresh() {
	view := m.views[m.current]
	if err := view.OnTick(m.ctx); err != nil {
		reason := errors.Wrapf(err, "refresh %s", view.Name()).Error()
		if reason != m.lastErr {
			m.logger.Error("refresh view", "view", view.Name(), "err", err)
			m.send(appevents.ErrorMessage{Reason: reason})
		}
		m.lastErr = reason
		return
	}
	m.lastErr = ""
}

func (m *Model) send(msg appevents.ViewerMessage) {
	err := m.bus.SendMessage(msg)
	switch {
	case err == nil:
	case errors.Is(err, viewerbus.ErrChannelClosed):
		m.logger.Warn("message channel closed", "kind", msg.Kind())
	default:
		m.logger.Error("send viewer message", "kind", msg.Kind(), "err", err)
	}
}

// Current returns the index of the visible view.
func (m *Model) Current() int { return m.current }

// TickRate returns the interval until the next tick.
func (m *Model) TickRate() time.Duration { return m.tick.Current() }

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	tabs := m.renderTabs()
	footer := m.help.View(m.keys)
	if m.lastErr != "" {
		footer = style.ErrorStyle.Render(m.lastErr) + "\n" + footer
	}
	bodyHeight := max(m.height-lipgloss.Height(tabs)-lipgloss.Height(footer), 4)
	body := m.views[m.current].Render(m.width, bodyHeight)
	return lipgloss.JoinVertical(lipgloss.Left, tabs, body, style.HelpStyle.Render(footer))
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(m.views))
	for i, v := range m.views {
		if i == m.current {
			tabs[i] = style.ActiveTabStyle.Render(v.Name())
			continue
		}
		tabs[i] = style.InactiveTabStyle.Render(v.Name())
	}
	return strings.Join(tabs, " ")
}
