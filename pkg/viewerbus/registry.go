// Package viewerbus holds the process-wide pair of channels between the
// control side of the program and the terminal viewer.
//
// Commands flow control -> viewer, messages flow viewer -> control. Senders
// never block; receivers are polled without waiting.
package viewerbus

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	appevents "github.com/rescp17/sysmonitor/internal/app_events"
	"github.com/rescp17/sysmonitor/pkg/channels"
)

// ErrChannelClosed is returned by a send when the other side's receiving end is gone.
var ErrChannelClosed = channels.ErrClosed

// Direction names the flow a signal travelled on.
type Direction string

const (
	DirectionCommand Direction = "command"
	DirectionMessage Direction = "message"
)

// Tap observes every successfully sent signal. Observe runs on the sender's
// goroutine after the signal is queued and must not block.
type Tap interface {
	Observe(dir Direction, signal Signal)
}

// Signal is the common shape of commands and messages.
type Signal interface {
	Kind() string
}

// Registry owns both channel pairs. The zero value is not usable; use Get or New.
type Registry struct {
	commandTx channels.Sender[appevents.ViewerCommand]
	commandRx *channels.SharedReceiver[appevents.ViewerCommand]
	messageTx channels.Sender[appevents.ViewerMessage]
	messageRx *channels.SharedReceiver[appevents.ViewerMessage]

	tap atomic.Pointer[tapHolder]
}

type tapHolder struct {
	tap Tap
}

// Option configures a Registry built with New.
type Option func(*Registry)

// WithTap installs a tap at construction time.
func WithTap(t Tap) Option {
	return func(r *Registry) {
		r.SetTap(t)
	}
}

var (
	global     *Registry
	globalOnce sync.Once
	initCount  atomic.Int32
)

// Get returns the process-wide registry, creating it on first use. Concurrent
// first callers all receive the same instance.
func Get() *Registry {
	globalOnce.Do(func() {
		initCount.Add(1)
		global = New()
	})
	return global
}

// New builds an independent registry. Most code should share the one from Get
// and receive it as a parameter; New exists for tests and embedding.
func New(opts ...Option) *Registry {
	commandTx, commandRx := channels.New[appevents.ViewerCommand]()
	messageTx, messageRx := channels.New[appevents.ViewerMessage]()
	r := &Registry{
		commandTx: commandTx,
		commandRx: channels.Share(commandRx),
		messageTx: messageTx,
		messageRx: channels.Share(messageRx),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTap replaces the tap. A nil tap disables observation.
func (r *Registry) SetTap(t Tap) {
	if t == nil {
		r.tap.Store(nil)
		return
	}
	r.tap.Store(&tapHolder{tap: t})
}

func (r *Registry) observe(dir Direction, s Signal) {
	if h := r.tap.Load(); h != nil {
		h.tap.Observe(dir, s)
	}
}

// SendCommand queues cmd for the viewer behind every command sent before it.
func (r *Registry) SendCommand(cmd appevents.ViewerCommand) error {
	if cmd == nil {
		return errors.New("nil command")
	}
	if err := r.commandTx.Send(cmd); err != nil {
		return errors.Wrapf(err, "send %s", cmd.Kind())
	}
	r.observe(DirectionCommand, cmd)
	return nil
}

// PollCommand removes the oldest pending command, if any, without waiting.
func (r *Registry) PollCommand() (appevents.ViewerCommand, bool) {
	return r.commandRx.Poll()
}

// SendMessage queues msg for the control side behind every message sent before it.
func (r *Registry) SendMessage(msg appevents.ViewerMessage) error {
	if msg == nil {
		return errors.New("nil message")
	}
	if err := r.messageTx.Send(msg); err != nil {
		return errors.Wrapf(err, "send %s", msg.Kind())
	}
	r.observe(DirectionMessage, msg)
	return nil
}

// PollMessage removes the oldest pending message, if any, without waiting.
func (r *Registry) PollMessage() (appevents.ViewerMessage, bool) {
	return r.messageRx.Poll()
}

// CommandSender returns a clone of the command send endpoint. Sends through it
// bypass the tap.
func (r *Registry) CommandSender() channels.Sender[appevents.ViewerCommand] {
	return r.commandTx.Clone()
}

// MessageSender returns a clone of the message send endpoint. Sends through it
// bypass the tap.
func (r *Registry) MessageSender() channels.Sender[appevents.ViewerMessage] {
	return r.messageTx.Clone()
}

func (r *Registry) PendingCommands() int { return r.commandRx.Len() }

func (r *Registry) PendingMessages() int { return r.messageRx.Len() }
