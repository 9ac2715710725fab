// Package bustrace mirrors viewer bus traffic onto watermill topics so it can
// be followed and logged without touching the bus consumers.
package bustrace

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/rescp17/sysmonitor/pkg/viewerbus"
)

const (
	TopicCommands = "sysmonitor.viewer.commands"
	TopicMessages = "sysmonitor.viewer.messages"
)

// Envelope is the JSON payload published for every observed signal.
type Envelope struct {
	ID        string              `json:"id"`
	Direction viewerbus.Direction `json:"direction"`
	Kind      string              `json:"kind"`
	At        time.Time           `json:"at"`
}

// TopicFor maps a bus direction to its trace topic.
func TopicFor(dir viewerbus.Direction) string {
	if dir == viewerbus.DirectionCommand {
		return TopicCommands
	}
	return TopicMessages
}

// Publisher is a viewerbus.Tap that publishes an Envelope per signal.
type Publisher struct {
	pub    message.Publisher
	logger *log.Logger
	now    func() time.Time
}

var _ viewerbus.Tap = (*Publisher)(nil)

func NewPublisher(pub message.Publisher, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{pub: pub, logger: logger, now: time.Now}
}

// Observe publishes the envelope. Failures are logged; tracing never fails a send.
func (p *Publisher) Observe(dir viewerbus.Direction, s viewerbus.Signal) {
	env := Envelope{
		ID:        uuid.NewString(),
		Direction: dir,
		Kind:      s.Kind(),
		At:        p.now(),
	}
	b, err := json.Marshal(env)
	if err != nil {
		p.logger.Warn("marshal trace envelope", "kind", env.Kind, "err", err)
		return
	}
	if err := p.pub.Publish(TopicFor(dir), message.NewMessage(env.ID, b)); err != nil {
		p.logger.Warn("publish trace envelope", "kind", env.Kind, "err", err)
	}
}

// Follower consumes both trace topics and hands each envelope to a handler.
type Follower struct {
	commands <-chan *message.Message
	messages <-chan *message.Message
	handle   func(Envelope)
	logger   *log.Logger
}

// Subscribe attaches to both trace topics. It must be called before traffic
// starts; envelopes published with no subscriber are not kept.
func Subscribe(ctx context.Context, sub message.Subscriber, logger *log.Logger) (*Follower, error) {
	if logger == nil {
		logger = log.Default()
	}
	commands, err := sub.Subscribe(ctx, TopicCommands)
	if err != nil {
		return nil, errors.Wrap(err, "subscribe commands")
	}
	messages, err := sub.Subscribe(ctx, TopicMessages)
	if err != nil {
		return nil, errors.Wrap(err, "subscribe messages")
	}
	f := &Follower{commands: commands, messages: messages, logger: logger}
	f.handle = f.logEnvelope
	return f, nil
}

// OnEnvelope replaces the default logging handler.
func (f *Follower) OnEnvelope(h func(Envelope)) {
	f.handle = h
}

// Run consumes until ctx is done or both topics are closed.
func (f *Follower) Run(ctx context.Context) error {
	commands, messages := f.commands, f.messages
	for commands != nil || messages != nil {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			f.consume(msg)
		case msg, ok := <-messages:
			if !ok {
				messages = nil
				continue
			}
			f.consume(msg)
		}
	}
	return nil
}

func (f *Follower) consume(msg *message.Message) {
	defer msg.Ack()
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		f.logger.Warn("decode trace envelope", "uuid", msg.UUID, "err", err)
		return
	}
	f.handle(env)
}

func (f *Follower) logEnvelope(env Envelope) {
	f.logger.Debug("bus", "dir", env.Direction, "kind", env.Kind, "id", env.ID)
}
