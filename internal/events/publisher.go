package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/tracing"
	"github.com/bwmarrin/snowflake"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultSubjectPrefix is prepended to the event type to build NATS subjects.
const DefaultSubjectPrefix = "invoicemaker."

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the application log.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogPublisher{log: log.Named("events")}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.Info("event",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("subject", event.Subject),
		zap.Any("payload", event.Payload),
	)
	return nil
}

// NATSPublisher publishes JSON encoded events on core NATS subjects.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(conn *nats.Conn, prefix string) (*NATSPublisher, error) {
	if conn == nil {
		return nil, errors.New("nats_connection_required")
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

func (p *NATSPublisher) Subject(eventType string) string {
	return p.prefix + eventType
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(p.Subject(event.Type))
	msg.Data = body
	tracing.InjectHeaders(ctx, msg.Header)
	return p.conn.PublishMsg(msg)
}

// Bus stamps events with an id and time before handing them to the
// publisher. Publish failures are logged and never returned to callers.
type Bus struct {
	publisher Publisher
	genID     *snowflake.Node
	clock     clock.Clock
	log       *zap.Logger
}

type BusParams struct {
	fx.In

	Publisher Publisher
	GenID     *snowflake.Node
	Clock     clock.Clock
	Log       *zap.Logger
}

func NewBus(p BusParams) *Bus {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Bus{
		publisher: p.Publisher,
		genID:     p.GenID,
		clock:     c,
		log:       log.Named("events.bus"),
	}
}

// Emit publishes an event. It is safe to call on a nil Bus.
func (b *Bus) Emit(ctx context.Context, eventType, subject string, payload map[string]any) {
	if b == nil || b.publisher == nil {
		return
	}
	event := Event{
		Type:       eventType,
		Subject:    subject,
		OccurredAt: b.clock.Now(),
		Payload:    payload,
	}
	if b.genID != nil {
		event.ID = b.genID.Generate().String()
	}
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.log.Warn("publish event failed",
			zap.String("event_type", eventType),
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
