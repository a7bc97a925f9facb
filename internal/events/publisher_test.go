package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	"github.com/bwmarrin/snowflake"
	natssrv "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, Event) error {
	return errors.New("broker down")
}

type recordingPublisher struct {
	events []Event
}

func (r *recordingPublisher) Publish(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestBusStampsEvents(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := &recordingPublisher{}

	bus := NewBus(BusParams{Publisher: rec, GenID: node, Clock: clock.NewManualClock(start), Log: zap.NewNop()})
	bus.Emit(context.Background(), EventPreviewCreated, "p-1", PreviewPayload{PreviewID: "p-1", TemplateID: "template-1"}.ToMap())

	require.Len(t, rec.events, 1)
	got := rec.events[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, EventPreviewCreated, got.Type)
	assert.Equal(t, "p-1", got.Subject)
	assert.Equal(t, start, got.OccurredAt)
	assert.Equal(t, "template-1", got.Payload["template_id"])
}

func TestBusLogsPublishFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	bus := NewBus(BusParams{Publisher: failingPublisher{}, Log: zap.New(core)})

	bus.Emit(context.Background(), EventInvoiceSaved, "inv-1", nil)

	entries := logs.FilterMessage("publish event failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, EventInvoiceSaved, entries[0].ContextMap()["event_type"])

	var nilBus *Bus
	nilBus.Emit(context.Background(), EventInvoiceSaved, "inv-1", nil)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	pub := NewLogPublisher(zap.New(core))

	require.NoError(t, pub.Publish(context.Background(), Event{ID: "1", Type: EventPreviewSwept}))
	require.Equal(t, 1, logs.FilterMessage("event").Len())
}

func TestNATSPublisherDeliversJSON(t *testing.T) {
	url := startEmbeddedNATS(t)
	conn, err := nats.Connect(url)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	pub, err := NewNATSPublisher(conn, "")
	require.NoError(t, err)

	sub, err := conn.SubscribeSync(pub.Subject(EventDocumentExported))
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	event := Event{
		ID:         "42",
		Type:       EventDocumentExported,
		Subject:    "p-9",
		OccurredAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Payload:    ExportPayload{PreviewID: "p-9", Format: "pdf", Bytes: 10}.ToMap(),
	}
	require.NoError(t, pub.Publish(context.Background(), event))

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "invoicemaker.document.exported", msg.Subject)

	var got Event
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, event.Subject, got.Subject)
	assert.Equal(t, "pdf", got.Payload["format"])
}

func TestNewNATSPublisherRequiresConnection(t *testing.T) {
	_, err := NewNATSPublisher(nil, "")
	require.Error(t, err)
}

func startEmbeddedNATS(t *testing.T) string {
	t.Helper()

	srv, err := natssrv.NewServer(&natssrv.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go srv.Start()
	require.True(t, srv.ReadyForConnections(10*time.Second), "nats server did not become ready")

	t.Cleanup(func() {
		srv.Shutdown()
		srv.WaitForShutdown()
	})

	return fmt.Sprintf("nats://%s", srv.Addr().String())
}
