package logger

import (
	"context"
	"testing"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	obsctx "github.com/AbdelrahmanM1/invoicemaker/internal/observability/context"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextIncludesTraceAndPreview(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	orig := zap.L()
	zap.ReplaceGlobals(zap.New(core))
	defer zap.ReplaceGlobals(orig)

	traceID, _ := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	spanID, _ := trace.SpanIDFromHex("0123456789abcdef")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = obsctx.WithRequestID(ctx, "req-7")
	ctx = obsctx.WithPreviewID(ctx, "0b7c")

	FromContext(ctx).Info("hello")
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != traceID.String() {
		t.Fatalf("expected trace_id %q, got %q", traceID.String(), fields["trace_id"])
	}
	if fields["span_id"] != spanID.String() {
		t.Fatalf("expected span_id %q, got %q", spanID.String(), fields["span_id"])
	}
	if fields["preview_id"] != "0b7c" {
		t.Fatalf("expected preview_id %q, got %q", "0b7c", fields["preview_id"])
	}
	if fields["request_id"] != "req-7" {
		t.Fatalf("expected request_id %q, got %q", "req-7", fields["request_id"])
	}
}

func TestNewHonoursLogLevel(t *testing.T) {
	orig := zap.L()
	defer zap.ReplaceGlobals(orig)

	log, err := New(config.Config{ServiceName: "invoicemaker", Environment: "production", LogLevel: "warn"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be disabled at warn level")
	}
	if !log.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn to be enabled")
	}
	if zap.L() != log {
		t.Fatalf("expected logger to be installed globally")
	}
}
