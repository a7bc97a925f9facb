package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics captures low-cardinality HTTP server metrics. Response size is
// tracked because export responses dominate egress.
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	responseSize    metric.Int64Histogram
	inFlight        metric.Int64UpDownCounter
}

// NewHTTPMetrics creates HTTP metrics instruments.
func NewHTTPMetrics(cfg config.Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "invoicemaker"
	}
	meter := provider.Meter(name + "/http")

	requestDuration, err := meter.Float64Histogram("http.server.duration_ms")
	if err != nil {
		return nil, err
	}
	responseSize, err := meter.Int64Histogram("http.server.response.size",
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1<<10, 16<<10, 128<<10, 512<<10, 1<<20, 4<<20, 16<<20),
	)
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter("http.server.in_flight")
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		responseSize:    responseSize,
		inFlight:        inFlight,
	}, nil
}

// GinMiddleware records request duration, response size and in-flight
// metrics per route template.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		// FullPath keeps preview ids out of the attribute set.
		route := metric.WithAttributes(FilterAttributes(
			attribute.String("endpoint", normalizeEndpoint(c.FullPath())),
		)...)
		ctx := c.Request.Context()
		m.inFlight.Add(ctx, 1, route)
		start := time.Now()
		c.Next()
		m.inFlight.Add(ctx, -1, route)

		attrs := metric.WithAttributes(FilterAttributes(
			attribute.String("endpoint", normalizeEndpoint(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)...)
		m.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.Record(ctx, int64(size), attrs)
		}
	}
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "unmatched"
	}
	return endpoint
}

// FilterAttributes drops empty values so unset labels do not fan out series.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Value.Type() == attribute.STRING && strings.TrimSpace(attr.Value.AsString()) == "" {
			continue
		}
		out = append(out, attr)
	}
	return out
}
