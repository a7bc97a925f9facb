package metrics

import (
	"strings"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// PreviewMetrics tracks preview lifecycle and export latency.
type PreviewMetrics struct {
	previewsCreated prometheus.Counter
	previewsSwept   prometheus.Counter
	previewsActive  prometheus.Gauge
	exportDuration  *prometheus.HistogramVec
}

// NewRegistry returns the registry scraped at /metrics. A private registry
// keeps tests free of process-wide collector state.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewPreviewMetrics(cfg config.Config, registerer prometheus.Registerer) *PreviewMetrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "invoicemaker"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &PreviewMetrics{
		previewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "invoicemaker_previews_created_total",
			Help:        "Total previews rendered and cached.",
			ConstLabels: constLabels,
		}),
		previewsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "invoicemaker_previews_swept_total",
			Help:        "Total previews removed by the retention sweep.",
			ConstLabels: constLabels,
		}),
		previewsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "invoicemaker_previews_active",
			Help:        "Previews currently held by the preview repository.",
			ConstLabels: constLabels,
		}),
		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "invoicemaker_export_duration_seconds",
				Help: "Headless browser round trip per export.",
				Buckets: []float64{
					0.25,
					0.5,
					1,
					2,
					5,
					10,
					30,
					60,
				},
				ConstLabels: constLabels,
			},
			[]string{"format", "result"}, // result: success | failed
		),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.previewsCreated,
			m.previewsSwept,
			m.previewsActive,
			m.exportDuration,
		)
	}
	return m
}

func (m *PreviewMetrics) IncCreated() {
	if m == nil {
		return
	}
	m.previewsCreated.Inc()
}

func (m *PreviewMetrics) AddSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.previewsSwept.Add(float64(n))
}

func (m *PreviewMetrics) SetActive(n int) {
	if m == nil {
		return
	}
	if n < 0 {
		n = 0
	}
	m.previewsActive.Set(float64(n))
}

func (m *PreviewMetrics) ObserveExport(format string, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if failed {
		result = "failed"
	}
	m.exportDuration.WithLabelValues(format, result).Observe(d.Seconds())
}
