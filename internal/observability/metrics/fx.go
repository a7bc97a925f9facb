package metrics

import (
	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(NewRegistry),
	fx.Provide(func(reg *prometheus.Registry) prometheus.Registerer { return reg }),
	fx.Provide(func(reg *prometheus.Registry) prometheus.Gatherer { return reg }),
	fx.Provide(provideMeterProvider),
	fx.Provide(NewPreviewMetrics),
	fx.Provide(func(cfg config.Config, provider *sdkmetric.MeterProvider) (*HTTPMetrics, error) {
		return NewHTTPMetrics(cfg, provider)
	}),
)
