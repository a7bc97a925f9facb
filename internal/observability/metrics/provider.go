package metrics

import (
	"context"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"
)

// NewMeterProvider builds an otel meter provider whose instruments are
// exported through registerer, so they are scraped from /metrics alongside
// the native prometheus collectors.
func NewMeterProvider(cfg config.Config, registerer prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, err
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("deployment.environment", cfg.Environment),
	)
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	), nil
}

func provideMeterProvider(lc fx.Lifecycle, cfg config.Config, registerer prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	provider, err := NewMeterProvider(cfg, registerer)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(provider)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
