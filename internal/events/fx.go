package events

import (
	"context"
	"strings"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("events",
	fx.Provide(NewPublisher),
	fx.Provide(NewBus),
)

// NewPublisher selects NATS when a server URL is configured and falls back to
// the log publisher otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Publisher, error) {
	url := strings.TrimSpace(cfg.NATSURL)
	if url == "" {
		return NewLogPublisher(log), nil
	}

	conn, err := nats.Connect(url,
		nats.Name(cfg.ServiceName),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return conn.Drain()
		},
	})
	log.Named("events").Info("publishing events to nats", zap.String("url", conn.ConnectedUrlRedacted()))
	return NewNATSPublisher(conn, DefaultSubjectPrefix)
}
