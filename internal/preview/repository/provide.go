package repository

import (
	"context"
	"fmt"

	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Provide builds the preview repository selected by configuration.
func Provide(lc fx.Lifecycle, cfg config.Config, c clock.Clock, log *zap.Logger) (previewdomain.Repository, error) {
	switch cfg.PreviewBackend {
	case config.PreviewBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
				}
				log.Named("preview.repository").Info("using redis preview backend", zap.String("addr", cfg.RedisAddr))
				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		return NewRedisRepository(client, cfg.PreviewRetention), nil
	default:
		return NewMemoryRepository(c, cfg.PreviewRetention), nil
	}
}
