package repository

import (
	"context"
	"fmt"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	invoicedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Provide builds the saved-invoice repository selected by configuration.
func Provide(lc fx.Lifecycle, cfg config.Config, genID *snowflake.Node, log *zap.Logger) (invoicedomain.Repository, error) {
	var dialector gorm.Dialector
	switch cfg.InvoiceStore {
	case config.InvoiceStorePostgres:
		dialector = postgres.Open(cfg.DBDSN)
	case config.InvoiceStoreSQLite:
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return NewMemoryRepository(), nil
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open %s invoice store: %w", cfg.InvoiceStore, err)
	}
	repo := NewGormRepository(db, genID)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate invoice store: %w", err)
			}
			log.Named("invoice.repository").Info("invoice store ready", zap.String("driver", cfg.InvoiceStore))
			return nil
		},
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return repo, nil
}
