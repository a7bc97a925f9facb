package export

import (
	"context"

	"github.com/AbdelrahmanM1/invoicemaker/internal/cache"
	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("export",
	fx.Provide(newChromeExporter),
	fx.Provide(newThumbnailer),
)

func newChromeExporter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Exporter {
	exp := NewChromeExporter(ChromeConfig{
		ExecPath: cfg.ChromePath,
		Timeout:  cfg.ExportTimeout,
	}, log)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			exp.Close()
			return nil
		},
	})
	return exp
}

// Templates never change once stored, so thumbnails are cached without expiry.
func newThumbnailer(exporter Exporter) *Thumbnailer {
	return NewThumbnailer(exporter, cache.NewTTLCache[string, []byte]())
}
