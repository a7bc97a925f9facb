package seed

import (
	"errors"
	"strings"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/catalog"
	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
	"go.uber.org/zap"
)

// EnsureCatalog appends the templates of the configured catalog file to the
// store. Templates whose id is already present are left untouched, so running
// it twice is harmless.
func EnsureCatalog(cfg config.Config, templates templatedomain.Service, log *zap.Logger) error {
	if templates == nil {
		return errors.New("seed template store is required")
	}
	path := strings.TrimSpace(cfg.CatalogPath)
	if path == "" {
		return nil
	}

	extra, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	before := templates.Len()
	total := templates.Append(extra.Templates)
	if log != nil {
		log.Named("seed").Info("catalog file loaded",
			zap.String("path", path),
			zap.Int("added", total-before),
			zap.Int("total", total),
		)
	}
	return nil
}
