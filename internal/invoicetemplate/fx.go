package invoicetemplate

import (
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoicetemplate.service",
	fx.Provide(service.NewService),
)
