package invoice

import (
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/render"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/repository"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(render.NewRenderer),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
