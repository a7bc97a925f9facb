package preview

import (
	"github.com/AbdelrahmanM1/invoicemaker/internal/preview/repository"
	"github.com/AbdelrahmanM1/invoicemaker/internal/preview/service"
	"github.com/AbdelrahmanM1/invoicemaker/internal/preview/sweeper"
	"go.uber.org/fx"
)

var Module = fx.Module("preview.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	sweeper.Module,
)
