// @title           Invoice Maker API
// @version         1.0
// @description     Invoice templates, previews and PDF/PNG export

// @host      localhost:3000
// @BasePath  /api
// @Schemes 	http https

package main

import (
	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/AbdelrahmanM1/invoicemaker/internal/events"
	"github.com/AbdelrahmanM1/invoicemaker/internal/export"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability"
	"github.com/AbdelrahmanM1/invoicemaker/internal/preview"
	"github.com/AbdelrahmanM1/invoicemaker/internal/seed"
	"github.com/AbdelrahmanM1/invoicemaker/internal/server"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		events.Module,

		invoicetemplate.Module,
		seed.Module,
		invoice.Module,
		preview.Module,
		export.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
