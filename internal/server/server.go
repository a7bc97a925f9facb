package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/AbdelrahmanM1/invoicemaker/internal/events"
	"github.com/AbdelrahmanM1/invoicemaker/internal/export"
	invoicedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoice/domain"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/render"
	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/logger"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/metrics"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/tracing"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	maxBodyBytes    = 10 << 20
	exportRateRange = time.Minute
)

type Server struct {
	cfg    config.Config
	log    *zap.Logger
	engine *gin.Engine
	clock  clock.Clock

	templateSvc templatedomain.Service
	previewSvc  previewdomain.Service
	invoiceSvc  invoicedomain.Service
	renderer    render.Renderer
	exporter    export.Exporter
	thumbnails  *export.Thumbnailer

	previewMetrics *metrics.PreviewMetrics
	gatherer       prometheus.Gatherer
	bus            *events.Bus

	exportLimiter *rateLimiter
}

type ServerParams struct {
	fx.In

	Cfg    config.Config
	Log    *zap.Logger
	Engine *gin.Engine
	Clock  clock.Clock

	TemplateSvc templatedomain.Service
	PreviewSvc  previewdomain.Service
	InvoiceSvc  invoicedomain.Service
	Renderer    render.Renderer
	Exporter    export.Exporter
	Thumbnails  *export.Thumbnailer `optional:"true"`

	PreviewMetrics *metrics.PreviewMetrics `optional:"true"`
	Gatherer       prometheus.Gatherer     `optional:"true"`
	Bus            *events.Bus             `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	thumbnails := p.Thumbnails
	if thumbnails == nil && p.Exporter != nil {
		thumbnails = export.NewThumbnailer(p.Exporter, nil)
	}
	var limiter *rateLimiter
	if p.Cfg.ExportRateLimit > 0 {
		limiter = newRateLimiter(p.Cfg.ExportRateLimit, exportRateRange, c)
	}
	return &Server{
		cfg:            p.Cfg,
		log:            p.Log.Named("server"),
		engine:         p.Engine,
		clock:          c,
		templateSvc:    p.TemplateSvc,
		previewSvc:     p.PreviewSvc,
		invoiceSvc:     p.InvoiceSvc,
		renderer:       p.Renderer,
		exporter:       p.Exporter,
		thumbnails:     thumbnails,
		previewMetrics: p.PreviewMetrics,
		gatherer:       p.Gatherer,
		bus:            p.Bus,
		exportLimiter:  limiter,
	}
}

type EngineParams struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(p EngineParams) *gin.Engine {
	if p.Cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.Use(
		recoveryMiddleware(p.Log, p.Cfg.IsDevelopment()),
		logger.GinMiddleware(logger.MiddlewareConfig{SkipPaths: []string{"/healthz", "/metrics"}}),
		tracing.GinMiddleware(),
		metrics.GinMiddleware(p.HTTPMetrics),
		corsMiddleware(),
		bodyLimitMiddleware(maxBodyBytes),
	)
	r.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
	return r
}

// RegisterRoutes mounts the JSON API under /api and the raw preview pages.
func (s *Server) RegisterRoutes() {
	r := s.engine

	r.GET("/healthz", s.Health)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/preview/:id", s.ServePreview)

	api := r.Group("/api")
	{
		api.GET("/templates", s.ListTemplates)
		api.GET("/templates/:id", s.GetTemplateByID)
		api.GET("/templates/:id/thumbnail", s.GetTemplateThumbnail)
		api.POST("/templates/update", s.UpdateTemplates)

		api.POST("/preview", s.CreatePreview)

		exports := api.Group("/export", s.exportRateLimit())
		exports.POST("/pdf", s.ExportPDF)
		exports.POST("/png", s.ExportPNG)

		api.POST("/invoices/save", s.SaveInvoice)
		api.GET("/invoices/:id", s.GetInvoiceByID)
		api.GET("/invoices", s.ListInvoices)

		if s.cfg.Environment != "production" {
			api.POST("/test/sweep", s.TestSweep)
		}
	}
}

// RunHTTP serves the engine for the lifetime of the fx app.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening",
				zap.String("addr", ln.Addr().String()),
				zap.String("preview_base_url", cfg.PublicBaseURL),
			)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
