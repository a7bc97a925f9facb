package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	"github.com/AbdelrahmanM1/invoicemaker/internal/events"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/render"
	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/logger"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/metrics"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/tracing"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger

	clock     clock.Clock
	templates templatedomain.Service
	renderer  render.Renderer
	repo      previewdomain.Repository
	metrics   *metrics.PreviewMetrics
	bus       *events.Bus
	tracer    trace.Tracer
	newID     func() string
}

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Templates templatedomain.Service
	Renderer  render.Renderer
	Repo      previewdomain.Repository
	Metrics   *metrics.PreviewMetrics `optional:"true"`
	Bus       *events.Bus             `optional:"true"`
	Tracer    trace.Tracer            `optional:"true"`
}

func NewService(p ServiceParam) previewdomain.Service {
	return newService(p)
}

func newService(p ServiceParam) *Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	tracer := p.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("preview")
	}
	return &Service{
		log:       log.Named("preview.service"),
		clock:     c,
		templates: p.Templates,
		renderer:  p.Renderer,
		repo:      p.Repo,
		metrics:   p.Metrics,
		bus:       p.Bus,
		tracer:    tracer,
		newID:     uuid.NewString,
	}
}

// Create renders the invoice data into the template and caches the result.
// Rendering happens once, here; retrieval serves the stored HTML.
func (s *Service) Create(ctx context.Context, req previewdomain.CreateRequest) (*previewdomain.CreateResponse, error) {
	templateID := templatedomain.NormalizeID(req.TemplateID)
	if templateID == "" || req.Data == nil {
		return nil, previewdomain.ErrInvalidRequest
	}

	tmpl, err := s.templates.Get(templateID)
	if err != nil {
		return nil, err
	}

	record := render.RecordFromMap(req.Data)

	ctx, span := s.tracer.Start(ctx, "preview.render", trace.WithAttributes(
		tracing.AttrTemplateID.String(tmpl.ID),
	))
	html, err := s.renderer.RenderHTML(render.RenderInput{
		TemplateID: tmpl.ID,
		HTML:       tmpl.HTML,
		Record:     record,
	})
	if err != nil {
		span.RecordError(tracing.SafeError(err))
		span.SetStatus(codes.Error, "render failed")
		span.End()
		return nil, fmt.Errorf("template %s: %w", tmpl.ID, err)
	}
	span.End()

	p := previewdomain.Preview{
		ID:         s.newID(),
		TemplateID: tmpl.ID,
		Template:   tmpl,
		Record:     record,
		HTML:       html,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.log.Debug("preview rendered",
		zap.String("preview_id", p.ID),
		zap.String("template_id", p.TemplateID),
		logger.InvoiceData("invoice_data", req.Data),
	)

	s.metrics.IncCreated()
	s.refreshActive(ctx)
	s.bus.Emit(ctx, events.EventPreviewCreated, p.ID, events.PreviewPayload{
		PreviewID:  p.ID,
		TemplateID: p.TemplateID,
	}.ToMap())

	return &previewdomain.CreateResponse{
		PreviewID:  p.ID,
		PreviewURL: previewdomain.Path(p.ID),
	}, nil
}

func (s *Service) Resolve(ctx context.Context, id string) (*previewdomain.Preview, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, previewdomain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Sweep(ctx context.Context) (int, error) {
	removed, err := s.repo.Sweep(ctx)
	if err != nil {
		return removed, err
	}
	s.metrics.AddSwept(removed)
	s.refreshActive(ctx)
	if removed > 0 {
		s.log.Info("expired previews removed", zap.Int("removed", removed))
		s.bus.Emit(ctx, events.EventPreviewSwept, "", map[string]any{"removed": removed})
	}
	return removed, nil
}

func (s *Service) refreshActive(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn("count previews failed", zap.Error(err))
		}
		return
	}
	s.metrics.SetActive(n)
}
