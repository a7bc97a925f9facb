package service

import (
	"context"
	"strings"

	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	"github.com/AbdelrahmanM1/invoicemaker/internal/events"
	invoicedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoice/domain"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger

	clock clock.Clock
	repo  invoicedomain.Repository
	bus   *events.Bus
}

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  invoicedomain.Repository
	Bus   *events.Bus `optional:"true"`
}

func NewService(p ServiceParam) invoicedomain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		log:   log.Named("invoice.service"),
		clock: c,
		repo:  p.Repo,
		bus:   p.Bus,
	}
}

// Save stores or replaces an invoice. The template id is recorded as given;
// it is not checked against the catalog.
func (s *Service) Save(ctx context.Context, req invoicedomain.SaveRequest) (*invoicedomain.SavedInvoice, error) {
	id := strings.TrimSpace(req.InvoiceID)
	templateID := strings.TrimSpace(req.TemplateID)
	if id == "" || templateID == "" || req.Data == nil {
		return nil, invoicedomain.ErrInvalidSaveRequest
	}

	now := s.clock.Now()
	saved, err := s.repo.Upsert(ctx, invoicedomain.SavedInvoice{
		ID:         id,
		TemplateID: templateID,
		Data:       req.Data,
		SavedAt:    now,
		UpdatedAt:  now,
	})
	if err != nil {
		s.log.Warn("save invoice failed", zap.String("invoice_id", id), zap.Error(err))
		return nil, err
	}
	s.log.Debug("invoice saved",
		zap.String("invoice_id", saved.ID),
		zap.String("template_id", saved.TemplateID),
		logger.InvoiceData("invoice_data", saved.Data),
	)

	s.bus.Emit(ctx, events.EventInvoiceSaved, saved.ID, map[string]any{
		"invoice_id":  saved.ID,
		"template_id": saved.TemplateID,
	})
	return &saved, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.SavedInvoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]invoicedomain.Summary, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]invoicedomain.Summary, 0, len(items))
	for _, inv := range items {
		out = append(out, inv.Summary())
	}
	return out, nil
}
