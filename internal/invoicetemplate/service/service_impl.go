package service

import (
	"fmt"
	"sync"

	"github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/catalog"
	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service is the in-process template catalog. Insertion order is preserved
// for listing.
type Service struct {
	log *zap.Logger

	mu        sync.RWMutex
	templates []templatedomain.Template
	index     map[string]int
	sample    map[string]any
}

type ServiceParam struct {
	fx.In

	Log *zap.Logger
}

// NewService builds a store seeded with the embedded default catalog.
func NewService(p ServiceParam) (templatedomain.Service, error) {
	def, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load default catalog: %w", err)
	}
	svc := New(p.Log, def)
	return svc, nil
}

// New builds a store from an explicit catalog.
func New(log *zap.Logger, c catalog.Catalog) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		log:    log.Named("invoicetemplate.service"),
		index:  make(map[string]int),
		sample: c.Sample,
	}
	s.Append(c.Templates)
	return s
}

func (s *Service) List() []templatedomain.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]templatedomain.Summary, 0, len(s.templates))
	for _, tmpl := range s.templates {
		out = append(out, tmpl.Summary())
	}
	return out
}

func (s *Service) Get(id string) (templatedomain.Template, error) {
	id = templatedomain.NormalizeID(id)
	if id == "" {
		return templatedomain.Template{}, templatedomain.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return templatedomain.Template{}, templatedomain.ErrNotFound
	}
	return s.templates[pos], nil
}

func (s *Service) Append(templates []templatedomain.Template) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, tmpl := range templates {
		tmpl.ID = templatedomain.NormalizeID(tmpl.ID)
		if tmpl.ID == "" {
			continue
		}
		if _, exists := s.index[tmpl.ID]; exists {
			continue
		}
		s.index[tmpl.ID] = len(s.templates)
		s.templates = append(s.templates, tmpl)
		added++
	}
	if added > 0 {
		s.log.Info("templates appended", zap.Int("added", added), zap.Int("total", len(s.templates)))
	}
	return len(s.templates)
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

func (s *Service) Sample() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sample
}
