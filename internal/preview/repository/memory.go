package repository

import (
	"context"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/cache"
	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
)

// MemoryRepository keeps previews in a process-local TTL cache. Entries
// expire retention after insertion; reads never extend that.
type MemoryRepository struct {
	items     *cache.TTLCache[string, previewdomain.Preview]
	retention time.Duration
}

func NewMemoryRepository(c clock.Clock, retention time.Duration) *MemoryRepository {
	return &MemoryRepository{
		items:     cache.NewTTLCacheWithClock[string, previewdomain.Preview](c),
		retention: retention,
	}
}

func (r *MemoryRepository) Insert(_ context.Context, p previewdomain.Preview) error {
	p.Record = p.Record.Clone()
	r.items.Set(p.ID, p, r.retention)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*previewdomain.Preview, error) {
	p, ok := r.items.Get(id)
	if !ok {
		return nil, previewdomain.ErrNotFound
	}
	p.Record = p.Record.Clone()
	return &p, nil
}

func (r *MemoryRepository) Sweep(_ context.Context) (int, error) {
	return r.items.Sweep(), nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	return r.items.Len(), nil
}
