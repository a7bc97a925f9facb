package repository

import (
	"context"
	"sort"
	"sync"

	invoicedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoice/domain"
)

// MemoryRepository keeps saved invoices for the life of the process.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]invoicedomain.SavedInvoice
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]invoicedomain.SavedInvoice)}
}

func (r *MemoryRepository) Upsert(_ context.Context, inv invoicedomain.SavedInvoice) (invoicedomain.SavedInvoice, error) {
	inv.Data = invoicedomain.CloneData(inv.Data)

	r.mu.Lock()
	if existing, ok := r.items[inv.ID]; ok {
		inv.SavedAt = existing.SavedAt
	}
	r.items[inv.ID] = inv
	r.mu.Unlock()

	inv.Data = invoicedomain.CloneData(inv.Data)
	return inv, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*invoicedomain.SavedInvoice, error) {
	r.mu.RLock()
	inv, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	inv.Data = invoicedomain.CloneData(inv.Data)
	return &inv, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]invoicedomain.SavedInvoice, error) {
	r.mu.RLock()
	out := make([]invoicedomain.SavedInvoice, 0, len(r.items))
	for _, inv := range r.items {
		inv.Data = invoicedomain.CloneData(inv.Data)
		out = append(out, inv)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
