package domain

import "context"

type Repository interface {
	// Upsert stores inv. An existing invoice keeps its SavedAt.
	Upsert(ctx context.Context, inv SavedInvoice) (SavedInvoice, error)
	FindByID(ctx context.Context, id string) (*SavedInvoice, error)
	List(ctx context.Context) ([]SavedInvoice, error)
}
