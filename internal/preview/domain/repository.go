package domain

import "context"

// Repository stores previews until their retention window elapses.
type Repository interface {
	Insert(ctx context.Context, p Preview) error
	FindByID(ctx context.Context, id string) (*Preview, error)
	// Sweep removes previews older than the retention window and reports how
	// many were removed.
	Sweep(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}
