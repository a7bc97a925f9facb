package domain

import (
	"context"
	"errors"
)

type SaveRequest struct {
	InvoiceID  string
	TemplateID string
	Data       map[string]any
}

type Service interface {
	Save(ctx context.Context, req SaveRequest) (*SavedInvoice, error)
	GetByID(ctx context.Context, id string) (*SavedInvoice, error)
	List(ctx context.Context) ([]Summary, error)
}

var (
	ErrInvalidSaveRequest = errors.New("invalid_save_request")
	ErrInvalidInvoiceID   = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound    = errors.New("invoice_not_found")
)
