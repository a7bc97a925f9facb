package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	TemplateID string
	Data       map[string]any
}

type CreateResponse struct {
	PreviewID  string `json:"previewId"`
	PreviewURL string `json:"previewUrl"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResponse, error)
	Resolve(ctx context.Context, id string) (*Preview, error)
	Sweep(ctx context.Context) (int, error)
}

var (
	ErrInvalidRequest = errors.New("invalid_preview_request")
	ErrInvalidID      = errors.New("invalid_preview_id")
	ErrNotFound       = errors.New("preview_not_found")
)
