package render

import (
	"errors"
)

// ErrMalformedTemplate is returned when template HTML cannot be tokenized
// into text, placeholders and at most one repeated block.
var ErrMalformedTemplate = errors.New("malformed_template")

// RenderInput is the deterministic input used for invoice rendering.
type RenderInput struct {
	TemplateID string
	HTML       string
	Record     Record
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}
