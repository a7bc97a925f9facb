package domain

import (
	"errors"
	"strings"
)

type Service interface {
	List() []Summary
	Get(id string) (Template, error)
	// Append inserts templates whose id is not already in the catalog and
	// returns the catalog size afterwards.
	Append(templates []Template) int
	Len() int
	// Sample returns the invoice data used to render template thumbnails.
	Sample() map[string]any
}

func NormalizeID(raw string) string {
	return strings.TrimSpace(raw)
}

var (
	ErrInvalidID = errors.New("invalid_template_id")
	ErrNotFound  = errors.New("template_not_found")
)
