package domain

import (
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/render"
	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
)

// Preview is a rendered invoice kept for a fixed retention window.
type Preview struct {
	ID         string                  `json:"id"`
	TemplateID string                  `json:"templateId"`
	Template   templatedomain.Template `json:"template"`
	Record     render.Record           `json:"invoiceData"`
	HTML       string                  `json:"html"`
	CreatedAt  time.Time               `json:"createdAt"`
}

// Path is the retrieval path served by the HTTP layer.
func Path(id string) string {
	return "/preview/" + id
}
