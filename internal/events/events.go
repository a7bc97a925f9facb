package events

import "time"

// Domain event types.
const (
	EventPreviewCreated    = "preview.created"
	EventPreviewSwept      = "preview.swept"
	EventInvoiceSaved      = "invoice.saved"
	EventDocumentExported  = "document.exported"
	EventTemplatesAppended = "templates.appended"
)

// Event is the envelope published for every domain event. Payloads carry
// identifiers and counts only, never invoice field values.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Subject    string         `json:"subject,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// PreviewPayload describes a created preview.
type PreviewPayload struct {
	PreviewID  string `json:"preview_id"`
	TemplateID string `json:"template_id"`
}

func (p PreviewPayload) ToMap() map[string]any {
	return map[string]any{
		"preview_id":  p.PreviewID,
		"template_id": p.TemplateID,
	}
}

// ExportPayload describes a finished export.
type ExportPayload struct {
	PreviewID string `json:"preview_id"`
	Format    string `json:"format"`
	Bytes     int    `json:"bytes"`
}

func (p ExportPayload) ToMap() map[string]any {
	return map[string]any{
		"preview_id": p.PreviewID,
		"format":     p.Format,
		"bytes":      p.Bytes,
	}
}
