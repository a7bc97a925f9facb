package domain

import (
	"time"
)

// SavedInvoice is invoice data kept under a client-chosen id.
type SavedInvoice struct {
	ID         string         `json:"id"`
	TemplateID string         `json:"templateId"`
	Data       map[string]any `json:"invoiceData"`
	SavedAt    time.Time      `json:"savedAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Summary is the listing view of a saved invoice. Display fields are lifted
// from the invoice data when present.
type Summary struct {
	ID            string    `json:"id"`
	TemplateID    string    `json:"templateId"`
	InvoiceNumber any       `json:"invoiceNumber,omitempty"`
	ClientName    any       `json:"clientName,omitempty"`
	Total         any       `json:"total,omitempty"`
	SavedAt       time.Time `json:"savedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (i SavedInvoice) Summary() Summary {
	return Summary{
		ID:            i.ID,
		TemplateID:    i.TemplateID,
		InvoiceNumber: i.Data["invoiceNumber"],
		ClientName:    i.Data["clientName"],
		Total:         i.Data["total"],
		SavedAt:       i.SavedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// CloneData deep copies decoded JSON so stored invoices never alias caller
// memory.
func CloneData(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
