package tracing

import (
	"fmt"

	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/logger"
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by preview, export and HTTP spans.
const (
	AttrTemplateID   = attribute.Key("invoice.template_id")
	AttrPreviewID    = attribute.Key("invoice.preview_id")
	AttrExportFormat = attribute.Key("invoice.export_format")
	AttrRequestID    = attribute.Key("request_id")
)

// SafeAttributes drops attributes whose keys look like invoice contact
// details or credentials, using the same rules as log redaction.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if logger.IsSensitiveKey(string(attr.Key)) {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

// SafeError reduces an error to its type. Browser and renderer errors can
// echo template fragments and local paths.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%T", err)
}
