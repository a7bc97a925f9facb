package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Invoice payloads carry client and company contact details. Keys containing
// any of these fragments are redacted before logging or tracing.
var sensitiveKeyFragments = []string{
	"email",
	"phone",
	"address",
	"taxid",
	"tax_id",
	"iban",
	"account",
	"secret",
	"token",
	"password",
}

// IsSensitiveKey reports whether a field name looks like contact or
// credential data.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, fragment := range sensitiveKeyFragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}

// RedactInvoiceData returns a deep copy of data with sensitive values
// replaced. Line items are walked so per-row contact fields are covered too.
func RedactInvoiceData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for key, value := range data {
		if IsSensitiveKey(key) {
			out[key] = redactValue(value)
			continue
		}
		out[key] = redactNested(value)
	}
	return out
}

// InvoiceData is a zap field carrying a redacted invoice payload.
func InvoiceData(key string, data map[string]any) zap.Field {
	return zap.Any(key, RedactInvoiceData(data))
}

func redactNested(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return RedactInvoiceData(typed)
	case []any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, redactNested(entry))
		}
		return items
	default:
		return value
	}
}

// redactValue keeps the last four characters of strings so operators can
// still tell two values apart.
func redactValue(value any) any {
	s, ok := value.(string)
	if !ok {
		return "[redacted]"
	}
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}
