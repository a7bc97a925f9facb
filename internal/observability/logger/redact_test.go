package logger

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactInvoiceData(t *testing.T) {
	input := map[string]any{
		"invoiceNumber": "INV-001",
		"clientEmail":   "billing@acme.test",
		"clientAddress": "1 Main Street",
		"companyTaxId":  42,
		"items": []any{
			map[string]any{"description": "Design", "amount": "100", "contactPhone": "5550001234"},
		},
		"company": map[string]any{
			"companyPhone": "555",
		},
	}

	want := map[string]any{
		"invoiceNumber": "INV-001",
		"clientEmail":   "****test",
		"clientAddress": "****reet",
		"companyTaxId":  "[redacted]",
		"items": []any{
			map[string]any{"description": "Design", "amount": "100", "contactPhone": "****1234"},
		},
		"company": map[string]any{
			"companyPhone": "****",
		},
	}
	if diff := cmp.Diff(want, RedactInvoiceData(input)); diff != "" {
		t.Fatalf("unexpected redaction (-want +got):\n%s", diff)
	}
	if input["clientEmail"] != "billing@acme.test" {
		t.Fatalf("expected input to be left untouched")
	}
	if RedactInvoiceData(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}

func TestInvoiceDataField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	zap.New(core).Debug("saved", InvoiceData("invoice_data", map[string]any{"clientEmail": "a@b.example"}))

	data, ok := logs.All()[0].ContextMap()["invoice_data"].(map[string]any)
	if !ok {
		t.Fatalf("expected invoice_data map field")
	}
	if data["clientEmail"] != "****mple" {
		t.Fatalf("expected redacted email, got %v", data["clientEmail"])
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for key, want := range map[string]bool{
		"clientEmail":    true,
		"COMPANY_PHONE":  true,
		"bankAccount":    true,
		"invoiceNumber":  false,
		"total":          false,
		" clientName ":   false,
	} {
		if got := IsSensitiveKey(key); got != want {
			t.Fatalf("IsSensitiveKey(%q) = %v, want %v", key, got, want)
		}
	}
}
