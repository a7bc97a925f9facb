package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCollectsFieldsAndBlock(t *testing.T) {
	doc, err := Parse("{{a}} {{b}} {{#items}}{{x}}{{/items}} {{a}} {{c}}")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.Block() != "items" {
		t.Fatalf("expected block items, got %q", doc.Block())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, doc.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWithoutBlock(t *testing.T) {
	doc, err := Parse("<p>plain</p>")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.Block() != "" || len(doc.Fields()) != 0 {
		t.Fatalf("expected empty document metadata, got block=%q fields=%v", doc.Block(), doc.Fields())
	}
	out := NewHTMLRenderer(PolicyRaw).Execute(doc, Record{})
	if out != "<p>plain</p>" {
		t.Fatalf("expected text preserved, got %q", out)
	}
}

func TestRecordCloneIsDeep(t *testing.T) {
	rec := RecordFromMap(map[string]any{
		"name":  "Acme",
		"items": []any{map[string]any{"description": "A"}},
	})
	cp := rec.Clone()
	cp.Fields["name"] = "Other"
	cp.Lists["items"][0]["description"] = "changed"

	if rec.Fields["name"] != "Acme" {
		t.Fatalf("expected original field untouched, got %q", rec.Fields["name"])
	}
	if rec.Lists["items"][0]["description"] != "A" {
		t.Fatalf("expected original list untouched, got %q", rec.Lists["items"][0]["description"])
	}
}
