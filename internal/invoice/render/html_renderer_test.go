package render

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestRenderHTMLSubstitutesScalars(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	out, err := r.RenderHTML(RenderInput{
		HTML:   "{{name}} owes {{total}}",
		Record: RecordFromMap(map[string]any{"name": "Acme", "total": "110.00"}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "Acme owes 110.00" {
		t.Fatalf("expected %q, got %q", "Acme owes 110.00", out)
	}
}

func TestRenderHTMLExpandsItemsInOrder(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	out, err := r.RenderHTML(RenderInput{
		HTML: "{{#items}}<li>{{description}}: {{amount}}</li>{{/items}}",
		Record: RecordFromMap(map[string]any{
			"items": []any{
				map[string]any{"description": "A", "amount": "1"},
				map[string]any{"description": "B", "amount": "2"},
			},
		}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "<li>A: 1</li><li>B: 2</li>" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHTMLMissingValuesAreEmpty(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	out, err := r.RenderHTML(RenderInput{
		HTML: "[{{missing}}]<ul>{{#items}}<li>{{description}}|{{qty}}</li>{{/items}}</ul>",
		Record: RecordFromMap(map[string]any{
			"items": []any{map[string]any{"description": "only"}, "not-an-object"},
		}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "[]<ul><li>only|</li><li>|</li></ul>" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHTMLAbsentListOmitsBlock(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	out, err := r.RenderHTML(RenderInput{
		HTML:   "<table>{{#items}}<tr>{{description}}</tr>{{/items}}</table>",
		Record: RecordFromMap(map[string]any{"items": "not a list"}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "<table></table>" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHTMLBlockOverCustomListName(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	out, err := r.RenderHTML(RenderInput{
		HTML: "{{#lines}}{{sku}};{{/lines}}",
		Record: RecordFromMap(map[string]any{
			"lines": []any{map[string]any{"sku": "x1"}, map[string]any{"sku": "x2"}},
		}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "x1;x2;" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHTMLFormatsNonStringScalars(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	out, err := r.RenderHTML(RenderInput{
		HTML: "{{qty}}|{{rate}}|{{paid}}|{{zero}}|{{nothing}}|{{nested}}",
		Record: RecordFromMap(map[string]any{
			"qty":     float64(3),
			"rate":    12.5,
			"paid":    false,
			"zero":    float64(0),
			"nothing": nil,
			"nested":  map[string]any{"a": "b"},
		}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "3|12.5|false|0||" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHTMLDoesNotRescanValues(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	out, err := r.RenderHTML(RenderInput{
		HTML:   "{{a}}-{{b}}",
		Record: RecordFromMap(map[string]any{"a": "{{b}}", "b": "B"}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "{{b}}-B" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHTMLKeepsNonTokenBraces(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	in := "${{amount}} {{ spaced }} {{a.b}} {{ and {{"
	out, err := r.RenderHTML(RenderInput{
		HTML:   in,
		Record: RecordFromMap(map[string]any{"amount": "5"}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "$5 {{ spaced }} {{a.b}} {{ and {{" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHTMLFindsTokensInsideBraceRuns(t *testing.T) {
	r := NewHTMLRenderer(PolicyRaw)
	record := RecordFromMap(map[string]any{
		"name":  "Acme",
		"items": []any{map[string]any{"x": "1"}},
	})
	cases := map[string]string{
		"<b>{{{name}}}</b>":           "<b>{Acme}</b>",
		"{{{{name}}}}":                "{{Acme}}",
		"{{#items}}{{{x}}}{{/items}}": "{1}",
		"{{ {{name}}":                 "{{ Acme",
	}
	for in, want := range cases {
		out, err := r.RenderHTML(RenderInput{HTML: in, Record: record})
		if err != nil {
			t.Fatalf("render %q: %v", in, err)
		}
		if out != want {
			t.Fatalf("render %q: expected %q, got %q", in, want, out)
		}
	}
}

func TestRenderHTMLRejectsMalformedTemplates(t *testing.T) {
	cases := map[string]string{
		"unterminated": "<ul>{{#items}}<li>{{x}}</li>",
		"stray close":  "{{x}}{{/items}}",
		"mismatched":   "{{#items}}{{x}}{{/rows}}",
		"nested":       "{{#items}}{{#rows}}{{/rows}}{{/items}}",
		"two blocks":   "{{#items}}{{/items}}{{#items}}{{/items}}",
	}
	r := NewHTMLRenderer(PolicyRaw)
	for name, html := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.RenderHTML(RenderInput{HTML: html})
			if !errors.Is(err, ErrMalformedTemplate) {
				t.Fatalf("expected ErrMalformedTemplate, got %v", err)
			}
		})
	}
}

func TestRenderHTMLValuePolicies(t *testing.T) {
	rec := RecordFromMap(map[string]any{"note": `<b>bold</b><script>alert(1)</script>`})
	input := RenderInput{HTML: "<p>{{note}}</p>", Record: rec}

	cases := []struct {
		policy ValuePolicy
		want   string
	}{
		{PolicyRaw, `<p><b>bold</b><script>alert(1)</script></p>`},
		{PolicyEscape, `<p>&lt;b&gt;bold&lt;/b&gt;&lt;script&gt;alert(1)&lt;/script&gt;</p>`},
		{PolicySanitize, `<p><b>bold</b></p>`},
	}
	for _, tc := range cases {
		out, err := NewHTMLRenderer(tc.policy).RenderHTML(input)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.policy, err)
		}
		if out != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.policy, tc.want, out)
		}
	}
}

func TestRenderHTMLUnknownPolicyFallsBackToRaw(t *testing.T) {
	r := NewHTMLRenderer(ValuePolicy("bogus"))
	if r.policy != PolicyRaw {
		t.Fatalf("expected raw policy, got %q", r.policy)
	}
}

func TestRenderHTMLIsDeterministicAndConcurrent(t *testing.T) {
	r := NewHTMLRenderer(PolicyEscape)
	items := make([]any, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, map[string]any{"description": "row", "amount": float64(i)})
	}
	input := RenderInput{
		HTML:   "<h1>{{invoiceNumber}}</h1>{{#items}}<tr>{{description}}={{amount}}</tr>{{/items}}<p>{{total}}</p>",
		Record: RecordFromMap(map[string]any{"invoiceNumber": "INV-1", "total": "300", "items": items}),
	}
	want, err := r.RenderHTML(input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := strings.Count(want, "<tr>"); got != 25 {
		t.Fatalf("expected 25 expansions, got %d", got)
	}
	if strings.Contains(want, "{{") {
		t.Fatalf("expected no residual tokens, got %q", want)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.RenderHTML(input)
			if err != nil || got != want {
				t.Errorf("expected identical output, got %q (err %v)", got, err)
			}
		}()
	}
	wg.Wait()
}
