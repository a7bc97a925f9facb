package render

import (
	"html"
	"strings"
	"sync"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
	"github.com/microcosm-cc/bluemonday"
)

// ValuePolicy decides how substituted values are written into the HTML.
type ValuePolicy string

const (
	// PolicyRaw inserts values verbatim. Field values can inject markup.
	PolicyRaw ValuePolicy = config.ValuePolicyRaw
	// PolicyEscape HTML-escapes every value.
	PolicyEscape ValuePolicy = config.ValuePolicyEscape
	// PolicySanitize keeps safe inline markup and strips scripts and handlers.
	PolicySanitize ValuePolicy = config.ValuePolicySanitize
)

var (
	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy
)

func (p ValuePolicy) apply(value string) string {
	switch p {
	case PolicyEscape:
		return html.EscapeString(value)
	case PolicySanitize:
		sanitizerOnce.Do(func() {
			sanitizer = bluemonday.UGCPolicy()
		})
		return sanitizer.Sanitize(value)
	default:
		return value
	}
}

// HTMLRenderer substitutes invoice records into mustache-style templates.
// It holds no mutable state and is safe for concurrent use.
type HTMLRenderer struct {
	policy ValuePolicy
}

func NewRenderer(cfg config.Config) Renderer {
	return NewHTMLRenderer(ValuePolicy(cfg.RenderValuePolicy))
}

func NewHTMLRenderer(policy ValuePolicy) *HTMLRenderer {
	switch policy {
	case PolicyEscape, PolicySanitize:
	default:
		policy = PolicyRaw
	}
	return &HTMLRenderer{policy: policy}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	doc, err := Parse(input.HTML)
	if err != nil {
		return "", err
	}
	return r.Execute(doc, input.Record), nil
}

// Execute renders a parsed document. Substituted values are never re-scanned
// for placeholders.
func (r *HTMLRenderer) Execute(doc *Document, rec Record) string {
	var b strings.Builder
	for _, n := range doc.nodes {
		switch n.kind {
		case textNode:
			b.WriteString(n.text)
		case fieldNode:
			b.WriteString(r.policy.apply(rec.Fields[n.name]))
		case blockNode:
			for _, row := range rec.Lists[n.name] {
				for _, inner := range n.body {
					if inner.kind == fieldNode {
						b.WriteString(r.policy.apply(row[inner.name]))
						continue
					}
					b.WriteString(inner.text)
				}
			}
		}
	}
	return b.String()
}
