package render

import (
	"fmt"
	"strings"
)

type nodeKind int

const (
	textNode nodeKind = iota
	fieldNode
	blockNode
)

type node struct {
	kind nodeKind
	text string // textNode
	name string // fieldNode, blockNode
	body []node // blockNode: text and field nodes only
}

// Document is a parsed template: a flat token list with at most one
// repeated block. Templates with several repeated regions are rejected
// rather than expanded partially.
type Document struct {
	nodes []node
	block string
}

// Block returns the list field expanded by the repeated block, or "" when the
// template has none.
func (d *Document) Block() string {
	if d == nil {
		return ""
	}
	return d.block
}

// Fields lists top-level placeholder names in order of first appearance.
func (d *Document) Fields() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, n := range d.nodes {
		if n.kind != fieldNode {
			continue
		}
		if _, ok := seen[n.name]; ok {
			continue
		}
		seen[n.name] = struct{}{}
		out = append(out, n.name)
	}
	return out
}

// Parse tokenizes template HTML. A "{{...}}" sequence is a token only when its
// inner text is a word, optionally prefixed by '#' (open block) or '/' (close
// block); anything else is kept as literal text.
func Parse(html string) (*Document, error) {
	doc := &Document{}
	var (
		open      *node
		openAt    int
		literal   strings.Builder
		blockSeen bool
	)

	emitText := func() {
		if literal.Len() == 0 {
			return
		}
		n := node{kind: textNode, text: literal.String()}
		literal.Reset()
		if open != nil {
			open.body = append(open.body, n)
			return
		}
		doc.nodes = append(doc.nodes, n)
	}

	pos := 0
	for pos < len(html) {
		start := strings.Index(html[pos:], "{{")
		if start < 0 {
			literal.WriteString(html[pos:])
			break
		}
		start += pos
		end := strings.Index(html[start+2:], "}}")
		if end < 0 {
			literal.WriteString(html[pos:])
			break
		}
		end += start + 2
		inner := html[start+2 : end]

		sigil, name := splitToken(inner)
		if name == "" {
			// Only the first brace is literal; a token may open at the next one.
			literal.WriteString(html[pos : start+1])
			pos = start + 1
			continue
		}

		literal.WriteString(html[pos:start])
		emitText()
		pos = end + 2

		switch sigil {
		case '#':
			if open != nil {
				return nil, fmt.Errorf("%w: nested block %q inside %q at offset %d", ErrMalformedTemplate, name, open.name, start)
			}
			if blockSeen {
				return nil, fmt.Errorf("%w: second repeated block %q at offset %d", ErrMalformedTemplate, name, start)
			}
			open = &node{kind: blockNode, name: name}
			openAt = start
			blockSeen = true
		case '/':
			if open == nil {
				return nil, fmt.Errorf("%w: closing %q without opening block at offset %d", ErrMalformedTemplate, name, start)
			}
			if open.name != name {
				return nil, fmt.Errorf("%w: block %q closed by %q at offset %d", ErrMalformedTemplate, open.name, name, start)
			}
			doc.nodes = append(doc.nodes, *open)
			doc.block = open.name
			open = nil
		default:
			n := node{kind: fieldNode, name: name}
			if open != nil {
				open.body = append(open.body, n)
			} else {
				doc.nodes = append(doc.nodes, n)
			}
		}
	}

	if open != nil {
		return nil, fmt.Errorf("%w: unterminated block %q opened at offset %d", ErrMalformedTemplate, open.name, openAt)
	}
	emitText()
	return doc, nil
}

func splitToken(inner string) (byte, string) {
	if inner == "" {
		return 0, ""
	}
	var sigil byte
	if inner[0] == '#' || inner[0] == '/' {
		sigil = inner[0]
		inner = inner[1:]
	}
	if !isWord(inner) {
		return 0, ""
	}
	return sigil, inner
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}
