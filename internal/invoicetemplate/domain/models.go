package domain

// Template is a named HTML fragment with placeholder tokens. Templates are
// immutable once they are part of the catalog.
type Template struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Preview  string `json:"preview,omitempty" yaml:"preview"`
	HTML     string `json:"html" yaml:"html"`
}

// Summary is the listing view of a template. It never carries HTML.
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Preview  string `json:"preview,omitempty"`
}

func (t Template) Summary() Summary {
	return Summary{
		ID:       t.ID,
		Name:     t.Name,
		Category: t.Category,
		Preview:  t.Preview,
	}
}
