package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"

	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
	"gopkg.in/yaml.v3"
)

const defaultCatalogFile = "default.yaml"

//go:embed default.yaml
var embeddedCatalog embed.FS

// Catalog is a template set plus the sample invoice used to preview it.
type Catalog struct {
	Templates []templatedomain.Template `yaml:"templates"`
	Sample    map[string]any            `yaml:"sample"`
}

// Load decodes a YAML catalog. Unknown keys are rejected so typos in a
// hand-edited file surface at startup.
func Load(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return Catalog{}, nil
		}
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	c.Sample = normalizeYAML(c.Sample)
	return c, nil
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Load(bytes.NewReader(raw))
}

// Default returns the built-in catalog.
func Default() (Catalog, error) {
	raw, err := embeddedCatalog.ReadFile(defaultCatalogFile)
	if err != nil {
		return Catalog{}, err
	}
	return Load(bytes.NewReader(raw))
}

// normalizeYAML turns yaml.v3 numeric types into the float64 values JSON
// decoding produces, so sample data renders the same way request data does.
func normalizeYAML(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case map[string]any:
		return normalizeYAML(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
