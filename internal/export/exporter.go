package export

import (
	"context"
	"errors"
	"strings"
)

// Format is an export output type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

var (
	// ErrRender wraps navigation and capture failures of the browser.
	ErrRender            = errors.New("render_failed")
	ErrUnsupportedFormat = errors.New("unsupported_format")
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Exporter turns a retrievable HTML page into document bytes.
type Exporter interface {
	Render(ctx context.Context, url string, format Format) ([]byte, error)
}
