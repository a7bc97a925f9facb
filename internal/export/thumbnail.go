package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/cache"
	"github.com/disintegration/imaging"
)

const (
	DefaultThumbnailWidth  = 240
	DefaultThumbnailHeight = 360
)

// Resize scales a PNG to fit within width x height and re-encodes it as PNG.
func Resize(src []byte, width, height int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	thumb := imaging.Fit(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL inlines an HTML document so the browser can load it without a
// round trip to this service.
func DataURL(html string) string {
	return "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(html))
}

// Thumbnailer renders small PNG previews of templates and caches them by key.
type Thumbnailer struct {
	exporter Exporter
	cache    cache.Cache[string, []byte]
	width    int
	height   int
	ttl      time.Duration
}

func NewThumbnailer(exporter Exporter, c cache.Cache[string, []byte]) *Thumbnailer {
	if c == nil {
		c = cache.NoopCache[string, []byte]{}
	}
	return &Thumbnailer{
		exporter: exporter,
		cache:    c,
		width:    DefaultThumbnailWidth,
		height:   DefaultThumbnailHeight,
	}
}

// Thumbnail returns the cached image for key or renders html to produce it.
func (t *Thumbnailer) Thumbnail(ctx context.Context, key, html string) ([]byte, error) {
	if img, ok := t.cache.Get(key); ok {
		return img, nil
	}
	shot, err := t.exporter.Render(ctx, DataURL(html), FormatPNG)
	if err != nil {
		return nil, err
	}
	img, err := Resize(shot, t.width, t.height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	t.cache.Set(key, img, t.ttl)
	return img, nil
}
