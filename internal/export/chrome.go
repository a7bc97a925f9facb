package export

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Page geometry for exports: A4 with 20px margins, and an 800x1200 viewport
// for screenshots.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginInches   = 20.0 / 96.0

	screenshotWidth  = 800
	screenshotHeight = 1200

	// settleTimeout caps the wait for network idle after the load event, for
	// pages that keep a connection open.
	settleTimeout = 10 * time.Second
)

type ChromeConfig struct {
	ExecPath string
	// Timeout bounds a single export. Zero means no limit beyond the caller's
	// context.
	Timeout time.Duration
}

// ChromeExporter drives a shared headless Chrome. Each export runs in its own
// tab; the browser is started on first use.
type ChromeExporter struct {
	log *zap.Logger
	cfg ChromeConfig

	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewChromeExporter(cfg ChromeConfig, log *zap.Logger) *ChromeExporter {
	if log == nil {
		log = zap.NewNop()
	}
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("hide-scrollbars", true))
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeExporter{
		log:         log.Named("export.chrome"),
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

func (e *ChromeExporter) browser() (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browserCtx != nil && e.browserCtx.Err() == nil {
		return e.browserCtx, nil
	}
	ctx, cancel := chromedp.NewContext(e.allocCtx)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: start browser: %v", ErrRender, err)
	}
	e.browserCtx, e.browserCancel = ctx, cancel
	e.log.Info("headless browser started")
	return ctx, nil
}

func (e *ChromeExporter) Render(ctx context.Context, url string, format Format) ([]byte, error) {
	var (
		buf     []byte
		actions chromedp.Tasks
	)
	switch format {
	case FormatPDF:
		actions = chromedp.Tasks{
			navigateAndSettle(url),
			chromedp.ActionFunc(func(ctx context.Context) error {
				data, _, err := page.PrintToPDF().
					WithPrintBackground(true).
					WithPaperWidth(a4WidthInches).
					WithPaperHeight(a4HeightInches).
					WithMarginTop(marginInches).
					WithMarginRight(marginInches).
					WithMarginBottom(marginInches).
					WithMarginLeft(marginInches).
					Do(ctx)
				buf = data
				return err
			}),
		}
	case FormatPNG:
		actions = chromedp.Tasks{
			chromedp.EmulateViewport(screenshotWidth, screenshotHeight),
			navigateAndSettle(url),
			chromedp.FullScreenshot(&buf, 100),
		}
	default:
		return nil, ErrUnsupportedFormat
	}

	browserCtx, err := e.browser()
	if err != nil {
		return nil, err
	}
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, e.cfg.Timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	if err := chromedp.Run(tabCtx, actions); err != nil {
		return nil, fmt.Errorf("%w: %s export: %v", ErrRender, format, err)
	}
	return buf, nil
}

// Close shuts down the browser and its allocator.
func (e *ChromeExporter) Close() {
	e.mu.Lock()
	if e.browserCancel != nil {
		e.browserCancel()
	}
	e.mu.Unlock()
	e.allocCancel()
}

// navigateAndSettle loads url and waits until the page's network has been
// idle, so web fonts and images requested after the load event are in the
// capture.
func navigateAndSettle(url string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		listenCtx, stopListening := context.WithCancel(ctx)
		defer stopListening()

		idle := make(chan struct{})
		var (
			navigating atomic.Bool
			once       sync.Once
		)
		chromedp.ListenTarget(listenCtx, func(ev any) {
			e, ok := ev.(*page.EventLifecycleEvent)
			if !ok {
				return
			}
			switch e.Name {
			case "init":
				navigating.Store(true)
			case "networkIdle":
				if navigating.Load() {
					once.Do(func() { close(idle) })
				}
			}
		})

		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}
		if err := chromedp.Navigate(url).Do(ctx); err != nil {
			return err
		}

		timer := time.NewTimer(settleTimeout)
		defer timer.Stop()
		select {
		case <-idle:
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}
