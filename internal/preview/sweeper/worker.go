package sweeper

import (
	"context"
	"errors"
	"time"

	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Previews previewdomain.Service
	Config   Config `optional:"true"`
}

// Worker periodically removes previews past their retention window. It runs
// off the request path; handlers never wait on it.
type Worker struct {
	log      *zap.Logger
	previews previewdomain.Service
	cfg      Config
	tick     func(time.Duration) (<-chan time.Time, func())
}

func NewWorker(p Params) *Worker {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		log:      log.Named("preview.sweeper"),
		previews: p.Previews,
		cfg:      p.Config.withDefaults(),
		tick:     newTicker,
	}
}

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// RunForever sweeps once per interval until ctx is cancelled.
func (w *Worker) RunForever(ctx context.Context) {
	ticks, stop := w.tick(w.cfg.Interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
		}

		if _, err := w.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.log.Warn("preview sweep failed", zap.Error(err))
		}
	}
}

// RunOnce performs a single sweep.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if w.previews == nil {
		return 0, errors.New("preview_sweeper_unavailable")
	}
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	return w.previews.Sweep(ctx)
}
