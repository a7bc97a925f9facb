package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
	"github.com/AbdelrahmanM1/invoicemaker/internal/events"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/render"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/catalog"
	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
	templateservice "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/service"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/AbdelrahmanM1/invoicemaker/internal/preview/repository"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

const retention = 24 * time.Hour

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *capturePublisher) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc   *Service
	clock *clock.ManualClock
	pub   *capturePublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := clock.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	templates := templateservice.New(zap.NewNop(), catalog.Catalog{Templates: []templatedomain.Template{
		{ID: "greeting", Name: "Greeting", Category: "test", HTML: "{{name}} owes {{total}}"},
		{ID: "lines", Name: "Lines", Category: "test", HTML: "<ul>{{#items}}<li>{{description}}: {{amount}}</li>{{/items}}</ul>"},
		{ID: "broken", Name: "Broken", Category: "test", HTML: "{{#items}}<li>"},
	}})
	pub := &capturePublisher{}
	svc := newService(ServiceParam{
		Log:       zap.NewNop(),
		Clock:     clk,
		Templates: templates,
		Renderer:  render.NewHTMLRenderer(render.PolicyRaw),
		Repo:      repository.NewMemoryRepository(clk, retention),
		Bus:       events.NewBus(events.BusParams{Publisher: pub, Clock: clk, Log: zap.NewNop()}),
	})
	return fixture{svc: svc, clock: clk, pub: pub}
}

func TestCreateThenResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	data := map[string]any{
		"invoiceNumber": "INV-7",
		"items": []any{
			map[string]any{"description": "A", "amount": "1"},
			map[string]any{"description": "B", "amount": "2"},
		},
	}

	resp, err := f.svc.Create(ctx, previewdomain.CreateRequest{TemplateID: "lines", Data: data})
	if err != nil {
		t.Fatalf("expected preview, got %v", err)
	}
	if resp.PreviewURL != "/preview/"+resp.PreviewID {
		t.Fatalf("unexpected preview url %q", resp.PreviewURL)
	}

	got, err := f.svc.Resolve(ctx, resp.PreviewID)
	if err != nil {
		t.Fatalf("expected resolve, got %v", err)
	}
	if got.TemplateID != "lines" {
		t.Fatalf("expected template lines, got %q", got.TemplateID)
	}
	if diff := cmp.Diff(render.RecordFromMap(data), got.Record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if got.HTML != "<ul><li>A: 1</li><li>B: 2</li></ul>" {
		t.Fatalf("unexpected html %q", got.HTML)
	}
	if diff := cmp.Diff([]string{events.EventPreviewCreated}, f.pub.types()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateCopiesInvoiceData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	data := map[string]any{"name": "Acme", "total": "110.00"}

	resp, err := f.svc.Create(ctx, previewdomain.CreateRequest{TemplateID: "greeting", Data: data})
	if err != nil {
		t.Fatalf("expected preview, got %v", err)
	}
	data["name"] = "Mutated"

	got, err := f.svc.Resolve(ctx, resp.PreviewID)
	if err != nil {
		t.Fatalf("expected resolve, got %v", err)
	}
	if got.HTML != "Acme owes 110.00" {
		t.Fatalf("unexpected html %q", got.HTML)
	}
	got.Record.Fields["name"] = "Changed"

	again, _ := f.svc.Resolve(ctx, resp.PreviewID)
	if again.Record.Fields["name"] != "Acme" {
		t.Fatalf("expected stored record untouched, got %q", again.Record.Fields["name"])
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  previewdomain.CreateRequest
		want error
	}{
		{"missing template", previewdomain.CreateRequest{Data: map[string]any{}}, previewdomain.ErrInvalidRequest},
		{"missing data", previewdomain.CreateRequest{TemplateID: "greeting"}, previewdomain.ErrInvalidRequest},
		{"unknown template", previewdomain.CreateRequest{TemplateID: "nope", Data: map[string]any{}}, templatedomain.ErrNotFound},
		{"malformed template", previewdomain.CreateRequest{TemplateID: "broken", Data: map[string]any{}}, render.ErrMalformedTemplate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(f.pub.types()) != 0 {
		t.Fatalf("expected no events for rejected requests")
	}
}

func TestResolveUnknownAndBlank(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Resolve(context.Background(), "missing"); !errors.Is(err, previewdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Resolve(context.Background(), " "); !errors.Is(err, previewdomain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestSweepRemovesOnlyExpiredPreviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old, err := f.svc.Create(ctx, previewdomain.CreateRequest{TemplateID: "greeting", Data: map[string]any{"name": "old"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.clock.Advance(12 * time.Hour)
	fresh, err := f.svc.Create(ctx, previewdomain.CreateRequest{TemplateID: "greeting", Data: map[string]any{"name": "fresh"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Reads inside the window do not extend it.
	if _, err := f.svc.Resolve(ctx, old.PreviewID); err != nil {
		t.Fatalf("expected old preview within window, got %v", err)
	}

	f.clock.Advance(12*time.Hour + time.Second)
	removed, err := f.svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := f.svc.Resolve(ctx, old.PreviewID); !errors.Is(err, previewdomain.ErrNotFound) {
		t.Fatalf("expected swept preview to be gone, got %v", err)
	}
	if _, err := f.svc.Resolve(ctx, fresh.PreviewID); err != nil {
		t.Fatalf("expected fresh preview, got %v", err)
	}

	types := f.pub.types()
	if types[len(types)-1] != events.EventPreviewSwept {
		t.Fatalf("expected sweep event, got %v", types)
	}
}

func TestConcurrentCreatesUseDistinctIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[string]struct{}{}
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.svc.Create(ctx, previewdomain.CreateRequest{TemplateID: "greeting", Data: map[string]any{}})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			mu.Lock()
			ids[resp.PreviewID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(ids) != 32 {
		t.Fatalf("expected 32 distinct ids, got %d", len(ids))
	}
	for id := range ids {
		if strings.TrimSpace(id) == "" {
			t.Fatalf("expected non-empty id")
		}
	}
}
