package server

import (
	"testing"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/clock"
)

func TestRateLimiterWindow(t *testing.T) {
	clk := clock.NewManualClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	rl := newRateLimiter(2, time.Minute, clk)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatalf("expected first two requests to pass")
	}
	if rl.Allow("a") {
		t.Fatalf("expected third request to be limited")
	}
	if !rl.Allow("b") {
		t.Fatalf("expected other key to pass")
	}
	if rl.Allow("") {
		t.Fatalf("expected empty key to be rejected")
	}

	clk.Advance(time.Minute + time.Second)
	if !rl.Allow("a") {
		t.Fatalf("expected new window to reset the count")
	}
	if _, ok := rl.items["b"]; ok {
		t.Fatalf("expected stale key to be pruned")
	}
}
