package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, false)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Errors != 0 {
		t.Fatalf("expected no errors, got %d", snap.Errors)
	}
}

func TestStatsPrunesExpiredCalls(t *testing.T) {
	now := time.Now()
	stats := NewStats(10 * time.Second)
	stats.now = func() time.Time { return now }
	stats.Record(100*time.Millisecond, false)

	now = now.Add(25 * time.Second)
	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200*time.Millisecond, true)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.Errors != 1 {
		t.Fatalf("expected one failed call, got count=%d errors=%d", snap.Count, snap.Errors)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(-10*time.Millisecond, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Complete(context.Context, string) (string, error) { return s.text, s.err }
func (s stubCompleter) Name() string                                      { return "stub" }
func (s stubCompleter) Model() string                                     { return "stub-model" }

func TestInstrumentedRecordsCalls(t *testing.T) {
	stats := NewStats(time.Hour)
	ok := Instrument(stubCompleter{text: "hi"}, stats)
	bad := Instrument(stubCompleter{err: errors.New("boom")}, stats)

	if text, err := ok.Complete(context.Background(), "p"); err != nil || text != "hi" {
		t.Fatalf("unexpected result %q, %v", text, err)
	}
	if _, err := bad.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error to pass through")
	}
	if ok.Name() != "stub" || ok.Model() != "stub-model" {
		t.Errorf("expected embedded completer identity, got %s/%s", ok.Name(), ok.Model())
	}

	snap := stats.Snapshot()
	if snap.Count != 2 || snap.Errors != 1 {
		t.Fatalf("expected count=2 errors=1, got %+v", snap)
	}
}
