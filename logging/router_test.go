package logging_test

import (
	"context"
	"testing"
	"time"

	"ringsport/server/logging"
	"ringsport/server/logging/sinks"
)

func newTestRouter(t *testing.T, cfg logging.Config) (*logging.Router, *sinks.MemorySink) {
	t.Helper()
	cfg.EnabledSinks = []string{"memory"}
	memory := sinks.NewMemorySink()
	clock := logging.ClockFunc(func() time.Time {
		return time.Unix(1700000000, 0)
	})
	router, err := logging.NewRouter(clock, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		router.Close(ctx)
	})
	return router, memory
}

func waitForEvents(t *testing.T, memory *sinks.MemorySink, want int) []logging.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events := memory.Events()
		if len(events) >= want {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", want, len(memory.Events()))
	return nil
}

func TestRouterDeliversEvents(t *testing.T) {
	cfg := logging.DefaultConfig()
	router, memory := newTestRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{
		Type:     "generation.obstacle_spawned",
		Tick:     7,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGeneration,
	})

	events := waitForEvents(t, memory, 1)
	ev := events[0]
	if ev.Type != "generation.obstacle_spawned" || ev.Tick != 7 {
		t.Fatalf("delivered event mismatch: %+v", ev)
	}
	if ev.Time.IsZero() {
		t.Fatalf("router did not stamp the event time")
	}
	stats := router.Stats()
	if stats.EventsTotal != 1 {
		t.Fatalf("events total = %d, want 1", stats.EventsTotal)
	}
}

func TestRouterSeverityFilter(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router, memory := newTestRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{Type: "noise", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "noise", Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: "trouble", Severity: logging.SeverityError})

	events := waitForEvents(t, memory, 1)
	for _, ev := range events {
		if ev.Severity < logging.SeverityWarn {
			t.Fatalf("low-severity event leaked through: %+v", ev)
		}
	}
}

func TestRouterStampsAmbientFields(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"service": "preview", "shard": 3}
	router, memory := newTestRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{
		Type:     "lifecycle.level_started",
		Severity: logging.SeverityInfo,
		Extra:    map[string]any{"shard": 9},
	})

	events := waitForEvents(t, memory, 1)
	ev := events[0]
	if ev.Extra["service"] != "preview" {
		t.Fatalf("ambient field not stamped: %+v", ev.Extra)
	}
	if ev.Extra["shard"] != 9 {
		t.Fatalf("caller-set field overwritten: %+v", ev.Extra)
	}
}

func TestRouterIgnoresEmptyType(t *testing.T) {
	router, memory := newTestRouter(t, logging.DefaultConfig())
	router.Publish(context.Background(), logging.Event{Severity: logging.SeverityInfo})

	time.Sleep(50 * time.Millisecond)
	if events := memory.Events(); len(events) != 0 {
		t.Fatalf("untyped event delivered: %+v", events)
	}
}

func TestWithFields(t *testing.T) {
	var captured []logging.Event
	base := logging.PublisherFunc(func(_ context.Context, ev logging.Event) {
		captured = append(captured, ev)
	})
	pub := logging.WithFields(base, map[string]any{"seed": "abc"})

	pub.Publish(context.Background(), logging.Event{Type: "x", Severity: logging.SeverityInfo})
	if len(captured) != 1 {
		t.Fatalf("expected 1 event, got %d", len(captured))
	}
	if captured[0].Extra["seed"] != "abc" {
		t.Fatalf("field not stamped: %+v", captured[0].Extra)
	}
}

func TestRouterAttachesOnlyEnabledSinks(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	enabled := sinks.NewMemorySink()
	disabled := sinks.NewMemorySink()
	router, err := logging.NewRouter(logging.SystemClock{}, cfg, []logging.NamedSink{
		{Name: "memory", Sink: enabled},
		{Name: "json", Sink: disabled},
	})
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		router.Close(ctx)
	})

	if router.Sink("json") != nil {
		t.Fatalf("sink absent from EnabledSinks was attached")
	}
	if router.Sink("memory") == nil {
		t.Fatalf("enabled sink was not attached")
	}

	router.Publish(context.Background(), logging.Event{Type: "only-enabled", Severity: logging.SeverityInfo})
	waitForEvents(t, enabled, 1)
	if events := disabled.Events(); len(events) != 0 {
		t.Fatalf("disabled sink received %d events", len(events))
	}
}

func TestRouterEmptyEnabledListAttachesAll(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = nil
	memory := sinks.NewMemorySink()
	router, err := logging.NewRouter(logging.SystemClock{}, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		router.Close(ctx)
	})

	router.Publish(context.Background(), logging.Event{Type: "default-attached", Severity: logging.SeverityInfo})
	waitForEvents(t, memory, 1)
}

func TestRouterCloseAfterPublish(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	router, err := logging.NewRouter(logging.SystemClock{}, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	router.Publish(context.Background(), logging.Event{Type: "final", Severity: logging.SeverityInfo})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Publishing after close is a no-op, not a panic.
	router.Publish(context.Background(), logging.Event{Type: "late", Severity: logging.SeverityInfo})
}
