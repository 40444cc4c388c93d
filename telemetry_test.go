package main

import (
	"testing"
	"time"

	"ringsport/server/internal/gen"
)

func TestTelemetryRecordFrame(t *testing.T) {
	counters := newTelemetryCounters()
	frame := gen.Frame{
		Spawned:   make([]gen.SpawnEvent, 3),
		Despawned: make([]gen.DespawnEvent, 2),
	}

	counters.RecordFrame(frame, 256)
	counters.RecordFrame(frame, 128)

	snapshot := counters.Snapshot(gen.Stats{})
	if snapshot.FramesBroadcast != 2 {
		t.Fatalf("frames = %d, want 2", snapshot.FramesBroadcast)
	}
	if snapshot.BytesSent != 384 {
		t.Fatalf("bytes = %d, want 384", snapshot.BytesSent)
	}
	if snapshot.SpawnEvents != 6 || snapshot.DespawnEvents != 4 {
		t.Fatalf("event counts wrong: %+v", snapshot)
	}
}

func TestTelemetryTickDuration(t *testing.T) {
	counters := newTelemetryCounters()
	counters.RecordTickDuration(7 * time.Millisecond)
	if got := counters.Snapshot(gen.Stats{}).TickDurationMillis; got != 7 {
		t.Fatalf("tick duration = %d, want 7", got)
	}
}

func TestTelemetryRejectedCommands(t *testing.T) {
	counters := newTelemetryCounters()
	counters.RecordRejectedCommand()
	counters.RecordRejectedCommand()
	if got := counters.Snapshot(gen.Stats{}).CommandsRejected; got != 2 {
		t.Fatalf("rejected = %d, want 2", got)
	}
}

func TestTelemetrySnapshotEmbedsGeneratorStats(t *testing.T) {
	counters := newTelemetryCounters()
	stats := gen.Stats{SpawnedObstacles: 11, PoolRetries: 2}
	snapshot := counters.Snapshot(stats)
	if snapshot.Generator != stats {
		t.Fatalf("generator stats not embedded: %+v", snapshot.Generator)
	}
}
