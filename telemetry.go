package main

import (
	"sync/atomic"
	"time"

	"ringsport/server/internal/gen"
)

type telemetryCounters struct {
	framesBroadcast    atomic.Uint64
	bytesSent          atomic.Uint64
	spawnEvents        atomic.Uint64
	despawnEvents      atomic.Uint64
	tickDurationMillis atomic.Int64
	commandsRejected   atomic.Uint64
}

type telemetrySnapshot struct {
	FramesBroadcast    uint64    `json:"framesBroadcast"`
	BytesSent          uint64    `json:"bytesSent"`
	SpawnEvents        uint64    `json:"spawnEvents"`
	DespawnEvents      uint64    `json:"despawnEvents"`
	TickDurationMillis int64     `json:"tickDurationMillis"`
	CommandsRejected   uint64    `json:"commandsRejected"`
	Generator          gen.Stats `json:"generator"`
}

func newTelemetryCounters() *telemetryCounters {
	return &telemetryCounters{}
}

func (t *telemetryCounters) RecordFrame(frame gen.Frame, bytes int) {
	if t == nil {
		return
	}
	t.framesBroadcast.Add(1)
	if bytes > 0 {
		t.bytesSent.Add(uint64(bytes))
	}
	t.spawnEvents.Add(uint64(len(frame.Spawned)))
	t.despawnEvents.Add(uint64(len(frame.Despawned)))
}

func (t *telemetryCounters) RecordTickDuration(d time.Duration) {
	if t == nil {
		return
	}
	t.tickDurationMillis.Store(d.Milliseconds())
}

func (t *telemetryCounters) RecordRejectedCommand() {
	if t == nil {
		return
	}
	t.commandsRejected.Add(1)
}

func (t *telemetryCounters) Snapshot(stats gen.Stats) telemetrySnapshot {
	if t == nil {
		return telemetrySnapshot{Generator: stats}
	}
	return telemetrySnapshot{
		FramesBroadcast:    t.framesBroadcast.Load(),
		BytesSent:          t.bytesSent.Load(),
		SpawnEvents:        t.spawnEvents.Load(),
		DespawnEvents:      t.despawnEvents.Load(),
		TickDurationMillis: t.tickDurationMillis.Load(),
		CommandsRejected:   t.commandsRejected.Load(),
		Generator:          stats,
	}
}
