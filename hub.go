package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"ringsport/server/internal/gen"
	"ringsport/server/internal/track"
)

type subscriber struct {
	conn          *websocket.Conn
	mu            sync.Mutex
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

// Hub owns the generator and the preview subscribers. The generator itself
// is single-threaded; the hub's mutex serializes ticks and commands.
type Hub struct {
	mu          sync.Mutex
	generator   *gen.Generator
	seed        string
	subscribers map[string]*subscriber
	nextID      atomic.Uint64
	telemetry   *telemetryCounters
}

func newHub(generator *gen.Generator, seed string, telemetry *telemetryCounters) *Hub {
	if telemetry == nil {
		telemetry = newTelemetryCounters()
	}
	return &Hub{
		generator:   generator,
		seed:        seed,
		subscribers: make(map[string]*subscriber),
		telemetry:   telemetry,
	}
}

// Command applies one client command to the generator. The error is
// client-facing (unknown level, malformed command).
func (h *Hub) Command(cmd commandMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch cmd.Type {
	case commandStart:
		if cmd.Level <= 0 {
			return fmt.Errorf("start requires a positive level, got %d", cmd.Level)
		}
		if err := h.generator.StartLevel(cmd.Level); err != nil {
			if errors.Is(err, track.ErrUnknownLevel) {
				return fmt.Errorf("no configuration for level %d", cmd.Level)
			}
			return err
		}
		return nil
	case commandLevelEnding:
		h.generator.BeginLevelEnd()
		return nil
	case commandPalisadeCompleted:
		h.generator.PalisadeCompleted()
		return nil
	case commandReset:
		return h.generator.StartLevel(h.generator.Level())
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
}

// Subscribe registers a connection and returns its subscriber id.
func (h *Hub) Subscribe(conn *websocket.Conn) (string, *subscriber) {
	id := fmt.Sprintf("viewer-%d", h.nextID.Add(1))
	sub := &subscriber{conn: conn, lastHeartbeat: time.Now()}

	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	return id, sub
}

// Disconnect removes and closes a subscriber.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

// Heartbeat refreshes a subscriber's liveness and computes the RTT.
func (h *Hub) Heartbeat(id string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subscribers[id]
	if !ok {
		return 0, false
	}
	sub.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			sub.lastRTT = rtt
		}
	}
	return sub.lastRTT, true
}

// SubscriberCount reports the connected viewers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// DiagnosticsSnapshot assembles the /diagnostics payload.
func (h *Hub) DiagnosticsSnapshot() telemetrySnapshot {
	h.mu.Lock()
	stats := h.generator.Stats()
	h.mu.Unlock()
	return h.telemetry.Snapshot(stats)
}

// Level reports the running level under the hub lock.
func (h *Hub) Level() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.generator.Level()
}

// advance runs one generator tick and reaps stale subscribers.
func (h *Hub) advance(now time.Time, dt float64) (gen.Frame, bool, []*subscriber) {
	h.mu.Lock()

	stale := make([]*subscriber, 0)
	for id, sub := range h.subscribers {
		if now.Sub(sub.lastHeartbeat) > disconnectAfter {
			stale = append(stale, sub)
			delete(h.subscribers, id)
			log.Printf("disconnecting %s due to heartbeat timeout", id)
		}
	}

	if !h.generator.Started() {
		h.mu.Unlock()
		return gen.Frame{}, false, stale
	}

	start := time.Now()
	frame, err := h.generator.Tick(dt)
	h.telemetry.RecordTickDuration(time.Since(start))
	h.mu.Unlock()

	if err != nil {
		return gen.Frame{}, false, stale
	}
	return frame, true, stale
}

// broadcastFrame fans one tick frame out to every subscriber.
func (h *Hub) broadcastFrame(frame gen.Frame) {
	msg := frameMessage{Type: "frame", Frame: frame, ServerTime: time.Now().UnixMilli()}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal frame message: %v", err)
		return
	}
	h.telemetry.RecordFrame(frame, len(data))

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			log.Printf("failed to send frame to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}

// RunSimulation drives the fixed-timestep loop until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(tickRate)
			}
			last = now

			frame, ok, stale := h.advance(now, dt)
			for _, sub := range stale {
				sub.conn.Close()
			}
			if ok {
				h.broadcastFrame(frame)
			}
		}
	}
}
