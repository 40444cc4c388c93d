package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"ringsport/server/internal/gen"
	"ringsport/server/internal/pool"
	"ringsport/server/internal/track"
	"ringsport/server/logging"
	"ringsport/server/logging/sinks"
	"ringsport/server/patterns"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "listen address")
		seed         = flag.String("seed", track.DefaultSeed, "deterministic generation seed")
		levelsPath   = flag.String("levels", "", "path to a level registry JSON document (built-ins when empty)")
		patternsPath = flag.String("patterns", "", "path to a pattern library JSON document (built-ins when empty)")
		logJSONPath  = flag.String("log-json", "", "path for the newline-delimited JSON event log (disabled when empty)")
	)
	flag.Parse()

	registry := track.DefaultRegistry()
	if *levelsPath != "" {
		loaded, err := track.LoadRegistry(*levelsPath)
		if err != nil {
			log.Fatalf("load level registry: %v", err)
		}
		registry = loaded
	}

	library := patterns.DefaultLibrary()
	if *patternsPath != "" {
		loaded, err := patterns.Load(*patternsPath)
		if err != nil {
			log.Fatalf("load pattern library: %v", err)
		}
		library = loaded
	}

	publisher, closeLogging := buildPublisher(*logJSONPath)
	defer closeLogging()

	instancePool := pool.New()
	gen.RegisterDefaultTags(instancePool)

	generator := gen.New(gen.Deps{
		Registry:  registry,
		Library:   library,
		Pool:      instancePool,
		Publisher: publisher,
		Seed:      *seed,
	})

	telemetry := newTelemetryCounters()
	hub := newHub(generator, *seed, telemetry)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	http.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status      string            `json:"status"`
			ServerTime  int64             `json:"serverTime"`
			TickRate    int               `json:"tickRate"`
			Level       int               `json:"level"`
			Subscribers int               `json:"subscribers"`
			Telemetry   telemetrySnapshot `json:"telemetry"`
		}{
			Status:      "ok",
			ServerTime:  time.Now().UnixMilli(),
			TickRate:    tickRate,
			Level:       hub.Level(),
			Subscribers: hub.SubscriberCount(),
			Telemetry:   hub.DiagnosticsSnapshot(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed: %v", err)
			return
		}

		id, sub := hub.Subscribe(conn)

		hello := helloMessage{
			Type:       "hello",
			Subscriber: id,
			Seed:       hub.seed,
			TickRate:   tickRate,
			Level:      hub.Level(),
			ServerTime: time.Now().UnixMilli(),
		}
		if err := writeJSON(sub, hello); err != nil {
			hub.Disconnect(id)
			return
		}

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				hub.Disconnect(id)
				return
			}

			var msg commandMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				log.Printf("discarding malformed message from %s: %v", id, err)
				continue
			}

			switch msg.Type {
			case commandHeartbeat:
				now := time.Now()
				rtt, ok := hub.Heartbeat(id, now, msg.SentAt)
				if !ok {
					continue
				}
				ack := heartbeatMessage{
					Type:       "heartbeat",
					ServerTime: now.UnixMilli(),
					ClientTime: msg.SentAt,
					RTTMillis:  rtt.Milliseconds(),
				}
				if err := writeJSON(sub, ack); err != nil {
					hub.Disconnect(id)
					return
				}
			case commandStart, commandLevelEnding, commandPalisadeCompleted, commandReset:
				if err := hub.Command(msg); err != nil {
					telemetry.RecordRejectedCommand()
					reject := errorMessage{Type: "error", Command: msg.Type, Message: err.Error()}
					if err := writeJSON(sub, reject); err != nil {
						hub.Disconnect(id)
						return
					}
				}
			default:
				log.Printf("unknown message type %q from %s", msg.Type, id)
			}
		}
	})

	log.Printf("server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func writeJSON(sub *subscriber, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sub.conn.WriteMessage(websocket.TextMessage, data)
}

// buildPublisher assembles the logging router: console always, JSON file
// when a path was supplied.
func buildPublisher(jsonPath string) (logging.Publisher, func()) {
	cfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, cfg.Console)},
	}
	if jsonPath != "" {
		file, err := os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open event log: %v", err)
		}
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(file, cfg.JSON.FlushInterval)})
		cfg.EnabledSinks = append(cfg.EnabledSinks, "json")
	}

	router, err := logging.NewRouter(logging.SystemClock{}, cfg, named)
	if err != nil {
		log.Fatalf("logging router: %v", err)
	}
	closer := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(shutdownCtx)
	}
	return router, closer
}
