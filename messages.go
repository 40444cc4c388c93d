package main

import "ringsport/server/internal/gen"

// commandMessage is everything a preview client may send: the three external
// generator triggers, a reset, and heartbeats.
type commandMessage struct {
	Type   string `json:"type"`
	Level  int    `json:"level,omitempty"`
	SentAt int64  `json:"sentAt,omitempty"`
}

const (
	commandStart             = "start"
	commandLevelEnding       = "level-ending"
	commandPalisadeCompleted = "palisade-completed"
	commandReset             = "reset"
	commandHeartbeat         = "heartbeat"
)

// helloMessage greets a fresh subscriber with the run parameters.
type helloMessage struct {
	Type       string `json:"type"`
	Subscriber string `json:"subscriber"`
	Seed       string `json:"seed"`
	TickRate   int    `json:"tickRate"`
	Level      int    `json:"level"`
	ServerTime int64  `json:"serverTime"`
}

// frameMessage carries one generator tick to every subscriber.
type frameMessage struct {
	Type       string    `json:"type"`
	Frame      gen.Frame `json:"frame"`
	ServerTime int64     `json:"serverTime"`
}

// heartbeatMessage acknowledges a client heartbeat.
type heartbeatMessage struct {
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

// errorMessage reports a rejected command, e.g. an unknown level.
type errorMessage struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Message string `json:"message"`
}
