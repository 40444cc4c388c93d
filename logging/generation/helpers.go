package generation

import (
	"context"

	"ringsport/server/logging"
)

const (
	// EventObstacleSpawned is emitted for every placed obstacle instance.
	EventObstacleSpawned logging.EventType = "generation.obstacle_spawned"
	// EventPatternSpawned is emitted once per successful pattern playback.
	EventPatternSpawned logging.EventType = "generation.pattern_spawned"
	// EventSpawnSkipped is emitted when every lane failed the clearance check.
	EventSpawnSkipped logging.EventType = "generation.spawn_skipped"
	// EventPoolExhausted is emitted when a placement is deferred to the next
	// tick because the pool had no free instance.
	EventPoolExhausted logging.EventType = "generation.pool_exhausted"
	// EventCoinArc is emitted when a parabolic arc is laid over an obstacle.
	EventCoinArc logging.EventType = "generation.coin_arc"
)

// ObstacleSpawnedPayload records where an obstacle landed.
type ObstacleSpawnedPayload struct {
	Kind string  `json:"kind"`
	Lane int     `json:"lane"`
	Z    float64 `json:"z"`
}

// PatternSpawnedPayload records a pattern playback.
type PatternSpawnedPayload struct {
	Name    string  `json:"name"`
	Members int     `json:"members"`
	Z       float64 `json:"z"`
}

// PoolExhaustedPayload names the starved tag.
type PoolExhaustedPayload struct {
	Tag string `json:"tag"`
}

// CoinArcPayload records an arc placement over a jumpable obstacle.
type CoinArcPayload struct {
	ObstacleKind string  `json:"obstacleKind"`
	Items        int     `json:"items"`
	Z            float64 `json:"z"`
}

// ObstacleSpawned publishes a single obstacle placement.
func ObstacleSpawned(ctx context.Context, pub logging.Publisher, tick uint64, subject logging.EntityRef, payload ObstacleSpawnedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventObstacleSpawned,
		Tick:     tick,
		Subject:  subject,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGeneration,
		Payload:  payload,
	})
}

// PatternSpawned publishes a pattern playback.
func PatternSpawned(ctx context.Context, pub logging.Publisher, tick uint64, payload PatternSpawnedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPatternSpawned,
		Tick:     tick,
		Subject:  logging.EntityRef{Kind: logging.EntityKindGenerator},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGeneration,
		Payload:  payload,
	})
}

// SpawnSkipped publishes a skipped spawn cycle.
func SpawnSkipped(ctx context.Context, pub logging.Publisher, tick uint64, reason string) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventSpawnSkipped,
		Tick:     tick,
		Subject:  logging.EntityRef{Kind: logging.EntityKindGenerator},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGeneration,
	}
	pub.Publish(ctx, event.WithExtra("reason", reason))
}

// PoolExhausted publishes a deferred placement.
func PoolExhausted(ctx context.Context, pub logging.Publisher, tick uint64, payload PoolExhaustedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPoolExhausted,
		Tick:     tick,
		Subject:  logging.EntityRef{Kind: logging.EntityKindGenerator},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryGeneration,
		Payload:  payload,
	})
}

// CoinArc publishes an arc placement.
func CoinArc(ctx context.Context, pub logging.Publisher, tick uint64, payload CoinArcPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCoinArc,
		Tick:     tick,
		Subject:  logging.EntityRef{Kind: logging.EntityKindCollectible},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGeneration,
		Payload:  payload,
	})
}
