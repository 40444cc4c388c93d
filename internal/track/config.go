package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrUnknownLevel is returned when the registry holds no config for the
// requested level. Generation must not silently fall back to an empty level.
var ErrUnknownLevel = errors.New("track: unknown level")

// LevelConfig captures the immutable per-level tuning. Loaded once per level
// and never mutated at runtime.
type LevelConfig struct {
	Level int `json:"level"`

	// Concurrency caps for pool-lent instances.
	MaxObstacles    int `json:"maxObstacles"`
	MaxCollectibles int `json:"maxCollectibles"`

	// Spacing ranges, in virtual-distance units.
	MinObstacleSpacing    float64 `json:"minObstacleSpacing"`
	MaxObstacleSpacing    float64 `json:"maxObstacleSpacing"`
	MinCollectibleSpacing float64 `json:"minCollectibleSpacing"`
	MaxCollectibleSpacing float64 `json:"maxCollectibleSpacing"`

	// Probabilities, all in [0, 1].
	PatternUsageRatio              float64 `json:"patternUsageRatio"`
	CollectibleAboveObstacleChance float64 `json:"collectibleAboveObstacleChance"`
	CollectibleLineBias            float64 `json:"collectibleLineBias"`
	MegaCollectibleSpawnRatio      float64 `json:"megaCollectibleSpawnRatio"`

	// Pattern difficulty window for this level.
	MinPatternDifficulty int `json:"minPatternDifficulty"`
	MaxPatternDifficulty int `json:"maxPatternDifficulty"`

	// SpeedMultiplier scales the base scroll speed; Duration is the level
	// length in seconds at that speed.
	SpeedMultiplier float64 `json:"speedMultiplier"`
	Duration        float64 `json:"duration"`

	// Scenery density range per floor segment side.
	MinScenerySamples int `json:"minScenerySamples"`
	MaxScenerySamples int `json:"maxScenerySamples"`
}

// normalized returns a copy with defaults applied to zero-valued fields.
func (cfg LevelConfig) normalized() LevelConfig {
	n := cfg
	if n.MaxObstacles <= 0 {
		n.MaxObstacles = 64
	}
	if n.MaxCollectibles <= 0 {
		n.MaxCollectibles = 128
	}
	if n.MinObstacleSpacing <= 0 {
		n.MinObstacleSpacing = 10
	}
	if n.MaxObstacleSpacing < n.MinObstacleSpacing {
		n.MaxObstacleSpacing = n.MinObstacleSpacing
	}
	if n.MinCollectibleSpacing <= 0 {
		n.MinCollectibleSpacing = 4
	}
	if n.MaxCollectibleSpacing < n.MinCollectibleSpacing {
		n.MaxCollectibleSpacing = n.MinCollectibleSpacing
	}
	if n.SpeedMultiplier <= 0 {
		n.SpeedMultiplier = 1
	}
	if n.Duration <= 0 {
		n.Duration = 60
	}
	if n.MaxPatternDifficulty < n.MinPatternDifficulty {
		n.MaxPatternDifficulty = n.MinPatternDifficulty
	}
	if n.MinScenerySamples < 0 {
		n.MinScenerySamples = 0
	}
	if n.MaxScenerySamples < n.MinScenerySamples {
		n.MaxScenerySamples = n.MinScenerySamples
	}
	return n
}

func (cfg LevelConfig) validate() error {
	if cfg.Level <= 0 {
		return fmt.Errorf("track: level number must be positive, got %d", cfg.Level)
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"patternUsageRatio", cfg.PatternUsageRatio},
		{"collectibleAboveObstacleChance", cfg.CollectibleAboveObstacleChance},
		{"collectibleLineBias", cfg.CollectibleLineBias},
		{"megaCollectibleSpawnRatio", cfg.MegaCollectibleSpawnRatio},
	} {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("track: level %d: %s must be within [0,1], got %g", cfg.Level, p.name, p.value)
		}
	}
	return nil
}

// Registry resolves level numbers to their configs.
type Registry struct {
	levels map[int]LevelConfig
}

// NewRegistry normalizes and validates the provided configs.
func NewRegistry(configs []LevelConfig) (*Registry, error) {
	levels := make(map[int]LevelConfig, len(configs))
	for _, cfg := range configs {
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		if _, dup := levels[cfg.Level]; dup {
			return nil, fmt.Errorf("track: duplicate config for level %d", cfg.Level)
		}
		levels[cfg.Level] = cfg.normalized()
	}
	return &Registry{levels: levels}, nil
}

// Config returns the tuning for a level, or ErrUnknownLevel.
func (r *Registry) Config(level int) (LevelConfig, error) {
	if r == nil {
		return LevelConfig{}, fmt.Errorf("%w: %d (nil registry)", ErrUnknownLevel, level)
	}
	cfg, ok := r.levels[level]
	if !ok {
		return LevelConfig{}, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	return cfg, nil
}

// Levels reports how many level configs are registered.
func (r *Registry) Levels() int {
	if r == nil {
		return 0
	}
	return len(r.levels)
}

// registryDocument is the on-disk shape of config/levels.json.
type registryDocument struct {
	Levels []LevelConfig `json:"levels"`
}

// LoadRegistry reads a level registry document from disk.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("track: read level registry: %w", err)
	}
	var doc registryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("track: parse level registry %s: %w", path, err)
	}
	if len(doc.Levels) == 0 {
		return nil, fmt.Errorf("track: level registry %s defines no levels", path)
	}
	return NewRegistry(doc.Levels)
}

// DefaultRegistry compiles in a three-level tuning ladder so the preview
// server runs without external assets.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry([]LevelConfig{
		{
			Level:                          1,
			MinObstacleSpacing:             12,
			MaxObstacleSpacing:             22,
			MinCollectibleSpacing:          4,
			MaxCollectibleSpacing:          8,
			PatternUsageRatio:              0.2,
			CollectibleAboveObstacleChance: 0.5,
			CollectibleLineBias:            0.6,
			MegaCollectibleSpawnRatio:      0.04,
			MinPatternDifficulty:           1,
			MaxPatternDifficulty:           2,
			SpeedMultiplier:                1,
			Duration:                       60,
			MinScenerySamples:              2,
			MaxScenerySamples:              5,
		},
		{
			Level:                          2,
			MinObstacleSpacing:             10,
			MaxObstacleSpacing:             18,
			MinCollectibleSpacing:          4,
			MaxCollectibleSpacing:          7,
			PatternUsageRatio:              0.35,
			CollectibleAboveObstacleChance: 0.5,
			CollectibleLineBias:            0.6,
			MegaCollectibleSpawnRatio:      0.05,
			MinPatternDifficulty:           1,
			MaxPatternDifficulty:           3,
			SpeedMultiplier:                1.15,
			Duration:                       75,
			MinScenerySamples:              2,
			MaxScenerySamples:              6,
		},
		{
			Level:                          3,
			MinObstacleSpacing:             8,
			MaxObstacleSpacing:             15,
			MinCollectibleSpacing:          3,
			MaxCollectibleSpacing:          6,
			PatternUsageRatio:              0.5,
			CollectibleAboveObstacleChance: 0.4,
			CollectibleLineBias:            0.55,
			MegaCollectibleSpawnRatio:      0.06,
			MinPatternDifficulty:           2,
			MaxPatternDifficulty:           4,
			SpeedMultiplier:                1.3,
			Duration:                       90,
			MinScenerySamples:              3,
			MaxScenerySamples:              7,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("track: default registry invalid: %v", err))
	}
	return registry
}
