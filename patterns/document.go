// Package patterns holds the hand-authored obstacle pattern library: the
// designer-facing JSON document format, the compiled runtime form, and the
// solvability validation every pattern must pass before the spawner may play
// it back.
package patterns

// MemberDocument models one obstacle of a pattern as it appears on disk.
// Exported so tooling (the schema generator) can reflect over the contract
// shared with designers.
type MemberDocument struct {
	Kind string  `json:"kind" jsonschema:"title=Obstacle kind,description=One of avoid jump palisade pylon broad-jump.,enum=avoid,enum=jump,enum=palisade,enum=pylon,enum=broad-jump"`
	Lane int     `json:"lane" jsonschema:"title=Lane,description=Left -1 center 0 right 1.,minimum=-1,maximum=1"`
	Z    float64 `json:"z" jsonschema:"title=Z offset,description=Distance from the pattern origin in virtual units.,minimum=0"`
}

// PatternDocument models a single pattern as authored in the library file.
type PatternDocument struct {
	Name       string           `json:"name" jsonschema:"title=Pattern name,pattern=^[a-z0-9-]+$,minLength=1"`
	Length     float64          `json:"length" jsonschema:"title=Pattern length,description=Total span in virtual units the spawn cursor advances by.,minimum=1"`
	Difficulty int              `json:"difficulty" jsonschema:"title=Difficulty rating,minimum=1"`
	MinLevel   int              `json:"minLevel" jsonschema:"title=First valid level,minimum=1"`
	MaxLevel   int              `json:"maxLevel" jsonschema:"title=Last valid level,description=Zero means no upper bound.,minimum=0"`
	Members    []MemberDocument `json:"members" jsonschema:"title=Members,minItems=1"`
}

// FileDefinitions represents the contents of config/patterns.json.
type FileDefinitions struct {
	Patterns []PatternDocument `json:"patterns" jsonschema:"title=Pattern library"`
}
