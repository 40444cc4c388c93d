package patterns

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and compiles a pattern library document from disk.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patterns: read library: %w", err)
	}
	var doc FileDefinitions
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("patterns: parse library %s: %w", path, err)
	}
	return NewLibrary(doc.Patterns)
}

// DefaultLibrary compiles the built-in patterns so the preview server runs
// without external assets. Every pattern here is pre-validated at startup;
// compile failures are programmer errors.
func DefaultLibrary() *Library {
	lib, err := NewLibrary(defaultDocuments)
	if err != nil {
		panic(fmt.Sprintf("patterns: built-in library invalid: %v", err))
	}
	return lib
}

var defaultDocuments = []PatternDocument{
	{
		Name:       "gauntlet-weave",
		Length:     24,
		Difficulty: 1,
		MinLevel:   1,
		Members: []MemberDocument{
			{Kind: "avoid", Lane: -1, Z: 0},
			{Kind: "avoid", Lane: 1, Z: 8},
			{Kind: "jump", Lane: 0, Z: 16},
		},
	},
	{
		Name:       "palisade-wall",
		Length:     20,
		Difficulty: 2,
		MinLevel:   1,
		Members: []MemberDocument{
			{Kind: "pylon", Lane: -1, Z: 0},
			{Kind: "palisade", Lane: 0, Z: 0},
			{Kind: "avoid", Lane: 1, Z: 0},
			{Kind: "jump", Lane: 1, Z: 12},
		},
	},
	{
		Name:       "broad-jump-corridor",
		Length:     28,
		Difficulty: 3,
		MinLevel:   2,
		Members: []MemberDocument{
			{Kind: "avoid", Lane: -1, Z: 0},
			{Kind: "broad-jump", Lane: 0, Z: 0},
			{Kind: "pylon", Lane: 1, Z: 0},
			{Kind: "avoid", Lane: 0, Z: 10},
			{Kind: "jump", Lane: -1, Z: 18},
			{Kind: "jump", Lane: 1, Z: 18},
		},
	},
	{
		Name:       "pylon-slalom",
		Length:     32,
		Difficulty: 4,
		MinLevel:   3,
		Members: []MemberDocument{
			{Kind: "pylon", Lane: -1, Z: 0},
			{Kind: "pylon", Lane: 1, Z: 6},
			{Kind: "pylon", Lane: 0, Z: 12},
			{Kind: "palisade", Lane: 0, Z: 20},
			{Kind: "avoid", Lane: -1, Z: 20},
			{Kind: "avoid", Lane: 1, Z: 20},
		},
	},
}
