package patterns

import (
	"errors"
	"fmt"
	"math/rand"

	"ringsport/server/internal/track"
)

// ErrUnsolvable marks a pattern that blocks all three lanes at some shared
// Z offset with no passable occupant.
var ErrUnsolvable = errors.New("patterns: pattern is unsolvable")

// Member is one obstacle of a compiled pattern, relative to the pattern
// origin.
type Member struct {
	Kind track.ObstacleKind
	Lane track.Lane
	Z    float64
}

// Pattern is a validated, read-only multi-obstacle layout.
type Pattern struct {
	Name       string
	Length     float64
	Difficulty int
	MinLevel   int
	MaxLevel   int // zero means no upper bound
	Members    []Member
}

// ValidFor reports whether the pattern may appear on the given level with
// the given difficulty window.
func (p *Pattern) ValidFor(level, minDifficulty, maxDifficulty int) bool {
	if p == nil {
		return false
	}
	if level < p.MinLevel {
		return false
	}
	if p.MaxLevel > 0 && level > p.MaxLevel {
		return false
	}
	return p.Difficulty >= minDifficulty && p.Difficulty <= maxDifficulty
}

// solvable verifies that at every shared Z offset where all three lanes are
// occupied, at least one occupant is passable.
func (p *Pattern) solvable() bool {
	type slot struct {
		lanes    int
		passable bool
	}
	rows := make(map[float64]*slot, len(p.Members))
	for _, m := range p.Members {
		row, ok := rows[m.Z]
		if !ok {
			row = &slot{}
			rows[m.Z] = row
		}
		row.lanes++
		if m.Kind.Passable() {
			row.passable = true
		}
	}
	for _, row := range rows {
		if row.lanes >= 3 && !row.passable {
			return false
		}
	}
	return true
}

func compile(doc PatternDocument) (*Pattern, error) {
	if doc.Name == "" {
		return nil, errors.New("patterns: pattern missing name")
	}
	if doc.Length <= 0 {
		return nil, fmt.Errorf("patterns: %s: length must be positive", doc.Name)
	}
	if len(doc.Members) == 0 {
		return nil, fmt.Errorf("patterns: %s: pattern has no members", doc.Name)
	}
	if doc.MinLevel <= 0 {
		return nil, fmt.Errorf("patterns: %s: minLevel must be positive", doc.Name)
	}
	if doc.MaxLevel > 0 && doc.MaxLevel < doc.MinLevel {
		return nil, fmt.Errorf("patterns: %s: maxLevel %d below minLevel %d", doc.Name, doc.MaxLevel, doc.MinLevel)
	}

	pattern := &Pattern{
		Name:       doc.Name,
		Length:     doc.Length,
		Difficulty: doc.Difficulty,
		MinLevel:   doc.MinLevel,
		MaxLevel:   doc.MaxLevel,
		Members:    make([]Member, 0, len(doc.Members)),
	}
	for i, m := range doc.Members {
		kind, ok := track.ObstacleKindByName(m.Kind)
		if !ok {
			return nil, fmt.Errorf("patterns: %s: member %d: unknown kind %q", doc.Name, i, m.Kind)
		}
		lane := track.Lane(m.Lane)
		if !lane.Valid() {
			return nil, fmt.Errorf("patterns: %s: member %d: lane %d outside [-1,1]", doc.Name, i, m.Lane)
		}
		if m.Z < 0 || m.Z > doc.Length {
			return nil, fmt.Errorf("patterns: %s: member %d: z %.2f outside [0,%.2f]", doc.Name, i, m.Z, doc.Length)
		}
		pattern.Members = append(pattern.Members, Member{Kind: kind, Lane: lane, Z: m.Z})
	}
	if !pattern.solvable() {
		return nil, fmt.Errorf("%w: %s", ErrUnsolvable, doc.Name)
	}
	return pattern, nil
}

// Library is the read-only set of compiled patterns.
type Library struct {
	patterns []*Pattern
}

// NewLibrary compiles and validates every document; a single invalid pattern
// rejects the whole library.
func NewLibrary(docs []PatternDocument) (*Library, error) {
	lib := &Library{patterns: make([]*Pattern, 0, len(docs))}
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if _, dup := seen[doc.Name]; dup {
			return nil, fmt.Errorf("patterns: duplicate pattern %q", doc.Name)
		}
		seen[doc.Name] = struct{}{}
		pattern, err := compile(doc)
		if err != nil {
			return nil, err
		}
		lib.patterns = append(lib.patterns, pattern)
	}
	return lib, nil
}

// Len reports the number of compiled patterns.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.patterns)
}

// Pick draws a uniform pattern among those valid for the level and
// difficulty window. The boolean is false when none qualifies.
func (l *Library) Pick(rng *rand.Rand, level, minDifficulty, maxDifficulty int) (*Pattern, bool) {
	if l == nil || len(l.patterns) == 0 {
		return nil, false
	}
	eligible := make([]*Pattern, 0, len(l.patterns))
	for _, p := range l.patterns {
		if p.ValidFor(level, minDifficulty, maxDifficulty) {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return nil, false
	}
	if rng == nil {
		return eligible[0], true
	}
	return eligible[rng.Intn(len(eligible))], true
}
