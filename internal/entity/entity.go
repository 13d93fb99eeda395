// Package entity describes the live units a path search has to route around.
package entity

import (
	"sort"

	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

// ID identifies a unit for the lifetime of a match. Zero is never assigned.
type ID uint32

// MaxFootprint caps the occupancy window of a single unit.
const MaxFootprint = 32

// Locomotor is the static movement capability of a unit, as configured.
type Locomotor struct {
	Surfaces        navgrid.Surface
	DownhillOnly    bool
	CanPassObstacle bool
	CanUseBridge    bool
	PathDiameter    float64 // in cells; fractional values truncate
}

// Unit is a read-only view of one live unit at the time of a search.
type Unit struct {
	ID       ID
	Team     int
	Position math.Vec2

	// Cached grid cells kept fresh by the movement system.
	PosCell  navgrid.CellCoord
	GoalCell navgrid.CellCoord
	HasGoal  bool
	Moving   bool

	BlocksMovement bool
	Vehicle        bool

	// A unit can crush another when its crusher level is positive and
	// strictly above the other's crushable level.
	CrusherLevel   int
	CrushableLevel int

	Locomotor Locomotor
}

// Footprint returns the occupancy window side length in cells.
func (u *Unit) Footprint() int {
	d := u.Locomotor.PathDiameter
	if !(d >= 1) {
		return 1
	}
	return int(min(d, MaxFootprint))
}

// Stamps reports whether the unit reserves grid cells at all.
func (u *Unit) Stamps() bool {
	return u.BlocksMovement || u.Locomotor.PathDiameter > 0
}

// CanCrush reports whether u drives over other instead of routing around it.
func (u *Unit) CanCrush(other *Unit) bool {
	return u.CrusherLevel > 0 && u.CrusherLevel > other.CrushableLevel
}

// Relation is how one team regards another.
type Relation uint8

// Relations.
const (
	Enemies Relation = iota
	Neutral
	Allies
)

func (r Relation) String() string {
	switch r {
	case Allies:
		return "allies"
	case Neutral:
		return "neutral"
	default:
		return "enemies"
	}
}

type teamPair struct{ a, b int }

// Snapshot is the immutable set of live units handed to one search. Units
// are kept in ascending ID order so every consumer iterates deterministically.
type Snapshot struct {
	units     []Unit
	byID      map[ID]int
	relations map[teamPair]Relation
}

// NewSnapshot copies units into a snapshot ordered by ID.
func NewSnapshot(units []Unit) *Snapshot {
	s := &Snapshot{
		units:     append([]Unit(nil), units...),
		byID:      make(map[ID]int, len(units)),
		relations: make(map[teamPair]Relation),
	}
	sort.SliceStable(s.units, func(i, j int) bool { return s.units[i].ID < s.units[j].ID })
	for i := range s.units {
		s.byID[s.units[i].ID] = i
	}
	return s
}

// SetRelation records how team a regards team b. Relations are directional.
func (s *Snapshot) SetRelation(a, b int, r Relation) {
	s.relations[teamPair{a, b}] = r
}

// Relationship returns how team a regards team b. Without an explicit entry,
// a team is allied with itself, team 0 is neutral and everyone else is an enemy.
func (s *Snapshot) Relationship(a, b int) Relation {
	if r, ok := s.relations[teamPair{a, b}]; ok {
		return r
	}
	switch {
	case a == b:
		return Allies
	case a == 0 || b == 0:
		return Neutral
	default:
		return Enemies
	}
}

// Units returns the units in ID order. Callers must not modify the slice.
func (s *Snapshot) Units() []Unit {
	if s == nil {
		return nil
	}
	return s.units
}

// Len returns the number of units.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.units)
}

// Get returns the unit with the given ID.
func (s *Snapshot) Get(id ID) (*Unit, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.units[i], true
}
