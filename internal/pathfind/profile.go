package pathfind

import (
	gomath "math"

	"github.com/Faultbox/midgard-nav/internal/entity"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
)

// Profile is the per-search movement capability of a mover.
type Profile struct {
	AcceptableSurfaces navgrid.Surface
	DownhillOnly       bool
	CanPassObstacle    bool
	CanUseBridge       bool
	PathDiameter       int // in cells; 0 is a point mover
}

// ResolveProfile derives a Profile from a locomotor. A locomotor without
// surfaces resolves to SurfaceNone, which every search rejects.
func ResolveProfile(l entity.Locomotor) Profile {
	return Profile{
		AcceptableSurfaces: l.Surfaces,
		DownhillOnly:       l.DownhillOnly,
		CanPassObstacle:    l.CanPassObstacle,
		CanUseBridge:       l.CanUseBridge,
		PathDiameter:       resolveDiameter(l.PathDiameter),
	}
}

func resolveDiameter(d float64) int {
	if gomath.IsNaN(d) || d <= 0 {
		return 0
	}
	return int(gomath.Min(gomath.Trunc(d), entity.MaxFootprint))
}

// Diameter is the clearance the mover asks for; point movers need one cell.
func (p Profile) Diameter() int {
	return max(p.PathDiameter, 1)
}

// GroundOnly reports whether the mover can only travel on ground.
func (p Profile) GroundOnly() bool {
	return p.AcceptableSurfaces == navgrid.SurfaceGround
}

// CellSurfaces classifies a cell as this mover sees it: bridges are only
// decks for movers that use bridges, and obstacles open up for movers that
// pass through them.
func (p Profile) CellSurfaces(c *navgrid.Cell) navgrid.Surface {
	if c.Has(navgrid.FlagBridgePassable) && !p.CanUseBridge {
		return navgrid.TypeSurfaces(c.Type)
	}
	s := c.Surfaces()
	if p.CanPassObstacle && c.Type == navgrid.CellObstacle {
		s |= navgrid.SurfaceGround
	}
	return s
}

// Accepts reports whether the mover may stand on c.
func (p Profile) Accepts(c *navgrid.Cell) bool {
	return p.AcceptableSurfaces&p.CellSurfaces(c) != 0
}

// onDeck reports whether the mover treats c as bridge level.
func (p Profile) onDeck(c *navgrid.Cell) bool {
	return p.CanUseBridge && c.Has(navgrid.FlagBridgePassable)
}

// StepAllowed applies the layer and slope rules to a single move between
// adjacent cells. Changing between bridge level and ground level, or between
// two bridge segments, needs a transition cell on either side.
func (p Profile) StepAllowed(from, to *navgrid.Cell) bool {
	if p.DownhillOnly && to.Height > from.Height {
		return false
	}
	fromDeck, toDeck := p.onDeck(from), p.onDeck(to)
	if fromDeck == toDeck && (!fromDeck || from.Segment == to.Segment) {
		return true
	}
	return from.Has(navgrid.FlagBridgeTransition) || to.Has(navgrid.FlagBridgeTransition)
}
