// Package navgrid holds the read-only navigation grid a map is pathfound on.
package navgrid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSurface is returned when a surface name cannot be parsed.
var ErrUnknownSurface = errors.New("unknown surface")

// CellType is the terrain classification of a cell.
type CellType uint8

// Cell type constants.
const (
	CellClear CellType = iota
	CellWater
	CellCliff
	CellRubble
	CellObstacle
	CellBridgeImpassable
	CellImpassable
)

// String returns a human-readable cell type name.
func (t CellType) String() string {
	switch t {
	case CellClear:
		return "Clear"
	case CellWater:
		return "Water"
	case CellCliff:
		return "Cliff"
	case CellRubble:
		return "Rubble"
	case CellObstacle:
		return "Obstacle"
	case CellBridgeImpassable:
		return "BridgeImpassable"
	case CellImpassable:
		return "Impassable"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// CellFlags carries the per-cell markers set when the grid is built.
type CellFlags uint8

// Cell flag bits.
const (
	FlagBlocked CellFlags = 1 << iota
	FlagPinched
	FlagBridge
	FlagBridgePassable
	FlagBridgeTransition
)

// Surface is a bitmask of movement surfaces.
type Surface uint8

// Surface bits.
const (
	SurfaceGround Surface = 1 << iota
	SurfaceWater
	SurfaceCliff
	SurfaceAir
	SurfaceRubble

	SurfaceNone Surface = 0
)

var surfaceNames = []struct {
	name string
	bit  Surface
}{
	{"ground", SurfaceGround},
	{"water", SurfaceWater},
	{"cliff", SurfaceCliff},
	{"air", SurfaceAir},
	{"rubble", SurfaceRubble},
}

// String lists the set bits, e.g. "ground|air".
func (s Surface) String() string {
	if s == SurfaceNone {
		return "none"
	}
	var parts []string
	for _, n := range surfaceNames {
		if s&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseSurfaces folds surface names into a mask.
func ParseSurfaces(names []string) (Surface, error) {
	var mask Surface
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		found := false
		for _, n := range surfaceNames {
			if n.name == name {
				mask |= n.bit
				found = true
				break
			}
		}
		if !found {
			return SurfaceNone, fmt.Errorf("%w: %q", ErrUnknownSurface, raw)
		}
	}
	return mask, nil
}

// Cell is a single navigation grid cell.
type Cell struct {
	Type    CellType
	Flags   CellFlags
	Segment int16 // bridge segment id, -1 when not on a bridge
	Height  float64
}

// Has reports whether all bits in f are set.
func (c *Cell) Has(f CellFlags) bool {
	return c.Flags&f == f
}

// Surfaces classifies the cell. A bridge-passable cell always supports
// ground and air regardless of what lies underneath.
func (c *Cell) Surfaces() Surface {
	if c.Has(FlagBridgePassable) {
		return SurfaceGround | SurfaceAir
	}
	return TypeSurfaces(c.Type)
}

// TypeSurfaces maps a bare terrain type to its surfaces.
func TypeSurfaces(t CellType) Surface {
	switch t {
	case CellObstacle, CellImpassable, CellBridgeImpassable:
		return SurfaceAir
	case CellClear:
		return SurfaceGround | SurfaceAir
	case CellWater:
		return SurfaceWater | SurfaceAir
	case CellRubble:
		return SurfaceRubble | SurfaceAir
	case CellCliff:
		return SurfaceCliff | SurfaceAir
	default:
		return SurfaceNone
	}
}
