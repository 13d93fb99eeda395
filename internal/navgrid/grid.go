package navgrid

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/midgard-nav/pkg/math"
)

// Defaults for grid geometry.
const (
	DefaultCellSize = 10.0
	DefaultZoneSize = 10
)

// CellCoord addresses a grid cell.
type CellCoord struct {
	X, Z int
}

// Add returns c offset by (dx, dz).
func (c CellCoord) Add(dx, dz int) CellCoord {
	return CellCoord{c.X + dx, c.Z + dz}
}

// Chebyshev returns the king-move distance between two cells.
func (c CellCoord) Chebyshev(o CellCoord) int {
	return max(abs(c.X-o.X), abs(c.Z-o.Z))
}

func (c CellCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// Rect is an inclusive cell rectangle.
type Rect struct {
	MinX, MinZ, MaxX, MaxZ int
}

// Contains reports whether c lies inside r.
func (r Rect) Contains(c CellCoord) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Z >= r.MinZ && c.Z <= r.MaxZ
}

// Grid is the immutable navigation grid of a loaded map. It is safe for
// concurrent readers once built.
type Grid struct {
	Width    int
	Height   int
	CellSize float64
	Cells    []Cell

	// Playable restricts occupiable cells when non-nil.
	Playable *Rect

	zoneSize    int
	zoneWidth   int
	zoneHeight  int
	zoneBlocked []bool
}

// New creates a grid of clear cells and builds its zone table.
func New(width, height int, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	g := &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		Cells:    make([]Cell, width*height),
	}
	for i := range g.Cells {
		g.Cells[i].Segment = -1
	}
	g.RebuildZones(DefaultZoneSize)
	return g
}

// InBounds reports whether (x, z) is on the grid.
func (g *Grid) InBounds(x, z int) bool {
	return x >= 0 && x < g.Width && z >= 0 && z < g.Height
}

// Index returns the flat index of (x, z). The caller checks bounds.
func (g *Grid) Index(x, z int) int {
	return z*g.Width + x
}

// Coord is the inverse of Index.
func (g *Grid) Coord(idx int) CellCoord {
	return CellCoord{idx % g.Width, idx / g.Width}
}

// GetCell returns the cell at (x, z), or nil if out of bounds.
func (g *Grid) GetCell(x, z int) *Cell {
	if !g.InBounds(x, z) {
		return nil
	}
	return &g.Cells[g.Index(x, z)]
}

// InPlayable reports whether (x, z) is on the grid and inside the playable area.
func (g *Grid) InPlayable(x, z int) bool {
	if !g.InBounds(x, z) {
		return false
	}
	return g.Playable == nil || g.Playable.Contains(CellCoord{x, z})
}

// HeightAt returns the terrain height of a cell; off-grid cells report 0.
func (g *Grid) HeightAt(x, z int) float64 {
	if c := g.GetCell(x, z); c != nil {
		return c.Height
	}
	return 0
}

// WorldToCell converts a world position to the cell containing it.
func (g *Grid) WorldToCell(p math.Vec2) (CellCoord, bool) {
	x := int(gomath.Floor(p.X / g.CellSize))
	z := int(gomath.Floor(p.Z / g.CellSize))
	return CellCoord{x, z}, g.InBounds(x, z)
}

// CellCenter returns the world position of the center of a cell.
func (g *Grid) CellCenter(c CellCoord) math.Vec2 {
	return math.Vec2{
		X: float64((float64(c.X) + 0.5) * g.CellSize),
		Z: float64((float64(c.Z) + 0.5) * g.CellSize),
	}
}

// ZoneBlocked reports whether the coarse zone containing (x, z) has no
// ground-passable cell.
func (g *Grid) ZoneBlocked(x, z int) bool {
	if !g.InBounds(x, z) || g.zoneSize == 0 {
		return false
	}
	zx, zz := x/g.zoneSize, z/g.zoneSize
	return g.zoneBlocked[zz*g.zoneWidth+zx]
}

// RebuildZones recomputes coarse zone passability. Call it after editing
// cells; the grid is read-only once handed to the pathfinder.
func (g *Grid) RebuildZones(zoneSize int) {
	if zoneSize <= 0 {
		zoneSize = DefaultZoneSize
	}
	g.zoneSize = zoneSize
	g.zoneWidth = (g.Width + zoneSize - 1) / zoneSize
	g.zoneHeight = (g.Height + zoneSize - 1) / zoneSize
	g.zoneBlocked = make([]bool, g.zoneWidth*g.zoneHeight)

	for zz := 0; zz < g.zoneHeight; zz++ {
		for zx := 0; zx < g.zoneWidth; zx++ {
			blocked := true
			for z := zz * zoneSize; z < min((zz+1)*zoneSize, g.Height) && blocked; z++ {
				for x := zx * zoneSize; x < min((zx+1)*zoneSize, g.Width); x++ {
					if g.Cells[g.Index(x, z)].Surfaces()&SurfaceGround != 0 {
						blocked = false
						break
					}
				}
			}
			g.zoneBlocked[zz*g.zoneWidth+zx] = blocked
		}
	}
}

// CountByType returns the count of cells for each type.
func (g *Grid) CountByType() map[CellType]int {
	counts := make(map[CellType]int)
	for _, cell := range g.Cells {
		counts[cell.Type]++
	}
	return counts
}

// CountFlag returns how many cells carry all bits of f.
func (g *Grid) CountFlag(f CellFlags) int {
	n := 0
	for i := range g.Cells {
		if g.Cells[i].Has(f) {
			n++
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
