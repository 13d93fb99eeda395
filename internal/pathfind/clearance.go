package pathfind

import "github.com/Faultbox/midgard-nav/internal/navgrid"

// window returns the inclusive bounds of the square of side d centered on c.
// Even sides extend one cell further toward negative coordinates.
func window(c navgrid.CellCoord, d int) (lo, hi navgrid.CellCoord) {
	r := d / 2
	lo = navgrid.CellCoord{X: c.X - r, Z: c.Z - r}
	hi = navgrid.CellCoord{X: lo.X + d - 1, Z: lo.Z + d - 1}
	return lo, hi
}

// passable reports whether the mover's profile can stand on (x, z) at all.
func (q *query) passable(x, z int) bool {
	if !q.grid.InPlayable(x, z) {
		return false
	}
	return q.profile.Accepts(&q.grid.Cells[q.grid.Index(x, z)])
}

// windowClear checks the centered square of side d. Above radius one the four
// outer corners are cut, since a round footprint never touches them.
func (q *query) windowClear(c navgrid.CellCoord, d int) bool {
	if !q.passable(c.X, c.Z) {
		return false
	}
	lo, hi := window(c, d)
	cut := d/2 > 1
	for z := lo.Z; z <= hi.Z; z++ {
		for x := lo.X; x <= hi.X; x++ {
			if cut && (x == lo.X || x == hi.X) && (z == lo.Z || z == hi.Z) {
				continue
			}
			if !q.passable(x, z) {
				return false
			}
		}
	}
	return true
}

// clearCellForDiameter returns the largest diameter, shrinking by two from
// the requested one, whose window around c is clear. It returns 1 when only
// the cell itself is clear and 0 when even that fails.
func (q *query) clearCellForDiameter(c navgrid.CellCoord, diameter int) int {
	for d := diameter; ; d -= 2 {
		if d <= 1 {
			if q.passable(c.X, c.Z) {
				return 1
			}
			return 0
		}
		if q.windowClear(c, d) {
			return d
		}
	}
}

// canOccupyCell reports whether the mover fits on c. Endpoints ask for an
// exact fit; cells along the route accept a partial one.
func (q *query) canOccupyCell(c navgrid.CellCoord, exact bool) bool {
	want := q.profile.Diameter()
	got := q.clearCellForDiameter(c, want)
	if got == 0 {
		return false
	}
	return !exact || got == want
}
