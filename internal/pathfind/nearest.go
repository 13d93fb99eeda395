package pathfind

import "github.com/Faultbox/midgard-nav/internal/navgrid"

// findNearestPassableCell scans square rings around center, visiting each
// ring's east, south, west and north sides in turn, and returns the first
// cell the mover fits on exactly. It gives up after SnapBudget candidates.
func (q *query) findNearestPassableCell(center navgrid.CellCoord, stats *Stats) (navgrid.CellCoord, bool) {
	budget := q.cfg.SnapBudget
	maxRing := max(q.grid.Width, q.grid.Height)

	for r := 1; r <= maxRing; r++ {
		for _, c := range ring(center, r) {
			if stats.SnapInspected >= budget {
				return navgrid.CellCoord{}, false
			}
			stats.SnapInspected++
			if q.grid.InBounds(c.X, c.Z) && q.canOccupyCell(c, true) {
				return c, true
			}
		}
	}
	return navgrid.CellCoord{}, false
}

// ring lists the 8r cells at Chebyshev distance r from center, starting at
// the top of the east side and walking clockwise.
func ring(center navgrid.CellCoord, r int) []navgrid.CellCoord {
	cells := make([]navgrid.CellCoord, 0, 8*r)
	x, z := center.X, center.Z
	for dz := -r + 1; dz <= r; dz++ {
		cells = append(cells, navgrid.CellCoord{X: x + r, Z: z + dz})
	}
	for dx := r - 1; dx >= -r; dx-- {
		cells = append(cells, navgrid.CellCoord{X: x + dx, Z: z + r})
	}
	for dz := r - 1; dz >= -r; dz-- {
		cells = append(cells, navgrid.CellCoord{X: x - r, Z: z + dz})
	}
	for dx := -r + 1; dx <= r; dx++ {
		cells = append(cells, navgrid.CellCoord{X: x + dx, Z: z - r})
	}
	return cells
}
