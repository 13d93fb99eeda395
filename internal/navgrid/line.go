package navgrid

// WalkLine visits the cells of an integer Bresenham line from a to b,
// endpoints included. Iteration stops early when visit returns false, and
// WalkLine reports whether the whole line was visited.
func WalkLine(a, b CellCoord, visit func(c CellCoord) bool) bool {
	dx := abs(b.X - a.X)
	dz := abs(b.Z - a.Z)
	sx, sz := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Z > b.Z {
		sz = -1
	}
	err := dx - dz
	x, z := a.X, a.Z
	for {
		if !visit(CellCoord{x, z}) {
			return false
		}
		if x == b.X && z == b.Z {
			return true
		}
		e2 := err * 2
		if e2 > -dz {
			err -= dz
			x += sx
		}
		if e2 < dx {
			err += dx
			z += sz
		}
	}
}

// LineCells collects the cells WalkLine visits.
func LineCells(a, b CellCoord) []CellCoord {
	cells := make([]CellCoord, 0, max(abs(b.X-a.X), abs(b.Z-a.Z))+1)
	WalkLine(a, b, func(c CellCoord) bool {
		cells = append(cells, c)
		return true
	})
	return cells
}
