package pathfind

import (
	"github.com/Faultbox/midgard-nav/internal/navgrid"
)

// lineResult grades a straight move between two path cells.
type lineResult uint8

const (
	lineClear lineResult = iota
	lineTight            // only clearance or a pinch point got in the way
	lineBlocked
)

// reconstruct follows parent links from win back to the start. The chain is
// capped at ReconstructLimit links; a capped chain is still returned, headed
// by the start cell.
func (q *query) reconstruct(a *arena, out searchOutcome, stats *Stats) []navgrid.CellCoord {
	g := q.grid
	startIdx := int32(g.Index(q.startCell.X, q.startCell.Z))

	var cells []navgrid.CellCoord
	idx := out.win
	for steps := 0; idx >= 0 && steps < q.cfg.ReconstructLimit; steps++ {
		cells = append(cells, g.Coord(int(idx)))
		if idx == startIdx {
			break
		}
		idx = a.parent[idx]
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	if len(cells) == 0 || cells[0] != q.startCell {
		stats.Truncated = len(cells) > 0
		cells = append([]navgrid.CellCoord{q.startCell}, cells...)
	}

	// Never stop inside the mouth of a pinch point.
	if out.rangeExit && len(cells) > 2 {
		last := &g.Cells[out.win]
		parent := a.parent[out.win]
		if last.Has(navgrid.FlagPinched) && parent >= 0 && !g.Cells[parent].Has(navgrid.FlagPinched) {
			cells = cells[:len(cells)-1]
		}
	}
	return cells
}

// lineOfMovement checks that the mover can travel straight from a to b,
// reapplying surface, layer, occupancy and pinch rules cell by cell.
func (q *query) lineOfMovement(a, b navgrid.CellCoord) lineResult {
	g := q.grid
	want := q.profile.Diameter()
	result := lineClear
	prev := a

	navgrid.WalkLine(a, b, func(c navgrid.CellCoord) bool {
		if c == a {
			return true
		}
		if !q.passable(c.X, c.Z) {
			result = lineBlocked
			return false
		}
		dx, dz := c.X-prev.X, c.Z-prev.Z
		if dx != 0 && dz != 0 && !q.passable(prev.X+dx, prev.Z) && !q.passable(prev.X, prev.Z+dz) {
			result = lineBlocked
			return false
		}
		from := &g.Cells[g.Index(prev.X, prev.Z)]
		to := &g.Cells[g.Index(c.X, c.Z)]
		if !q.profile.StepAllowed(from, to) {
			result = lineBlocked
			return false
		}
		if c != q.goalCell {
			info := q.checkForMovement(c)
			if info.EnemyFixed {
				result = lineBlocked
				return false
			}
			if q.attack && c != b && q.allyGoalAt(c) {
				result = lineBlocked
				return false
			}
		}
		if c != b && to.Has(navgrid.FlagPinched) {
			result = lineTight
		}
		if q.clearCellForDiameter(c, want) < want {
			result = lineTight
		}
		prev = c
		return true
	})
	return result
}

// allyGoalAt reports whether c is reserved as the destination of an ally.
func (q *query) allyGoalAt(c navgrid.CellCoord) bool {
	_, _, owner := q.occ.At(c)
	return owner != 0 && owner != q.mover.ID && q.isAlly(owner)
}

// monotonic reports whether cells[from..to] is one straight orthogonal or
// diagonal run.
func monotonic(cells []navgrid.CellCoord, from, to int) bool {
	dx := cells[from+1].X - cells[from].X
	dz := cells[from+1].Z - cells[from].Z
	for i := from + 1; i < to; i++ {
		if cells[i+1].X-cells[i].X != dx || cells[i+1].Z-cells[i].Z != dz {
			return false
		}
	}
	return true
}

// smooth pulls the string tight: from each anchor it extends the straight
// segment as far along the path as the line check allows.
func (q *query) smooth(cells []navgrid.CellCoord) []navgrid.CellCoord {
	if len(cells) <= 2 {
		return append([]navgrid.CellCoord(nil), cells...)
	}
	out := []navgrid.CellCoord{cells[0]}
	anchor := 0
	for cand := 2; cand < len(cells); {
		switch q.lineOfMovement(cells[anchor], cells[cand]) {
		case lineClear:
			cand++
			continue
		case lineTight:
			if monotonic(cells, anchor, cand) {
				cand++
				continue
			}
		}
		anchor = cand - 1
		out = append(out, cells[anchor])
		cand = anchor + 2
	}
	return append(out, cells[len(cells)-1])
}
