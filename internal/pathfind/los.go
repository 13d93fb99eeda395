package pathfind

import (
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

// attackReachSq is the squared stopping distance including the edge fudge.
func (q *query) attackReachSq() float64 {
	reach := q.attackDistance + float64(q.cfg.EdgeFudgeCells*q.grid.CellSize)
	return float64(reach * reach)
}

// inRange reports whether p is within stopping distance of the target.
func (q *query) inRange(p math.Vec2) bool {
	return p.DistanceSq(q.goalPos) <= q.attackReachSq()
}

// inAttackRange is the early-exit test of an attack search: close enough to
// the target, not right next to where the mover already is, and visible from
// the start.
func (q *query) inAttackRange(c navgrid.CellCoord) bool {
	if !q.inRange(q.grid.CellCenter(c)) {
		return false
	}
	if c.Chebyshev(q.startCell) <= 1 {
		return false
	}
	return q.lineOfSight(q.startCell, c)
}

// lineOfSight walks the cells from a to b and fails on any obstacle cell or
// any terrain rising above the straight sight line by more than the height
// fudge.
func (q *query) lineOfSight(a, b navgrid.CellCoord) bool {
	g := q.grid
	ha, hb := g.HeightAt(a.X, a.Z), g.HeightAt(b.X, b.Z)
	steps := max(abs(b.X-a.X), abs(b.Z-a.Z))
	fudge := float64(q.cfg.HeightFudgeCells * g.CellSize)

	i := 0
	return navgrid.WalkLine(a, b, func(c navgrid.CellCoord) bool {
		cell := g.GetCell(c.X, c.Z)
		if cell == nil {
			return false
		}
		if blocksSight(cell) {
			return false
		}
		expected := ha
		if steps > 0 {
			t := float64(i) / float64(steps)
			expected = ha + float64((hb-ha)*t)
		}
		i++
		return cell.Height <= expected+fudge
	})
}

func blocksSight(c *navgrid.Cell) bool {
	if c.Has(navgrid.FlagBridgePassable) {
		return false
	}
	return c.Type == navgrid.CellObstacle || c.Type == navgrid.CellImpassable
}
