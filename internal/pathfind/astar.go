package pathfind

import (
	"container/heap"
	gomath "math"
	"sync"

	"github.com/Faultbox/midgard-nav/internal/navgrid"
)

// Step costs. Everything is integral so scores compare exactly.
const (
	costOrthogonal = 10
	costDiagonal   = 14

	costBlocked       = 100 * costOrthogonal
	costAllyMoving    = 3 * costDiagonal
	costAllyFixed     = 3 * costDiagonal
	costAllyGoalTank  = 3 * costOrthogonal
	costAllyGoal      = 1 * costOrthogonal
	costCliff         = 7 * costDiagonal
	costPinched       = costDiagonal
	costClearanceUnit = 6 // 0.6 of an orthogonal step per missing cell

	unvisited = gomath.MaxInt32
)

// Neighbor order: the four orthogonal moves first, then each diagonal
// between orthogonals k and k+1.
var directions = [8]struct{ dx, dz int }{
	{1, 0},   // E
	{0, 1},   // S
	{-1, 0},  // W
	{0, -1},  // N
	{1, 1},   // SE
	{-1, 1},  // SW
	{-1, -1}, // NW
	{1, -1},  // NE
}

// octant maps a direction index to its compass position in 45° steps.
var octant = [8]int{0, 2, 4, 6, 1, 3, 5, 7}

// turnPenalty is indexed by the number of 45° steps between two headings.
var turnPenalty = [5]int32{0, 4, 8, 16, 16}

// arena holds the flat per-cell search state of one call.
type arena struct {
	parent  []int32
	g       []int32
	f       []int32
	seq     []uint32
	heapIdx []int32
	closed  []bool
	open    openSet
	nextSeq uint32
}

var arenaPool = sync.Pool{New: func() any { return new(arena) }}

// acquireArena returns a reset arena for n cells.
func acquireArena(n int) *arena {
	a := arenaPool.Get().(*arena)
	if cap(a.parent) < n {
		a.parent = make([]int32, n)
		a.g = make([]int32, n)
		a.f = make([]int32, n)
		a.seq = make([]uint32, n)
		a.heapIdx = make([]int32, n)
		a.closed = make([]bool, n)
	}
	a.parent = a.parent[:n]
	a.g = a.g[:n]
	a.f = a.f[:n]
	a.seq = a.seq[:n]
	a.heapIdx = a.heapIdx[:n]
	a.closed = a.closed[:n]
	for i := 0; i < n; i++ {
		a.parent[i] = -1
		a.g[i] = unvisited
		a.f[i] = unvisited
		a.seq[i] = 0
		a.heapIdx[i] = -1
		a.closed[i] = false
	}
	a.open = openSet{a: a, items: a.open.items[:0]}
	a.nextSeq = 0
	return a
}

func (a *arena) release() {
	a.open.a = nil
	arenaPool.Put(a)
}

// push inserts idx into the open set with a fresh insertion number.
func (a *arena) push(idx int32) {
	a.seq[idx] = a.nextSeq
	a.nextSeq++
	heap.Push(&a.open, idx)
}

// openSet is a binary heap of cell indices ordered by f, then by insertion.
type openSet struct {
	a     *arena
	items []int32
}

func (s openSet) Len() int { return len(s.items) }

func (s openSet) Less(i, j int) bool {
	fi, fj := s.a.f[s.items[i]], s.a.f[s.items[j]]
	if fi != fj {
		return fi < fj
	}
	return s.a.seq[s.items[i]] < s.a.seq[s.items[j]]
}

func (s openSet) Swap(i, j int) {
	s.items[i], s.items[j] = s.items[j], s.items[i]
	s.a.heapIdx[s.items[i]] = int32(i)
	s.a.heapIdx[s.items[j]] = int32(j)
}

func (s *openSet) Push(x any) {
	idx := x.(int32)
	s.a.heapIdx[idx] = int32(len(s.items))
	s.items = append(s.items, idx)
}

func (s *openSet) Pop() any {
	old := s.items
	n := len(old)
	idx := old[n-1]
	s.items = old[:n-1]
	s.a.heapIdx[idx] = -1
	return idx
}

// heuristic estimates the remaining cost from c.
func (q *query) heuristic(c navgrid.CellCoord) int32 {
	if !q.attack {
		dx := abs(c.X - q.goalCell.X)
		dz := abs(c.Z - q.goalCell.Z)
		return int32(costOrthogonal*max(dx, dz) + 5*min(dx, dz))
	}
	// Straight line in cells, minus half the stopping distance.
	dist := q.grid.CellCenter(c).Distance(q.goalPos) / q.grid.CellSize
	reach := q.attackDistance / q.grid.CellSize / 2
	h := float64((dist - reach) * costOrthogonal)
	if h <= 0 {
		return 0
	}
	return int32(h)
}

// searchOutcome is where the A* loop ended.
type searchOutcome struct {
	win       int32
	rangeExit bool
	reason    Reason
}

// search runs A* from q.startCell. The returned arena holds the parent chain
// and must be released by the caller.
func (q *query) search(stats *Stats) (*arena, searchOutcome) {
	g := q.grid
	a := acquireArena(g.Width * g.Height)

	startIdx := int32(g.Index(q.startCell.X, q.startCell.Z))
	goalIdx := int32(g.Index(q.goalCell.X, q.goalCell.Z))

	a.g[startIdx] = 0
	a.f[startIdx] = q.heuristic(q.startCell)
	a.push(startIdx)
	stats.Opened++

	for a.open.Len() > 0 {
		if stats.Expanded >= q.cfg.NodeBudget {
			return a, searchOutcome{win: -1, reason: ReasonBudget}
		}
		cur := heap.Pop(&a.open).(int32)
		a.closed[cur] = true
		stats.Expanded++
		q.metrics.recordExpanded()

		cc := g.Coord(int(cur))
		if cur == goalIdx {
			return a, searchOutcome{win: cur, reason: ReasonFound}
		}
		if q.attack && cur != startIdx && q.inAttackRange(cc) {
			return a, searchOutcome{win: cur, rangeExit: true, reason: ReasonFound}
		}
		q.expand(a, cur, cc, goalIdx, stats)
	}
	return a, searchOutcome{win: -1, reason: ReasonExhausted}
}

// expand relaxes the eight neighbors of cur.
func (q *query) expand(a *arena, cur int32, cc navgrid.CellCoord, goalIdx int32, stats *Stats) {
	g := q.grid
	curCell := &g.Cells[cur]

	prevDir := -1
	if p := a.parent[cur]; p >= 0 {
		pc := g.Coord(int(p))
		prevDir = directionIndex(cc.X-pc.X, cc.Z-pc.Z)
	}

	var orthOK [4]bool
	for i, d := range directions {
		if i >= 4 {
			k := i - 4
			if !orthOK[k] && !orthOK[(k+1)%4] {
				continue
			}
		}
		nc := cc.Add(d.dx, d.dz)
		if !q.passable(nc.X, nc.Z) {
			continue
		}
		ni := int32(g.Index(nc.X, nc.Z))
		nCell := &g.Cells[ni]
		if !q.profile.StepAllowed(curCell, nCell) {
			continue
		}

		isGoal := ni == goalIdx
		var info movementInfo
		if !isGoal {
			info = q.checkForMovement(nc)
			if info.EnemyFixed {
				continue
			}
		}
		if i < 4 {
			orthOK[i] = true
		}

		tentative := a.g[cur] + q.stepCost(cc, nc, curCell, nCell, i, prevDir, info, isGoal)
		if tentative >= a.g[ni] {
			continue
		}
		a.parent[ni] = cur
		a.g[ni] = tentative
		a.f[ni] = tentative + q.heuristic(nc)

		switch {
		case a.heapIdx[ni] >= 0:
			heap.Fix(&a.open, int(a.heapIdx[ni]))
		case a.closed[ni]:
			a.closed[ni] = false
			a.push(ni)
			stats.Reopened++
		default:
			a.push(ni)
			stats.Opened++
		}
	}
}

// stepCost prices the move from cc into nc along direction dir.
func (q *query) stepCost(cc, nc navgrid.CellCoord, from, to *navgrid.Cell, dir, prevDir int, info movementInfo, isGoal bool) int32 {
	cost := int32(costOrthogonal)
	if dir >= 4 {
		cost = costDiagonal
	}

	if q.profile.GroundOnly() && q.grid.ZoneBlocked(nc.X, nc.Z) {
		cost += costBlocked
	}
	if to.Has(navgrid.FlagBlocked) {
		cost += costBlocked
	}

	if !isGoal {
		if info.AllyMoving && nc.Chebyshev(q.startCell) < q.cfg.NearStartCells {
			cost += costAllyMoving
		}
		cost += costAllyFixed * int32(info.AllyFixedCount)
		if q.attack && info.AllyGoal {
			if q.mover.Vehicle {
				cost += costAllyGoalTank
			} else {
				cost += costAllyGoal
			}
		}
	}

	want := q.profile.Diameter()
	if got := q.clearCellForDiameter(nc, want); got < want {
		cost += costClearanceUnit * int32(want-got)
	}

	if prevDir >= 0 {
		cost += turnPenalty[turnSteps(prevDir, dir)]
	}

	pinched := to.Has(navgrid.FlagPinched)
	if to.Type == navgrid.CellCliff && !pinched && gomath.Abs(to.Height-from.Height) < q.grid.CellSize {
		cost += costCliff
	}
	if pinched {
		cost += costPinched
	}
	return cost
}

// directionIndex returns the index into directions of a unit step, or -1.
func directionIndex(dx, dz int) int {
	for i, d := range directions {
		if d.dx == dx && d.dz == dz {
			return i
		}
	}
	return -1
}

// turnSteps returns how many 45° steps separate two headings (0..4).
func turnSteps(a, b int) int {
	diff := abs(octant[a] - octant[b])
	return min(diff, 8-diff)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
