package pathfind

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-nav/internal/entity"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

func TestSearchStraightLine(t *testing.T) {
	g := grid("......", "......", "......")
	m := mover(0, 0)
	res := New(g, DefaultConfig()).Search(request(m, cell(0, 0), cell(5, 0)))

	require.True(t, res.Found(), res.Reason.String())
	assert.Len(t, res.RawCells, 6)
	assert.Equal(t, []navgrid.CellCoord{cell(0, 0), cell(5, 0)}, res.Cells)
	assert.Equal(t, []math.Vec2{center(0, 0), center(5, 0)}, res.Waypoints)
	assert.False(t, res.Stats.StartSnapped)
	assert.False(t, res.Stats.GoalSnapped)
}

func TestSearchThroughGap(t *testing.T) {
	g := grid(
		"......",
		"####.#",
		"......",
	)
	m := mover(0, 0)
	p := New(g, DefaultConfig())
	res := p.Search(request(m, cell(0, 0), cell(0, 2)))

	require.True(t, res.Found(), res.Reason.String())
	assert.Contains(t, res.RawCells, cell(4, 1))
	assert.Equal(t, cell(0, 0), res.RawCells[0])
	assert.Equal(t, cell(0, 2), res.RawCells[len(res.RawCells)-1])
	assertWalkable(t, newQuery(t, g, m), res.RawCells)
}

func TestSearchNoRoute(t *testing.T) {
	g := grid(
		"......",
		"######",
		"......",
	)
	m := mover(0, 0)
	p := New(g, DefaultConfig())
	res := p.Search(request(m, cell(0, 0), cell(0, 2)))

	assert.Equal(t, ReasonExhausted, res.Reason)
	assert.False(t, res.Found())
	assert.Nil(t, p.FindPath(request(m, cell(0, 0), cell(0, 2))))
}

func TestSearchNoCornerCutting(t *testing.T) {
	g := grid(
		".#",
		"#.",
	)
	res := New(g, DefaultConfig()).Search(request(mover(0, 0), cell(0, 0), cell(1, 1)))
	assert.Equal(t, ReasonExhausted, res.Reason)
}

func TestSearchDiagonalWithOneFlank(t *testing.T) {
	g := grid(
		"..",
		"#.",
	)
	res := New(g, DefaultConfig()).Search(request(mover(0, 0), cell(0, 0), cell(1, 1)))
	require.True(t, res.Found())
	assert.Equal(t, []navgrid.CellCoord{cell(0, 0), cell(1, 1)}, res.RawCells)
}

func TestSearchExactEndpoints(t *testing.T) {
	g := grid("......", "......")
	m := mover(0, 0)
	req := request(m, cell(0, 0), cell(5, 1))
	req.Start = math.Vec2{X: 2, Z: 3}
	req.Goal = math.Vec2{X: 57, Z: 11}

	res := New(g, DefaultConfig()).Search(req)
	require.True(t, res.Found())
	assert.Equal(t, req.Start, res.Waypoints[0])
	assert.Equal(t, req.Goal, res.Waypoints[len(res.Waypoints)-1])
}

func TestSearchSameCell(t *testing.T) {
	g := grid("...", "...")
	m := mover(1, 1)
	req := request(m, cell(1, 1), cell(1, 1))
	req.Start = math.Vec2{X: 11, Z: 12}
	req.Goal = math.Vec2{X: 18, Z: 19}

	res := New(g, DefaultConfig()).Search(req)
	require.True(t, res.Found())
	assert.Equal(t, []navgrid.CellCoord{cell(1, 1)}, res.Cells)
	assert.Equal(t, []math.Vec2{req.Start, req.Goal}, res.Waypoints)
	assert.Zero(t, res.Stats.Expanded)
}

func TestSearchSnapsGoal(t *testing.T) {
	g := grid(
		".....",
		"...#.",
		".....",
	)
	m := mover(0, 1)
	res := New(g, DefaultConfig()).Search(request(m, cell(0, 1), cell(3, 1)))

	require.True(t, res.Found())
	assert.True(t, res.Stats.GoalSnapped)
	assert.Equal(t, cell(4, 1), res.GoalCell, "east side of the first ring comes first")
	assert.Equal(t, center(4, 1), res.Waypoints[len(res.Waypoints)-1])
}

func TestSearchSnapsStart(t *testing.T) {
	g := grid(
		"~....",
		".....",
	)
	m := mover(0, 0)
	res := New(g, DefaultConfig()).Search(request(m, cell(0, 0), cell(4, 1)))

	require.True(t, res.Found())
	assert.True(t, res.Stats.StartSnapped)
	assert.Equal(t, cell(1, 0), res.StartCell)
	assert.Equal(t, center(0, 0), res.Waypoints[0], "the exact start still leads the route")
}

func TestSearchRejections(t *testing.T) {
	g := grid("~~~", "~~~")
	p := New(g, DefaultConfig())

	m := mover(0, 0)
	res := p.Search(request(m, cell(0, 0), cell(2, 1)))
	assert.Equal(t, ReasonStartBlocked, res.Reason)

	land := grid("...", "..#")
	p = New(land, DefaultConfig())
	big := mover(0, 0)
	big.Locomotor.PathDiameter = 5
	res = p.Search(request(big, cell(0, 0), cell(2, 1)))
	assert.Equal(t, ReasonStartBlocked, res.Reason, "nothing on a 3x2 map fits a 5-cell footprint")

	ghost := mover(0, 0)
	ghost.Locomotor.Surfaces = navgrid.SurfaceNone
	res = p.Search(request(ghost, cell(0, 0), cell(1, 0)))
	assert.Equal(t, ReasonNoSurfaces, res.Reason)

	res = p.Search(Request{Start: center(0, 0), Goal: center(1, 0)})
	assert.Equal(t, ReasonNoSurfaces, res.Reason)

	req := request(mover(0, 0), cell(0, 0), cell(1, 0))
	req.Start = math.Vec2{X: -1, Z: 5}
	assert.Equal(t, ReasonStartOffGrid, p.Search(req).Reason)

	req = request(mover(0, 0), cell(0, 0), cell(1, 0))
	req.Goal = math.Vec2{X: 5, Z: 20}
	assert.Equal(t, ReasonGoalOffGrid, p.Search(req).Reason)
}

func TestSearchGoalBlocked(t *testing.T) {
	g := grid(
		"...~~~~~~~~",
		"...~~~~~~~~",
		"...~~~~~~~~",
	)
	cfg := DefaultConfig()
	cfg.SnapBudget = 8
	res := New(g, cfg).Search(request(mover(0, 0), cell(0, 0), cell(9, 1)))
	assert.Equal(t, ReasonGoalBlocked, res.Reason)
	assert.Equal(t, 8, res.Stats.SnapInspected)
}

func TestSearchBudget(t *testing.T) {
	g := grid("....................")
	cfg := DefaultConfig()
	cfg.NodeBudget = 3

	var metrics Metrics
	p := New(g, cfg, WithMetrics(&metrics))
	res := p.Search(request(mover(0, 0), cell(0, 0), cell(19, 0)))

	assert.Equal(t, ReasonBudget, res.Reason)
	assert.Equal(t, 3, res.Stats.Expanded)
	assert.Equal(t, int64(1), metrics.Snapshot().BudgetHits)
}

func TestSearchTruncatedChain(t *testing.T) {
	g := grid("....................")
	cfg := DefaultConfig()
	cfg.ReconstructLimit = 5

	res := New(g, cfg).Search(request(mover(0, 0), cell(0, 0), cell(19, 0)))
	require.True(t, res.Found())
	assert.True(t, res.Stats.Truncated)
	assert.Equal(t, []navgrid.CellCoord{cell(0, 0), cell(15, 0), cell(16, 0), cell(17, 0), cell(18, 0), cell(19, 0)}, res.RawCells)
}

func TestSearchAvoidsEnemies(t *testing.T) {
	g := grid(
		".......",
		".......",
		".......",
	)
	m := mover(0, 1)
	enemy := unit(2, 2, 3, 1)
	res := New(g, DefaultConfig()).Search(request(m, cell(0, 1), cell(6, 1), enemy))

	require.True(t, res.Found())
	assert.NotContains(t, res.RawCells, cell(3, 1))
	for i := 1; i < len(res.Cells); i++ {
		q := newQuery(t, g, m, enemy)
		q.goalCell = cell(6, 1)
		assert.NotEqual(t, lineBlocked, q.lineOfMovement(res.Cells[i-1], res.Cells[i]))
	}
}

func TestSearchBlockedCorridor(t *testing.T) {
	g := grid(".......")
	m := mover(0, 0)
	enemy := unit(2, 2, 3, 0)
	p := New(g, DefaultConfig())

	assert.Equal(t, ReasonExhausted, p.Search(request(m, cell(0, 0), cell(6, 0), enemy)).Reason)

	// The literal goal cell ignores whoever stands on it.
	assert.True(t, p.Search(request(m, cell(0, 0), cell(3, 0), enemy)).Found())

	enemy.CrushableLevel = 1
	m.CrusherLevel = 2
	assert.True(t, p.Search(request(m, cell(0, 0), cell(6, 0), enemy)).Found())
}

func TestSearchPrefersEmptyLane(t *testing.T) {
	g := grid(
		"..........",
		"..........",
		"..........",
	)
	m := mover(0, 1)
	var allies []entity.Unit
	for x := 2; x <= 7; x++ {
		allies = append(allies, unit(entity.ID(10+x), 1, x, 1))
	}
	res := New(g, DefaultConfig()).Search(request(m, cell(0, 1), cell(9, 1), allies...))

	require.True(t, res.Found())
	for _, c := range res.RawCells {
		crossed := c.Z == 1 && c.X >= 2 && c.X <= 7
		assert.False(t, crossed, "walked through a parked ally at %v", c)
	}
}

func TestSearchBridge(t *testing.T) {
	g := grid(
		".....",
		"..T..",
		"~~=~~",
		"..T..",
		".....",
	)
	m := mover(2, 0)
	m.Locomotor.CanUseBridge = true
	p := New(g, DefaultConfig())

	res := p.Search(request(m, cell(2, 0), cell(2, 4)))
	require.True(t, res.Found(), res.Reason.String())
	assert.Contains(t, res.RawCells, cell(2, 2))
	assertWalkable(t, newQuery(t, g, m), res.RawCells)

	walker := mover(2, 0)
	assert.Equal(t, ReasonExhausted, p.Search(request(walker, cell(2, 0), cell(2, 4))).Reason)
}

func TestSearchBridgeNeedsRamp(t *testing.T) {
	g := grid(
		".....",
		"~~=~~",
		".....",
	)
	m := mover(2, 0)
	m.Locomotor.CanUseBridge = true
	res := New(g, DefaultConfig()).Search(request(m, cell(2, 0), cell(2, 2)))
	assert.Equal(t, ReasonExhausted, res.Reason)
}

func TestSearchDownhillOnly(t *testing.T) {
	g := grid("......")
	for x := 0; x < 6; x++ {
		g.GetCell(x, 0).Height = float64(10 - x)
	}
	m := mover(0, 0)
	m.Locomotor.DownhillOnly = true
	p := New(g, DefaultConfig())

	assert.True(t, p.Search(request(m, cell(0, 0), cell(5, 0))).Found())

	up := mover(5, 0)
	up.Locomotor.DownhillOnly = true
	assert.Equal(t, ReasonExhausted, p.Search(request(up, cell(5, 0), cell(0, 0))).Reason)
}

func TestSearchDeterministic(t *testing.T) {
	g := grid(
		"..........",
		"..#...#...",
		"..#.p.#...",
		"..#...###.",
		"......:...",
		".~~~......",
	)
	m := mover(0, 0)
	others := []entity.Unit{unit(4, 1, 5, 1), unit(3, 2, 8, 5)}
	req := request(m, cell(0, 0), cell(9, 5), others...)

	first := New(g, DefaultConfig()).Search(req)
	require.True(t, first.Found())

	var metrics Metrics
	p := New(g, DefaultConfig(), WithMetrics(&metrics))
	var wg sync.WaitGroup
	results := make([]Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Search(req)
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, first, res)
	}
	assert.Equal(t, int64(8), metrics.Snapshot().Found)
}

func TestSmoothingNeverLengthens(t *testing.T) {
	g := grid(
		"............",
		"...####.....",
		"...#..#..#..",
		"...#..#..#..",
		"......#..#..",
		"..........p.",
	)
	m := mover(0, 0)
	p := New(g, DefaultConfig())

	for _, goal := range []navgrid.CellCoord{cell(4, 2), cell(11, 5), cell(8, 2), cell(0, 5)} {
		res := p.Search(request(m, cell(0, 0), goal))
		require.True(t, res.Found(), "goal %v: %s", goal, res.Reason)
		assertWalkable(t, newQuery(t, g, m), res.RawCells)

		raw := math.PathLength(centers(g, res.RawCells))
		smoothed := math.PathLength(centers(g, res.Cells))
		assert.LessOrEqual(t, smoothed, raw+1e-9, "goal %v", goal)
		assert.Equal(t, res.RawCells[0], res.Cells[0])
		assert.Equal(t, res.RawCells[len(res.RawCells)-1], res.Cells[len(res.Cells)-1])
	}
}

func TestPublicHelpers(t *testing.T) {
	g := grid(
		".....",
		".###.",
		".#.#.",
		".###.",
		".....",
	)
	p := New(g, DefaultConfig())
	assert.Same(t, g, p.Grid())

	m := mover(0, 0)
	c, ok := p.FindNearestPassableCell(m, cell(1, 1))
	require.True(t, ok)
	assert.Equal(t, cell(2, 2), c)

	c, ok = p.FindNearestPassableCell(m, cell(0, 0))
	require.True(t, ok)
	assert.Equal(t, cell(0, 0), c, "a free cell snaps to itself")

	assert.Nil(t, New(nil, DefaultConfig()))
}
