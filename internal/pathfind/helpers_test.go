package pathfind

import (
	"testing"

	"github.com/Faultbox/midgard-nav/internal/entity"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/internal/scenario"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

const testCellSize = 10

func grid(rows ...string) *navgrid.Grid {
	return scenario.MustGrid(testCellSize, rows...)
}

func cell(x, z int) navgrid.CellCoord {
	return navgrid.CellCoord{X: x, Z: z}
}

func center(x, z int) math.Vec2 {
	return math.Vec2{X: (float64(x) + 0.5) * testCellSize, Z: (float64(z) + 0.5) * testCellSize}
}

// unit returns a ground unit parked on (x, z).
func unit(id entity.ID, team, x, z int) entity.Unit {
	return entity.Unit{
		ID:             id,
		Team:           team,
		Position:       center(x, z),
		PosCell:        cell(x, z),
		BlocksMovement: true,
		Locomotor:      entity.Locomotor{Surfaces: navgrid.SurfaceGround},
	}
}

// mover returns the routed unit: team 1, ID 1, a point footprint.
func mover(x, z int) *entity.Unit {
	u := unit(1, 1, x, z)
	u.Moving = true
	return &u
}

func newQuery(t *testing.T, g *navgrid.Grid, m *entity.Unit, others ...entity.Unit) *query {
	t.Helper()
	snap := entity.NewSnapshot(append([]entity.Unit{*m}, others...))
	q := New(g, DefaultConfig()).newQuery(m, snap)
	q.startCell = m.PosCell
	q.occ = BuildOccupancy(g, snap)
	return q
}

func request(m *entity.Unit, from, to navgrid.CellCoord, others ...entity.Unit) Request {
	return Request{
		Start: center(from.X, from.Z),
		Goal:  center(to.X, to.Z),
		Mover: m,
		Units: entity.NewSnapshot(append([]entity.Unit{*m}, others...)),
	}
}

// assertWalkable checks that consecutive raw cells are single legal steps.
func assertWalkable(t *testing.T, q *query, cells []navgrid.CellCoord) {
	t.Helper()
	for i := 1; i < len(cells); i++ {
		a, b := cells[i-1], cells[i]
		if a.Chebyshev(b) != 1 {
			t.Fatalf("step %d: %v -> %v is not adjacent", i, a, b)
		}
		if !q.passable(b.X, b.Z) {
			t.Fatalf("step %d: %v is not passable", i, b)
		}
		dx, dz := b.X-a.X, b.Z-a.Z
		if dx != 0 && dz != 0 && !q.passable(a.X+dx, a.Z) && !q.passable(a.X, a.Z+dz) {
			t.Fatalf("step %d: %v -> %v cuts a corner", i, a, b)
		}
	}
}

func centers(g *navgrid.Grid, cells []navgrid.CellCoord) []math.Vec2 {
	pts := make([]math.Vec2, len(cells))
	for i, c := range cells {
		pts[i] = g.CellCenter(c)
	}
	return pts
}
