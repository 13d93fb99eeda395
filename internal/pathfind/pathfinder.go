// Package pathfind routes units across a navigation grid. A search is a pure
// function of the grid, a unit snapshot, the mover and its order: identical
// inputs give identical waypoints on every machine in a lockstep match.
package pathfind

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-nav/internal/entity"
	"github.com/Faultbox/midgard-nav/internal/logger"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

// Pathfinder searches one immutable grid. It keeps no state between calls and
// may be shared by concurrent callers.
type Pathfinder struct {
	grid    *navgrid.Grid
	cfg     Config
	log     *zap.Logger
	metrics *Metrics
}

// Option configures a Pathfinder.
type Option func(*Pathfinder)

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pathfinder) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics aggregates counters of every search into m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pathfinder) {
		p.metrics = m
	}
}

// New creates a pathfinder for grid.
func New(grid *navgrid.Grid, cfg Config, opts ...Option) *Pathfinder {
	if grid == nil {
		return nil
	}
	p := &Pathfinder{
		grid: grid,
		cfg:  cfg.sanitized(),
		log:  logger.Named("pathfind"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grid returns the grid being searched.
func (p *Pathfinder) Grid() *navgrid.Grid {
	return p.grid
}

// Request is one path query.
type Request struct {
	Start math.Vec2
	Goal  math.Vec2
	Mover *entity.Unit
	Units *entity.Snapshot

	// AttackDistance > 0 turns the order into an attack move that stops
	// once the mover is this close to Goal.
	AttackDistance float64
}

// query bundles the read-only inputs of one search.
type query struct {
	grid    *navgrid.Grid
	cfg     Config
	profile Profile
	mover   *entity.Unit
	snap    *entity.Snapshot
	occ     *Occupancy
	metrics *Metrics

	attack         bool
	attackDistance float64
	startCell      navgrid.CellCoord
	goalCell       navgrid.CellCoord
	goalPos        math.Vec2
}

func (p *Pathfinder) newQuery(mover *entity.Unit, snap *entity.Snapshot) *query {
	if snap == nil {
		snap = entity.NewSnapshot(nil)
	}
	return &query{
		grid:    p.grid,
		cfg:     p.cfg,
		profile: ResolveProfile(mover.Locomotor),
		mover:   mover,
		snap:    snap,
		metrics: p.metrics,
	}
}

// FindPath returns the world-space waypoints for req, or nil when there is
// no route.
func (p *Pathfinder) FindPath(req Request) []math.Vec2 {
	res := p.Search(req)
	if !res.Found() {
		return nil
	}
	return res.Waypoints
}

// Search runs a full query and reports how it went.
func (p *Pathfinder) Search(req Request) Result {
	res := p.search(req)
	p.metrics.recordSearch(&res)
	if res.Reason != ReasonFound {
		p.log.Debug("no path",
			zap.Stringer("reason", res.Reason),
			zap.Uint32("mover", moverID(req.Mover)),
			zap.Stringer("start", res.StartCell),
			zap.Stringer("goal", res.GoalCell),
			zap.Int("expanded", res.Stats.Expanded),
		)
		return res
	}
	p.log.Debug("path found",
		zap.Uint32("mover", moverID(req.Mover)),
		zap.Int("raw", len(res.RawCells)),
		zap.Int("waypoints", len(res.Waypoints)),
		zap.Int("expanded", res.Stats.Expanded),
		zap.Bool("probe", res.Stats.QuickProbeHit),
	)
	return res
}

func (p *Pathfinder) search(req Request) Result {
	var res Result
	if req.Mover == nil {
		res.Reason = ReasonNoSurfaces
		return res
	}
	q := p.newQuery(req.Mover, req.Units)
	if q.profile.AcceptableSurfaces == navgrid.SurfaceNone {
		res.Reason = ReasonNoSurfaces
		return res
	}

	startCell, ok := p.grid.WorldToCell(req.Start)
	res.StartCell = startCell
	if !ok {
		res.Reason = ReasonStartOffGrid
		return res
	}
	goalCell, ok := p.grid.WorldToCell(req.Goal)
	res.GoalCell = goalCell
	if !ok {
		res.Reason = ReasonGoalOffGrid
		return res
	}

	if !q.canOccupyCell(startCell, true) {
		c, ok := q.findNearestPassableCell(startCell, &res.Stats)
		if !ok {
			res.Reason = ReasonStartBlocked
			return res
		}
		startCell = c
		res.Stats.StartSnapped = true
	}
	if !q.canOccupyCell(goalCell, true) {
		c, ok := q.findNearestPassableCell(goalCell, &res.Stats)
		if !ok {
			res.Reason = ReasonGoalBlocked
			return res
		}
		goalCell = c
		res.Stats.GoalSnapped = true
	}
	res.StartCell, res.GoalCell = startCell, goalCell

	q.startCell = startCell
	q.goalCell = goalCell
	q.goalPos = req.Goal
	q.attack = req.AttackDistance > 0
	q.attackDistance = req.AttackDistance
	q.occ = BuildOccupancy(p.grid, q.snap)

	if q.attack {
		if pt, ok := q.quickProbe(req.Start, &res.Stats); ok {
			c, _ := p.grid.WorldToCell(pt)
			res.RawCells = []navgrid.CellCoord{startCell, c}
			res.Cells = res.RawCells
			res.Waypoints = []math.Vec2{req.Start, pt}
			res.Stats.QuickProbeHit = true
			return res
		}
	}

	if startCell == goalCell {
		res.RawCells = []navgrid.CellCoord{startCell}
		res.Cells = res.RawCells
		res.Waypoints = q.toWorld(res.Cells, req, res.Stats.GoalSnapped)
		return res
	}

	a, out := q.search(&res.Stats)
	defer a.release()
	if out.reason != ReasonFound {
		res.Reason = out.reason
		return res
	}
	res.Stats.RangeExit = out.rangeExit

	res.RawCells = q.reconstruct(a, out, &res.Stats)
	res.Cells = q.smooth(res.RawCells)
	res.Waypoints = q.toWorld(res.Cells, req, res.Stats.GoalSnapped || out.rangeExit)
	return res
}

// quickProbe samples points on the straight line toward the target and
// returns the first one that already satisfies the attack order.
func (q *query) quickProbe(startPos math.Vec2, stats *Stats) (math.Vec2, bool) {
	n := q.cfg.ProbeSamples
	for i := 1; i <= n; i++ {
		stats.ProbeSamples++
		pt := startPos.Lerp(q.goalPos, float64(i)/float64(n+1))
		c, ok := q.grid.WorldToCell(pt)
		if !ok || !q.canOccupyCell(c, true) {
			continue
		}
		if !q.inRange(pt) {
			continue
		}
		if c.Chebyshev(q.startCell) <= 1 {
			continue
		}
		if !q.lineOfSight(q.startCell, c) {
			continue
		}
		if q.lineOfMovement(q.startCell, c) == lineBlocked {
			continue
		}
		return pt, true
	}
	return math.Vec2{}, false
}

// toWorld converts smoothed cells to waypoints. A plain move whose goal cell
// was not moved ends exactly on the requested goal; the exact start is put in
// front whenever the first cell center differs from it.
func (q *query) toWorld(cells []navgrid.CellCoord, req Request, keepCellEnd bool) []math.Vec2 {
	pts := make([]math.Vec2, 0, len(cells)+1)
	for _, c := range cells {
		pts = append(pts, q.grid.CellCenter(c))
	}
	if !q.attack && !keepCellEnd {
		pts[len(pts)-1] = req.Goal
	}
	if pts[0] != req.Start {
		pts = append([]math.Vec2{req.Start}, pts...)
	}
	return pts
}

// CanOccupyCell reports whether mover fits on c. With exact set, the whole
// configured footprint has to fit.
func (p *Pathfinder) CanOccupyCell(mover *entity.Unit, c navgrid.CellCoord, exact bool) bool {
	return p.newQuery(mover, nil).canOccupyCell(c, exact)
}

// ClearCellForDiameter returns the clearance mover finds at c for diameter.
func (p *Pathfinder) ClearCellForDiameter(mover *entity.Unit, c navgrid.CellCoord, diameter int) int {
	return p.newQuery(mover, nil).clearCellForDiameter(c, diameter)
}

// FindNearestPassableCell snaps c to the closest cell mover fits on.
func (p *Pathfinder) FindNearestPassableCell(mover *entity.Unit, c navgrid.CellCoord) (navgrid.CellCoord, bool) {
	q := p.newQuery(mover, nil)
	if q.canOccupyCell(c, true) {
		return c, true
	}
	var stats Stats
	return q.findNearestPassableCell(c, &stats)
}

func moverID(u *entity.Unit) uint32 {
	if u == nil {
		return 0
	}
	return uint32(u.ID)
}
