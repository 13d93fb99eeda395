package pathfind

import (
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

// Config bounds and tunes a search. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	NodeBudget       int     // max A* expansions before giving up
	ReconstructLimit int     // max parent links followed when rebuilding a path
	SnapBudget       int     // max cells inspected when snapping start or goal
	ProbeSamples     int     // straight-line samples tried before an attack search
	EdgeFudgeCells   float64 // slack added to attack range, in cells
	HeightFudgeCells float64 // terrain allowed above the sight line, in cells
	NearStartCells   int     // radius around the start where moving allies cost extra
}

// DefaultConfig returns the standard search bounds.
func DefaultConfig() Config {
	return Config{
		NodeBudget:       500000,
		ReconstructLimit: 2000,
		SnapBudget:       1600,
		ProbeSamples:     9,
		EdgeFudgeCells:   0.25,
		HeightFudgeCells: 0.5,
		NearStartCells:   10,
	}
}

// sanitized fills unset bounds with defaults so a partial config never
// produces an unbounded search.
func (c Config) sanitized() Config {
	d := DefaultConfig()
	if c.NodeBudget <= 0 {
		c.NodeBudget = d.NodeBudget
	}
	if c.ReconstructLimit <= 0 {
		c.ReconstructLimit = d.ReconstructLimit
	}
	if c.SnapBudget <= 0 {
		c.SnapBudget = d.SnapBudget
	}
	if c.ProbeSamples < 0 {
		c.ProbeSamples = 0
	}
	if c.EdgeFudgeCells < 0 {
		c.EdgeFudgeCells = 0
	}
	if c.HeightFudgeCells < 0 {
		c.HeightFudgeCells = 0
	}
	if c.NearStartCells < 0 {
		c.NearStartCells = 0
	}
	return c
}

// Reason explains why a search produced no path.
type Reason uint8

// Search outcomes.
const (
	ReasonFound Reason = iota
	ReasonNoSurfaces
	ReasonStartOffGrid
	ReasonGoalOffGrid
	ReasonStartBlocked
	ReasonGoalBlocked
	ReasonExhausted
	ReasonBudget
)

func (r Reason) String() string {
	switch r {
	case ReasonFound:
		return "found"
	case ReasonNoSurfaces:
		return "no acceptable surfaces"
	case ReasonStartOffGrid:
		return "start off grid"
	case ReasonGoalOffGrid:
		return "goal off grid"
	case ReasonStartBlocked:
		return "start blocked"
	case ReasonGoalBlocked:
		return "goal blocked"
	case ReasonExhausted:
		return "open set exhausted"
	case ReasonBudget:
		return "node budget exceeded"
	default:
		return "unknown"
	}
}

// Stats are the counters of one search call.
type Stats struct {
	Expanded      int
	Opened        int
	Reopened      int
	ProbeSamples  int
	SnapInspected int
	StartSnapped  bool
	GoalSnapped   bool
	QuickProbeHit bool

	// RangeExit is set when the search stopped on the attack-range condition.
	RangeExit bool
	// Truncated is set when reconstruction hit ReconstructLimit.
	Truncated bool
}

// Result is the full outcome of a search.
type Result struct {
	Reason Reason

	StartCell navgrid.CellCoord
	GoalCell  navgrid.CellCoord

	// RawCells is the reconstructed cell chain before smoothing.
	RawCells []navgrid.CellCoord
	// Cells is the smoothed cell chain.
	Cells []navgrid.CellCoord
	// Waypoints is the world-space route handed to steering.
	Waypoints []math.Vec2

	Stats Stats
}

// Found reports whether the search produced a route.
func (r Result) Found() bool {
	return r.Reason == ReasonFound && len(r.Waypoints) > 0
}
