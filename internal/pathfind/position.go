package pathfind

import (
	"github.com/Faultbox/midgard-nav/internal/entity"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

// UpdatePathfindPosCell refreshes u.PosCell from its world position and
// reports whether it changed. Positions off the grid leave the cell alone.
func UpdatePathfindPosCell(grid *navgrid.Grid, u *entity.Unit) bool {
	c, ok := grid.WorldToCell(u.Position)
	if !ok || c == u.PosCell {
		return false
	}
	u.PosCell = c
	return true
}

// UpdatePathfindGoalCellFromPath points u.GoalCell at the last waypoint of
// path. An empty or off-grid path clears the goal.
func UpdatePathfindGoalCellFromPath(grid *navgrid.Grid, u *entity.Unit, path []math.Vec2) {
	if len(path) == 0 {
		u.HasGoal = false
		return
	}
	c, ok := grid.WorldToCell(path[len(path)-1])
	if !ok {
		u.HasGoal = false
		return
	}
	u.GoalCell = c
	u.HasGoal = true
}
