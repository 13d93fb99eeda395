package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-nav/internal/entity"
)

func TestBuildOccupancyPositions(t *testing.T) {
	g := grid(".....", ".....", ".....")

	parked := unit(2, 1, 0, 0)
	walking := unit(3, 1, 2, 0)
	walking.Moving = true
	arrived := unit(4, 1, 4, 0)
	arrived.Moving = true
	arrived.HasGoal = true
	arrived.GoalCell = cell(4, 0)
	ghost := unit(5, 1, 2, 2)
	ghost.BlocksMovement = false

	occ := BuildOccupancy(g, entity.NewSnapshot([]entity.Unit{ghost, arrived, walking, parked}))

	flag, id, _ := occ.At(cell(0, 0))
	assert.Equal(t, PresentFixed, flag)
	assert.Equal(t, entity.ID(2), id)

	flag, id, _ = occ.At(cell(2, 0))
	assert.Equal(t, PresentMoving, flag)
	assert.Equal(t, entity.ID(3), id)

	flag, _, goal := occ.At(cell(4, 0))
	assert.Equal(t, PresentFixed, flag, "a mover inside its destination is parked")
	assert.Equal(t, entity.ID(4), goal)

	flag, _, _ = occ.At(cell(2, 2))
	assert.Equal(t, NoUnits, flag)

	flag, _, _ = occ.At(cell(-1, 7))
	assert.Equal(t, NoUnits, flag)
}

func TestBuildOccupancyFixedWins(t *testing.T) {
	g := grid("...")

	fixed := unit(2, 1, 1, 0)
	moving := unit(3, 1, 1, 0)
	moving.Moving = true
	occ := BuildOccupancy(g, entity.NewSnapshot([]entity.Unit{moving, fixed}))
	flag, id, _ := occ.At(cell(1, 0))
	assert.Equal(t, PresentFixed, flag)
	assert.Equal(t, entity.ID(2), id)

	// The later fixed stamp replaces an earlier moving one.
	moving.ID, fixed.ID = 2, 3
	occ = BuildOccupancy(g, entity.NewSnapshot([]entity.Unit{moving, fixed}))
	flag, id, _ = occ.At(cell(1, 0))
	assert.Equal(t, PresentFixed, flag)
	assert.Equal(t, entity.ID(3), id)
}

func TestBuildOccupancyGoals(t *testing.T) {
	g := grid(".....")

	runner := unit(2, 1, 1, 0)
	runner.Moving = true
	first := unit(3, 1, 4, 0)
	first.HasGoal = true
	first.GoalCell = cell(0, 0)
	second := unit(4, 1, 3, 0)
	second.Moving = true
	second.HasGoal = true
	second.GoalCell = cell(0, 0)
	third := unit(5, 1, 2, 0)
	third.HasGoal = true
	third.GoalCell = cell(1, 0)

	occ := BuildOccupancy(g, entity.NewSnapshot([]entity.Unit{third, second, first, runner}))

	flag, _, owner := occ.At(cell(0, 0))
	assert.Equal(t, Goal, flag)
	assert.Equal(t, entity.ID(3), owner, "first reservation wins")

	flag, id, owner := occ.At(cell(1, 0))
	assert.Equal(t, GoalOtherMoving, flag)
	assert.Equal(t, entity.ID(2), id)
	assert.Equal(t, entity.ID(5), owner)
}

func TestBuildOccupancyFootprint(t *testing.T) {
	g := grid(".....", ".....", ".....", ".....", ".....")
	big := unit(2, 1, 2, 2)
	big.Locomotor.PathDiameter = 3

	occ := BuildOccupancy(g, entity.NewSnapshot([]entity.Unit{big}))
	for z := 0; z < 5; z++ {
		for x := 0; x < 5; x++ {
			flag, _, _ := occ.At(cell(x, z))
			inside := x >= 1 && x <= 3 && z >= 1 && z <= 3
			assert.Equal(t, inside, flag == PresentFixed, "cell (%d,%d)", x, z)
		}
	}
}

func TestCheckForMovement(t *testing.T) {
	g := grid(".......", ".......", ".......")

	m := mover(0, 1)
	m.Locomotor.PathDiameter = 3
	m.CrusherLevel = 2

	allyA := unit(2, 1, 2, 0)
	allyA.Locomotor.PathDiameter = 2 // covers (1..2, -1..0)
	allyB := unit(3, 1, 3, 2)
	runner := unit(4, 1, 5, 1)
	runner.Moving = true
	enemy := unit(5, 2, 6, 0)
	enemy.CrushableLevel = 5
	crushable := unit(6, 2, 6, 2)
	crushable.CrushableLevel = 1
	ally := unit(7, 1, 0, 2)
	ally.Moving = true
	ally.HasGoal = true
	ally.GoalCell = cell(4, 0)

	q := newQuery(t, g, m, allyA, allyB, runner, enemy, crushable, ally)

	info := q.checkForMovement(cell(2, 1))
	assert.Equal(t, 2, info.AllyFixedCount, "allies A and B, each counted once")
	assert.False(t, info.EnemyFixed)
	assert.False(t, info.AllyMoving)

	info = q.checkForMovement(cell(4, 1))
	assert.True(t, info.AllyMoving)
	assert.True(t, info.AllyGoal)

	info = q.checkForMovement(cell(5, 1))
	assert.True(t, info.EnemyFixed, "uncrushable enemy at (6,0)")

	m.CrusherLevel = 1
	info = q.checkForMovement(cell(6, 2))
	assert.True(t, info.EnemyFixed, "crusher level must exceed crushable level")

	m.CrusherLevel = 2
	q.snap.SetRelation(1, 2, entity.Allies)
	info = q.checkForMovement(cell(5, 1))
	assert.False(t, info.EnemyFixed)
	assert.Equal(t, 2, info.AllyFixedCount)
}

func TestCheckForMovementIgnoresSelf(t *testing.T) {
	g := grid("...")
	m := mover(1, 0)
	m.HasGoal = true
	m.GoalCell = cell(2, 0)
	q := newQuery(t, g, m)

	for x := 0; x < 3; x++ {
		require.Equal(t, movementInfo{}, q.checkForMovement(cell(x, 0)))
	}
}
