package pathfind

import (
	"github.com/Faultbox/midgard-nav/internal/entity"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
)

// OccupancyFlag is what another unit reserves at a cell.
type OccupancyFlag uint8

// Occupancy flags.
const (
	NoUnits OccupancyFlag = iota
	Goal
	PresentMoving
	PresentFixed
	GoalOtherMoving
)

func (f OccupancyFlag) String() string {
	switch f {
	case NoUnits:
		return "none"
	case Goal:
		return "goal"
	case PresentMoving:
		return "moving"
	case PresentFixed:
		return "fixed"
	case GoalOtherMoving:
		return "goal+moving"
	default:
		return "unknown"
	}
}

// Occupancy is the per-search snapshot of which units stand on or are
// heading to which cells.
type Occupancy struct {
	width, height int
	flags         []OccupancyFlag
	unitID        []entity.ID
	goalUnitID    []entity.ID
}

// BuildOccupancy stamps every unit of the snapshot onto a fresh grid. Units
// are visited in ID order, so the result depends only on the snapshot.
func BuildOccupancy(grid *navgrid.Grid, snap *entity.Snapshot) *Occupancy {
	n := grid.Width * grid.Height
	o := &Occupancy{
		width:      grid.Width,
		height:     grid.Height,
		flags:      make([]OccupancyFlag, n),
		unitID:     make([]entity.ID, n),
		goalUnitID: make([]entity.ID, n),
	}

	units := snap.Units()
	for i := range units {
		if units[i].Stamps() {
			o.stampPosition(&units[i])
		}
	}
	for i := range units {
		if units[i].Stamps() && units[i].HasGoal {
			o.stampGoal(&units[i])
		}
	}
	return o
}

func (o *Occupancy) inBounds(x, z int) bool {
	return x >= 0 && x < o.width && z >= 0 && z < o.height
}

// stampPosition marks the unit's current footprint. A mover already standing
// inside its own destination is treated as parked.
func (o *Occupancy) stampPosition(u *entity.Unit) {
	d := u.Footprint()
	lo, hi := window(u.PosCell, d)
	goalLo, goalHi := window(u.GoalCell, d)

	for z := lo.Z; z <= hi.Z; z++ {
		for x := lo.X; x <= hi.X; x++ {
			if !o.inBounds(x, z) {
				continue
			}
			idx := z*o.width + x
			if o.unitID[idx] == u.ID {
				continue
			}
			flag := PresentFixed
			if u.Moving {
				flag = PresentMoving
				if u.HasGoal && x >= goalLo.X && x <= goalHi.X && z >= goalLo.Z && z <= goalHi.Z {
					flag = PresentFixed
				}
			}
			// Another unit's fixed stamp is never downgraded to moving.
			if flag == PresentMoving && o.flags[idx] == PresentFixed {
				continue
			}
			o.flags[idx] = flag
			o.unitID[idx] = u.ID
		}
	}
}

// stampGoal reserves the unit's destination footprint. The first unit to
// reserve a cell keeps it.
func (o *Occupancy) stampGoal(u *entity.Unit) {
	lo, hi := window(u.GoalCell, u.Footprint())
	for z := lo.Z; z <= hi.Z; z++ {
		for x := lo.X; x <= hi.X; x++ {
			if !o.inBounds(x, z) {
				continue
			}
			idx := z*o.width + x
			if o.goalUnitID[idx] != 0 {
				continue
			}
			switch {
			case o.unitID[idx] == u.ID:
				// Own position stamp stays as written.
			case o.flags[idx] == PresentMoving:
				o.flags[idx] = GoalOtherMoving
			case o.flags[idx] == NoUnits:
				o.flags[idx] = Goal
			}
			o.goalUnitID[idx] = u.ID
		}
	}
}

// At returns the flag, current occupant and goal owner of a cell.
func (o *Occupancy) At(c navgrid.CellCoord) (OccupancyFlag, entity.ID, entity.ID) {
	if !o.inBounds(c.X, c.Z) {
		return NoUnits, 0, 0
	}
	idx := c.Z*o.width + c.X
	return o.flags[idx], o.unitID[idx], o.goalUnitID[idx]
}

// movementInfo classifies the units around a candidate cell.
type movementInfo struct {
	EnemyFixed     bool // a blocker the mover cannot crush
	AllyMoving     bool
	AllyFixedCount int
	AllyGoal       bool
}

// checkForMovement inspects the mover's clearance window around c.
func (q *query) checkForMovement(c navgrid.CellCoord) movementInfo {
	var info movementInfo
	var seenFixed []entity.ID

	lo, hi := window(c, q.profile.Diameter())
	for z := lo.Z; z <= hi.Z; z++ {
		for x := lo.X; x <= hi.X; x++ {
			flag, occupant, goalOwner := q.occ.At(navgrid.CellCoord{X: x, Z: z})
			if flag == NoUnits {
				continue
			}
			if goalOwner != 0 && goalOwner != q.mover.ID && q.isAlly(goalOwner) {
				info.AllyGoal = true
			}
			if occupant == 0 || occupant == q.mover.ID {
				continue
			}
			switch flag {
			case PresentMoving, GoalOtherMoving:
				if q.isAlly(occupant) {
					info.AllyMoving = true
				} else if !q.canCrush(occupant) {
					info.EnemyFixed = true
				}
			case PresentFixed:
				if !q.isAlly(occupant) {
					if !q.canCrush(occupant) {
						info.EnemyFixed = true
					}
					continue
				}
				if !containsID(seenFixed, occupant) {
					seenFixed = append(seenFixed, occupant)
					info.AllyFixedCount++
				}
			}
		}
	}
	return info
}

func (q *query) isAlly(id entity.ID) bool {
	u, ok := q.snap.Get(id)
	if !ok {
		return false
	}
	return q.snap.Relationship(q.mover.Team, u.Team) == entity.Allies
}

func (q *query) canCrush(id entity.ID) bool {
	u, ok := q.snap.Get(id)
	if !ok {
		return false
	}
	return q.mover.CanCrush(u)
}

func containsID(ids []entity.ID, id entity.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
