// Package scenario loads self-contained pathfinding scenarios: an ASCII map,
// the units standing on it and the orders to route.
package scenario

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-nav/internal/navgrid"
)

// Scenario errors.
var (
	ErrEmptyGrid   = errors.New("grid has no rows")
	ErrRaggedRows  = errors.New("grid rows differ in length")
	ErrBadLegend   = errors.New("unknown map character")
	ErrBadHeights  = errors.New("height rows do not match grid")
	ErrBadPlayable = errors.New("playable area outside grid")
)

// Legend maps map characters to cells:
//
//	.  clear            #  impassable      o  obstacle
//	~  water            ^  cliff           :  rubble
//	=  bridge deck      T  bridge ramp     B  bridge impassable
//	p  pinched clear    x  clear, blocked
var Legend = map[rune]navgrid.Cell{
	'.': {Type: navgrid.CellClear, Segment: -1},
	'#': {Type: navgrid.CellImpassable, Segment: -1},
	'o': {Type: navgrid.CellObstacle, Segment: -1},
	'~': {Type: navgrid.CellWater, Segment: -1},
	'^': {Type: navgrid.CellCliff, Segment: -1},
	':': {Type: navgrid.CellRubble, Segment: -1},
	'=': {Type: navgrid.CellWater, Flags: navgrid.FlagBridge | navgrid.FlagBridgePassable},
	'T': {Type: navgrid.CellClear, Flags: navgrid.FlagBridge | navgrid.FlagBridgePassable | navgrid.FlagBridgeTransition},
	'B': {Type: navgrid.CellBridgeImpassable, Segment: -1},
	'p': {Type: navgrid.CellClear, Flags: navgrid.FlagPinched, Segment: -1},
	'x': {Type: navgrid.CellClear, Flags: navgrid.FlagBlocked, Segment: -1},
}

// GridFromRows builds a grid from ASCII rows; row i is z = i.
func GridFromRows(cellSize float64, rows ...string) (*navgrid.Grid, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, ErrEmptyGrid
	}

	g := navgrid.New(width, len(rows), cellSize)
	for z, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, z, len(runes), width)
		}
		for x, ch := range runes {
			cell, ok := Legend[ch]
			if !ok {
				return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrBadLegend, ch, x, z)
			}
			g.Cells[g.Index(x, z)] = cell
		}
	}
	g.RebuildZones(navgrid.DefaultZoneSize)
	return g, nil
}

// MustGrid is GridFromRows for fixtures that are known to be valid.
func MustGrid(cellSize float64, rows ...string) *navgrid.Grid {
	g, err := GridFromRows(cellSize, rows...)
	if err != nil {
		panic(err)
	}
	return g
}

// applyHeights copies per-cell heights onto g.
func applyHeights(g *navgrid.Grid, heights [][]float64) error {
	if len(heights) == 0 {
		return nil
	}
	if len(heights) != g.Height {
		return fmt.Errorf("%w: %d rows for %d", ErrBadHeights, len(heights), g.Height)
	}
	for z, row := range heights {
		if len(row) != g.Width {
			return fmt.Errorf("%w: row %d has %d values for %d", ErrBadHeights, z, len(row), g.Width)
		}
		for x, h := range row {
			g.Cells[g.Index(x, z)].Height = h
		}
	}
	return nil
}
