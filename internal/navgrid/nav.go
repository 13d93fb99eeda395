package navgrid

import (
	"fmt"

	"github.com/Faultbox/midgard-nav/pkg/formats"
)

// FromNAV builds a grid from a parsed NAV file.
func FromNAV(nav *formats.NAV) (*Grid, error) {
	g := &Grid{
		Width:    int(nav.Width),
		Height:   int(nav.Height),
		CellSize: float64(nav.CellSize),
		Cells:    make([]Cell, len(nav.Cells)),
	}
	for i, rc := range nav.Cells {
		if CellType(rc.Type) > CellImpassable {
			x, z := i%g.Width, i/g.Width
			return nil, fmt.Errorf("cell (%d,%d): unknown type code %d", x, z, rc.Type)
		}
		g.Cells[i] = Cell{
			Type:    CellType(rc.Type),
			Flags:   CellFlags(rc.Flags),
			Segment: rc.Segment,
			Height:  float64(rc.Height),
		}
	}
	if r := nav.Playable; r != nil {
		g.Playable = &Rect{MinX: int(r.MinX), MinZ: int(r.MinZ), MaxX: int(r.MaxX), MaxZ: int(r.MaxZ)}
	}
	g.RebuildZones(DefaultZoneSize)
	return g, nil
}

// LoadNAVFile reads a grid from a NAV file on disk.
func LoadNAVFile(path string) (*Grid, error) {
	nav, err := formats.ParseNAVFile(path)
	if err != nil {
		return nil, err
	}
	return FromNAV(nav)
}

// ToNAV converts the grid to its on-disk form.
func (g *Grid) ToNAV() *formats.NAV {
	nav := &formats.NAV{
		Version:  formats.NavVersionCurrent,
		Width:    uint32(g.Width),
		Height:   uint32(g.Height),
		CellSize: float32(g.CellSize),
		Cells:    make([]formats.NavCell, len(g.Cells)),
	}
	for i, c := range g.Cells {
		nav.Cells[i] = formats.NavCell{
			Type:    uint8(c.Type),
			Flags:   uint8(c.Flags),
			Segment: c.Segment,
			Height:  float32(c.Height),
		}
	}
	if r := g.Playable; r != nil {
		nav.Playable = &formats.NavRect{MinX: int32(r.MinX), MinZ: int32(r.MinZ), MaxX: int32(r.MaxX), MaxZ: int32(r.MaxZ)}
	}
	return nav
}
