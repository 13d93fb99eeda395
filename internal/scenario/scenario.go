package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-nav/internal/entity"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

// File is the YAML layout of a scenario.
type File struct {
	Name      string         `yaml:"name"`
	Grid      GridSpec       `yaml:"grid"`
	Relations []RelationSpec `yaml:"relations"`
	Units     []UnitSpec     `yaml:"units"`
	Mover     UnitSpec       `yaml:"mover"`
	Orders    []OrderSpec    `yaml:"orders"`

	dir string // directory relative NAV paths resolve against
}

// GridSpec describes the map. NAV, when set, names a binary grid file that
// replaces Rows and Heights.
type GridSpec struct {
	NAV      string      `yaml:"nav"`
	CellSize float64     `yaml:"cell_size"`
	Rows     []string    `yaml:"rows"`
	Heights  [][]float64 `yaml:"heights"`
	Playable []int       `yaml:"playable"` // min_x, min_z, max_x, max_z
	ZoneSize int         `yaml:"zone_size"`
}

// RelationSpec sets how team A regards team B.
type RelationSpec struct {
	A        int    `yaml:"a"`
	B        int    `yaml:"b"`
	Relation string `yaml:"relation"`
	Mutual   bool   `yaml:"mutual"`
}

// LocomotorSpec is the configured movement capability of a unit.
type LocomotorSpec struct {
	Surfaces        []string `yaml:"surfaces"`
	DownhillOnly    bool     `yaml:"downhill_only"`
	CanPassObstacle bool     `yaml:"can_pass_obstacle"`
	CanUseBridge    bool     `yaml:"can_use_bridge"`
	Diameter        float64  `yaml:"diameter"`
}

// UnitSpec places a unit on the map.
type UnitSpec struct {
	ID        uint32        `yaml:"id"`
	Team      int           `yaml:"team"`
	Cell      []int         `yaml:"cell"`
	Goal      []int         `yaml:"goal"`
	Moving    bool          `yaml:"moving"`
	Blocks    bool          `yaml:"blocks"`
	Vehicle   bool          `yaml:"vehicle"`
	Crusher   int           `yaml:"crusher"`
	Crushable int           `yaml:"crushable"`
	Locomotor LocomotorSpec `yaml:"locomotor"`
}

// OrderSpec is one path request. Positions are world coordinates; a
// *_cell key places the point on the center of that cell instead.
type OrderSpec struct {
	Name           string    `yaml:"name"`
	Start          []float64 `yaml:"start"`
	Goal           []float64 `yaml:"goal"`
	StartCell      []int     `yaml:"start_cell"`
	GoalCell       []int     `yaml:"goal_cell"`
	AttackDistance float64   `yaml:"attack_distance"`
}

// Order is a resolved path request.
type Order struct {
	Name           string
	Start          math.Vec2
	Goal           math.Vec2
	AttackDistance float64
}

// Scenario is a compiled, ready-to-search scenario.
type Scenario struct {
	Name   string
	Grid   *navgrid.Grid
	Units  *entity.Snapshot
	Mover  *entity.Unit
	Orders []Order
}

// Load reads and compiles a scenario file.
func Load(path string) (*Scenario, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := f.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// ReadFile reads a scenario file without compiling it.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Decode parses scenario YAML.
func Decode(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &f, nil
}

// Parse compiles a scenario from YAML.
func Parse(data []byte) (*Scenario, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return f.Compile()
}

// Compile resolves the file into a grid, a unit snapshot and orders.
func (f *File) Compile() (*Scenario, error) {
	cellSize := f.Grid.CellSize
	if cellSize <= 0 {
		cellSize = navgrid.DefaultCellSize
	}
	g, err := f.grid(cellSize)
	if err != nil {
		return nil, err
	}
	if f.Grid.ZoneSize > 0 {
		g.RebuildZones(f.Grid.ZoneSize)
	}
	if p := f.Grid.Playable; p != nil {
		if len(p) != 4 || !g.InBounds(p[0], p[1]) || !g.InBounds(p[2], p[3]) {
			return nil, fmt.Errorf("%w: %v", ErrBadPlayable, p)
		}
		g.Playable = &navgrid.Rect{MinX: p[0], MinZ: p[1], MaxX: p[2], MaxZ: p[3]}
	}

	s := &Scenario{Name: f.Name, Grid: g}

	mover, err := f.Mover.unit(g)
	if err != nil {
		return nil, fmt.Errorf("mover: %w", err)
	}
	if mover.ID == 0 {
		mover.ID = 1
	}

	units := make([]entity.Unit, 0, len(f.Units)+1)
	units = append(units, mover)
	seen := map[entity.ID]bool{mover.ID: true}
	for i, us := range f.Units {
		u, err := us.unit(g)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}
		if u.ID == 0 || seen[u.ID] {
			return nil, fmt.Errorf("unit %d: id %d is zero or already taken", i, u.ID)
		}
		seen[u.ID] = true
		units = append(units, u)
	}
	s.Units = entity.NewSnapshot(units)
	s.Mover, _ = s.Units.Get(mover.ID)

	for _, r := range f.Relations {
		rel, err := parseRelation(r.Relation)
		if err != nil {
			return nil, err
		}
		s.Units.SetRelation(r.A, r.B, rel)
		if r.Mutual {
			s.Units.SetRelation(r.B, r.A, rel)
		}
	}

	for i, o := range f.Orders {
		order, err := o.resolve(g)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		if order.Name == "" {
			order.Name = fmt.Sprintf("order-%d", i+1)
		}
		s.Orders = append(s.Orders, order)
	}
	return s, nil
}

func (f *File) grid(cellSize float64) (*navgrid.Grid, error) {
	if f.Grid.NAV == "" {
		g, err := GridFromRows(cellSize, f.Grid.Rows...)
		if err != nil {
			return nil, err
		}
		if err := applyHeights(g, f.Grid.Heights); err != nil {
			return nil, err
		}
		return g, nil
	}
	path := f.Grid.NAV
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.dir, path)
	}
	return navgrid.LoadNAVFile(path)
}

func (u UnitSpec) unit(g *navgrid.Grid) (entity.Unit, error) {
	surfaces, err := navgrid.ParseSurfaces(u.Locomotor.Surfaces)
	if err != nil {
		return entity.Unit{}, err
	}
	out := entity.Unit{
		ID:             entity.ID(u.ID),
		Team:           u.Team,
		Moving:         u.Moving,
		BlocksMovement: u.Blocks,
		Vehicle:        u.Vehicle,
		CrusherLevel:   u.Crusher,
		CrushableLevel: u.Crushable,
		Locomotor: entity.Locomotor{
			Surfaces:        surfaces,
			DownhillOnly:    u.Locomotor.DownhillOnly,
			CanPassObstacle: u.Locomotor.CanPassObstacle,
			CanUseBridge:    u.Locomotor.CanUseBridge,
			PathDiameter:    u.Locomotor.Diameter,
		},
	}
	if u.Cell != nil {
		c, err := cellOf(u.Cell)
		if err != nil {
			return entity.Unit{}, err
		}
		out.PosCell = c
		out.Position = g.CellCenter(c)
	}
	if u.Goal != nil {
		c, err := cellOf(u.Goal)
		if err != nil {
			return entity.Unit{}, err
		}
		out.GoalCell = c
		out.HasGoal = true
	}
	return out, nil
}

func (o OrderSpec) resolve(g *navgrid.Grid) (Order, error) {
	start, err := point(g, o.Start, o.StartCell)
	if err != nil {
		return Order{}, fmt.Errorf("start: %w", err)
	}
	goal, err := point(g, o.Goal, o.GoalCell)
	if err != nil {
		return Order{}, fmt.Errorf("goal: %w", err)
	}
	return Order{Name: o.Name, Start: start, Goal: goal, AttackDistance: o.AttackDistance}, nil
}

func point(g *navgrid.Grid, world []float64, cell []int) (math.Vec2, error) {
	switch {
	case cell != nil:
		c, err := cellOf(cell)
		if err != nil {
			return math.Vec2{}, err
		}
		return g.CellCenter(c), nil
	case len(world) == 2:
		return math.Vec2{X: world[0], Z: world[1]}, nil
	default:
		return math.Vec2{}, fmt.Errorf("need [x, z] or a cell, got %v", world)
	}
}

func cellOf(v []int) (navgrid.CellCoord, error) {
	if len(v) != 2 {
		return navgrid.CellCoord{}, fmt.Errorf("cell needs [x, z], got %v", v)
	}
	return navgrid.CellCoord{X: v[0], Z: v[1]}, nil
}

func parseRelation(s string) (entity.Relation, error) {
	switch s {
	case "allies", "ally":
		return entity.Allies, nil
	case "neutral":
		return entity.Neutral, nil
	case "enemies", "enemy":
		return entity.Enemies, nil
	default:
		return entity.Enemies, fmt.Errorf("unknown relation %q", s)
	}
}
