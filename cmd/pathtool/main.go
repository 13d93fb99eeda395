// pathtool runs pathfinding scenarios and converts navigation grids.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-nav/internal/config"
	"github.com/Faultbox/midgard-nav/internal/logger"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/internal/pathfind"
	"github.com/Faultbox/midgard-nav/internal/scenario"
	"github.com/Faultbox/midgard-nav/pkg/formats"
	"github.com/Faultbox/midgard-nav/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitWithConfig(cfg.Logging.Logger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "run":
		err = cmdRun(cfg, args)
	case "info":
		err = cmdInfo(cfg, args)
	case "export":
		err = cmdExport(cfg, args)
	case "bench":
		err = cmdBench(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pathtool - navigation grid and pathfinding utility

Usage:
  pathtool [flags] <command> [options]

Commands:
  run <scenario.yaml> [order...]        Route orders and print the results
  info <grid.nav|scenario.yaml>         Show grid information
  export <scenario.yaml> <out.nav>      Write the scenario grid as NAV
  bench [-n N] <scenario.yaml>          Repeat every order and report counters

Flags:
  -config <path>      Config file (default: ./pathtool.yaml)
  -debug              Debug logging
  -log-file <path>    Also log to a rotating file
  -node-budget <n>    Max A* expansions per search
  -cell-size <size>   Cell size for scenarios that do not set one

Examples:
  pathtool run scenarios/bridge.yaml
  pathtool -debug run scenarios/bridge.yaml attack
  pathtool export scenarios/bridge.yaml bridge.nav
  pathtool info bridge.nav`)
}

// loadScenario reads a scenario, filling grid settings from cfg.
func loadScenario(cfg *config.Config, path string) (*scenario.Scenario, error) {
	f, err := scenario.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if f.Grid.CellSize <= 0 {
		f.Grid.CellSize = cfg.Grid.CellSize
	}
	if f.Grid.ZoneSize <= 0 {
		f.Grid.ZoneSize = cfg.Grid.ZoneSize
	}
	s, err := f.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// orderReport is the printed outcome of one order.
type orderReport struct {
	Name      string       `yaml:"name"`
	Reason    string       `yaml:"reason"`
	StartCell []int        `yaml:"start_cell,flow"`
	GoalCell  []int        `yaml:"goal_cell,flow"`
	Raw       int          `yaml:"raw_cells"`
	Waypoints [][2]float64 `yaml:"waypoints,flow,omitempty"`
	Length    float64      `yaml:"length,omitempty"`
	Stats     statsReport  `yaml:"stats"`
}

type statsReport struct {
	Expanded      int  `yaml:"expanded"`
	Opened        int  `yaml:"opened"`
	Reopened      int  `yaml:"reopened,omitempty"`
	SnapInspected int  `yaml:"snap_inspected,omitempty"`
	StartSnapped  bool `yaml:"start_snapped,omitempty"`
	GoalSnapped   bool `yaml:"goal_snapped,omitempty"`
	QuickProbeHit bool `yaml:"quick_probe,omitempty"`
	RangeExit     bool `yaml:"range_exit,omitempty"`
	Truncated     bool `yaml:"truncated,omitempty"`
}

func newReport(name string, res pathfind.Result) orderReport {
	r := orderReport{
		Name:      name,
		Reason:    res.Reason.String(),
		StartCell: []int{res.StartCell.X, res.StartCell.Z},
		GoalCell:  []int{res.GoalCell.X, res.GoalCell.Z},
		Raw:       len(res.RawCells),
		Stats: statsReport{
			Expanded:      res.Stats.Expanded,
			Opened:        res.Stats.Opened,
			Reopened:      res.Stats.Reopened,
			SnapInspected: res.Stats.SnapInspected,
			StartSnapped:  res.Stats.StartSnapped,
			GoalSnapped:   res.Stats.GoalSnapped,
			QuickProbeHit: res.Stats.QuickProbeHit,
			RangeExit:     res.Stats.RangeExit,
			Truncated:     res.Stats.Truncated,
		},
	}
	if res.Found() {
		for _, p := range res.Waypoints {
			r.Waypoints = append(r.Waypoints, [2]float64{p.X, p.Z})
		}
		r.Length = math.PathLength(res.Waypoints)
	}
	return r
}

func cmdRun(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pathtool run <scenario.yaml> [order...]")
	}
	s, err := loadScenario(cfg, args[0])
	if err != nil {
		return err
	}
	orders, err := selectOrders(s.Orders, args[1:])
	if err != nil {
		return err
	}

	var metrics pathfind.Metrics
	pf := pathfind.New(s.Grid, cfg.Pathfind.Options(), pathfind.WithMetrics(&metrics))
	log := logger.Named("pathtool")

	out := struct {
		Scenario string                   `yaml:"scenario"`
		Orders   []orderReport            `yaml:"orders"`
		Metrics  pathfind.MetricsSnapshot `yaml:"metrics"`
	}{Scenario: s.Name}

	for _, o := range orders {
		res := pf.Search(requestFor(s, o))
		log.Info("order routed",
			zap.String("order", o.Name),
			zap.Stringer("reason", res.Reason),
			zap.Int("waypoints", len(res.Waypoints)),
		)
		out.Orders = append(out.Orders, newReport(o.Name, res))
	}
	out.Metrics = metrics.Snapshot()
	return printYAML(out)
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pathtool info <grid.nav|scenario.yaml>")
	}

	var g *navgrid.Grid
	var err error
	path := args[0]
	if strings.HasSuffix(strings.ToLower(path), ".nav") {
		g, err = navgrid.LoadNAVFile(path)
	} else {
		var s *scenario.Scenario
		s, err = loadScenario(cfg, path)
		if s != nil {
			g = s.Grid
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("Grid:      %s\n", path)
	fmt.Printf("Size:      %d x %d cells (%d total)\n", g.Width, g.Height, len(g.Cells))
	fmt.Printf("Cell size: %.2f\n", g.CellSize)
	if r := g.Playable; r != nil {
		fmt.Printf("Playable:  (%d,%d) - (%d,%d)\n", r.MinX, r.MinZ, r.MaxX, r.MaxZ)
	}
	fmt.Println()
	fmt.Println("Cells by type:")

	counts := g.CountByType()
	types := make([]navgrid.CellType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Printf("  %-18s %d\n", t, counts[t])
	}

	fmt.Println()
	fmt.Printf("Bridge cells:  %d\n", g.CountFlag(navgrid.FlagBridge))
	fmt.Printf("Pinched cells: %d\n", g.CountFlag(navgrid.FlagPinched))
	fmt.Printf("Blocked cells: %d\n", g.CountFlag(navgrid.FlagBlocked))
	return nil
}

func cmdExport(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pathtool export <scenario.yaml> <out.nav>")
	}
	s, err := loadScenario(cfg, args[0])
	if err != nil {
		return err
	}
	if err := formats.WriteNAVFile(args[1], s.Grid.ToNAV()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d x %d)\n", args[1], s.Grid.Width, s.Grid.Height)
	return nil
}

func cmdBench(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	n := fs.Int("n", 100, "Repetitions per order")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || *n < 1 {
		return fmt.Errorf("usage: pathtool bench [-n N] <scenario.yaml>")
	}
	s, err := loadScenario(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	var metrics pathfind.Metrics
	pf := pathfind.New(s.Grid, cfg.Pathfind.Options(), pathfind.WithMetrics(&metrics))

	type benchOrder struct {
		Name    string `yaml:"name"`
		Runs    int    `yaml:"runs"`
		PerRun  string `yaml:"per_run"`
		Reason  string `yaml:"reason"`
		Stable  bool   `yaml:"deterministic"`
		Expands int    `yaml:"expanded"`
	}
	out := struct {
		Scenario string                   `yaml:"scenario"`
		Orders   []benchOrder             `yaml:"orders"`
		Metrics  pathfind.MetricsSnapshot `yaml:"metrics"`
	}{Scenario: s.Name}

	for _, o := range s.Orders {
		req := requestFor(s, o)
		first := pf.Search(req)
		stable := true
		start := time.Now()
		for i := 0; i < *n; i++ {
			res := pf.Search(req)
			if !sameRoute(first, res) {
				stable = false
			}
		}
		elapsed := time.Since(start)
		out.Orders = append(out.Orders, benchOrder{
			Name:    o.Name,
			Runs:    *n,
			PerRun:  (elapsed / time.Duration(*n)).String(),
			Reason:  first.Reason.String(),
			Stable:  stable,
			Expands: first.Stats.Expanded,
		})
	}
	out.Metrics = metrics.Snapshot()
	return printYAML(out)
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
