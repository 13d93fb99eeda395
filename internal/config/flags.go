package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
	flagNodeBudget = flag.Int("node-budget", 0, "Max A* expansions per search")
	flagCellSize   = flag.Float64("cell-size", 0, "World units per grid cell")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagNodeBudget > 0 {
		cfg.Pathfind.NodeBudget = *flagNodeBudget
	}
	if *flagCellSize > 0 {
		cfg.Grid.CellSize = *flagCellSize
	}
}
