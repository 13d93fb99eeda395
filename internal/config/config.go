// Package config handles pathtool configuration loading and management.
package config

import (
	"github.com/Faultbox/midgard-nav/internal/logger"
	"github.com/Faultbox/midgard-nav/internal/navgrid"
	"github.com/Faultbox/midgard-nav/internal/pathfind"
)

// Config holds all settings.
type Config struct {
	Pathfind PathfindConfig `yaml:"pathfind"`
	Grid     GridConfig     `yaml:"grid"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PathfindConfig holds search bounds and tuning.
type PathfindConfig struct {
	NodeBudget       int     `yaml:"node_budget"`
	ReconstructLimit int     `yaml:"reconstruct_limit"`
	SnapBudget       int     `yaml:"snap_budget"`
	ProbeSamples     int     `yaml:"probe_samples"`
	EdgeFudgeCells   float64 `yaml:"edge_fudge_cells"`
	HeightFudgeCells float64 `yaml:"height_fudge_cells"`
	NearStartCells   int     `yaml:"near_start_cells"`
}

// GridConfig holds grid geometry used when a grid is built from a scenario.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size"`
	ZoneSize int     `yaml:"zone_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	pf := pathfind.DefaultConfig()
	lg := logger.DefaultConfig("info")
	return &Config{
		Pathfind: PathfindConfig{
			NodeBudget:       pf.NodeBudget,
			ReconstructLimit: pf.ReconstructLimit,
			SnapBudget:       pf.SnapBudget,
			ProbeSamples:     pf.ProbeSamples,
			EdgeFudgeCells:   pf.EdgeFudgeCells,
			HeightFudgeCells: pf.HeightFudgeCells,
			NearStartCells:   pf.NearStartCells,
		},
		Grid: GridConfig{
			CellSize: navgrid.DefaultCellSize,
			ZoneSize: navgrid.DefaultZoneSize,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  lg.MaxSizeMB,
			MaxBackups: lg.MaxBackups,
			MaxAgeDays: lg.MaxAgeDays,
			Compress:   lg.Compress,
		},
	}
}

// Options converts the pathfind section into search bounds.
func (c PathfindConfig) Options() pathfind.Config {
	return pathfind.Config{
		NodeBudget:       c.NodeBudget,
		ReconstructLimit: c.ReconstructLimit,
		SnapBudget:       c.SnapBudget,
		ProbeSamples:     c.ProbeSamples,
		EdgeFudgeCells:   c.EdgeFudgeCells,
		HeightFudgeCells: c.HeightFudgeCells,
		NearStartCells:   c.NearStartCells,
	}
}

// Logger converts the logging section into logger settings.
func (c LoggingConfig) Logger() logger.Config {
	return logger.Config{
		Level:      c.Level,
		Console:    true,
		Path:       c.LogFile,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}
