// Package config parses the gridserver's settings from command-line
// flags, with environment variables overriding the ones an operator is
// most likely to want to set per-deployment rather than
// per-invocation. No configuration library is used: flag and
// os.LookupEnv cover everything this binary needs.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every tunable of the demo/server layer. The quadtree
// engine itself is never configured from here beyond width, height and
// the split thresholds — it has no notion of a listen address or a
// cache.
type Config struct {
	GridWidth  int
	GridHeight int

	// SplitMinCellSide bounds how small a rectangle may get before it
	// always stops splitting, regardless of population.
	SplitMinCellSide int
	// SplitMaxObjects is the population at or below which a rectangle
	// stops splitting even if it's larger than SplitMinCellSide.
	SplitMaxObjects int

	AgentCount int

	ListenAddr string

	UpdateInterval    time.Duration
	StatsInterval     time.Duration
	BroadcastInterval time.Duration

	CacheMaxCost int64
}

// Default returns the configuration used when no flag or environment
// override is supplied.
func Default() Config {
	return Config{
		GridWidth:         512,
		GridHeight:        512,
		SplitMinCellSide:  8,
		SplitMaxObjects:   4,
		AgentCount:        500,
		ListenAddr:        ":8080",
		UpdateInterval:    200 * time.Millisecond,
		StatsInterval:     5 * time.Second,
		BroadcastInterval: 250 * time.Millisecond,
		CacheMaxCost:      1 << 20,
	}
}

// Load parses flags from args (pass os.Args[1:] at the call site),
// then applies any GRIDSERVER_* environment overrides on top, and
// finally validates the result.
func Load(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("gridserver", flag.ContinueOnError)
	fs.IntVar(&cfg.GridWidth, "grid-width", cfg.GridWidth, "grid width in cells")
	fs.IntVar(&cfg.GridHeight, "grid-height", cfg.GridHeight, "grid height in cells")
	fs.IntVar(&cfg.SplitMinCellSide, "split-min-cell-side", cfg.SplitMinCellSide, "smallest side a node may split below")
	fs.IntVar(&cfg.SplitMaxObjects, "split-max-objects", cfg.SplitMaxObjects, "population at or below which a node stays a leaf")
	fs.IntVar(&cfg.AgentCount, "agents", cfg.AgentCount, "number of simulated agents")
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP/WebSocket listen address")
	fs.DurationVar(&cfg.UpdateInterval, "update-interval", cfg.UpdateInterval, "agent movement tick")
	fs.DurationVar(&cfg.StatsInterval, "stats-interval", cfg.StatsInterval, "stats log tick")
	fs.DurationVar(&cfg.BroadcastInterval, "broadcast-interval", cfg.BroadcastInterval, "WebSocket snapshot tick")
	fs.Int64Var(&cfg.CacheMaxCost, "cache-max-cost", cfg.CacheMaxCost, "ristretto max cost for the query cache")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.GridWidth <= 0 || cfg.GridHeight <= 0 {
		return Config{}, fmt.Errorf("config: grid-width and grid-height must be positive, got %dx%d", cfg.GridWidth, cfg.GridHeight)
	}
	if cfg.SplitMinCellSide <= 0 {
		return Config{}, fmt.Errorf("config: split-min-cell-side must be positive, got %d", cfg.SplitMinCellSide)
	}
	if cfg.AgentCount < 0 {
		return Config{}, fmt.Errorf("config: agents must not be negative, got %d", cfg.AgentCount)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("GRIDSERVER_LISTEN"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("GRIDSERVER_GRID_WIDTH"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GridWidth = n
		}
	}
	if v, ok := os.LookupEnv("GRIDSERVER_GRID_HEIGHT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GridHeight = n
		}
	}
	if v, ok := os.LookupEnv("GRIDSERVER_AGENTS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AgentCount = n
		}
	}
}

// SplitStopper builds the engine's split-stop predicate from this
// configuration: a rectangle stops splitting once both of its sides
// are at or below the configured minimum, or its population drops to
// the configured maximum.
func (c Config) SplitStopper() func(width, height, n int) bool {
	return func(width, height, n int) bool {
		return (width <= c.SplitMinCellSide && height <= c.SplitMinCellSide) || n <= c.SplitMaxObjects
	}
}
