package game

import "github.com/pthm-cable/slosh/telemetry"

// Options holds configuration for game initialization.
type Options struct {
	Seed          uint64 // RNG seed; runs with equal seeds and inputs are reproducible
	LogStats      bool   // Log window stats and perf to slog
	OutputDir     string // CSV/YAML output directory, empty disables
	SnapshotDir   string // Snapshot directory for bookmarks, empty disables
	Metrics       bool   // Publish window stats to prometheus collectors
	StatsCallback func(telemetry.WindowStats)
}

// DefaultOptions returns the default game options.
func DefaultOptions() Options {
	return Options{Seed: 42}
}
