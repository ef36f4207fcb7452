package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/pthm-cable/slosh/config"
	"github.com/pthm-cable/slosh/game"
	"github.com/pthm-cable/slosh/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	restore := flag.String("restore", "", "Snapshot file to start from")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	rain := flag.Bool("rain", false, "Start with rain enabled")
	metricsAddr := flag.String("metrics-addr", "", "Serve /metrics, /stats and /healthz on this address (empty = off)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := uint64(*seed)
	if *seed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	opts := game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		SnapshotDir: *snapshotDir,
		OutputDir:   *outputDir,
		Metrics:     *metricsAddr != "",
	}

	var latest telemetry.LatestStats
	if *metricsAddr != "" {
		opts.StatsCallback = latest.Set
		go func() {
			slog.Info("serving metrics", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, telemetry.NewRouter(&latest)); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	if *headless {
		g, err := newGame(cfg, opts, *restore, *rain)
		if err != nil {
			slog.Error("failed to create game", "error", err)
			os.Exit(1)
		}
		defer g.Close()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"stats_window", cfg.Telemetry.StatsWindow,
			"max_ticks", *maxTicks,
		)

		g.Start()
		for {
			g.Update()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	if err := runViewer(cfg, opts, *restore, *rain, *maxTicks); err != nil {
		slog.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

// newGame creates the game, optionally restoring a snapshot and starting rain.
func newGame(cfg *config.Config, opts game.Options, restorePath string, rain bool) (*game.Game, error) {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return nil, err
	}

	if restorePath != "" {
		snap, err := telemetry.LoadSnapshot(restorePath)
		if err != nil {
			g.Close()
			return nil, err
		}
		if err := g.Restore(snap); err != nil {
			g.Close()
			return nil, err
		}
	}

	g.SetRain(rain)
	return g, nil
}
