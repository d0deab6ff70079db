package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dshills/StrataDB/internal/config"
	"github.com/dshills/StrataDB/internal/log"
	"github.com/dshills/StrataDB/internal/sql/executor"
	"github.com/dshills/StrataDB/internal/sql/planner"
	"github.com/dshills/StrataDB/internal/sql/types"
	"github.com/dshills/StrataDB/internal/storage"
)

var (
	version = "0.1.0"
	commit  = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		dumpTiles   = flag.Bool("dump", false, "Dump logical tiles produced by the demo pipeline")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("StrataDB v%s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config file: %v\n", err)
			os.Exit(1)
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := log.NewTextLogger(level)
	log.SetDefault(logger)

	if err := runDemo(cfg, logger, *dumpTiles); err != nil {
		logger.Error("demo pipeline failed", "error", err)
		os.Exit(1)
	}
}

// runDemo builds a scan -> filter -> order-by -> materialize pipeline over
// sample data and drains it.
func runDemo(cfg *config.Config, logger log.Logger, dump bool) error {
	schema := storage.NewSchema(
		storage.Column{Name: "id", Type: types.Integer},
		storage.Column{Name: "name", Type: types.Text},
		storage.Column{Name: "score", Type: types.Double},
	)

	tile := storage.NewTile(schema, cfg.TileCapacity)
	names := []string{"ada", "grace", "edsger", "barbara", "donald", "tony"}
	for i, name := range names {
		err := tile.AppendRow(
			types.NewValue(int32(i+1)), //nolint:gosec // demo data
			types.NewValue(name),
			types.NewValue(float64(100-10*i)),
		)
		if err != nil {
			return err
		}
	}

	backend := storage.NewMemoryBackend(cfg.BackendMemoryLimit)

	plan := planner.NewMaterializeNode(
		planner.NewOrderByNode(
			planner.NewFilterNode(
				planner.NewScanNode([]*storage.Tile{tile}),
				planner.ColumnComparison{ColumnID: 2, Op: planner.CompareGt, Value: types.NewValue(float64(55))},
			),
			[]int{2}, []bool{true}, nil, backend,
		),
		map[int]int{0: 0, 1: 1},
		backend,
	)
	logger.Info("running demo pipeline", "plan", planner.Explain(plan))

	root, err := executor.Build(plan)
	if err != nil {
		return err
	}

	ctx := executor.NewExecContext(cfg)
	ctx.Logger = logger

	if err := root.Open(ctx); err != nil {
		return err
	}
	defer root.Close() //nolint:errcheck // drained below

	for {
		out, err := root.Next()
		if err != nil {
			return err
		}
		if out == nil {
			break
		}
		if dump {
			fmt.Print(out.String())
			it := out.Iterator()
			for it.Next() {
				tuple, err := out.GetTuple(0, it.Row())
				if err != nil {
					return err
				}
				fmt.Printf("\trow %d: %s\n", it.Row(), tuple)
			}
		}
		out.Close()
	}

	logger.Info("demo pipeline complete",
		"tiles", ctx.Stats.TilesProduced,
		"rows_copied", ctx.Stats.RowsCopied,
		"rows_filtered", ctx.Stats.RowsFiltered,
		"live_tiles", backend.LiveTiles(),
	)
	return root.Close()
}
