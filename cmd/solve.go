package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"musashi/metrics"
	"musashi/solver"
	"musashi/table"
)

var mergeAfter bool

func init() {
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Run the retrograde solver and write one snapshot per ply",
		Long: `Run the retrograde solver until no ply resolves anything new.

Snapshots are written to the output directory after every ply, so an
interrupted run can be continued with --resume.

Examples:
  musashi solve -n 25
  musashi solve -n 33 --goroutines 64 --compress --resume
  musashi solve -n 25 -t 2 --max-blockers 10 --metrics-dir runs`,
		Args: cobra.NoArgs,
		RunE: runSolve,
	}

	flags := solveCmd.Flags()
	flags.IntVar(&cfg.Goroutines, "goroutines", cfg.Goroutines, "Number of solver workers")
	flags.IntVar(&cfg.BlockSize, "block-size", cfg.BlockSize, "Indices per work block (multiple of 64)")
	flags.IntVar(&cfg.MaxPly, "max-ply", cfg.MaxPly, "Stop after this ply")
	flags.IntVar(&cfg.MaxBlockers, "max-blockers", cfg.MaxBlockers, "Only solve positions with at most this many blockers (-1 for all)")
	flags.BoolVar(&cfg.Resume, "resume", cfg.Resume, "Continue from existing snapshots")
	flags.StringVar(&cfg.MetricsDir, "metrics-dir", cfg.MetricsDir, "Write run setup and per-ply metrics under this directory")
	flags.BoolVar(&mergeAfter, "merge", false, "Merge the snapshots into the table when done")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(_ *cobra.Command, _ []string) error {
	topo, rules, err := loadBoard()
	if err != nil {
		return err
	}
	store := cfg.Store()
	runID := uuid.NewString()

	options := []solver.Option{
		solver.WithRules(rules),
		solver.WithBlockSize(cfg.BlockSize),
		solver.WithMaxPly(cfg.MaxPly),
		solver.WithMaxBlockers(cfg.MaxBlockers),
		solver.WithCheckpoints(store),
	}
	if cfg.Resume {
		options = append(options, solver.WithResume())
	}
	var writer *metrics.Writer
	if cfg.MetricsDir != "" {
		writer, err = metrics.NewWriter(cfg.MetricsDir, runID)
		if err != nil {
			return err
		}
		options = append(options, solver.WithMetrics(metrics.NewCollector()))
	}

	log.Info().Str("run", runID).Str("dir", store.Dir()).Msg("starting solve")
	start := time.Now()
	s := solver.NewSolver(topo, cfg.Goroutines, options...)
	result, err := s.Solve()
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	end := time.Now()
	log.Info().
		Int("plies", result.Plies).
		Bool("converged", result.Converged).
		Dur("elapsed", end.Sub(start)).
		Msg("solve finished")

	if err := os.MkdirAll(store.Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := cfg.Write(filepath.Join(store.Dir(), fmt.Sprintf("run_%d_%d.yaml", cfg.Size, cfg.Variant))); err != nil {
		return err
	}

	if writer != nil {
		setup := metrics.Setup{
			RunID:       runID,
			Size:        cfg.Size,
			Variant:     cfg.Variant,
			Fold:        s.Fold(),
			Goroutines:  cfg.Goroutines,
			BlockSize:   cfg.BlockSize,
			MaxPly:      cfg.MaxPly,
			MaxBlockers: cfg.MaxBlockers,
			Plies:       result.Plies,
			Converged:   result.Converged,
			StartTime:   start,
			EndTime:     end,
			Duration:    end.Sub(start),
		}
		if err := writer.WriteSetup(setup); err != nil {
			return err
		}
		if err := writer.WritePlyRecords(s.Records()); err != nil {
			return err
		}
		log.Info().Str("dir", writer.Dir()).Msg("metrics written")
	}

	if !mergeAfter {
		return nil
	}
	path, err := table.MergeFile(store, topo, rules)
	if err != nil {
		return err
	}
	log.Info().Str("table", path).Msg("table written")
	return nil
}
