package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"musashi/experiments"
	"musashi/metrics"
)

var (
	benchWorkers []int
	benchRepeats int
	benchOut     string
)

func init() {
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Time in-memory solves across worker counts",
		Long: `Solve the configured board in memory once per worker count and write
the timings to configs.csv and runs.csv. All runs must agree on the result.
Without --workers the count doubles from 1 up to --goroutines.

Examples:
  musashi bench -n 9 --goroutines 16 --repeats 3
  musashi bench -n 25 --workers 8,16 --out runs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			topo, rules, err := loadBoard()
			if err != nil {
				return err
			}
			configs := experiments.ScalingConfigs(cfg.Goroutines, cfg.BlockSize)
			if cmd.Flags().Changed("workers") {
				configs = make([]metrics.RunConfig, 0, len(benchWorkers))
				for i, g := range benchWorkers {
					if g < 1 {
						return fmt.Errorf("invalid worker count %d", g)
					}
					configs = append(configs, metrics.RunConfig{ID: i + 1, Goroutines: g, BlockSize: cfg.BlockSize})
				}
			}
			name := fmt.Sprintf("scaling_%d_%d_%s", cfg.Size, cfg.Variant, uuid.NewString()[:8])
			_, err = experiments.RunScalingExperiment(name, benchOut, topo, rules, configs, benchRepeats)
			return err
		},
	}
	flags := benchCmd.Flags()
	flags.IntSliceVar(&benchWorkers, "workers", nil, "Worker counts to compare")
	flags.IntVar(&cfg.Goroutines, "goroutines", cfg.Goroutines, "Largest worker count when --workers is not given")
	flags.IntVar(&benchRepeats, "repeats", 1, "Solves per worker count")
	flags.StringVar(&benchOut, "out", "experiments", "Directory of experiment results")
	flags.IntVar(&cfg.BlockSize, "block-size", cfg.BlockSize, "Indices per work block (multiple of 64)")

	rootCmd.AddCommand(benchCmd)
}
