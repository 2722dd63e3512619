package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"musashi/metrics"
	"musashi/table"
)

func init() {
	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Tally the merged table by blocker count and value",
		Long: `Write histogram.csv with one row per number of blockers: the
unresolved positions per side to move and the number of positions of every
value.

Examples:
  musashi count -n 25`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			topo, rules, err := loadBoard()
			if err != nil {
				return err
			}
			store := cfg.Store()
			f, err := os.Open(store.TablePath())
			if err != nil {
				return fmt.Errorf("failed to open table: %w", err)
			}
			defer f.Close()

			h, err := table.Count(f, topo, rules)
			if err != nil {
				return err
			}
			writer, err := metrics.NewWriter(store.Dir(), fmt.Sprintf("count_%d_%d", cfg.Size, cfg.Variant))
			if err != nil {
				return err
			}
			if err := writer.WriteHistogram(h); err != nil {
				return err
			}
			log.Info().Int64("positions", h.Total).Int("max_value", h.MaxValue()).Str("dir", writer.Dir()).Msg("histogram written")
			return nil
		},
	}

	rootCmd.AddCommand(countCmd)
}
