package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"musashi/table"
)

func init() {
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge per-ply snapshots into one byte table",
		Long: `Merge the snapshots of a solve into a table with one byte per position.

Examples:
  musashi merge -n 25
  musashi merge -n 33 --compress -d /data/tables`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			topo, rules, err := loadBoard()
			if err != nil {
				return err
			}
			path, err := table.MergeFile(cfg.Store(), topo, rules)
			if err != nil {
				return err
			}
			log.Info().Str("table", path).Msg("table written")
			return nil
		},
	}

	rootCmd.AddCommand(mergeCmd)
}
