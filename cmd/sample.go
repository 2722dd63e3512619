package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"musashi/table"
)

var sampleCount int

func init() {
	sampleCmd := &cobra.Command{
		Use:   "sample VALUE",
		Short: "Print random positions with the given table value",
		Long: `Print positions whose table value equals VALUE, starting the scan at a
random position.

Examples:
  musashi sample 41 -c 3
  musashi sample 0 -n 33`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			topo, rules, err := loadBoard()
			if err != nil {
				return err
			}
			f, err := os.Open(cfg.Store().TablePath())
			if err != nil {
				return fmt.Errorf("failed to open table: %w", err)
			}
			defer f.Close()

			boards, err := table.Sample(f, topo, rules, byte(value), sampleCount)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, b := range boards {
				fmt.Fprintf(out, "%s\nraw=%#x blockers=%d\n\n", b.Pretty(), b.Raw(), b.BlockerCount())
			}
			return nil
		},
	}
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "c", 1, "Number of positions to print (0 for all)")

	rootCmd.AddCommand(sampleCmd)
}
