package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"musashi/game"
	"musashi/render"
	"musashi/table"
)

var (
	renderOut   string
	renderGrid  int
	renderValue bool
)

func init() {
	renderCmd := &cobra.Command{
		Use:   "render BOARD",
		Short: "Draw a board as SVG",
		Long: `Draw a board given in text form as an SVG image.

Examples:
  musashi render "oooooo...oo.X.oo...ooooooX" -o board.svg
  musashi render $'ooooo\no...o\no.X.o\no...o\nooooo\no' --value`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			topo, rules, err := loadBoard()
			if err != nil {
				return err
			}
			b, err := game.ParseBoard(topo, args[0])
			if err != nil {
				return err
			}

			options := []render.Option{render.WithGrid(renderGrid)}
			if renderValue {
				reader, err := table.Open(cfg.Store().TablePath(), topo, rules)
				if err != nil {
					return err
				}
				defer reader.Close()
				v, err := reader.Value(b)
				if err != nil {
					return err
				}
				options = append(options, render.WithValue(v))
			}

			f, err := os.Create(renderOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", renderOut, err)
			}
			if err := render.Board(f, b, options...); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", renderOut, err)
			}
			log.Info().Str("file", renderOut).Msg("board rendered")
			return nil
		},
	}
	flags := renderCmd.Flags()
	flags.StringVarP(&renderOut, "out", "o", "board.svg", "Output file")
	flags.IntVar(&renderGrid, "grid", render.DefaultGrid, "Distance between cells in pixels")
	flags.BoolVar(&renderValue, "value", false, "Look up the value in the merged table")

	rootCmd.AddCommand(renderCmd)
}
