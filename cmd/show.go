package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"musashi/engine"
	"musashi/game"
	"musashi/table"
)

var showSeed uint64

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the value and perfect-play line of boards read from stdin",
		Long: `Read boards in text form from stdin and print each with its value,
the values of its successors and the line perfect play follows.

A board is Width x Height characters ('X' hunted, 'o' blocker, '.' empty,
' ' outside the board) followed by the side to move ('X' or 'o'). Line
breaks inside a board are ignored.

Examples:
  printf 'ooooo\no...o\no.X.o\no...o\nooooo\nX\n' | musashi show -n 25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	showCmd.Flags().Uint64Var(&showSeed, "seed", 1, "Seed for choosing between equally good moves")

	rootCmd.AddCommand(showCmd)
}

func runShow(in io.Reader, out io.Writer) error {
	topo, rules, err := loadBoard()
	if err != nil {
		return err
	}
	reader, err := table.Open(cfg.Store().TablePath(), topo, rules)
	if err != nil {
		return err
	}
	defer reader.Close()
	e := engine.NewEngine(topo, reader, engine.WithSeed(showSeed))

	return scanBoards(in, topo, func(b game.Board) error {
		return showBoard(out, e, b)
	})
}

// scanBoards collects input lines until they hold a whole board. Text past
// the end of a board starts the next one.
func scanBoards(in io.Reader, topo *game.Topology, fn func(game.Board) error) error {
	want := topo.Width()*topo.Height() + 1
	scanner := bufio.NewScanner(in)
	var pending strings.Builder
	for scanner.Scan() {
		pending.WriteString(strings.TrimRight(scanner.Text(), "\r"))
		for pending.Len() >= want {
			s := pending.String()
			pending.Reset()
			pending.WriteString(s[want:])
			b, err := game.ParseBoard(topo, s[:want])
			if err != nil {
				return err
			}
			if err := fn(b); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read boards: %w", err)
	}
	return nil
}

func showBoard(out io.Writer, e *engine.Engine, b game.Board) error {
	children, err := e.Analyze(b)
	if err != nil {
		return err
	}
	value, err := e.Value(b)
	if err != nil {
		return err
	}

	escapes := 0
	for _, c := range children {
		if c.Value == 0 {
			escapes++
		}
	}
	fmt.Fprintf(out, "%s\nvalue=%d raw=%#x escapes=%d/%d\n", b.Pretty(), value, b.Raw(), escapes, len(children))

	line, err := e.Run(b)
	if err != nil {
		return err
	}
	for i, step := range line[1:] {
		fmt.Fprintf(out, "---- %d\n%s\nvalue=%d\n", i+1, step.Board.Pretty(), step.Value)
	}
	fmt.Fprintln(out)
	return nil
}
