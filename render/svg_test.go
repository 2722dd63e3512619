package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"musashi/game"
)

func TestBoard(t *testing.T) {
	topo := game.Topology25()
	b, err := game.ParseBoard(topo, "ooooo"+"o...o"+"o.X.o"+"o...o"+"ooooo"+"o")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Board(&buf, b, WithValue(4)))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "<?xml"), "Output should be an SVG document")
	require.Equal(t, 17, strings.Count(out, "<circle"), "One circle per piece")
	require.Equal(t, 16, strings.Count(out, "fill:brown"))

	var lines int
	for pos := range topo.Size() {
		lines += topo.Neighbors(pos).Size()
	}
	require.Equal(t, lines/2, strings.Count(out, "<line"), "Each line of the board is drawn once")
	require.Contains(t, out, "blockers to move, value 4")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestBoardWriteError(t *testing.T) {
	b := game.FromIndex(game.Topology9(), 0, game.Hunted)
	err := Board(failingWriter{}, b, WithGrid(20))
	require.ErrorContains(t, err, "disk full")
}
