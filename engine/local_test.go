package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"musashi/game"
	"musashi/solver"
	"musashi/table"
)

func solvedTable(t *testing.T) (*game.Topology, *table.Memory) {
	t.Helper()
	topo := game.Topology9()
	rules := game.NewStandardRules(topo)
	store := table.NewCheckpointStore(t.TempDir(), topo.Size(), rules.Variant())

	_, err := solver.NewSolver(topo, 2, solver.WithCheckpoints(store)).Solve()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.Merge(store, topo, rules, &buf))
	mem, err := table.NewMemory(topo, rules, buf.Bytes())
	require.NoError(t, err)
	return topo, mem
}

func TestRun(t *testing.T) {
	topo, mem := solvedTable(t)
	e := NewEngine(topo, mem, WithSeed(1))

	var lines int
	for v := uint64(0); v < mem.Size(); v++ {
		value, err := mem.Get(v)
		require.NoError(t, err)
		if value < 2 {
			continue
		}
		b := game.FromRaw(topo, v)
		line, err := e.Run(b)
		require.NoError(t, err)
		lines++

		require.Len(t, line, int(value), "Line from %s should take one ply per value step", b)
		values := line.Values()
		for k := range values {
			require.Equal(t, value-byte(k), values[k])
		}
		last := line[len(line)-1].Board
		require.Equal(t, game.Hunted, last.Turn())
		require.Empty(t, last.NextStates(), "Line should end with the hunted piece immobilized")
	}
	require.Positive(t, lines)
}

func TestBest(t *testing.T) {
	topo, mem := solvedTable(t)
	e := NewEngine(topo, mem, WithSeed(2))

	for v := uint64(0); v < mem.Size(); v++ {
		value, err := mem.Get(v)
		require.NoError(t, err)
		b := game.FromRaw(topo, v)

		next, ok, err := e.Best(b)
		require.NoError(t, err)
		if !ok {
			require.Empty(t, b.NextStates())
			continue
		}
		switch {
		case value == 0 && b.Turn() == game.Hunted:
			require.Zero(t, next.Value, "Hunted piece should keep escaping from %s", b)
		case value == 0:
			require.Zero(t, next.Value, "Blockers cannot win from %s", b)
		default:
			require.Equal(t, value-1, next.Value, "Perfect play from %s", b)
		}
	}
}

func TestSeededLines(t *testing.T) {
	topo, mem := solvedTable(t)
	data := make([]byte, mem.Size())
	for v := range data {
		data[v], _ = mem.Get(uint64(v))
	}
	samples, err := table.Sample(bytes.NewReader(data), topo, game.NewStandardRules(topo), 6, 5)
	require.NoError(t, err)

	for _, b := range samples {
		l1, err := NewEngine(topo, mem, WithSeed(9)).Run(b)
		require.NoError(t, err)
		l2, err := NewEngine(topo, mem, WithSeed(9)).Run(b)
		require.NoError(t, err)
		require.Equal(t, l1, l2, "Same seed should replay the same line")
	}

	short, err := NewEngine(topo, mem, WithMaxMoves(1)).Run(game.FromRaw(topo, 0))
	require.NoError(t, err)
	require.LessOrEqual(t, len(short), 2)
}
