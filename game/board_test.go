package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func mustParse(t *testing.T, topo *Topology, s string) Board {
	t.Helper()
	b, err := ParseBoard(topo, s)
	require.NoError(t, err, "Board %q should parse", s)
	return b
}

const surrounded25 = "ooooo" +
	"o...o" +
	"o.X.o" +
	"o...o" +
	"ooooo" + "o"

func TestParseBoard(t *testing.T) {
	topo := Topology25()
	b := mustParse(t, topo, surrounded25)

	require.Equal(t, Blockers, b.Turn())
	require.Equal(t, topo.ToPos(2, 2), b.HuntedPos())
	require.Equal(t, surrounded25, b.String(), "Text form should round-trip")
	require.Equal(t, 16, b.BlockerCount())
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			switch {
			case y == 0 || y == 4 || x == 0 || x == 4:
				require.Equal(t, byte(BlockerMarker), b.Get(x, y))
			case x == 2 && y == 2:
				require.Equal(t, byte(HuntedMarker), b.Get(x, y))
			default:
				require.Equal(t, byte(EmptyMarker), b.Get(x, y))
			}
		}
	}

	t.Run("newlines are ignored", func(t *testing.T) {
		got := mustParse(t, topo, b.Pretty())
		require.Equal(t, b, got)
	})

	t.Run("non-cells render as blanks", func(t *testing.T) {
		s := "ooooo ." +
			"o...o.." +
			"o.X.o.." +
			"o...o.." +
			"ooooo ." + "o"
		b := mustParse(t, Topology33(), s)
		require.Equal(t, s, b.String())
		require.Equal(t, byte(FillerMarker), b.Get(5, 0))
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			in   string
			want error
		}{
			{"too short", "ooooo", ErrMalformedBoard},
			{"unknown character", "ooooo" + "o...o" + "o.X.o" + "o.?.o" + "ooooo" + "o", ErrMalformedBoard},
			{"unknown turn", surrounded25[:25] + "?", ErrMalformedBoard},
			{"no hunted piece", "ooooo" + "o...o" + "o...o" + "o...o" + "ooooo" + "o", ErrMalformedBoard},
			{"two hunted pieces", "ooooo" + "o...o" + "o.XXo" + "o...o" + "ooooo" + "o", ErrTooManyHunted},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseBoard(topo, tt.in)
				require.ErrorIs(t, err, tt.want)
			})
		}
		_, err := ParseBoard(topo, "ooooo"+"o...o"+"o.XXo"+"o...o"+"ooooo"+"o")
		require.ErrorIs(t, err, ErrMalformedBoard, "Too many hunted pieces is a malformed board")
	})

	t.Run("raw word of a 31 board", func(t *testing.T) {
		b := FromRaw(Topology31(), 0x3_4050_3300)
		require.Equal(t, 6, b.HuntedPos())
		require.Equal(t, Hunted, b.Turn())
		require.Equal(t, 7, b.BlockerCount())
	})
}

func TestMovable(t *testing.T) {
	t.Run("25", func(t *testing.T) {
		topo := Topology25()
		b := mustParse(t, topo, surrounded25)

		ps := b.Movable(topo.ToPos(0, 0))
		require.Equal(t, []int{topo.ToPos(1, 1)}, ps.Points())

		ps = b.Movable(topo.ToPos(2, 3))
		require.Equal(t, 2, ps.Size())
		require.True(t, ps.Test(topo.ToPos(1, 3)))
		require.True(t, ps.Test(topo.ToPos(3, 3)))
	})

	t.Run("33", func(t *testing.T) {
		topo := Topology33()
		b := mustParse(t, topo, "o.... ."+
			"oo...o."+
			"Xoo.o.."+
			"o...o.."+
			"..... o"+
			"o")
		tests := []struct {
			x, y, want int
		}{
			{2, 2, 6},
			{0, 0, 1},
			{1, 1, 3},
			{5, 1, 4},
			{4, 2, 6},
			{4, 3, 2},
			{6, 4, 2},
		}
		for _, tt := range tests {
			require.Equal(t, tt.want, b.Movable(topo.ToPos(tt.x, tt.y)).Size(), "Movable cells from (%d, %d)", tt.x, tt.y)
		}
	})

	t.Run("31", func(t *testing.T) {
		topo := Topology31()
		b := mustParse(t, topo, "o......"+
			"oo...o."+
			"Xoo.o.."+
			"o...o.."+
			"......o"+
			"o")
		tests := []struct {
			x, y, want int
		}{
			{2, 2, 3},
			{0, 0, 1},
			{1, 1, 3},
			{5, 1, 3},
			{4, 2, 6},
			{4, 3, 2},
			{6, 4, 2},
		}
		for _, tt := range tests {
			require.Equal(t, tt.want, b.Movable(topo.ToPos(tt.x, tt.y)).Size(), "Movable cells from (%d, %d)", tt.x, tt.y)
		}
	})
}

func TestFinalValue(t *testing.T) {
	topo := Topology25()
	rules := NewStandardRules(topo)
	tests := []struct {
		name  string
		board string
		want  Outcome
	}{
		{"blockers to move", surrounded25, Unknown},
		{"trapped on the edge", "ooooo" +
			"Xo..o" +
			"o...o" +
			"o...o" +
			"ooooo" + "X", BlockersWin},
		{"trapped in the center", ".o.o." +
			"ooooo" +
			".oXo." +
			"ooooo" +
			".o.o." + "X", BlockersWin},
		{"free to move", "ooooo" +
			"o...o" +
			"o.X.o" +
			"o...o" +
			"ooooo" + "X", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, topo, tt.board)
			require.Equal(t, tt.want, b.FinalValue(rules))
		})
	}

	t.Run("variants restrict the trap zone", func(t *testing.T) {
		corner, err := NewVariantRules(topo, CaptureCorner)
		require.NoError(t, err)
		edge := mustParse(t, topo, tests[1].board)
		require.Equal(t, Unknown, edge.FinalValue(corner), "(0, 1) is not the corner")

		trapped := mustParse(t, topo, "Xo..."+
			"oo..."+
			"....."+
			"....."+
			"....."+"X")
		require.Equal(t, BlockersWin, trapped.FinalValue(corner))

		at10, err := NewVariantRules(topo, CaptureAt10)
		require.NoError(t, err)
		require.Equal(t, Unknown, trapped.FinalValue(at10))
	})
}

func TestFlip(t *testing.T) {
	tests := []struct {
		name string
		topo *Topology
		in   string
		want string
	}{
		{"25", Topology25(),
			"oo.oo" + "oXo.o" + "o..o." + "oo..o" + ".oooo" + "o",
			".oooo" + "oo..o" + "o..o." + "oXo.o" + "oo.oo" + "o"},
		{"33", Topology33(),
			"oo.oo ." + "oXo.oo." + "o..o..." + "oo..o.." + ".oooo ." + "o",
			".oooo ." + "oo..o.." + "o..o..." + "oXo.oo." + "oo.oo ." + "o"},
		{"31", Topology31(),
			"......." + "......." + "..X.ooo" + "......." + "......o" + "o",
			"......o" + "......." + "..X.ooo" + "......." + "......." + "o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.topo, tt.in)
			want := mustParse(t, tt.topo, tt.want)
			require.Equal(t, want, b.Flip())
			require.Equal(t, b, want.Flip(), "Flip should be an involution")
		})
	}
}

func TestNextStates(t *testing.T) {
	t.Run("blockers to move", func(t *testing.T) {
		topo := Topology25()
		b := mustParse(t, topo, surrounded25)
		next := b.NextStates()

		require.Len(t, next, 24)
		require.Contains(t, next, mustParse(t, topo, "oooo."+"o..oo"+"o.X.o"+"o...o"+"ooooo"+"X"))
		require.NotContains(t, next, mustParse(t, topo, "ooooo"+"o...."+"o.Xoo"+"o...o"+"ooooo"+"X"),
			"A blocker cannot jump over a line")
	})

	t.Run("hunted captures", func(t *testing.T) {
		topo := Topology25()
		b := mustParse(t, topo, "ooooo"+
			"..o.o"+
			".oX.o"+
			"o...o"+
			"ooooo"+"X")
		next := b.NextStates()

		require.Len(t, next, 6)
		require.Contains(t, next, mustParse(t, topo, "ooooo"+"..o.o"+".o.Xo"+"o...o"+"ooooo"+"o"), "No pair to capture")
		require.Contains(t, next, mustParse(t, topo, "oo.oo"+"...X."+".o..."+"o...o"+"ooooo"+"o"), "Two pairs captured at once")
		require.Contains(t, next, mustParse(t, topo, "ooooo"+"..o.o"+".o..."+"o..Xo"+"oo.oo"+"o"), "Diagonal pair captured")
	})

	t.Run("33", func(t *testing.T) {
		topo := Topology33()
		b := mustParse(t, topo, "o.... ."+
			"oo....o"+
			"Xoo...."+
			"o......"+
			"..... ."+
			"o")
		next := b.NextStates()

		require.Len(t, next, 16)
		require.Contains(t, next, mustParse(t, topo, "o.... ."+"oo....o"+"Xo....."+"o.o...."+"..... ."+"X"))
		require.NotContains(t, next, mustParse(t, topo, "o.... ."+"oo....o"+"Xoo...."+"......."+".o... ."+"X"))
		require.Contains(t, next, mustParse(t, topo, "o.... ."+"oo...o."+"Xoo...."+"o......"+"..... ."+"X"))
	})

	t.Run("31", func(t *testing.T) {
		topo := Topology31()
		b := mustParse(t, topo, "o.....o"+
			"...o.X."+
			"......."+
			"o....o."+
			"..... o"+
			"X")
		next := b.NextStates()

		require.Len(t, next, 3)
		require.Contains(t, next, mustParse(t, topo, "o......"+"...o..."+"......X"+"o....o."+"..... ."+"o"), "Column 6 pair captured")
		require.Contains(t, next, mustParse(t, topo, "o.... o"+"......."+"....X.."+"o......"+"..... o"+"o"))
		require.Contains(t, next, mustParse(t, topo, "o.... o"+"...o..."+".....X."+"o....o."+"..... o"+"o"))
	})

	t.Run("successors match", func(t *testing.T) {
		topo := Topology25()
		b := mustParse(t, topo, surrounded25)
		var got []Board
		for next := range b.Successors() {
			got = append(got, next)
		}
		require.Equal(t, b.NextStates(), got)
		require.Equal(t, got, b.AppendNextStates(make([]Board, 0, 4)))
	})
}

func TestIndex(t *testing.T) {
	t.Run("board round trip", func(t *testing.T) {
		topo := Topology33()
		b := mustParse(t, topo, "ooooo ."+
			"..o.o.."+
			".oX.o.."+
			"o...o.."+
			"ooooo ."+"X")
		require.Equal(t, b, FromIndex(topo, b.Index(), Hunted))
	})

	t.Run("index round trip", func(t *testing.T) {
		topo := Topology33()
		i0 := uint64(3)<<uint(topo.Size()-1) | 0x80000
		b := FromIndex(topo, i0, Blockers)
		require.Equal(t, i0, b.Index())
		require.Equal(t, Blockers, b.Turn())
	})

	t.Run("random indices", func(t *testing.T) {
		r := rand.New(rand.NewSource(7))
		for _, size := range Sizes {
			topo, _ := TopologyFor(size)
			limit := uint64(topo.Size()) << uint(topo.Size()-1)
			for range 2000 {
				i := r.Uint64() % limit
				for _, turn := range []Player{Hunted, Blockers} {
					b := FromIndex(topo, i, turn)
					require.Equal(t, i, b.Index(), "%s: index %#x", topo.Name(), i)
					require.Equal(t, turn, b.Turn())
					require.False(t, b.Blockers().Test(b.HuntedPos()))
				}
			}
		}
	})
}

func TestRandomBoards(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, size := range Sizes {
		topo, _ := TopologyFor(size)
		limit := uint64(topo.Size()) << uint(topo.Size()-1)

		t.Run(topo.Name(), func(t *testing.T) {
			for range 500 {
				b := FromIndex(topo, r.Uint64()%limit, Player(r.Intn(2)))

				require.Equal(t, b, b.Flip().Flip(), "Flip should be an involution")
				require.Equal(t, b.BlockerCount(), b.Flip().BlockerCount())
				require.Less(t, b.Normalize(true).HuntedPos(), topo.HSize())
				require.Equal(t, b, b.Normalize(false))

				parsed, err := ParseBoard(topo, b.String())
				require.NoError(t, err)
				require.Equal(t, b, parsed)

				for _, next := range b.NextStates() {
					require.Equal(t, b.Turn().Other(), next.Turn(), "Turn should alternate")
					if b.Turn() == Blockers {
						require.Equal(t, b.HuntedPos(), next.HuntedPos())
						require.Equal(t, b.BlockerCount(), next.BlockerCount(), "Blocker moves never capture")
						continue
					}
					require.True(t, topo.Neighbors(b.HuntedPos()).Test(next.HuntedPos()))
					lost := b.BlockerCount() - next.BlockerCount()
					require.True(t, lost >= 0 && lost%2 == 0, "Captures remove whole pairs")
					for _, pair := range topo.CapturePairs(next.HuntedPos()) {
						if pair.Empty() {
							break
						}
						require.NotEqual(t, pair, pair.And(next.Blockers()), "Pair left standing next to the hunted piece")
					}
				}
				if b.Turn() == Hunted && b.Movable(b.HuntedPos()).Empty() {
					require.Empty(t, b.NextStates(), "An immobilized hunted piece has no moves")
				}
			}
		})
	}
}
