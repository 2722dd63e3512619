package game

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

var (
	ErrMalformedBoard = errors.New("malformed board")
	ErrTooManyHunted  = fmt.Errorf("%w: more than one hunted piece", ErrMalformedBoard)
)

// Board is one position packed into a word:
//
//	bits [0, N)     blocker occupancy
//	bits [N, N+6)   cell of the hunted piece (p)
//	bit  p          side to move, 0 hunted, 1 blockers
//
// Bit p can never hold a blocker, so it carries the turn.
type Board struct {
	t *Topology
	v uint64
}

func newBoard(t *Topology, blockers uint64, hunted int, turn Player) Board {
	return Board{
		t: t,
		v: blockers | uint64(turn)<<uint(hunted) | uint64(hunted)<<uint(t.size),
	}
}

// FromRaw wraps a packed word, e.g. an address of the merged table.
func FromRaw(t *Topology, v uint64) Board {
	return Board{t: t, v: v}
}

// FromIndex is the inverse of Index for the given side to move.
func FromIndex(t *Topology, index uint64, turn Player) Board {
	hunted := int(index >> uint(t.size-1))
	low := uint64(1)<<uint(hunted) - 1
	cells := index & (uint64(1)<<uint(t.size-1) - 1)
	blockers := cells&low | (cells&^low)<<1
	return newBoard(t, blockers, hunted, turn)
}

// ParseBoard reads the row-major text form: Width x Height cells followed by
// the marker of the side to move. Newlines are ignored.
func ParseBoard(t *Topology, s string) (Board, error) {
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)
	want := t.width*t.height + 1
	if len(s) != want {
		return Board{}, fmt.Errorf("%w: got %d characters, want %d", ErrMalformedBoard, len(s), want)
	}

	var blockers uint64
	hunted := -1
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			if !t.HasPoint(x, y) {
				continue
			}
			pos := t.ToPos(x, y)
			switch c := s[y*t.width+x]; c {
			case BlockerMarker:
				blockers |= 1 << uint(pos)
			case HuntedMarker:
				if hunted != -1 {
					return Board{}, fmt.Errorf("%w at (%d, %d)", ErrTooManyHunted, x, y)
				}
				hunted = pos
			case EmptyMarker, FillerMarker:
			default:
				return Board{}, fmt.Errorf("%w: unexpected %q at (%d, %d)", ErrMalformedBoard, c, x, y)
			}
		}
	}
	if hunted == -1 {
		return Board{}, fmt.Errorf("%w: no hunted piece", ErrMalformedBoard)
	}

	var turn Player
	switch c := s[want-1]; c {
	case HuntedMarker:
		turn = Hunted
	case BlockerMarker:
		turn = Blockers
	default:
		return Board{}, fmt.Errorf("%w: unexpected turn marker %q", ErrMalformedBoard, c)
	}
	return newBoard(t, blockers, hunted, turn), nil
}

func (b Board) Topology() *Topology {
	return b.t
}

func (b Board) Raw() uint64 {
	return b.v
}

func (b Board) cells() uint64 {
	return uint64(1)<<uint(b.t.size) - 1
}

func (b Board) HuntedPos() int {
	return int(b.v>>uint(b.t.size)) & 63
}

func (b Board) Turn() Player {
	return Player(b.v >> uint(b.HuntedPos()) & 1)
}

func (b Board) Blockers() PointSet {
	return PointSet(b.v & b.cells() &^ (1 << uint(b.HuntedPos())))
}

func (b Board) Pieces() PointSet {
	return PointSet((b.v | 1<<uint(b.HuntedPos())) & b.cells())
}

func (b Board) BlockerCount() int {
	return b.Blockers().Size()
}

// Index squeezes out the bit under the hunted piece and puts the hunted
// position on top: (N-1) occupancy bits plus the position.
func (b Board) Index() uint64 {
	hunted := b.HuntedPos()
	blockers := uint64(b.Blockers())
	low := uint64(1)<<uint(hunted) - 1
	compact := blockers&low | (blockers>>1)&^low
	return compact | uint64(hunted)<<uint(b.t.size-1)
}

// Movable returns the empty neighbors of pos.
func (b Board) Movable(pos int) PointSet {
	return b.t.adjacent[pos] &^ b.Pieces()
}

// moveHunted lands the hunted piece on to and removes every blocker pair
// flanking that cell along one line.
func (b Board) moveHunted(to int) Board {
	blockers := uint64(b.Blockers())
	for _, pair := range b.t.captures[to] {
		if pair == 0 {
			break
		}
		if blockers&uint64(pair) == uint64(pair) {
			blockers &^= uint64(pair)
		}
	}
	return newBoard(b.t, blockers, to, Blockers)
}

func (b Board) moveBlocker(from, to int) Board {
	blockers := uint64(b.Blockers()) ^ (1<<uint(from) | 1<<uint(to))
	return newBoard(b.t, blockers, b.HuntedPos(), Hunted)
}

// AppendNextStates appends every position reachable in one ply to buf.
func (b Board) AppendNextStates(buf []Board) []Board {
	if b.Turn() == Hunted {
		it := b.Movable(b.HuntedPos()).Iter()
		for to, ok := it.Next(); ok; to, ok = it.Next() {
			buf = append(buf, b.moveHunted(to))
		}
		return buf
	}
	from := b.Blockers().Iter()
	for f, ok := from.Next(); ok; f, ok = from.Next() {
		to := b.Movable(f).Iter()
		for t, ok := to.Next(); ok; t, ok = to.Next() {
			buf = append(buf, b.moveBlocker(f, t))
		}
	}
	return buf
}

func (b Board) NextStates() []Board {
	return b.AppendNextStates(nil)
}

// Successors yields the same positions as NextStates without building a slice.
func (b Board) Successors() iter.Seq[Board] {
	return func(yield func(Board) bool) {
		if b.Turn() == Hunted {
			for to := range b.Movable(b.HuntedPos()).All() {
				if !yield(b.moveHunted(to)) {
					return
				}
			}
			return
		}
		for f := range b.Blockers().All() {
			for t := range b.Movable(f).All() {
				if !yield(b.moveBlocker(f, t)) {
					return
				}
			}
		}
	}
}

// Flip mirrors the position across the middle row.
func (b Board) Flip() Board {
	hunted := b.t.FlipPos(b.HuntedPos())
	blockers := b.t.flipCells(uint64(b.Blockers()))
	return newBoard(b.t, blockers, hunted, b.Turn())
}

// Normalize returns the representative stored in a folded table.
func (b Board) Normalize(fold bool) Board {
	if fold && b.HuntedPos() >= b.t.HSize() {
		return b.Flip()
	}
	return b
}

// FinalValue only recognizes an immobilized hunted piece; deeper results are
// the solver's business.
func (b Board) FinalValue(rules Rules) Outcome {
	if b.Turn() != Hunted {
		return Unknown
	}
	hunted := b.HuntedPos()
	if b.Movable(hunted).Empty() && rules.Traps(hunted) {
		return BlockersWin
	}
	return Unknown
}

// Get returns the marker at (x, y), or FillerMarker off the board.
func (b Board) Get(x, y int) byte {
	if !b.t.HasPoint(x, y) {
		return FillerMarker
	}
	return b.At(b.t.ToPos(x, y))
}

func (b Board) At(pos int) byte {
	switch {
	case pos == b.HuntedPos():
		return HuntedMarker
	case b.Blockers().Test(pos):
		return BlockerMarker
	default:
		return EmptyMarker
	}
}

// String returns the single-line text form accepted by ParseBoard.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(b.t.width*b.t.height + 1)
	for y := 0; y < b.t.height; y++ {
		for x := 0; x < b.t.width; x++ {
			sb.WriteByte(b.Get(x, y))
		}
	}
	sb.WriteByte(b.Turn().Marker())
	return sb.String()
}

// Pretty renders one row per line followed by the side to move.
func (b Board) Pretty() string {
	s := b.String()
	var sb strings.Builder
	for y := 0; y < b.t.height; y++ {
		sb.WriteString(s[y*b.t.width : (y+1)*b.t.width])
		sb.WriteByte('\n')
	}
	sb.WriteByte(s[len(s)-1])
	return sb.String()
}
