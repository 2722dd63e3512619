package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"musashi/game"
	"musashi/table"
)

type Option func(e *Engine)

// WithSeed fixes the tie-breaking between equally good moves.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMaxMoves(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxMoves = n
		}
	}
}

// Engine replays perfect play against a merged table.
type Engine struct {
	t        *game.Topology
	lookup   table.Lookup
	rng      *rand.Rand
	maxMoves int
}

var _ Replayer = (*Engine)(nil)

func NewEngine(t *game.Topology, lookup table.Lookup, options ...Option) *Engine {
	if lookup == nil {
		panic("engine needs a table")
	}
	e := &Engine{
		t:        t,
		lookup:   lookup,
		maxMoves: MaxMoves,
	}
	for _, option := range options {
		option(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return e
}

func (e *Engine) Value(b game.Board) (byte, error) {
	v, err := e.lookup.Get(b.Raw())
	if err != nil {
		return 0, fmt.Errorf("failed to look up %s: %w", b, err)
	}
	return v, nil
}

// Analyze returns every successor of b with its value.
func (e *Engine) Analyze(b game.Board) ([]Child, error) {
	next := b.NextStates()
	children := make([]Child, 0, len(next))
	for _, n := range next {
		v, err := e.Value(n)
		if err != nil {
			return nil, err
		}
		children = append(children, Child{Board: n, Value: v})
	}
	return children, nil
}

// Best picks the move perfect play makes from b. The hunted piece takes the
// longest defence or any escape; the blockers take the fastest win.
// ok is false when b has no moves.
func (e *Engine) Best(b game.Board) (Child, bool, error) {
	children, err := e.Analyze(b)
	if err != nil {
		return Child{}, false, err
	}
	if len(children) == 0 {
		return Child{}, false, nil
	}

	var target byte
	if b.Turn() == game.Hunted {
		escapes := lo.Filter(children, func(c Child, _ int) bool { return c.Value == 0 })
		if len(escapes) > 0 {
			return e.pick(escapes), true, nil
		}
		target = lo.MaxBy(children, func(x, y Child) bool { return x.Value > y.Value }).Value
	} else {
		wins := lo.Filter(children, func(c Child, _ int) bool { return c.Value != 0 })
		if len(wins) == 0 {
			return e.pick(children), true, nil
		}
		target = lo.MinBy(wins, func(x, y Child) bool { return x.Value < y.Value }).Value
	}

	best := lo.Filter(children, func(c Child, _ int) bool { return c.Value == target })
	return e.pick(best), true, nil
}

func (e *Engine) pick(children []Child) Child {
	return children[e.rng.Intn(len(children))]
}

// Run follows perfect play from b while the position stays resolved. The
// line ends at the immobilized hunted piece, at an unresolved position, or
// after the configured number of moves.
func (e *Engine) Run(b game.Board) (Line, error) {
	v, err := e.Value(b)
	if err != nil {
		return nil, err
	}
	line := Line{{Board: b, Value: v}}

	for cur := line[0]; cur.Value > 1 && len(line) <= e.maxMoves; {
		next, ok, err := e.Best(cur.Board)
		if err != nil {
			return line, err
		}
		if !ok {
			break
		}
		if next.Value != cur.Value-1 {
			log.Warn().
				Str("board", cur.Board.String()).
				Int("value", int(cur.Value)).
				Int("next", int(next.Value)).
				Msg("table is not consistent along the line")
		}
		line = append(line, next)
		cur = next
	}
	return line, nil
}

// Values returns the values along the line.
func (l Line) Values() []byte {
	return lo.Map(l, func(c Child, _ int) byte { return c.Value })
}
