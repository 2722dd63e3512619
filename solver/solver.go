package solver

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"musashi/game"
	"musashi/meta"
	"musashi/metrics"
	"musashi/table"
)

var ErrIndexMismatch = errors.New("index does not survive a board round trip")

type Option func(s *Solver)

// Result summarizes a solve. Marked[k] is the number of positions resolved
// at ply k; plies restored from snapshots count zero.
type Result struct {
	Plies     int // deepest ply that resolved anything
	Converged bool
	Marked    []int64
}

// Solver computes the retrograde tables of one board and rule set. Each side
// to move has a table with one bit per index; a set bit means the blockers
// win from there.
type Solver struct {
	t           *game.Topology
	goroutines  int
	rules       game.Rules
	fold        bool
	blockSize   uint64
	maxPly      int
	maxBlockers int
	store       *table.CheckpointStore
	resume      bool
	metrics     metrics.Collector

	tables  [2]*table.Bits // by side to move
	records []metrics.PlyMetric
	aborted atomic.Bool
	mu      sync.Mutex // progress logging
}

func WithRules(rules game.Rules) Option {
	return func(s *Solver) {
		if rules != nil {
			s.rules = rules
		}
	}
}

// WithBlockSize sets how many indices a worker owns at a time.
func WithBlockSize(size int) Option {
	return func(s *Solver) {
		if size <= 0 || size%64 != 0 {
			panic(fmt.Sprintf("block size must be a positive multiple of 64, got %d", size))
		}
		s.blockSize = uint64(size)
	}
}

func WithMaxPly(ply int) Option {
	return func(s *Solver) {
		if ply < 1 || ply > table.MaxPly {
			panic(fmt.Sprintf("max ply must be within [1, %d], got %d", table.MaxPly, ply))
		}
		s.maxPly = ply
	}
}

// WithMaxBlockers restricts the solve to positions with at most n blockers.
// Captures only ever remove blockers, so the subspace is closed under moves.
func WithMaxBlockers(n int) Option {
	return func(s *Solver) {
		if n >= 0 {
			s.maxBlockers = n
		}
	}
}

// WithCheckpoints saves a snapshot of the updated table after every ply.
func WithCheckpoints(store *table.CheckpointStore) Option {
	return func(s *Solver) {
		s.store = store
	}
}

// WithResume continues from the newest snapshots of the checkpoint store.
func WithResume() Option {
	return func(s *Solver) {
		s.resume = true
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *Solver) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func NewSolver(t *game.Topology, goroutines int, options ...Option) *Solver {
	if goroutines < 1 {
		panic("Must use at least one goroutine")
	}
	s := &Solver{ // Default values
		t:           t,
		goroutines:  goroutines,
		rules:       game.NewStandardRules(t),
		blockSize:   meta.BLOCK_SIZE,
		maxPly:      meta.MAX_PLY,
		maxBlockers: -1,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.resume && s.store == nil {
		panic("Resuming needs a checkpoint store")
	}
	s.fold = s.rules.Symmetric()
	return s
}

func (s *Solver) Topology() *game.Topology {
	return s.t
}

func (s *Solver) Fold() bool {
	return s.fold
}

func (s *Solver) Solve() (Result, error) {
	n := s.t.TableLen(s.fold)
	s.tables[game.Hunted] = table.NewBits(n)
	s.tables[game.Blockers] = table.NewBits(n)
	s.records = nil
	s.aborted.Store(false)

	first := 1
	if s.resume {
		last, err := s.restore(n)
		if err != nil {
			return Result{}, err
		}
		first = last + 1
	} else if s.store != nil {
		// Later plies of an earlier run would otherwise extend this one.
		if err := s.store.Remove(); err != nil {
			return Result{}, err
		}
	}

	result := Result{Marked: make([]int64, first)}
	if first > 1 {
		result.Plies = first - 1
	}

	log.Info().
		Str("board", s.t.Name()).
		Str("variant", s.rules.Variant().String()).
		Bool("fold", s.fold).
		Uint64("indices", n).
		Int("goroutines", s.goroutines).
		Int("first_ply", first).
		Msg("solving")

	for ply := first; ply <= s.maxPly; ply++ {
		start := time.Now()
		marked, err := s.runPly(ply)
		if err != nil {
			return result, err
		}
		result.Marked = append(result.Marked, marked)
		log.Info().Int("ply", ply).Int64("marked", marked).Dur("elapsed", time.Since(start)).Msg("ply done")

		if marked == 0 {
			result.Converged = true
			break
		}
		result.Plies = ply

		if s.store != nil {
			if err := s.store.Save(ply, s.tables[table.PlyTurn(ply)]); err != nil {
				return result, fmt.Errorf("failed to checkpoint ply %d: %w", ply, err)
			}
		}
	}
	if !result.Converged {
		log.Warn().Int("max_ply", s.maxPly).Msg("stopped before reaching a fixed point")
	}
	return result, nil
}

// restore loads the newest snapshot of each side and returns the last ply.
func (s *Solver) restore(n uint64) (int, error) {
	last := s.store.Limit() - 1
	for _, ply := range []int{last, last - 1} {
		if ply < 1 {
			continue
		}
		bits, err := s.store.Load(ply, n)
		if err != nil {
			return 0, fmt.Errorf("failed to resume: %w", err)
		}
		s.tables[table.PlyTurn(ply)] = bits
	}
	if last > 0 {
		log.Info().Int("ply", last).Str("dir", s.store.Dir()).Msg("resuming from snapshots")
	}
	return last, nil
}

// Solved reports whether the blockers are known to win from b.
func (s *Solver) Solved(b game.Board) bool {
	bits := s.tables[b.Turn()]
	if bits == nil || !s.inScope(b) {
		return false
	}
	return bits.Test(b.Normalize(s.fold).Index())
}

// Table returns the table of one side to move after Solve.
func (s *Solver) Table(turn game.Player) *table.Bits {
	return s.tables[turn]
}

// Records returns the per-ply metrics of the last Solve.
func (s *Solver) Records() []metrics.PlyMetric {
	return s.records
}

func (s *Solver) inScope(b game.Board) bool {
	return s.maxBlockers < 0 || b.BlockerCount() <= s.maxBlockers
}
