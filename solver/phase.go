package solver

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"musashi/game"
	"musashi/table"
)

// runPly scans the table of the side to move at this ply and marks what the
// other side's frozen table now decides. Blocks go to workers round-robin, so
// every word of the written table has exactly one owner.
func (s *Solver) runPly(ply int) (int64, error) {
	turn := table.PlyTurn(ply)
	write := s.tables[turn]
	read := s.tables[turn.Other()]
	n := write.Len()
	blocks := (n + s.blockSize - 1) / s.blockSize

	s.metrics.Start(ply, turn, s.goroutines)
	progress := newProgress(ply, blocks)

	var marked atomic.Int64
	var g errgroup.Group
	for w := range s.goroutines {
		g.Go(func() error {
			buf := make([]game.Board, 0, 64)
			for block := uint64(w); block < blocks; block += uint64(s.goroutines) {
				if s.aborted.Load() {
					return nil
				}
				lo := block * s.blockSize
				hi := min(lo+s.blockSize, n)

				var local int64
				for i := lo; i < hi; i++ {
					if write.Test(i) {
						continue
					}
					b := game.FromIndex(s.t, i, turn)
					if b.Index() != i {
						s.aborted.Store(true)
						return fmt.Errorf("%w: ply %d, index %#x decodes to %#x", ErrIndexMismatch, ply, i, b.Index())
					}
					if !s.inScope(b) {
						continue
					}
					var win bool
					win, buf = s.decide(ply, b, read, buf)
					if win {
						write.Set(i)
						local++
					}
				}

				marked.Add(local)
				s.metrics.AddScanned(int64(hi - lo))
				s.metrics.AddMarked(local)
				s.report(progress, local)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	s.records = append(s.records, s.metrics.Complete())
	return marked.Load(), nil
}

// decide reports whether b is won for the blockers given the other side's table.
func (s *Solver) decide(ply int, b game.Board, read *table.Bits, buf []game.Board) (bool, []game.Board) {
	if ply == 1 {
		return b.FinalValue(s.rules) == game.BlockersWin, buf
	}

	if b.Turn() == game.Blockers {
		for next := range b.Successors() {
			if read.Test(next.Normalize(s.fold).Index()) {
				return true, buf
			}
		}
		return false, buf
	}

	buf = b.AppendNextStates(buf[:0])
	// An immobilized hunted piece is only ever decided at ply 1.
	if len(buf) == 0 {
		return false, buf
	}
	for _, next := range buf {
		if !read.Test(next.Normalize(s.fold).Index()) {
			return false, buf
		}
	}
	return true, buf
}
