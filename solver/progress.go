package solver

import (
	"time"

	"github.com/rs/zerolog/log"
)

const progressSteps = 16

type progress struct {
	ply     int
	blocks  uint64
	done    uint64
	marked  int64
	nextLog uint64
	start   time.Time
}

func newProgress(ply int, blocks uint64) *progress {
	return &progress{
		ply:     ply,
		blocks:  blocks,
		nextLog: max(blocks/progressSteps, 1),
		start:   time.Now(),
	}
}

// report is called by workers after every block.
func (s *Solver) report(p *progress, marked int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.done++
	p.marked += marked
	if p.done < p.nextLog || p.done == p.blocks {
		return
	}
	p.nextLog += max(p.blocks/progressSteps, 1)
	log.Debug().
		Int("ply", p.ply).
		Uint64("blocks", p.done).
		Uint64("of", p.blocks).
		Int64("marked", p.marked).
		Dur("elapsed", time.Since(p.start)).
		Msg("ply progress")
}
