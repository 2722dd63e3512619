package table

import (
	"bufio"
	"fmt"
	"io"

	"musashi/game"
)

// Histogram tallies a merged table by number of blockers.
type Histogram struct {
	// Counts[c][v] is the number of positions with c blockers and value v.
	Counts [][MaxPly + 1]int64
	// Unresolved[c][turn] splits the value-0 positions by side to move.
	Unresolved [][2]int64
	Total      int64
}

// MaxValue is the largest value with a non-zero count.
func (h *Histogram) MaxValue() int {
	highest := 0
	for _, row := range h.Counts {
		for v := len(row) - 1; v > highest; v-- {
			if row[v] > 0 {
				highest = v
				break
			}
		}
	}
	return highest
}

// Count streams a merged table. With the fold, a middle-row position and its
// mirror image both sit below the fold; only the smaller word is counted.
func Count(r io.Reader, t *game.Topology, rules game.Rules) (*Histogram, error) {
	fold := rules.Symmetric()
	h := &Histogram{
		Counts:     make([][MaxPly + 1]int64, t.Size()),
		Unresolved: make([][2]int64, t.Size()),
	}

	br := bufio.NewReaderSize(r, 1<<16)
	size := t.RawLen(fold)
	for v := uint64(0); v < size; v++ {
		value, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("failed to read table at %d: %w", v, err)
		}
		b := game.FromRaw(t, v)
		if fold && b.Flip().Raw() < v {
			continue
		}
		c := b.BlockerCount()
		h.Counts[c][value]++
		h.Total++
		if value == 0 {
			h.Unresolved[c][b.Turn()]++
		}
	}
	return h, nil
}
