package table

import (
	"bufio"
	"fmt"
	"io"

	"lukechampine.com/frand"

	"musashi/game"
)

// Sample streams a merged table and returns up to count positions holding
// value, in the order of a scan that starts at a random address and wraps
// around once. A count of zero returns all of them.
func Sample(r io.Reader, t *game.Topology, rules game.Rules, value byte, count int) ([]game.Board, error) {
	size := t.RawLen(rules.Symmetric())
	if size == 0 {
		return nil, nil
	}
	start := frand.Uint64n(size)

	// Hits before start come last in the wrapped scan.
	var after, before []game.Board
	br := bufio.NewReaderSize(r, 1<<16)
	for v := uint64(0); v < size; v++ {
		got, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("failed to read table at %d: %w", v, err)
		}
		if got != value {
			continue
		}
		b := game.FromRaw(t, v)
		if v >= start {
			after = append(after, b)
			if count > 0 && len(after) == count {
				break
			}
		} else if count == 0 || len(before) < count {
			before = append(before, b)
		}
	}

	boards := append(after, before...)
	if count > 0 && len(boards) > count {
		boards = boards[:count]
	}
	return boards, nil
}
