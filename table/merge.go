package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"musashi/game"
)

const mergeLogInterval = 1 << 28

// Merge folds every snapshot of the store into one byte per raw board word
// below the fold and writes them to w in address order.
//
// Within one side to move the index grows with the raw word, so each snapshot
// is consumed as a plain stream: one bit per address of its parity.
func Merge(store *CheckpointStore, t *game.Topology, rules game.Rules, w io.Writer) error {
	limit := store.Limit()
	if limit == 1 {
		return fmt.Errorf("no snapshots in %s", store.Dir())
	}

	readers := make([]*BitReader, limit)
	for ply := 1; ply < limit; ply++ {
		r, err := store.Open(ply)
		if err != nil {
			return err
		}
		defer r.Close()
		readers[ply] = NewBitReader(r)
	}

	bw := bufio.NewWriter(w)
	size := t.RawLen(rules.Symmetric())
	start := time.Now()
	log.Info().Int("plies", limit-1).Uint64("addresses", size).Msg("merging snapshots")

	for v := uint64(0); v < size; v++ {
		if v%mergeLogInterval == 0 && v > 0 {
			log.Debug().Uint64("address", v).Dur("elapsed", time.Since(start)).Msg("merge progress")
		}
		first := 2
		if game.FromRaw(t, v).Turn() == game.Hunted {
			first = 1
		}
		var value byte
		for ply := first; ply < limit; ply += 2 {
			bit, err := readers[ply].Next()
			if err != nil {
				return fmt.Errorf("failed to merge ply %d at address %d: %w", ply, v, err)
			}
			if bit && value == 0 {
				value = byte(ply)
			}
		}
		if err := bw.WriteByte(value); err != nil {
			return fmt.Errorf("failed to write merged table: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush merged table: %w", err)
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("merge finished")
	return nil
}

// MergeFile merges into the store's table path.
func MergeFile(store *CheckpointStore, t *game.Topology, rules game.Rules) (string, error) {
	path := store.TablePath()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create table file: %w", err)
	}
	if err := Merge(store, t, rules, f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close table file: %w", err)
	}
	return path, nil
}
