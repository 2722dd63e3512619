package table

import (
	"errors"
	"fmt"
	"os"

	"musashi/game"
)

var ErrTableSize = errors.New("table size mismatch")

// Lookup answers the value of a raw board word. Words above the fold are
// mirrored before the lookup.
type Lookup interface {
	Get(raw uint64) (byte, error)
	Size() uint64
}

// Reader serves lookups from a merged table file without loading it.
type Reader struct {
	f    *os.File
	t    *game.Topology
	size uint64
}

func Open(path string, t *game.Topology, rules game.Rules) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat table: %w", err)
	}
	size := t.RawLen(rules.Symmetric())
	if uint64(info.Size()) != size {
		f.Close()
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrTableSize, path, info.Size(), size)
	}
	return &Reader{f: f, t: t, size: size}, nil
}

func (r *Reader) Get(raw uint64) (byte, error) {
	addr, err := address(r.t, r.size, raw)
	if err != nil {
		return 0, err
	}
	var buf [1]byte
	if _, err := r.f.ReadAt(buf[:], int64(addr)); err != nil {
		return 0, fmt.Errorf("failed to read table at %d: %w", addr, err)
	}
	return buf[0], nil
}

func (r *Reader) Value(b game.Board) (byte, error) {
	return r.Get(b.Raw())
}

func (r *Reader) Size() uint64 {
	return r.size
}

func (r *Reader) Close() error {
	return r.f.Close()
}

// Memory is a merged table held in memory.
type Memory struct {
	t    *game.Topology
	data []byte
}

func NewMemory(t *game.Topology, rules game.Rules, data []byte) (*Memory, error) {
	if want := t.RawLen(rules.Symmetric()); uint64(len(data)) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrTableSize, len(data), want)
	}
	return &Memory{t: t, data: data}, nil
}

func (m *Memory) Get(raw uint64) (byte, error) {
	addr, err := address(m.t, uint64(len(m.data)), raw)
	if err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

func address(t *game.Topology, size, raw uint64) (uint64, error) {
	if raw >= size {
		raw = game.FromRaw(t, raw).Flip().Raw()
	}
	if raw >= size {
		return 0, fmt.Errorf("%w: address %#x beyond %#x", ErrTableSize, raw, size)
	}
	return raw, nil
}
