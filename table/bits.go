package table

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

// Bits is a fixed-length bit table. On disk it is packed 8 bits per byte,
// least significant bit first.
//
// Set is not atomic. Concurrent writers must own disjoint words, which holds
// for ranges aligned to 64 bits.
type Bits struct {
	n     uint64
	words []uint64
}

func NewBits(n uint64) *Bits {
	return &Bits{
		n:     n,
		words: make([]uint64, (n+63)/64),
	}
}

func (b *Bits) Len() uint64 {
	return b.n
}

func (b *Bits) Test(i uint64) bool {
	return b.words[i/64]&(1<<(i%64)) != 0
}

func (b *Bits) Set(i uint64) {
	b.words[i/64] |= 1 << (i % 64)
}

func (b *Bits) Count() uint64 {
	var c uint64
	for _, w := range b.words {
		c += uint64(bits.OnesCount64(w))
	}
	return c
}

// ByteLen is the size of the serialized table.
func (b *Bits) ByteLen() uint64 {
	return (b.n + 7) / 8
}

// Clone returns an independent copy.
func (b *Bits) Clone() *Bits {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return &Bits{n: b.n, words: words}
}

// WriteTo writes ByteLen bytes. Little-endian words give the LSB-first byte order.
func (b *Bits) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var buf [8]byte
	remaining := b.ByteLen()
	var written int64
	for _, word := range b.words {
		binary.LittleEndian.PutUint64(buf[:], word)
		k := min(remaining, 8)
		n, err := bw.Write(buf[:k])
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("failed to write bit table: %w", err)
		}
		remaining -= k
	}
	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("failed to flush bit table: %w", err)
	}
	return written, nil
}

// ReadFrom fills the table from exactly ByteLen bytes of r.
func (b *Bits) ReadFrom(r io.Reader) (int64, error) {
	br := bufio.NewReader(r)
	var buf [8]byte
	remaining := b.ByteLen()
	var read int64
	for i := range b.words {
		k := min(remaining, 8)
		clear(buf[:])
		n, err := io.ReadFull(br, buf[:k])
		read += int64(n)
		if err != nil {
			return read, fmt.Errorf("failed to read bit table at byte %d: %w", read, err)
		}
		b.words[i] = binary.LittleEndian.Uint64(buf[:])
		remaining -= k
	}
	return read, nil
}
