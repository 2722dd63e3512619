package table

import (
	"bufio"
	"fmt"
	"io"
)

const readBufferSize = 0x1000

// BitReader streams a packed bit table one bit at a time.
type BitReader struct {
	r    *bufio.Reader
	cur  byte
	left int
}

func NewBitReader(r io.Reader) *BitReader {
	return &BitReader{r: bufio.NewReaderSize(r, readBufferSize)}
}

func (br *BitReader) Next() (bool, error) {
	if br.left == 0 {
		c, err := br.r.ReadByte()
		if err != nil {
			return false, fmt.Errorf("failed to read bit: %w", err)
		}
		br.cur = c
		br.left = 8
	}
	bit := br.cur&1 != 0
	br.cur >>= 1
	br.left--
	return bit, nil
}
