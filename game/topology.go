package game

import (
	"errors"
	"fmt"
)

// MaxCells keeps the hunted position (6 bits) above the occupancy bits in one word.
const MaxCells = 58

var ErrInvalidShape = errors.New("invalid board shape")

// Shape describes a board layout. Offsets[y][x] is the cell index at (x, y) or -1.
// The middle row must be numbered first, and the rows above it must be numbered
// so that the mirrored row below holds the same cells shifted by a constant.
type Shape struct {
	Name    string
	Offsets [][]int
	// Link reports whether a line joins two cells. Nil means every line of the grid.
	Link func(x1, y1, x2, y2 int) bool
	// Stride adjusts a unit direction at (x, y). Nil means unit steps.
	Stride func(x, y, dx, dy int) (int, int)
}

type point struct {
	x, y int
}

// Topology is the immutable geometry of one board shape.
type Topology struct {
	name     string
	width    int
	height   int
	size     int
	middle   int // cells in the middle row
	half     int // distance between mirrored cells
	offsets  [][]int
	xy       []point
	link     func(x1, y1, x2, y2 int) bool
	stride   func(x, y, dx, dy int) (int, int)
	adjacent []PointSet
	captures [][4]PointSet
	midMask  uint64
	upMask   uint64
	lowMask  uint64
}

var directions = [8]point{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

// One representative per line through a cell.
var halfDirections = [4]point{{1, 0}, {0, 1}, {1, 1}, {-1, 1}}

// NewTopology validates a shape and precomputes its adjacency and capture tables.
func NewTopology(shape Shape) (*Topology, error) {
	height := len(shape.Offsets)
	if height == 0 || height%2 == 0 {
		return nil, fmt.Errorf("%w: %s needs an odd number of rows, got %d", ErrInvalidShape, shape.Name, height)
	}
	width := len(shape.Offsets[0])

	size := 0
	for y, row := range shape.Offsets {
		if len(row) != width {
			return nil, fmt.Errorf("%w: %s row %d has width %d, want %d", ErrInvalidShape, shape.Name, y, len(row), width)
		}
		for _, pos := range row {
			if pos >= 0 {
				size++
			}
		}
	}
	if size == 0 || size > MaxCells {
		return nil, fmt.Errorf("%w: %s has %d cells", ErrInvalidShape, shape.Name, size)
	}

	t := &Topology{
		name:    shape.Name,
		width:   width,
		height:  height,
		size:    size,
		offsets: shape.Offsets,
		xy:      make([]point, size),
		link:    shape.Link,
		stride:  shape.Stride,
	}

	seen := make([]bool, size)
	for y, row := range shape.Offsets {
		for x, pos := range row {
			if pos < 0 {
				continue
			}
			if pos >= size || seen[pos] {
				return nil, fmt.Errorf("%w: %s has bad or duplicate cell %d at (%d, %d)", ErrInvalidShape, shape.Name, pos, x, y)
			}
			seen[pos] = true
			t.xy[pos] = point{x, y}
		}
	}

	if err := t.checkMirror(); err != nil {
		return nil, err
	}

	t.midMask = 1<<uint(t.middle) - 1
	t.upMask = (1<<uint(t.half) - 1) << uint(t.middle)
	t.lowMask = t.upMask << uint(t.half)

	t.adjacent = make([]PointSet, size)
	for pos := range size {
		t.adjacent[pos] = t.buildNeighbors(pos)
	}
	t.captures = make([][4]PointSet, size)
	for pos := range size {
		t.captures[pos] = t.buildCaptures(pos)
	}
	return t, nil
}

func (t *Topology) checkMirror() error {
	mid := t.height / 2
	for _, pos := range t.offsets[mid] {
		if pos >= 0 {
			t.middle++
		}
	}
	for _, pos := range t.offsets[mid] {
		if pos >= t.middle {
			return fmt.Errorf("%w: %s middle row must hold cells 0..%d", ErrInvalidShape, t.name, t.middle-1)
		}
	}
	t.half = (t.size - t.middle) / 2

	for y := 0; y < mid; y++ {
		for x := 0; x < t.width; x++ {
			up, low := t.offsets[y][x], t.offsets[t.height-1-y][x]
			if (up < 0) != (low < 0) {
				return fmt.Errorf("%w: %s is not mirrored at (%d, %d)", ErrInvalidShape, t.name, x, y)
			}
			if up < 0 {
				continue
			}
			if up < t.middle || up >= t.middle+t.half || low != up+t.half {
				return fmt.Errorf("%w: %s mirrored cells %d and %d are not %d apart", ErrInvalidShape, t.name, up, low, t.half)
			}
		}
	}
	return nil
}

func (t *Topology) step(x, y, dx, dy int) (int, int) {
	if t.stride != nil {
		return t.stride(x, y, dx, dy)
	}
	return dx, dy
}

func (t *Topology) linked(x1, y1, x2, y2 int) bool {
	if !t.HasPoint(x2, y2) {
		return false
	}
	if x1 != x2 && y1 != y2 && !t.HasN8(x1, y1) {
		return false
	}
	return t.link == nil || t.link(x1, y1, x2, y2)
}

func (t *Topology) buildNeighbors(pos int) PointSet {
	x, y := t.XY(pos)
	var ps PointSet
	for _, d := range directions {
		dx, dy := t.step(x, y, d.x, d.y)
		if t.linked(x, y, x+dx, y+dy) {
			ps |= 1 << uint(t.ToPos(x+dx, y+dy))
		}
	}
	return ps
}

// buildCaptures lists, per line through pos, the two neighbors on either side.
// Unused slots stay zero and terminate the list.
func (t *Topology) buildCaptures(pos int) [4]PointSet {
	var pairs [4]PointSet
	x, y := t.XY(pos)
	i := 0
	for _, d := range halfDirections {
		dx, dy := t.step(x, y, d.x, d.y)
		x1, y1, x2, y2 := x+dx, y+dy, x-dx, y-dy
		if !t.HasPoint(x1, y1) || !t.HasPoint(x2, y2) {
			continue
		}
		p1, p2 := t.ToPos(x1, y1), t.ToPos(x2, y2)
		if t.adjacent[pos].Test(p1) && t.adjacent[pos].Test(p2) {
			pairs[i] = NewPointSet(p1, p2)
			i++
		}
	}
	return pairs
}

func (t *Topology) Name() string { return t.name }
func (t *Topology) Size() int    { return t.size }
func (t *Topology) Width() int   { return t.width }
func (t *Topology) Height() int  { return t.height }

// HSize is the number of hunted positions kept when the reflection is folded:
// the middle row and the rows above it.
func (t *Topology) HSize() int {
	return t.middle + t.half
}

// Span is the number of hunted positions a table covers.
func (t *Topology) Span(fold bool) int {
	if fold {
		return t.HSize()
	}
	return t.size
}

// TableLen is the number of indices per side to move.
func (t *Topology) TableLen(fold bool) uint64 {
	return uint64(t.Span(fold)) << uint(t.size-1)
}

// RawLen is the number of raw board words below the fold, both sides to move.
func (t *Topology) RawLen(fold bool) uint64 {
	return uint64(t.Span(fold)) << uint(t.size)
}

func (t *Topology) HasPoint(x, y int) bool {
	return 0 <= y && y < t.height && 0 <= x && x < t.width && t.offsets[y][x] >= 0
}

// HasN8 reports whether diagonal lines pass through (x, y).
func (t *Topology) HasN8(x, y int) bool {
	return (x+y)&1 == 0
}

// ToPos returns the cell index at (x, y), or -1 off the board.
func (t *Topology) ToPos(x, y int) int {
	if !t.HasPoint(x, y) {
		return -1
	}
	return t.offsets[y][x]
}

func (t *Topology) XY(pos int) (int, int) {
	p := t.xy[pos]
	return p.x, p.y
}

func (t *Topology) Neighbors(pos int) PointSet {
	return t.adjacent[pos]
}

// CapturePairs returns the pairs around pos; the list ends at the first empty set.
func (t *Topology) CapturePairs(pos int) [4]PointSet {
	return t.captures[pos]
}

// FlipPos mirrors a cell index across the middle row.
func (t *Topology) FlipPos(pos int) int {
	switch {
	case pos < t.middle:
		return pos
	case pos < t.middle+t.half:
		return pos + t.half
	default:
		return pos - t.half
	}
}

func (t *Topology) flipCells(cells uint64) uint64 {
	return cells&t.midMask | (cells&t.upMask)<<uint(t.half) | (cells&t.lowMask)>>uint(t.half)
}

func (t *Topology) String() string {
	return t.name
}
