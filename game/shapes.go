package game

import (
	"fmt"
	"sync"
)

// Board sizes with a built-in shape.
var Sizes = []int{9, 25, 31, 33}

var (
	Topology9  = sync.OnceValue(func() *Topology { return mustTopology(Shape9()) })
	Topology25 = sync.OnceValue(func() *Topology { return mustTopology(Shape25()) })
	Topology31 = sync.OnceValue(func() *Topology { return mustTopology(Shape31()) })
	Topology33 = sync.OnceValue(func() *Topology { return mustTopology(Shape33()) })
)

// TopologyFor returns the built-in topology with the given number of cells.
func TopologyFor(size int) (*Topology, error) {
	switch size {
	case 9:
		return Topology9(), nil
	case 25:
		return Topology25(), nil
	case 31:
		return Topology31(), nil
	case 33:
		return Topology33(), nil
	default:
		return nil, fmt.Errorf("%w: no built-in board with %d cells (want one of %v)", ErrInvalidShape, size, Sizes)
	}
}

func mustTopology(shape Shape) *Topology {
	t, err := NewTopology(shape)
	if err != nil {
		// Built-in shapes are hard-coded; failing here is a bug.
		panic("built-in shape failed validation: " + err.Error())
	}
	return t
}

// Shape9 is a 3x3 board. It solves in milliseconds and is meant for smoke runs.
func Shape9() Shape {
	return Shape{
		Name: "9",
		Offsets: [][]int{
			{3, 4, 5},
			{0, 1, 2},
			{6, 7, 8},
		},
	}
}

// Shape25 is the plain 5x5 board.
func Shape25() Shape {
	return Shape{
		Name: "25",
		Offsets: [][]int{
			{10, 11, 12, 13, 14},
			{5, 6, 7, 8, 9},
			{0, 1, 2, 3, 4},
			{15, 16, 17, 18, 19},
			{20, 21, 22, 23, 24},
		},
	}
}

// Shape31 adds a triangle on the right joined to the square by the middle row.
func Shape31() Shape {
	return Shape{
		Name: "31",
		Offsets: [][]int{
			{13, 14, 15, 16, 17, -1, 18},
			{7, 8, 9, 10, 11, 12, -1},
			{0, 1, 2, 3, 4, 5, 6},
			{19, 20, 21, 22, 23, 24, -1},
			{25, 26, 27, 28, 29, -1, 30},
		},
		Link:   link31,
		Stride: stride31,
	}
}

// Shape33 is the traditional board: the square plus a wider triangle on the right.
func Shape33() Shape {
	return Shape{
		Name: "33",
		Offsets: [][]int{
			{14, 15, 16, 17, 18, -1, 19},
			{7, 8, 9, 10, 11, 12, 13},
			{0, 1, 2, 3, 4, 5, 6},
			{20, 21, 22, 23, 24, 25, 26},
			{27, 28, 29, 30, 31, -1, 32},
		},
		Link: link33,
	}
}

// link33 cuts the lines that would cross the concavity between the square
// and the triangle.
func link33(x1, y1, x2, y2 int) bool {
	if x1 == x2 || y1 == y2 {
		return !(y1 == y2 && y1 != 2 && max(x1, x2) == 5)
	}
	if x1 == 4 && x2 == 5 && (y1 == 0 || y1 == 4) {
		return false
	}
	if x1 == 5 && x2 == 4 && (y2 == 0 || y2 == 4) {
		return false
	}
	return true
}

func link31(x1, y1, x2, y2 int) bool {
	if y1 == y2 && x1+x2 == 11 {
		return false
	}
	if x1 != x2 && y1 != y2 {
		// The square has no long diagonals on this board.
		if (x1 == y1 && x2 == y2) || (x1 == 4-y1 && x2 == 4-y2) {
			return false
		}
	}
	return link33(x1, y1, x2, y2)
}

// stride31 makes column 6 a single vertical line through rows 0, 2 and 4.
func stride31(x, y, dx, dy int) (int, int) {
	if x == 6 && dx == 0 {
		return dx, dy * 2
	}
	return dx, dy
}
