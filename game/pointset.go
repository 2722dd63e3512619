package game

import (
	"iter"
	"math/bits"
)

// PointSet is a set of cell indices packed into one word.
// Operating on an index >= 64 is undefined.
type PointSet uint64

func NewPointSet(points ...int) PointSet {
	var ps PointSet
	for _, p := range points {
		ps |= 1 << uint(p)
	}
	return ps
}

func (ps PointSet) Size() int {
	return bits.OnesCount64(uint64(ps))
}

func (ps PointSet) Test(pos int) bool {
	return ps&(1<<uint(pos)) != 0
}

func (ps PointSet) Empty() bool {
	return ps == 0
}

func (ps PointSet) And(other PointSet) PointSet {
	return ps & other
}

func (ps PointSet) Or(other PointSet) PointSet {
	return ps | other
}

func (ps PointSet) Not() PointSet {
	return ^ps
}

// Iter returns an iterator over the set in ascending order.
func (ps PointSet) Iter() PointSetIterator {
	return PointSetIterator{rest: uint64(ps)}
}

// All yields the cell indices in ascending order.
func (ps PointSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := ps.Iter()
		for pos, ok := it.Next(); ok; pos, ok = it.Next() {
			if !yield(pos) {
				return
			}
		}
	}
}

func (ps PointSet) Points() []int {
	points := make([]int, 0, ps.Size())
	for pos := range ps.All() {
		points = append(points, pos)
	}
	return points
}

// PointSetIterator pops the lowest set bit on every call to Next.
// It is a value: copying it forks the iteration.
type PointSetIterator struct {
	rest uint64
}

func (it *PointSetIterator) Next() (int, bool) {
	if it.rest == 0 {
		return 0, false
	}
	pos := bits.TrailingZeros64(it.rest)
	it.rest &= it.rest - 1 // clear lowest bit
	return pos, true
}

func (it PointSetIterator) Empty() bool {
	return it.rest == 0
}
