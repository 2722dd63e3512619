package game

import "fmt"

type StandardRules struct {
	variant   Variant
	zone      PointSet
	symmetric bool
}

// NewStandardRules returns the rules where an immobilized hunted piece always loses.
func NewStandardRules(t *Topology) *StandardRules {
	rules, err := NewVariantRules(t, CaptureAnywhere)
	if err != nil {
		panic(err)
	}
	return rules
}

func NewVariantRules(t *Topology, variant Variant) (*StandardRules, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("unknown capture variant %d", int(variant))
	}

	// Corners are those of the square part of the board.
	side := t.Height() - 1
	var cells [][2]int
	switch variant {
	case CaptureAnywhere:
		return &StandardRules{
			variant:   variant,
			zone:      PointSet(1<<uint(t.Size()) - 1),
			symmetric: symmetricVariants[variant],
		}, nil
	case CaptureAnyCorner:
		cells = [][2]int{{0, 0}, {side, 0}, {0, side}, {side, side}}
	case CaptureCorner:
		cells = [][2]int{{0, 0}}
	case CaptureAt10:
		cells = [][2]int{{1, 0}}
	case CaptureAt20:
		cells = [][2]int{{2, 0}}
	}

	var zone PointSet
	for _, c := range cells {
		if !t.HasPoint(c[0], c[1]) {
			return nil, fmt.Errorf("capture variant %s needs cell (%d, %d) on board %s", variant, c[0], c[1], t.Name())
		}
		zone |= NewPointSet(t.ToPos(c[0], c[1]))
	}
	return &StandardRules{
		variant:   variant,
		zone:      zone,
		symmetric: symmetricVariants[variant],
	}, nil
}

func (r *StandardRules) Variant() Variant {
	return r.variant
}

func (r *StandardRules) Traps(pos int) bool {
	return r.zone.Test(pos)
}

func (r *StandardRules) Symmetric() bool {
	return r.symmetric
}

// Zone returns the cells where a trapped hunted piece loses.
func (r *StandardRules) Zone() PointSet {
	return r.zone
}
