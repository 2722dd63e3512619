package game

import "fmt"

// Variant selects where the blockers may trap the hunted piece.
type Variant int

const (
	CaptureAnywhere  Variant = iota // immobilized on any cell
	CaptureAnyCorner                // one of the four corners of the square
	CaptureCorner                   // the corner (0, 0) only
	CaptureAt10                     // the cell (1, 0) only
	CaptureAt20                     // the cell (2, 0) only
)

var Variants = []Variant{CaptureAnywhere, CaptureAnyCorner, CaptureCorner, CaptureAt10, CaptureAt20}

type Rules interface {
	Variant() Variant
	// Traps reports whether immobilizing the hunted piece on pos wins for the blockers.
	Traps(pos int) bool
	// Symmetric reports whether positions may be folded by the board reflection.
	Symmetric() bool
}

// The reflection fold is a property of each variant, not derived from the trap zone.
var symmetricVariants = map[Variant]bool{
	CaptureAnywhere:  true,
	CaptureAnyCorner: true,
	CaptureCorner:    false,
	CaptureAt10:      false,
	CaptureAt20:      false,
}

func (v Variant) Valid() bool {
	_, ok := symmetricVariants[v]
	return ok
}

func (v Variant) String() string {
	switch v {
	case CaptureAnywhere:
		return "anywhere"
	case CaptureAnyCorner:
		return "any-corner"
	case CaptureCorner:
		return "corner"
	case CaptureAt10:
		return "cell-1-0"
	case CaptureAt20:
		return "cell-2-0"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}
