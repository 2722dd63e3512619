package game

// Player is the side to move. Its value is the turn bit stored in a Board.
type Player int

const (
	Hunted   Player = 0 // the single piece, marked X
	Blockers Player = 1 // the pieces trying to immobilize it, marked o
)

const (
	HuntedMarker  = 'X'
	BlockerMarker = 'o'
	EmptyMarker   = '.'
	FillerMarker  = ' ' // pads non-cells in the rectangular text form
)

func (p Player) Other() Player {
	return 1 - p
}

func (p Player) Marker() byte {
	if p == Hunted {
		return HuntedMarker
	}
	return BlockerMarker
}

func (p Player) String() string {
	if p == Hunted {
		return "hunted"
	}
	return "blockers"
}

// Outcome is the terminal verdict of a position, if any.
type Outcome int

const (
	Unknown     Outcome = 0
	BlockersWin Outcome = 1
)
