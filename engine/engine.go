package engine

import (
	"musashi/game"
	"musashi/meta"
)

const MaxMoves = meta.MAX_MOVES

// Child is a position reachable in one ply together with its table value.
type Child struct {
	Board game.Board
	Value byte
}

// Line is a perfect-play sequence starting at the analyzed position.
type Line []Child

// Replayer plays out a position from a finished table.
type Replayer interface {
	// Run follows perfect play until the position is decided or no longer resolved.
	Run(b game.Board) (Line, error)
}
