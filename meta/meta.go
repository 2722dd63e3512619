// meta/meta.go
package meta

// GO_ROUTINES defines the default number of solver workers.
const GO_ROUTINES = 8

// BLOCK_SIZE is the number of table indices a worker owns at a time. It must
// stay a multiple of 64 so that workers never share a word.
const BLOCK_SIZE = 0x10000

// MAX_PLY caps the solve; values are stored in one byte.
const MAX_PLY = 255

// BOARD_SIZE is the board solved when none is given.
const BOARD_SIZE = 25

// OUTPUT_DIR holds snapshots and the merged table.
const OUTPUT_DIR = "tables"

// MAX_MOVES bounds a replayed line.
const MAX_MOVES = 300
