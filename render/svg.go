package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"musashi/game"
)

const (
	DefaultGrid  = 50
	huntedRadius = 10
	blockRadius  = 5
)

type options struct {
	grid     int
	value    byte
	hasValue bool
}

type Option func(o *options)

func WithGrid(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.grid = size
		}
	}
}

// WithValue prints the table value of the position under the board.
func WithValue(value byte) Option {
	return func(o *options) {
		o.value = value
		o.hasValue = true
	}
}

// Board draws the lines of the board and its pieces as an SVG document.
func Board(w io.Writer, b game.Board, opts ...Option) error {
	o := options{grid: DefaultGrid}
	for _, opt := range opts {
		opt(&o)
	}

	t := b.Topology()
	margin := o.grid / 2
	width := t.Width() * o.grid
	height := t.Height()*o.grid + o.grid
	at := func(pos int) (int, int) {
		x, y := t.XY(pos)
		return margin + x*o.grid, margin + y*o.grid
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	for pos := range t.Size() {
		x1, y1 := at(pos)
		for n := range t.Neighbors(pos).All() {
			if n < pos {
				continue
			}
			x2, y2 := at(n)
			canvas.Line(x1, y1, x2, y2, "stroke:black;stroke-width:1")
		}
	}

	for pos := range b.Blockers().All() {
		x, y := at(pos)
		canvas.Circle(x, y, blockRadius, "fill:brown")
	}
	x, y := at(b.HuntedPos())
	canvas.Circle(x, y, huntedRadius, "fill:black")

	caption := fmt.Sprintf("%s to move", b.Turn())
	if o.hasValue {
		caption += fmt.Sprintf(", value %d", o.value)
	}
	canvas.Text(margin, height-margin/2, caption, "font-family:sans-serif;font-size:12px")
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("failed to write svg: %w", ew.err)
	}
	return nil
}

// errWriter keeps the first error; svgo does not report write failures.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
