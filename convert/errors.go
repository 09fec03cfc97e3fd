package convert

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrEmptyResult reports a conversion whose assembled solid has no
// usable volume: the stencil plate itself collapsed to zero area.
// Holes being dropped never triggers this; a plate with no holes is an
// unusual but valid stencil.
var ErrEmptyResult = errors.New("convert: result geometry is empty")

// WarningKind classifies non-fatal data-quality findings. The affected
// feature is skipped and the conversion continues.
type WarningKind int

const (
	// WarnDegenerateHole is a hole whose adjusted size collapsed to
	// nothing, typically from a large negative hole size increase.
	WarnDegenerateHole WarningKind = iota
	// WarnOutOfBoundsHole is a hole whose center lies outside the board
	// outline bounding box, usually misaligned input drawings.
	WarnOutOfBoundsHole
	// WarnOpenPasteChain is a stroked shape in the paste drawing whose
	// segments do not join into a closed boundary.
	WarnOpenPasteChain
	// WarnDiscardedLoop is a closed outline loop smaller than the outer
	// board edge, discarded as an artifact.
	WarnDiscardedLoop
)

func (k WarningKind) String() string {
	switch k {
	case WarnDegenerateHole:
		return "degenerate hole"
	case WarnOutOfBoundsHole:
		return "out-of-bounds hole"
	case WarnOpenPasteChain:
		return "open paste chain"
	case WarnDiscardedLoop:
		return "discarded outline loop"
	}
	return "warning"
}

// Warning is one non-fatal finding, carrying enough context to locate
// the feature in the source drawing.
type Warning struct {
	Kind  WarningKind
	Index int // source statement index, 0 when not applicable
	Pos   r2.Vec
}

func (w Warning) String() string {
	if w.Index > 0 {
		return fmt.Sprintf("%s at (%.3f, %.3f), statement %d", w.Kind, w.Pos.X, w.Pos.Y, w.Index)
	}
	return fmt.Sprintf("%s at (%.3f, %.3f)", w.Kind, w.Pos.X, w.Pos.Y)
}
