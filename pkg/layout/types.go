package layout

import "errors"

// ErrInvalidArgument is returned for grid parameters that have no defined spacing
var ErrInvalidArgument = errors.New("invalid argument")

// Position is a watermark anchor in surface pixel space
type Position struct {
	X, Y float64
}

// Source supplies uniform values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}
