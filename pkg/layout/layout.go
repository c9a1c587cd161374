// Package layout places watermark anchors on a jittered near-square grid.
package layout

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// MaxCount is the largest number of anchors Positions will lay out
const MaxCount = 1 << 20

// globalSource draws from the goroutine-safe top-level generator
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Seeded returns a generator whose jitter sequence is fixed by seed.
// It is not safe for concurrent use.
func Seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Grid returns the near-square grid used for count watermarks.
// cols*rows is always >= count, and no column or row is left empty.
func Grid(count int) (cols, rows int) {
	if count <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(count))))
	rows = count / cols
	if count%cols != 0 {
		rows++
	}
	return cols, rows
}

// Spacing returns the distance between neighbouring anchors on each axis.
// Dividing by cols+1 and rows+1 leaves a margin on both edges before the
// stretch factor is applied.
func Spacing(width, height float64, cols, rows int, stretch float64) (colSpacing, rowSpacing float64) {
	colSpacing = width / float64(cols+1) * stretch
	rowSpacing = height / float64(rows+1) * stretch
	return colSpacing, rowSpacing
}

// Positions returns exactly count jittered anchors for a width x height canvas.
//
// The full cols*rows grid is enumerated column by column, each anchor is
// offset by up to a quarter of the spacing on each axis, and the result is
// truncated to count. Anchors are not clamped to the canvas, so a stretch
// above 1 may place them off-canvas. A nil src uses the process-wide
// generator.
func Positions(width, height float64, count int, stretch float64, src Source) ([]Position, error) {
	if count == 0 {
		return []Position{}, nil
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, count)
	}
	if count > MaxCount {
		return nil, fmt.Errorf("%w: count %d exceeds %d", ErrInvalidArgument, count, MaxCount)
	}
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("%w: canvas size %gx%g", ErrInvalidArgument, width, height)
	}
	if !(stretch > 0) || math.IsInf(stretch, 0) {
		return nil, fmt.Errorf("%w: stretch factor %g", ErrInvalidArgument, stretch)
	}
	if src == nil {
		src = globalSource{}
	}

	cols, rows := Grid(count)
	colSpacing, rowSpacing := Spacing(width, height, cols, rows, stretch)

	positions := make([]Position, 0, cols*rows)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			x := colSpacing*float64(i+1) + (src.Float64()-0.5)*(colSpacing/2)
			y := rowSpacing*float64(j+1) + (src.Float64()-0.5)*(rowSpacing/2)
			positions = append(positions, Position{X: x, Y: y})
		}
	}

	return positions[:count:count], nil
}
