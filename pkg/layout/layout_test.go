package layout

import (
	"errors"
	"math"
	"math/bits"
	"math/rand/v2"
	"testing"
)

// fixedSource returns the same value for every draw
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// seqSource replays values in order
type seqSource struct {
	vals []float64
	n    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.n%len(s.vals)]
	s.n++
	return v
}

func TestPositions_ExactCount(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for count := 0; count <= 200; count++ {
		got, err := Positions(800, 600, count, 1.5, rng)
		if err != nil {
			t.Fatalf("count %d: unexpected error: %v", count, err)
		}
		if len(got) != count {
			t.Errorf("count %d: expected %d positions, got %d", count, count, len(got))
		}
	}
}

func TestPositions_ZeroCount(t *testing.T) {
	testCases := []struct {
		name          string
		width, height float64
		stretch       float64
	}{
		{"normal canvas", 800, 600, 1.5},
		{"zero width", 0, 600, 1},
		{"negative height", 100, -1, 1},
		{"zero stretch", 100, 100, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Positions(tc.width, tc.height, 0, tc.stretch, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil slice, got %v", got)
			}
		})
	}
}

func TestPositions_InvalidArguments(t *testing.T) {
	testCases := []struct {
		name          string
		width, height float64
		count         int
		stretch       float64
	}{
		{"negative count", 100, 100, -1, 1},
		{"zero width", 0, 100, 4, 1},
		{"zero height", 100, 0, 4, 1},
		{"negative width", -10, 100, 4, 1},
		{"NaN height", 100, math.NaN(), 4, 1},
		{"infinite width", math.Inf(1), 100, 4, 1},
		{"zero stretch", 100, 100, 4, 0},
		{"negative stretch", 100, 100, 4, -1.5},
		{"count above MaxCount", 100, 100, MaxCount + 1, 1},
		{"max int count", 100, 100, math.MaxInt, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Positions(tc.width, tc.height, tc.count, tc.stretch, nil)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if got != nil {
				t.Errorf("expected no positions, got %v", got)
			}
		})
	}
}

func TestGrid_Minimal(t *testing.T) {
	for count := 1; count <= 500; count++ {
		cols, rows := Grid(count)
		if cols != int(math.Ceil(math.Sqrt(float64(count)))) {
			t.Errorf("count %d: cols = %d", count, cols)
		}
		if cols*rows < count {
			t.Errorf("count %d: grid %dx%d too small", count, cols, rows)
		}
		if (cols-1)*rows >= count && cols*(rows-1) >= count {
			t.Errorf("count %d: grid %dx%d has an empty row or column", count, cols, rows)
		}
	}

	if cols, rows := Grid(0); cols != 0 || rows != 0 {
		t.Errorf("Grid(0) = %d, %d; expected 0, 0", cols, rows)
	}
	if cols, rows := Grid(40); cols != 7 || rows != 6 {
		t.Errorf("Grid(40) = %d, %d; expected 7, 6", cols, rows)
	}

	for _, count := range []int{MaxCount, 1 << 40, math.MaxInt} {
		cols, rows := Grid(count)
		if cols <= 0 || rows <= 0 {
			t.Fatalf("Grid(%d) = %d, %d; expected a positive grid", count, cols, rows)
		}
		hi, lo := bits.Mul64(uint64(cols), uint64(rows))
		if hi == 0 && lo < uint64(count) {
			t.Errorf("Grid(%d) = %d, %d is too small", count, cols, rows)
		}
	}
}

func TestPositions_MaxCount(t *testing.T) {
	got, err := Positions(100, 100, MaxCount, 1, fixedSource(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != MaxCount {
		t.Errorf("expected %d positions, got %d", MaxCount, len(got))
	}
}

func TestPositions_ColumnMajorAnchors(t *testing.T) {
	// 0.5 cancels the jitter, leaving the bare anchors.
	got, err := Positions(400, 300, 5, 1, fixedSource(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// count 5 -> 3 cols x 2 rows, spacing 100 x 100; the last cell (3,2) is dropped.
	expected := []Position{
		{100, 100}, {100, 200},
		{200, 100}, {200, 200},
		{300, 100},
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d positions, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("position %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

func TestPositions_JitterBounds(t *testing.T) {
	const width, height = 800.0, 600.0
	rng := rand.New(rand.NewPCG(42, 7))

	for _, stretch := range []float64{0.5, 1, 1.5, 3} {
		for _, count := range []int{1, 2, 7, 40, 99} {
			got, err := Positions(width, height, count, stretch, rng)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			cols, rows := Grid(count)
			colSpacing, rowSpacing := Spacing(width, height, cols, rows, stretch)

			for k, p := range got {
				i, j := k/rows, k%rows
				ax := colSpacing * float64(i+1)
				ay := rowSpacing * float64(j+1)

				if math.Abs(p.X-ax) > colSpacing/4+1e-9 {
					t.Errorf("stretch %g count %d: x jitter %g exceeds %g", stretch, count, p.X-ax, colSpacing/4)
				}
				if math.Abs(p.Y-ay) > rowSpacing/4+1e-9 {
					t.Errorf("stretch %g count %d: y jitter %g exceeds %g", stretch, count, p.Y-ay, rowSpacing/4)
				}
				if stretch <= 1 && (ax <= 0 || ax >= width || ay <= 0 || ay >= height) {
					t.Errorf("stretch %g count %d: anchor (%g, %g) outside canvas", stretch, count, ax, ay)
				}
			}
		}
	}
}

func TestPositions_JitterExtremes(t *testing.T) {
	// Draws alternate x, y per cell: x gets 0, y gets just under 1.
	src := &seqSource{vals: []float64{0, 0.999999}}
	got, err := Positions(200, 200, 1, 1, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.n != 2 {
		t.Errorf("expected 2 draws for one cell, got %d", src.n)
	}

	// spacing 100 on both axes, jitter range +-25
	if got[0].X != 75 {
		t.Errorf("expected x = 75, got %g", got[0].X)
	}
	if got[0].Y < 124.99 || got[0].Y >= 125 {
		t.Errorf("expected y just below 125, got %g", got[0].Y)
	}
}

func TestPositions_DrawsFullGrid(t *testing.T) {
	// count 5 enumerates the whole 3x2 grid before truncating.
	src := &seqSource{vals: []float64{0.5}}
	if _, err := Positions(100, 100, 5, 1, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.n != 12 {
		t.Errorf("expected 12 draws, got %d", src.n)
	}
}

func TestPositions_Unclamped(t *testing.T) {
	got, err := Positions(100, 100, 4, 3, fixedSource(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2x2 grid, spacing 100 with stretch 3: the far anchors sit at 200.
	last := got[len(got)-1]
	if last.X != 200 || last.Y != 200 {
		t.Errorf("expected off-canvas anchor (200, 200), got %v", last)
	}
}

func TestPositions_SeededDeterminism(t *testing.T) {
	a, err := Positions(640, 480, 40, 1.5, rand.New(rand.NewPCG(9, 9)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Positions(640, 480, 40, 1.5, rand.New(rand.NewPCG(9, 9)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSeeded(t *testing.T) {
	a, b := Seeded(123), Seeded(123)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("Expected equal sequences for equal seeds")
		}
	}

	if Seeded(1).Float64() == Seeded(2).Float64() {
		t.Error("Expected different sequences for different seeds")
	}
}
