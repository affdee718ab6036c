package geometry

import "testing"

func TestQuadrantRects_NonOverlappingAndCoverShrunkArea(t *testing.T) {
	work := Rect{X: 0, Y: 0, Width: 1920, Height: 1040}

	// fillRatio 1.0 so quadrant cells are exact halves of the shrunk area.
	rects := make(map[Quadrant]Rect)
	for _, q := range Quadrants {
		rects[q] = QuadrantRect(work, q, 1.0, 0.01)
	}

	// Pairwise non-overlapping.
	for i, qa := range Quadrants {
		for _, qb := range Quadrants[i+1:] {
			a, b := rects[qa], rects[qb]
			if a.X < b.X+b.Width && b.X < a.X+a.Width &&
				a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
				t.Fatalf("quadrants %s and %s overlap: %+v vs %+v", qa, qb, a, b)
			}
		}
	}

	// Union reconstructs the shrunk work area within rounding tolerance.
	full := QuadrantRect(work, Full, 1.0, 0.01)
	var area int
	for _, r := range rects {
		area += r.Area()
	}
	if diff := full.Area() - area; diff < 0 || diff > full.Width+full.Height {
		t.Fatalf("quadrant areas sum to %d, full shrunk area is %d", area, full.Area())
	}
}

func TestQuadrantRect_EdgeMarginFloor(t *testing.T) {
	work := Rect{X: 0, Y: 0, Width: 400, Height: 300}

	// 0.001 * 300 < 8, so the 8px floor applies.
	r := QuadrantRect(work, TopLeft, 1.0, 0.001)
	if r.X != 8 || r.Y != 8 {
		t.Fatalf("expected 8px margin floor, got origin (%d,%d)", r.X, r.Y)
	}
}

func TestQuadrantRect_FillRatioPreservesGap(t *testing.T) {
	work := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	full := QuadrantRect(work, TopLeft, 1.0, 0.01)
	filled := QuadrantRect(work, TopLeft, 0.9, 0.01)

	if filled.Width >= full.Width || filled.Height >= full.Height {
		t.Fatalf("fill ratio did not shrink: %+v vs %+v", filled, full)
	}
	// Shrunk rect stays centered within the cell.
	if filled.X <= full.X || filled.Y <= full.Y {
		t.Fatalf("fill ratio shrink is not centered: %+v vs %+v", filled, full)
	}
}

func TestClampToWorkArea_ShiftsWithoutResizing(t *testing.T) {
	work := Rect{X: 0, Y: 0, Width: 1000, Height: 800}

	r := ClampToWorkArea(work, Rect{X: 900, Y: 700, Width: 300, Height: 200})
	if r.Width != 300 || r.Height != 200 {
		t.Fatalf("clamp resized the rectangle: %+v", r)
	}
	if r.X != 700 || r.Y != 600 {
		t.Fatalf("expected shift to (700,600), got (%d,%d)", r.X, r.Y)
	}

	r = ClampToWorkArea(work, Rect{X: -50, Y: -20, Width: 300, Height: 200})
	if r.X != 0 || r.Y != 0 {
		t.Fatalf("expected shift to origin, got (%d,%d)", r.X, r.Y)
	}
}

func TestClampToWorkArea_Idempotent(t *testing.T) {
	work := Rect{X: 10, Y: 10, Width: 1900, Height: 1060}
	cases := []Rect{
		{X: 500, Y: 400, Width: 300, Height: 200},
		{X: 1900, Y: 1000, Width: 300, Height: 200},
		{X: -100, Y: -100, Width: 2500, Height: 1500}, // larger than work area
	}

	for _, c := range cases {
		once := ClampToWorkArea(work, c)
		twice := ClampToWorkArea(work, once)
		if once != twice {
			t.Fatalf("clamp not idempotent for %+v: %+v then %+v", c, once, twice)
		}
	}
}

func TestClampToWorkArea_OversizedAlignsBottomRight(t *testing.T) {
	work := Rect{X: 0, Y: 0, Width: 1000, Height: 800}

	r := ClampToWorkArea(work, Rect{X: 0, Y: 0, Width: 1200, Height: 900})
	if r.X+r.Width != 1000 || r.Y+r.Height != 800 {
		t.Fatalf("oversized rect bottom-right not aligned to work area: %+v", r)
	}
	if r.Width != 1200 || r.Height != 900 {
		t.Fatalf("oversized rect was resized: %+v", r)
	}
}

func TestParseQuadrant(t *testing.T) {
	cases := map[string]Quadrant{
		"TL":           TopLeft,
		"top-right":    TopRight,
		"BottomLeft":   BottomLeft,
		"br":           BottomRight,
		"FULL":         Full,
		"max":          Full,
	}
	for in, want := range cases {
		got, err := ParseQuadrant(in)
		if err != nil {
			t.Fatalf("ParseQuadrant(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseQuadrant(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseQuadrant("middle"); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestQuadrantNext_Rotation(t *testing.T) {
	order := []Quadrant{TopLeft, TopRight, BottomLeft, BottomRight, TopLeft}
	for i := 0; i < len(order)-1; i++ {
		if got := order[i].Next(); got != order[i+1] {
			t.Fatalf("Next(%s) = %s, want %s", order[i], got, order[i+1])
		}
	}
	if Full.Next() != TopLeft {
		t.Fatalf("Full.Next() should restart the rotation at TopLeft")
	}
}
