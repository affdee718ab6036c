package geometry

import (
	"fmt"
	"strings"
)

// Rect describes a rectangular region in physical screen pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Area returns the rectangle's area in square pixels.
func (r Rect) Area() int {
	w := r.Width
	h := r.Height
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w * h
}

// Quadrant identifies one of the four screen quadrants, or the full work area.
type Quadrant string

const (
	TopLeft     Quadrant = "TL"
	TopRight    Quadrant = "TR"
	BottomLeft  Quadrant = "BL"
	BottomRight Quadrant = "BR"
	Full        Quadrant = "FULL"
)

// Quadrants lists the four rotating placement targets in schedule order.
var Quadrants = []Quadrant{TopLeft, TopRight, BottomLeft, BottomRight}

// ParseQuadrant maps a user-facing label to a Quadrant. Both the short
// codes and spelled-out forms are accepted, case-insensitively.
func ParseQuadrant(s string) (Quadrant, error) {
	switch strings.ToLower(s) {
	case "tl", "top-left", "topleft":
		return TopLeft, nil
	case "tr", "top-right", "topright":
		return TopRight, nil
	case "bl", "bottom-left", "bottomleft":
		return BottomLeft, nil
	case "br", "bottom-right", "bottomright":
		return BottomRight, nil
	case "full", "max":
		return Full, nil
	}
	return Full, fmt.Errorf("unknown quadrant %q", s)
}

// Next returns the quadrant that follows q in the rotating schedule
// (TL → TR → BL → BR → TL). Full maps to TopLeft.
func (q Quadrant) Next() Quadrant {
	for i, cur := range Quadrants {
		if cur == q {
			return Quadrants[(i+1)%len(Quadrants)]
		}
	}
	return TopLeft
}

// QuadrantRect computes the target rectangle for a quadrant within the given
// work area. The work area is first shrunk on all sides by
// max(8, edgeMarginRatio*min(W,H)) pixels, then split into four equal halves.
// Within the selected quadrant the result is shrunk by fillRatio and
// centered, so a small gap survives even as fillRatio approaches 1.0.
// Full returns the margin-shrunk area with the same fill treatment.
func QuadrantRect(work Rect, q Quadrant, fillRatio, edgeMarginRatio float64) Rect {
	l, t := work.X, work.Y
	w, h := work.Width, work.Height

	outer := int(edgeMarginRatio * float64(min(w, h)))
	if outer < 8 {
		outer = 8
	}
	l += outer
	t += outer
	w -= 2 * outer
	h -= 2 * outer
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	halfW, halfH := w/2, h/2

	var cell Rect
	switch q {
	case TopLeft:
		cell = Rect{X: l, Y: t, Width: halfW, Height: halfH}
	case TopRight:
		cell = Rect{X: l + halfW, Y: t, Width: halfW, Height: halfH}
	case BottomLeft:
		cell = Rect{X: l, Y: t + halfH, Width: halfW, Height: halfH}
	case BottomRight:
		cell = Rect{X: l + halfW, Y: t + halfH, Width: halfW, Height: halfH}
	default:
		cell = Rect{X: l, Y: t, Width: w, Height: h}
	}

	targetW := int(float64(cell.Width) * fillRatio)
	targetH := int(float64(cell.Height) * fillRatio)
	return Rect{
		X:      cell.X + (cell.Width-targetW)/2,
		Y:      cell.Y + (cell.Height-targetH)/2,
		Width:  targetW,
		Height: targetH,
	}
}

// ClampToWorkArea shifts r so it lies fully inside work without resizing it.
// A rectangle larger than the work area ends up with its bottom-right edge
// aligned to the work-area edge; size is always preserved. The operation is
// idempotent.
func ClampToWorkArea(work, r Rect) Rect {
	right := work.X + work.Width
	bottom := work.Y + work.Height

	if r.X < work.X {
		r.X = work.X
	}
	if r.Y < work.Y {
		r.Y = work.Y
	}
	if r.X+r.Width > right {
		r.X = right - r.Width
	}
	if r.Y+r.Height > bottom {
		r.Y = bottom - r.Height
	}
	return r
}
