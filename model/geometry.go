package model

import "math"

// Box is a bounding box in page-local coordinates. The origin is the
// top-left corner of the rendered page and Y grows downwards, which is how
// rendering hosts lay out text layers.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBox creates a box from its top-left corner and dimensions
func NewBox(left, top, width, height float64) Box {
	return Box{Left: left, Top: top, Width: width, Height: height}
}

// NewBoxFromCorners creates a box from two opposite corners
func NewBoxFromCorners(x0, y0, x1, y1 float64) Box {
	return Box{
		Left:   math.Min(x0, x1),
		Top:    math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

// Right returns the right edge X coordinate
func (b Box) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b Box) Bottom() float64 {
	return b.Top + b.Height
}

// Near reports whether two boxes occupy the same on-page position: both the
// left and the top edges differ by strictly less than epsilon. Width and
// height are ignored, so sub-pixel jitter in the text layer and fragments
// of different length that start at the same spot collapse together.
func (b Box) Near(other Box, epsilon float64) bool {
	return math.Abs(b.Left-other.Left) < epsilon &&
		math.Abs(b.Top-other.Top) < epsilon
}

// Union returns the smallest box containing both boxes. An empty receiver
// yields other unchanged, which lets callers fold a slice starting from Box{}.
func (b Box) Union(other Box) Box {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}

	left := math.Min(b.Left, other.Left)
	top := math.Min(b.Top, other.Top)
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return Box{
		Left:   left,
		Top:    top,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Scale multiplies every coordinate by factor. Text layers scale linearly
// with zoom, so a box measured at zoom 1.0 becomes the box at zoom z via
// Scale(z).
func (b Box) Scale(factor float64) Box {
	return Box{
		Left:   b.Left * factor,
		Top:    b.Top * factor,
		Width:  b.Width * factor,
		Height: b.Height * factor,
	}
}

// IsEmpty returns true if the box has zero area
func (b Box) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}
