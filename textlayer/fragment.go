package textlayer

import (
	"strings"

	"github.com/tsawler/marginalia/model"
)

// Fragment is one positioned piece of rendered text on a page. Box is
// page-local, top-left origin, at the zoom the fragment was produced for.
type Fragment struct {
	Content string    `json:"content"`
	Box     model.Box `json:"box"`
}

// Scale returns a copy of the fragment with its box scaled by factor.
func (f Fragment) Scale(factor float64) Fragment {
	return Fragment{Content: f.Content, Box: f.Box.Scale(factor)}
}

// Index is the ordered list of fragments of one rendered page. Fragment
// order is document order as supplied by the rendering host and is never
// changed by the engine.
type Index struct {
	Page      int
	Zoom      float64
	fragments []Fragment
}

// NewIndex creates an Index over a copy of fragments.
func NewIndex(page int, zoom float64, fragments []Fragment) *Index {
	return &Index{
		Page:      page,
		Zoom:      zoom,
		fragments: append([]Fragment(nil), fragments...),
	}
}

// Fragments returns the fragments in document order.
// The returned slice must not be modified.
func (ix *Index) Fragments() []Fragment {
	if ix == nil {
		return nil
	}
	return ix.fragments
}

// Len returns the number of fragments.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.fragments)
}

// IsEmpty reports whether the page has no text layer content.
func (ix *Index) IsEmpty() bool {
	return ix.Len() == 0
}

// Text joins the content of every fragment with single spaces.
func (ix *Index) Text() string {
	parts := make([]string, 0, ix.Len())
	for _, f := range ix.Fragments() {
		parts = append(parts, f.Content)
	}
	return strings.Join(parts, " ")
}

// Bounds returns the union of every fragment box.
func (ix *Index) Bounds() model.Box {
	var b model.Box
	for _, f := range ix.Fragments() {
		b = b.Union(f.Box)
	}
	return b
}
