package textlayer

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotReady is returned by a Source while the requested page is still
	// being laid out. Callers treat it as "no text layer for this pass".
	ErrNotReady = errors.New("text layer not ready")

	// ErrPageOutOfRange is returned for page numbers outside [1, PageCount].
	ErrPageOutOfRange = errors.New("page out of range")
)

// Source is the rendering host capability the engine consumes: it exposes
// the text fragments of page n rendered at a given zoom.
type Source interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// Fragments returns the fragments of the 1-indexed page at zoom, in
	// document order, with boxes in page-local pixels at that zoom.
	Fragments(ctx context.Context, page int, zoom float64) ([]Fragment, error)
}

// Page holds the text layer of a single page measured at zoom 1.0.
type Page struct {
	Number    int
	Width     float64
	Height    float64
	Fragments []Fragment
}

// Document is an in-memory, multi-page text layer measured at zoom 1.0.
// It implements Source by scaling boxes on read. Parsers in this package
// return a Document; hosts and tests can also build one directly.
type Document struct {
	pages []Page
}

// NewDocument creates a Document from pages. Pages are renumbered 1..n in
// the order given.
func NewDocument(pages ...Page) *Document {
	d := &Document{pages: make([]Page, 0, len(pages))}
	for _, p := range pages {
		d.AddPage(p)
	}
	return d
}

// AddPage appends a page, numbering it after the current last page.
func (d *Document) AddPage(p Page) {
	p.Number = len(d.pages) + 1
	p.Fragments = append([]Fragment(nil), p.Fragments...)
	d.pages = append(d.pages, p)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the 1-indexed page.
func (d *Document) Page(n int) (Page, error) {
	if n < 1 || n > len(d.pages) {
		return Page{}, fmt.Errorf("page %d of %d: %w", n, len(d.pages), ErrPageOutOfRange)
	}
	return d.pages[n-1], nil
}

// Fragments implements Source.
func (d *Document) Fragments(ctx context.Context, page int, zoom float64) ([]Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := d.Page(page)
	if err != nil {
		return nil, err
	}
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		return nil, fmt.Errorf("invalid zoom %v", zoom)
	}

	out := make([]Fragment, len(p.Fragments))
	for i, f := range p.Fragments {
		out[i] = f.Scale(zoom)
	}
	return out, nil
}

// Load fetches page at zoom from src and wraps the result in an Index.
func Load(ctx context.Context, src Source, page int, zoom float64) (*Index, error) {
	fragments, err := src.Fragments(ctx, page, zoom)
	if err != nil {
		return nil, err
	}
	return NewIndex(page, zoom, fragments), nil
}
