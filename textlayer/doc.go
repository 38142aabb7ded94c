// Package textlayer models the rendered text of a paginated document: the
// ordered, positioned fragments a rendering host exposes for each page.
//
// # Sources
//
// The engine consumes text through the [Source] interface, so the
// correlator can run against a browser viewer, an OCR pass or a synthetic
// fragment list alike:
//
//	frags, err := src.Fragments(ctx, page, zoom)
//
// A [Document] is an in-memory Source measured at zoom 1.0; it scales
// boxes on read. Documents can be built directly or parsed:
//
//   - [ParseHTML] - pdf.js style text layer markup (positioned spans)
//   - [ParseHOCR] - hOCR output from Tesseract and other OCR engines
//   - [FromImages] - page rasters recognized through the ocr package
//
// # Index
//
// An [Index] wraps the fragments of one page at one zoom. Fragment order is
// document order and is preserved, since the correlator's first-match
// policy depends on it.
//
// # Errors
//
// [ErrNotReady] signals that a page is still being laid out. Callers treat
// it as "no text layer for this pass" rather than a failure.
package textlayer
