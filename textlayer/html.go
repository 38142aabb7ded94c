package textlayer

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/tsawler/marginalia/model"
)

// defaultFontSize is assumed for spans that carry no font-size.
const defaultFontSize = 10.0

// averageGlyphWidth estimates glyph width as a fraction of the font size
// when a span carries no explicit width.
const averageGlyphWidth = 0.5

// HTMLOptions configures parsing of an HTML text layer.
type HTMLOptions struct {
	// Scale is the zoom the markup was captured at. Coordinates are divided
	// by Scale so the resulting Document is measured at zoom 1.0.
	Scale float64
}

// DefaultHTMLOptions returns options for markup captured at zoom 1.0.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{Scale: 1}
}

// OpenHTML parses an HTML text layer file.
func OpenHTML(filename string, opts HTMLOptions) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseHTML(f, opts)
}

// ParseHTML parses a text layer rendered as HTML, in the shape produced by
// pdf.js and the viewers built on it: one container per page carrying a
// data-page-number attribute (or class "page"), holding absolutely
// positioned spans whose inline style gives left, top, width, height and
// font-size. Lengths may be pixels, percentages of the page size, or
// calc(var(--scale-factor)*Npx).
//
// Markup without page containers is read as a single page. Spans without a
// position are descended into, so wrapper spans such as pdf.js marked
// content do not hide their children. Whitespace-only spans are skipped.
func ParseHTML(r io.Reader, opts HTMLOptions) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	containers := findPageContainers(root)
	if len(containers) == 0 {
		containers = []*html.Node{root}
	}

	doc := NewDocument()
	for _, c := range containers {
		doc.AddPage(parseHTMLPage(c, scale))
	}
	return doc, nil
}

// findPageContainers returns page elements in document order without
// descending into a page once found.
func findPageContainers(n *html.Node) []*html.Node {
	var pages []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isPageContainer(n) {
			pages = append(pages, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return pages
}

func isPageContainer(n *html.Node) bool {
	if getAttr(n, "data-page-number") != "" {
		return true
	}
	return n.Data == "div" && hasClass(n, "page")
}

func parseHTMLPage(container *html.Node, scale float64) Page {
	var page Page

	style := parseStyle(getAttr(container, "style"))
	if w, ok := parseLength(style["width"], 0); ok {
		page.Width = w
	}
	if h, ok := parseLength(style["height"], 0); ok {
		page.Height = h
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if n.Data == "span" {
				if frag, positioned := parseSpan(n, page.Width, page.Height); positioned {
					if frag.Content != "" {
						page.Fragments = append(page.Fragments, frag)
					}
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(container)

	if scale != 1 {
		page.Width /= scale
		page.Height /= scale
		for i := range page.Fragments {
			page.Fragments[i] = page.Fragments[i].Scale(1 / scale)
		}
	}
	return page
}

// parseSpan reads a positioned span. The second result is false when the
// span has no left/top position.
func parseSpan(n *html.Node, pageWidth, pageHeight float64) (Fragment, bool) {
	style := parseStyle(getAttr(n, "style"))

	left, okLeft := parseLength(style["left"], pageWidth)
	top, okTop := parseLength(style["top"], pageHeight)
	if !okLeft || !okTop {
		return Fragment{}, false
	}

	content := getTextContent(n)

	fontSize, ok := parseLength(style["font-size"], pageHeight)
	if !ok || fontSize <= 0 {
		fontSize = defaultFontSize
	}

	width, ok := parseLength(style["width"], pageWidth)
	if !ok {
		width = fontSize * averageGlyphWidth * float64(utf8.RuneCountInString(content))
	}
	height, ok := parseLength(style["height"], pageHeight)
	if !ok {
		height = fontSize
	}

	return Fragment{
		Content: content,
		Box:     model.NewBox(left, top, width, height),
	}, true
}
