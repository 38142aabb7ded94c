package textlayer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/marginalia/model"
)

// Level selects the granularity of fragments built from OCR output.
type Level int

const (
	// LevelLine emits one fragment per text line, the closest match to the
	// spans of a rendered text layer.
	LevelLine Level = iota

	// LevelWord emits one fragment per recognized word.
	LevelWord
)

// String returns the name of the level.
func (l Level) String() string {
	switch l {
	case LevelWord:
		return "word"
	default:
		return "line"
	}
}

// ParseLevel parses "line" or "word".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line":
		return LevelLine, nil
	case "word":
		return LevelWord, nil
	default:
		return LevelLine, fmt.Errorf("unknown level %q", s)
	}
}

// HOCROptions configures parsing of hOCR documents.
type HOCROptions struct {
	Level Level

	// Scale is the number of hOCR pixels per text-layer pixel at zoom 1.0.
	// A 300 DPI scan mapped onto a 72 DPI page uses 300.0/72.
	Scale float64

	// MinConfidence drops words whose x_wconf is below it (0-100).
	MinConfidence float64
}

// DefaultHOCROptions returns line-level parsing at scale 1 with no
// confidence filter.
func DefaultHOCROptions() HOCROptions {
	return HOCROptions{Level: LevelLine, Scale: 1}
}

// OpenHOCR parses an hOCR file.
func OpenHOCR(filename string, opts HOCROptions) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseHOCR(f, opts)
}

// ParseHOCR parses hOCR markup: ocr_page elements holding ocr_line (or
// ocrx_line) elements holding ocrx_word elements, each with a
// "bbox x0 y0 x1 y1" entry in its title attribute. Markup without ocr_page
// elements is read as a single page.
func ParseHOCR(r io.Reader, opts HOCROptions) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	pages := findByClass(root, "ocr_page")
	if len(pages) == 0 {
		pages = []*html.Node{root}
	}

	doc := NewDocument()
	for _, p := range pages {
		page := Page{}
		if box, ok := titleBBox(p); ok {
			page.Width = box.Width / scale
			page.Height = box.Height / scale
		}

		for _, line := range findLines(p) {
			words := hocrWords(line, opts.MinConfidence)
			switch opts.Level {
			case LevelWord:
				for _, w := range words {
					page.Fragments = append(page.Fragments, w.Scale(1/scale))
				}
			default:
				if frag, ok := joinWords(words); ok {
					page.Fragments = append(page.Fragments, frag.Scale(1/scale))
				}
			}
		}
		doc.AddPage(page)
	}
	return doc, nil
}

// findByClass returns elements carrying class in document order without
// descending into matches.
func findByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findLines returns the line elements of a page. Tesseract emits
// ocr_line, ocr_caption, ocr_header and ocr_textfloat for lines;
// ocrx_line is used by other engines.
func findLines(page *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, c := range []string{"ocr_line", "ocrx_line", "ocr_caption", "ocr_header", "ocr_textfloat"} {
				if hasClass(n, c) {
					out = append(out, n)
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(page)
	return out
}

func hocrWords(line *html.Node, minConfidence float64) []Fragment {
	var words []Fragment
	for _, w := range findByClass(line, "ocrx_word") {
		box, ok := titleBBox(w)
		if !ok {
			continue
		}
		if minConfidence > 0 {
			if conf, ok := titleFloat(w, "x_wconf"); ok && conf < minConfidence {
				continue
			}
		}
		content := getTextContent(w)
		if content == "" {
			continue
		}
		words = append(words, Fragment{Content: content, Box: box})
	}
	return words
}

// joinWords merges the words of a line into one fragment.
func joinWords(words []Fragment) (Fragment, bool) {
	if len(words) == 0 {
		return Fragment{}, false
	}
	parts := make([]string, len(words))
	var box model.Box
	for i, w := range words {
		parts[i] = w.Content
		box = box.Union(w.Box)
	}
	return Fragment{Content: strings.Join(parts, " "), Box: box}, true
}

// titleBBox reads "bbox x0 y0 x1 y1" from an hOCR title attribute.
func titleBBox(n *html.Node) (model.Box, bool) {
	fields := titleProperty(n, "bbox")
	if len(fields) != 4 {
		return model.Box{}, false
	}
	var c [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Box{}, false
		}
		c[i] = v
	}
	return model.NewBoxFromCorners(c[0], c[1], c[2], c[3]), true
}

func titleFloat(n *html.Node, key string) (float64, bool) {
	fields := titleProperty(n, key)
	if len(fields) != 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	return v, err == nil
}

// titleProperty returns the whitespace-separated arguments of key in an
// hOCR title such as `bbox 10 20 30 40; x_wconf 93`.
func titleProperty(n *html.Node, key string) []string {
	for _, prop := range strings.Split(getAttr(n, "title"), ";") {
		fields := strings.Fields(prop)
		if len(fields) > 0 && fields[0] == key {
			return fields[1:]
		}
	}
	return nil
}
