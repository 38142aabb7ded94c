package marginalia

import (
	"sort"

	"github.com/tsawler/marginalia/controller"
	"github.com/tsawler/marginalia/model"
)

// PageResult holds the highlights computed for one page.
type PageResult struct {
	Page int `json:"page"`

	// Available is false when the page's text layer could not be produced.
	Available bool `json:"available"`

	// Fragments is the number of text fragments on the page.
	Fragments int `json:"fragments"`

	Overlays []controller.Overlay  `json:"overlays"`
	Report   controller.PageReport `json:"-"`
}

// Result is the outcome of correlating findings across a document.
type Result struct {
	Findings []model.Finding `json:"findings"`
	Pages    []PageResult    `json:"pages"`

	// Visible lists findings highlighted on at least one page.
	Visible []int `json:"visible"`

	// Suppressed lists findings that matched somewhere but were never
	// highlighted because another finding held the position.
	Suppressed []int `json:"suppressed"`

	// NotVisible lists findings that matched nothing on any page.
	NotVisible []int `json:"not_visible"`
}

// Page returns the result for page n, if it was correlated.
func (r *Result) Page(n int) (PageResult, bool) {
	for _, p := range r.Pages {
		if p.Page == n {
			return p, true
		}
	}
	return PageResult{}, false
}

// PagesOf returns the pages on which finding id is highlighted.
func (r *Result) PagesOf(id int) []int {
	var pages []int
	for _, p := range r.Pages {
		for _, o := range p.Overlays {
			if o.FindingID == id {
				pages = append(pages, p.Page)
				break
			}
		}
	}
	return pages
}

// summarize derives the document-wide visibility lists from the pages.
func (r *Result) summarize() {
	visible := make(map[int]bool)
	suppressed := make(map[int]bool)
	for _, p := range r.Pages {
		for _, id := range p.Report.Highlighted {
			visible[id] = true
		}
		for _, id := range p.Report.Suppressed {
			suppressed[id] = true
		}
	}

	r.Visible, r.Suppressed, r.NotVisible = nil, nil, nil
	for _, f := range r.Findings {
		switch {
		case visible[f.ID]:
			r.Visible = append(r.Visible, f.ID)
		case suppressed[f.ID]:
			r.Suppressed = append(r.Suppressed, f.ID)
		default:
			r.NotVisible = append(r.NotVisible, f.ID)
		}
	}
	sort.Ints(r.Visible)
	sort.Ints(r.Suppressed)
	sort.Ints(r.NotVisible)
}
