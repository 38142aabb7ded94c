package resolver

import (
	"sort"

	"github.com/tsawler/marginalia/model"
)

// DefaultEpsilon is the pixel tolerance under which two boxes count as the
// same on-page position.
const DefaultEpsilon = 10.0

// Result is the outcome of one resolution pass.
type Result struct {
	// Highlights holds at most one entry per distinct position.
	Highlights []model.Highlight

	// Suppressed lists, in ascending order, findings that produced a
	// candidate but lost their position to another finding.
	Suppressed []int
}

// HighlightedIDs returns the finding IDs that received a highlight, in
// ascending order.
func (r Result) HighlightedIDs() []int {
	ids := make([]int, len(r.Highlights))
	for i, h := range r.Highlights {
		ids[i] = h.FindingID
	}
	sort.Ints(ids)
	return ids
}

// Resolver deduplicates spatially overlapping candidates.
type Resolver struct {
	// Epsilon is the proximity tolerance in pixels. Zero means
	// DefaultEpsilon.
	Epsilon float64
}

// New creates a Resolver with the default epsilon.
func New() *Resolver {
	return &Resolver{Epsilon: DefaultEpsilon}
}

// Resolve deduplicates candidates using a default Resolver.
func Resolve(candidates []model.CandidateMatch) Result {
	return New().Resolve(candidates)
}

// Resolve turns candidates into the final highlight set.
//
// Candidates are processed in input order. A candidate whose box is not
// near any accepted highlight is accepted. Otherwise it replaces the
// highlight at that position only if its severity strictly outranks it;
// a tie or a downgrade is dropped. Either way the loser is recorded as
// suppressed.
//
// The input is not modified, and the same input always yields the same
// Result.
func (r *Resolver) Resolve(candidates []model.CandidateMatch) Result {
	eps := r.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	var res Result
	for _, c := range candidates {
		i := findNear(res.Highlights, c.Box, eps)
		switch {
		case i < 0:
			res.Highlights = append(res.Highlights, model.HighlightFromCandidate(c))
		case c.Severity.Outranks(res.Highlights[i].Severity):
			res.Suppressed = append(res.Suppressed, res.Highlights[i].FindingID)
			res.Highlights[i] = model.HighlightFromCandidate(c)
		default:
			res.Suppressed = append(res.Suppressed, c.FindingID)
		}
	}

	sort.Ints(res.Suppressed)
	return res
}

// findNear returns the index of the first highlight near box, or -1.
func findNear(highlights []model.Highlight, box model.Box, eps float64) int {
	for i, h := range highlights {
		if h.Box.Near(box, eps) {
			return i
		}
	}
	return -1
}
