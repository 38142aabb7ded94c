package model

// CandidateMatch is a provisional correlation between a finding and a text
// fragment, produced by one recomputation pass and discarded after
// conflict resolution.
type CandidateMatch struct {
	FindingID int
	Box       Box
	Severity  Severity
	Keyword   string // keyword that satisfied the fragment, as extracted
}

// Highlight is a finalized overlay bound to exactly one finding on the
// current page.
type Highlight struct {
	FindingID int      `json:"finding_id"`
	Box       Box      `json:"box"`
	Severity  Severity `json:"severity"`
}

// HighlightFromCandidate converts an accepted candidate into a Highlight.
func HighlightFromCandidate(c CandidateMatch) Highlight {
	return Highlight{
		FindingID: c.FindingID,
		Box:       c.Box,
		Severity:  c.Severity,
	}
}
