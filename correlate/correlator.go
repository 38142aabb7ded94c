package correlate

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/marginalia/keywords"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/textlayer"
)

// DefaultMinKeywordLength is the rune length a keyword must exceed to be
// tested against fragments.
const DefaultMinKeywordLength = 3

// Correlator matches findings against the text fragments of one page.
type Correlator struct {
	// MinKeywordLength is the length a keyword must exceed, in runes after
	// folding. Short keywords such as numbers or units alone match almost
	// any fragment. Zero means DefaultMinKeywordLength.
	MinKeywordLength int

	// Extractor derives keywords for findings that carry none.
	Extractor *keywords.Extractor
}

// New creates a Correlator with the default keyword length and extractor.
func New() *Correlator {
	return &Correlator{
		MinKeywordLength: DefaultMinKeywordLength,
		Extractor:        keywords.New(keywords.DefaultConfig()),
	}
}

// Correlate matches findings against fragments using a default Correlator.
func Correlate(findings []model.Finding, fragments []textlayer.Fragment) []model.CandidateMatch {
	return New().Correlate(findings, fragments)
}

// Correlate returns at most one CandidateMatch per finding.
//
// For each finding, independently, fragments are scanned in document order.
// Within a fragment the finding's keywords are tried in order, each as a
// case-insensitive substring of the fragment content. The first fragment
// that satisfies any keyword yields the candidate, carrying that fragment's
// box and the keyword that matched, and the scan for that finding stops.
// A finding with no satisfying fragment yields nothing.
//
// Candidates are returned in finding order, which the conflict resolver
// relies on.
func (c *Correlator) Correlate(findings []model.Finding, fragments []textlayer.Fragment) []model.CandidateMatch {
	if len(findings) == 0 || len(fragments) == 0 {
		return nil
	}

	// Fold every fragment once per pass rather than once per finding.
	contents := make([]string, len(fragments))
	for i, f := range fragments {
		contents[i] = keywords.Fold(f.Content)
	}

	var candidates []model.CandidateMatch
	for _, finding := range findings {
		terms := c.terms(finding)
		if len(terms) == 0 {
			continue
		}

		if i, kw, ok := firstMatch(contents, terms); ok {
			candidates = append(candidates, model.CandidateMatch{
				FindingID: finding.ID,
				Box:       fragments[i].Box,
				Severity:  finding.Severity,
				Keyword:   kw,
			})
		}
	}
	return candidates
}

// term is a keyword as extracted next to its folded form.
type term struct {
	keyword string
	folded  string
}

// terms returns the finding's usable keywords in order. Keywords not
// exceeding the minimum length are dropped.
func (c *Correlator) terms(f model.Finding) []term {
	kws := f.Keywords
	if len(kws) == 0 {
		ext := c.Extractor
		if ext == nil {
			ext = keywords.New(keywords.DefaultConfig())
		}
		kws = ext.Extract(f.Text)
	}

	minLen := c.MinKeywordLength
	if minLen <= 0 {
		minLen = DefaultMinKeywordLength
	}

	out := make([]term, 0, len(kws))
	for _, kw := range kws {
		folded := keywords.Fold(kw)
		if utf8.RuneCountInString(folded) <= minLen {
			continue
		}
		out = append(out, term{keyword: kw, folded: folded})
	}
	return out
}

// firstMatch returns the index of the first content satisfying any term,
// and the term that satisfied it.
func firstMatch(contents []string, terms []term) (int, string, bool) {
	for i, content := range contents {
		for _, t := range terms {
			if strings.Contains(content, t.folded) {
				return i, t.keyword, true
			}
		}
	}
	return -1, "", false
}
