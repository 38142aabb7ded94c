// Package correlate matches findings against the rendered text fragments of
// a page.
//
// The policy is "first match wins": each finding produces at most one
// [model.CandidateMatch] per pass, bound to the first fragment in document
// order that contains one of the finding's keywords. A keyword common to
// many fragments therefore highlights one place, not all of them.
//
//	candidates := correlate.Correlate(findings, fragments)
//
// Keywords of three runes or fewer are never matched. Cost is
// O(findings × fragments × keywords), bounded by one page of text and one
// report of findings.
package correlate
