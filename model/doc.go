// Package model defines the data types shared by every stage of the
// correlation engine.
//
// # Findings
//
// A [Finding] is one analytical observation about a document. Findings are
// produced by an external analyzer and arrive in a fixed global ordering:
// critical findings first, then warnings, each group in source order. The
// ordinal position is the finding's ID.
//
//	findings := model.Order(critical, warnings)
//	if err := model.ValidateFindings(findings); err != nil {
//	    // a *model.ValidationError describing the first bad finding
//	}
//
// [Severity] orders findings for conflict resolution: critical outranks
// warning.
//
// # Matches and Highlights
//
// A [CandidateMatch] ties a finding to the box of the first text fragment
// that satisfied one of its keywords. Candidates are deduplicated into
// [Highlight] values, the overlays shown on the page.
//
// # Geometry
//
// [Box] is a page-local box with a top-left origin, supporting proximity
// tests, union and zoom scaling.
package model
