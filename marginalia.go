// Package marginalia places analyzer findings on the pages of the document
// they describe. Each finding's text is reduced to keywords, the keywords
// are searched in the page's text layer, and the first matching fragment
// becomes a highlight, with critical findings winning positions shared with
// warnings.
//
// Basic usage:
//
//	res, warnings, err := marginalia.Open("report.json").
//	    Layer("protocol.html").
//	    Correlate(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", marginalia.FormatWarnings(warnings))
//	}
//
// With options:
//
//	res, _, err := marginalia.Open("report.json").
//	    Layer("scan.hocr").
//	    WordLevel().
//	    Epsilon(6).
//	    Pages(1, 2).
//	    Correlate(ctx)
//
// Interactive hosts that render pages themselves use the controller
// package directly, or obtain a loaded controller with Controller.
package marginalia

import (
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/report"
)

// Open reads findings from an analyzer report file and returns an
// Annotator for fluent configuration. The report is read when a terminal
// operation runs.
//
// Example:
//
//	findings, _, err := marginalia.Open("report.json").Findings()
func Open(reportPath string) *Annotator {
	return &Annotator{
		reportPath: reportPath,
		options:    defaultOptions(),
	}
}

// FromReport creates an Annotator from an already decoded report.
//
// Example:
//
//	rep, err := report.Parse(resp.Body)
//	if err != nil {
//	    // handle error
//	}
//	res, _, err := marginalia.FromReport(rep).Source(host).Correlate(ctx)
func FromReport(rep *report.Report) *Annotator {
	return &Annotator{
		report:  rep,
		options: defaultOptions(),
	}
}

// FromFindings creates an Annotator from findings already in the global
// ordering: IDs equal to their position, critical findings first.
func FromFindings(findings ...model.Finding) *Annotator {
	return &Annotator{
		findings: append([]model.Finding{}, findings...),
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	opts := marginalia.Must(marginalia.LoadOptions("marginalia.yaml"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a call to Correlate or Findings and
// panics if the error is non-nil. It discards warnings and returns just the
// value.
//
// Example:
//
//	findings := marginalia.MustResult(marginalia.Open("report.json").Findings())
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
