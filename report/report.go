// Package report reads analyzer reports and turns their issues into findings.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/marginalia/model"
)

// unknown is the placeholder the analyzer uses for estimates it could not
// produce.
const unknown = "Unknown"

// Issue is one critical issue or warning as produced by the analyzer.
type Issue struct {
	Issue       string   `json:"issue"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Text returns the text used for keyword extraction: the issue title and
// its description joined as one sentence pair.
func (i Issue) Text() string {
	title := strings.TrimSpace(i.Issue)
	desc := strings.TrimSpace(i.Description)
	switch {
	case title == "":
		return desc
	case desc == "":
		return title
	case strings.HasSuffix(title, ".") || strings.HasSuffix(title, ":"):
		return title + " " + desc
	default:
		return title + ". " + desc
	}
}

// Check is an aspect of the document the analyzer judged well designed.
type Check struct {
	Check       string `json:"check"`
	Description string `json:"description"`
}

// Report is the analyzer output for one document. Only the issue lists
// feed the correlation engine; the remaining fields are carried for the UI.
type Report struct {
	SuccessProbability float64  `json:"success_probability"`
	EstimatedCost      string   `json:"estimated_cost,omitempty"`
	EstimatedTime      string   `json:"estimated_time,omitempty"`
	CriticalIssues     []Issue  `json:"critical_issues"`
	Warnings           []Issue  `json:"warnings"`
	PassedChecks       []Check  `json:"passed_checks,omitempty"`
	Suggestions        []string `json:"suggestions,omitempty"`
}

// Open reads a report from a JSON file.
func Open(filename string) (*Report, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a report from JSON.
func Parse(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &rep, nil
}

// Findings returns the report's issues as findings in the global ordering:
// critical issues first, then warnings, each in report order. The finding
// ID is its position in that ordering. Every finding is validated; the
// first malformed one is returned as a *model.ValidationError.
func (r *Report) Findings() ([]model.Finding, error) {
	toFindings := func(issues []Issue) []model.Finding {
		out := make([]model.Finding, len(issues))
		for i, is := range issues {
			out[i] = model.Finding{
				Text:     is.Text(),
				Keywords: append([]string(nil), is.Keywords...),
			}
		}
		return out
	}

	findings := model.Order(toFindings(r.CriticalIssues), toFindings(r.Warnings))
	if err := model.ValidateFindings(findings); err != nil {
		return nil, err
	}
	return findings, nil
}

// Issue returns the analyzer issue behind finding id.
func (r *Report) Issue(id int) (Issue, model.Severity, bool) {
	switch {
	case id < 0:
		return Issue{}, "", false
	case id < len(r.CriticalIssues):
		return r.CriticalIssues[id], model.SeverityCritical, true
	case id < len(r.CriticalIssues)+len(r.Warnings):
		return r.Warnings[id-len(r.CriticalIssues)], model.SeverityWarning, true
	default:
		return Issue{}, "", false
	}
}

// HasCost reports whether the analyzer produced a cost estimate.
func (r *Report) HasCost() bool {
	return r.EstimatedCost != "" && r.EstimatedCost != unknown
}

// HasTime reports whether the analyzer produced a time estimate.
func (r *Report) HasTime() bool {
	return r.EstimatedTime != "" && r.EstimatedTime != unknown
}

// Band is a coarse reading of the success probability.
type Band string

const (
	BandGood     Band = "Good"
	BandModerate Band = "Moderate"
	BandPoor     Band = "Poor"
)

// Band classifies the success probability: 70 and above is good, 40 and
// above moderate, anything lower poor.
func (r *Report) Band() Band {
	switch {
	case r.SuccessProbability >= 70:
		return BandGood
	case r.SuccessProbability >= 40:
		return BandModerate
	default:
		return BandPoor
	}
}
