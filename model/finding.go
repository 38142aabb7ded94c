package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFinding is wrapped by every ValidationError so callers can test
// for malformed findings with errors.Is.
var ErrInvalidFinding = errors.New("invalid finding")

// ValidationError describes why a finding was rejected before entering the
// correlation pipeline.
type ValidationError struct {
	FindingID int
	Field     string
	Reason    string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("finding %d: %s: %s", e.FindingID, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidFinding.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidFinding
}

// Finding is one analytical observation about the document.
//
// ID is the ordinal position of the finding in the global ordering: all
// critical findings first, then all warnings, each group in the order the
// analyzer produced them. Findings are immutable once built; Keywords is
// filled in by the engine when the analyzer did not supply any.
type Finding struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
	Keywords []string `json:"keywords,omitempty"`
}

// Validate checks that the finding carries the fields the pipeline relies on.
func (f Finding) Validate() error {
	if f.ID < 0 {
		return &ValidationError{FindingID: f.ID, Field: "id", Reason: "must not be negative"}
	}
	if strings.TrimSpace(f.Text) == "" {
		return &ValidationError{FindingID: f.ID, Field: "text", Reason: "is required"}
	}
	if f.Severity == "" {
		return &ValidationError{FindingID: f.ID, Field: "severity", Reason: "is required"}
	}
	if !f.Severity.IsValid() {
		return &ValidationError{FindingID: f.ID, Field: "severity", Reason: fmt.Sprintf("unknown value %q", f.Severity)}
	}
	return nil
}

// ValidateFindings validates a whole finding set. IDs must be unique and
// equal to the position of the finding in the slice, and every critical
// finding must precede every warning.
func ValidateFindings(findings []Finding) error {
	seenWarning := false
	for i, f := range findings {
		if err := f.Validate(); err != nil {
			return err
		}
		if f.ID != i {
			return &ValidationError{FindingID: f.ID, Field: "id", Reason: fmt.Sprintf("expected ordinal %d", i)}
		}
		switch f.Severity {
		case SeverityWarning:
			seenWarning = true
		case SeverityCritical:
			if seenWarning {
				return &ValidationError{FindingID: f.ID, Field: "severity", Reason: "critical finding after a warning"}
			}
		}
	}
	return nil
}

// Order concatenates critical findings and warnings into the global
// ordering, overwriting ID and Severity of each entry.
func Order(critical, warnings []Finding) []Finding {
	out := make([]Finding, 0, len(critical)+len(warnings))
	for _, f := range critical {
		f.ID = len(out)
		f.Severity = SeverityCritical
		out = append(out, f)
	}
	for _, f := range warnings {
		f.ID = len(out)
		f.Severity = SeverityWarning
		out = append(out, f)
	}
	return out
}
