package model

import "fmt"

// Severity is the urgency of a finding.
type Severity string

const (
	// SeverityCritical marks findings that will likely cause the documented
	// procedure to fail.
	SeverityCritical Severity = "critical"

	// SeverityWarning marks findings that should be improved but are not
	// expected to cause failure on their own.
	SeverityWarning Severity = "warning"
)

// severityRanks orders severities for conflict resolution. Higher wins.
var severityRanks = map[Severity]int{
	SeverityCritical: 2,
	SeverityWarning:  1,
}

// IsValid returns true if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// Rank returns the priority of the severity. Unknown severities rank 0.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// Outranks reports whether s has strictly higher priority than other.
func (s Severity) Outranks(other Severity) bool {
	return s.Rank() > other.Rank()
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity value.
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %q", s)
	}
	return severity, nil
}
