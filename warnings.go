package marginalia

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal issue found during a run.
type WarningKind int

const (
	// WarningEmptyPage means a page produced no text fragments.
	WarningEmptyPage WarningKind = iota
	// WarningUnmatchable means every keyword of a finding is too short to
	// ever match.
	WarningUnmatchable
	// WarningNotVisible means a finding matched nothing on any page.
	WarningNotVisible
	// WarningTextLayer means a page's text layer could not be produced.
	WarningTextLayer
)

// String returns a short name for the kind.
func (k WarningKind) String() string {
	switch k {
	case WarningEmptyPage:
		return "empty page"
	case WarningUnmatchable:
		return "unmatchable finding"
	case WarningNotVisible:
		return "not visible"
	case WarningTextLayer:
		return "text layer"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue: the run succeeded but some findings or
// pages could not be placed.
type Warning struct {
	Kind    WarningKind
	Page    int // 0 when not page specific
	Finding int // -1 when not finding specific
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Kind.String())
	if w.Page > 0 {
		fmt.Fprintf(&b, " (page %d)", w.Page)
	}
	if w.Finding >= 0 {
		fmt.Fprintf(&b, " (issue #%d)", w.Finding+1)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}

// FormatWarnings joins warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
