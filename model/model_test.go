package model

import (
	"errors"
	"testing"
)

// ============================================================================
// Box Tests
// ============================================================================

func TestNewBoxFromCorners(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           Box
	}{
		{"normal", 10, 20, 50, 70, Box{10, 20, 40, 50}},
		{"reversed", 50, 70, 10, 20, Box{10, 20, 40, 50}},
		{"degenerate", 10, 10, 10, 10, Box{10, 10, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBoxFromCorners(tt.x0, tt.y0, tt.x1, tt.y1)
			if got != tt.want {
				t.Errorf("NewBoxFromCorners() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoxEdges(t *testing.T) {
	b := NewBox(10, 20, 100, 50)

	if b.Right() != 110 {
		t.Errorf("Right() = %v, want 110", b.Right())
	}
	if b.Bottom() != 70 {
		t.Errorf("Bottom() = %v, want 70", b.Bottom())
	}
}

func TestBoxNear(t *testing.T) {
	base := NewBox(100, 200, 80, 12)

	tests := []struct {
		name  string
		other Box
		want  bool
	}{
		{"identical", base, true},
		{"sub-pixel jitter", NewBox(100.4, 199.7, 80, 12), true},
		{"different width same corner", NewBox(101, 201, 300, 14), true},
		{"just inside epsilon", NewBox(109.9, 209.9, 10, 10), true},
		{"exactly epsilon left", NewBox(110, 200, 80, 12), false},
		{"exactly epsilon top", NewBox(100, 190, 80, 12), false},
		{"next line", NewBox(100, 215, 80, 12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Near(tt.other, 10); got != tt.want {
				t.Errorf("Near() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Near(base, 10); got != tt.want {
				t.Errorf("Near() not symmetric: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxUnion(t *testing.T) {
	a := NewBox(10, 10, 20, 10)
	b := NewBox(40, 5, 10, 30)

	got := a.Union(b)
	want := Box{Left: 10, Top: 5, Width: 40, Height: 30}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}

	if got := (Box{}).Union(a); got != a {
		t.Errorf("empty.Union(a) = %+v, want %+v", got, a)
	}
}

func TestBoxScale(t *testing.T) {
	b := NewBox(10, 20, 30, 40)

	if got, want := b.Scale(1.5), (Box{15, 30, 45, 60}); got != want {
		t.Errorf("Scale() = %+v, want %+v", got, want)
	}
}

func TestBoxIsEmpty(t *testing.T) {
	if !(Box{Width: 0, Height: 5}).IsEmpty() {
		t.Error("zero-width box should be empty")
	}
	if NewBox(0, 0, 1, 1).IsEmpty() {
		t.Error("unit box should not be empty")
	}
}

// ============================================================================
// Severity Tests
// ============================================================================

func TestSeverityOrdering(t *testing.T) {
	if !SeverityCritical.Outranks(SeverityWarning) {
		t.Error("critical should outrank warning")
	}
	if SeverityWarning.Outranks(SeverityCritical) {
		t.Error("warning should not outrank critical")
	}
	if SeverityCritical.Outranks(SeverityCritical) {
		t.Error("a severity should not outrank itself")
	}
}

func TestParseSeverity(t *testing.T) {
	if s, err := ParseSeverity("critical"); err != nil || s != SeverityCritical {
		t.Errorf("ParseSeverity(critical) = %q, %v", s, err)
	}
	if _, err := ParseSeverity("info"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

// ============================================================================
// Finding Tests
// ============================================================================

func TestFindingValidate(t *testing.T) {
	tests := []struct {
		name    string
		finding Finding
		field   string
	}{
		{"valid", Finding{ID: 0, Text: "Incubate at 37°C", Severity: SeverityCritical}, ""},
		{"missing text", Finding{ID: 1, Text: "  ", Severity: SeverityWarning}, "text"},
		{"missing severity", Finding{ID: 2, Text: "x"}, "severity"},
		{"unknown severity", Finding{ID: 3, Text: "x", Severity: "info"}, "severity"},
		{"negative id", Finding{ID: -1, Text: "x", Severity: SeverityWarning}, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.finding.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalidFinding) {
				t.Error("expected error to wrap ErrInvalidFinding")
			}
		})
	}
}

func TestOrderAndValidateFindings(t *testing.T) {
	findings := Order(
		[]Finding{{Text: "c1"}, {Text: "c2"}},
		[]Finding{{Text: "w1"}},
	)

	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}
	for i, f := range findings {
		if f.ID != i {
			t.Errorf("findings[%d].ID = %d", i, f.ID)
		}
	}
	if findings[2].Severity != SeverityWarning {
		t.Errorf("expected last finding to be a warning, got %s", findings[2].Severity)
	}
	if err := ValidateFindings(findings); err != nil {
		t.Fatalf("ValidateFindings() = %v", err)
	}

	swapped := []Finding{
		{ID: 0, Text: "w", Severity: SeverityWarning},
		{ID: 1, Text: "c", Severity: SeverityCritical},
	}
	if err := ValidateFindings(swapped); err == nil {
		t.Error("expected error for critical after warning")
	}

	gap := []Finding{{ID: 1, Text: "c", Severity: SeverityCritical}}
	if err := ValidateFindings(gap); err == nil {
		t.Error("expected error for non-ordinal id")
	}
}
