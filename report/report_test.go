package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/marginalia/model"
)

const sampleReport = `{
  "success_probability": 55,
  "estimated_cost": "$120",
  "estimated_time": "Unknown",
  "critical_issues": [
    {"issue": "Incubation temperature", "description": "Incubate at 37°C for 30 minutes"},
    {"issue": "Missing control:", "description": "No \"negative control\" is described", "keywords": ["negative control"]}
  ],
  "warnings": [
    {"issue": "Centrifuge speed", "description": ""}
  ],
  "passed_checks": [{"check": "Reagents listed", "description": "All reagents have suppliers"}],
  "suggestions": ["Add a timeline"]
}`

func TestParseAndFindings(t *testing.T) {
	rep, err := Parse(strings.NewReader(sampleReport))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	findings, err := rep.Findings()
	if err != nil {
		t.Fatalf("Findings failed: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}

	want := []struct {
		text     string
		severity model.Severity
	}{
		{"Incubation temperature. Incubate at 37°C for 30 minutes", model.SeverityCritical},
		{`Missing control: No "negative control" is described`, model.SeverityCritical},
		{"Centrifuge speed", model.SeverityWarning},
	}
	for i, w := range want {
		f := findings[i]
		if f.ID != i || f.Text != w.text || f.Severity != w.severity {
			t.Errorf("findings[%d] = %+v, want text %q severity %s", i, f, w.text, w.severity)
		}
	}
	if len(findings[1].Keywords) != 1 || findings[1].Keywords[0] != "negative control" {
		t.Errorf("Keywords = %q", findings[1].Keywords)
	}
}

func TestFindingsRejectsEmptyIssue(t *testing.T) {
	rep := &Report{Warnings: []Issue{{Issue: " ", Description: ""}}}

	_, err := rep.Findings()
	if !errors.Is(err, model.ErrInvalidFinding) {
		t.Fatalf("expected ErrInvalidFinding, got %v", err)
	}
}

func TestIssueLookup(t *testing.T) {
	rep, err := Parse(strings.NewReader(sampleReport))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	is, sev, ok := rep.Issue(2)
	if !ok || sev != model.SeverityWarning || is.Issue != "Centrifuge speed" {
		t.Errorf("Issue(2) = %+v, %s, %v", is, sev, ok)
	}
	if _, _, ok := rep.Issue(3); ok {
		t.Error("expected Issue(3) to be absent")
	}
	if _, _, ok := rep.Issue(-1); ok {
		t.Error("expected Issue(-1) to be absent")
	}
}

func TestEstimatesAndBand(t *testing.T) {
	rep, err := Parse(strings.NewReader(sampleReport))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !rep.HasCost() {
		t.Error("expected cost estimate")
	}
	if rep.HasTime() {
		t.Error("Unknown time should not count as an estimate")
	}

	tests := []struct {
		p    float64
		want Band
	}{
		{90, BandGood},
		{70, BandGood},
		{69.9, BandModerate},
		{40, BandModerate},
		{10, BandPoor},
	}
	for _, tt := range tests {
		r := Report{SuccessProbability: tt.p}
		if got := r.Band(); got != tt.want {
			t.Errorf("Band(%v) = %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := Open("does-not-exist.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
