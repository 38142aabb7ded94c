package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const testReport = `{
  "success_probability": 62,
  "critical_issues": [
    {"issue": "Incubation temperature", "description": "Incubate at 37°C for 30 minutes"}
  ],
  "warnings": [
    {"issue": "Incubation step", "description": "No control for the incubate step", "keywords": ["incubate"]},
    {"issue": "Vortex time", "description": "Vortex duration not stated"},
    {"issue": "Sterile technique", "description": "Autoclave waste"}
  ]
}`

const testLayer = `<!DOCTYPE html>
<html><body>
<div class="page" data-page-number="1" style="width:612px;height:792px">
  <div class="textLayer">
    <span style="left:72px;top:90px;width:200px;height:12px">Step 1: Incubate samples at 37°C</span>
    <span style="left:72px;top:200px;width:200px;height:12px">Centrifuge at 4000 rpm for 10 min</span>
  </div>
</div>
<div class="page" data-page-number="2" style="width:612px;height:792px">
  <div class="textLayer">
    <span style="left:72px;top:90px;width:150px;height:12px">Step 4: Vortex briefly</span>
  </div>
</div>
<div class="page" data-page-number="3" style="width:612px;height:792px"></div>
</body></html>`

type output struct {
	Pages []struct {
		Page     int `json:"page"`
		Overlays []struct {
			FindingID int `json:"finding_id"`
			Box       struct {
				Left float64 `json:"left"`
				Top  float64 `json:"top"`
			} `json:"box"`
			Title string `json:"title"`
		} `json:"overlays"`
	} `json:"pages"`
	Visible    []int    `json:"visible"`
	Suppressed []int    `json:"suppressed"`
	NotVisible []int    `json:"not_visible"`
	Warnings   []string `json:"warnings"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// run executes the command line with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("MARGINALIA_LOG_LEVEL", "")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decode(t *testing.T, data []byte) output {
	t.Helper()
	var out output
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, data)
	}
	return out
}

// ============================================================================
// correlate
// ============================================================================

func TestCorrelateCommand(t *testing.T) {
	dir := t.TempDir()
	rep := writeFile(t, dir, "report.json", testReport)
	layer := writeFile(t, dir, "layer.html", testLayer)

	stdout, stderr, err := run(t, "correlate", "--report", rep, "--layer", layer)
	if err != nil {
		t.Fatalf("correlate failed: %v\n%s", err, stderr)
	}

	out := decode(t, []byte(stdout))
	if !reflect.DeepEqual(out.Visible, []int{0, 2}) {
		t.Errorf("visible = %v, want [0 2]", out.Visible)
	}
	if !reflect.DeepEqual(out.Suppressed, []int{1}) {
		t.Errorf("suppressed = %v, want [1]", out.Suppressed)
	}
	if !reflect.DeepEqual(out.NotVisible, []int{3}) {
		t.Errorf("not_visible = %v, want [3]", out.NotVisible)
	}
	if len(out.Pages) != 3 || len(out.Pages[0].Overlays) != 1 {
		t.Fatalf("pages = %+v", out.Pages)
	}
	if got := out.Pages[0].Overlays[0].Title; !strings.HasPrefix(got, "Issue #1: ") {
		t.Errorf("title = %q", got)
	}

	want := []string{
		"empty page (page 3): page has no text layer fragments",
		"not visible (issue #4): not visible in this document",
	}
	if !reflect.DeepEqual(out.Warnings, want) {
		t.Errorf("warnings = %q, want %q", out.Warnings, want)
	}
	if !strings.Contains(stderr, "correlation finished") {
		t.Errorf("expected a summary log line, got %q", stderr)
	}
}

func TestCorrelateCommandFlags(t *testing.T) {
	dir := t.TempDir()
	rep := writeFile(t, dir, "report.json", testReport)
	layer := writeFile(t, dir, "layer.txt", testLayer)
	dest := filepath.Join(dir, "out.json")

	stdout, stderr, err := run(t, "correlate",
		"-r", rep, "-l", layer, "--format", "html",
		"--page", "2", "--zoom", "1", "-o", dest, "--log-level", "error")
	if err != nil {
		t.Fatalf("correlate failed: %v\n%s", err, stderr)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout with -o, got %q", stdout)
	}
	if stderr != "" {
		t.Errorf("expected no logs at error level, got %q", stderr)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	out := decode(t, data)
	if len(out.Pages) != 1 || out.Pages[0].Page != 2 {
		t.Fatalf("pages = %+v, want only page 2", out.Pages)
	}
	o := out.Pages[0].Overlays
	if len(o) != 1 || o[0].FindingID != 2 || o[0].Box.Left != 72 || o[0].Box.Top != 90 {
		t.Errorf("overlays = %+v", o)
	}
}

func TestCorrelateCommandConfig(t *testing.T) {
	dir := t.TempDir()
	rep := writeFile(t, dir, "report.json", testReport)
	layer := writeFile(t, dir, "layer.html", testLayer)
	cfg := writeFile(t, dir, "marginalia.yaml", "default_zoom: 1.0\nlog_level: error\n")

	stdout, stderr, err := run(t, "--config", cfg, "correlate", "-r", rep, "-l", layer, "-p", "1")
	if err != nil {
		t.Fatalf("correlate failed: %v\n%s", err, stderr)
	}
	out := decode(t, []byte(stdout))
	if len(out.Pages) != 1 || len(out.Pages[0].Overlays) != 1 {
		t.Fatalf("pages = %+v", out.Pages)
	}
	if b := out.Pages[0].Overlays[0].Box; b.Left != 72 || b.Top != 90 {
		t.Errorf("box = %+v, want 72,90 at zoom 1.0", b)
	}
}

func TestCorrelateCommandErrors(t *testing.T) {
	dir := t.TempDir()
	rep := writeFile(t, dir, "report.json", testReport)
	layer := writeFile(t, dir, "layer.html", testLayer)
	badCfg := writeFile(t, dir, "bad.yaml", "epsilon: -1\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no report", []string{"correlate", "-l", layer}, "--report is required"},
		{"no layer", []string{"correlate", "-r", rep}, "--layer or --images"},
		{"bad format", []string{"correlate", "-r", rep, "-l", layer, "--format", "png"}, "not a text layer format"},
		{"page out of range", []string{"correlate", "-r", rep, "-l", layer, "-p", "9"}, "out of range"},
		{"missing report", []string{"correlate", "-r", filepath.Join(dir, "nope.json"), "-l", layer}, "opening report"},
		{"bad config", []string{"--config", badCfg, "correlate", "-r", rep, "-l", layer}, "epsilon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

// ============================================================================
// keywords
// ============================================================================

func TestKeywordsCommandText(t *testing.T) {
	stdout, stderr, err := run(t, "keywords", "Incubate at 37°C for 30 minutes", "wash wash WASH")
	if err != nil {
		t.Fatalf("keywords failed: %v\n%s", err, stderr)
	}

	want := "#1 [warning] Incubate at 37°C for 30 minutes\n" +
		"    keywords: 37°c, 30 minutes, 37, 30, incubate, minutes\n" +
		"#2 [warning] wash wash WASH\n" +
		"    keywords: wash\n"
	if stdout != want {
		t.Errorf("output = %q, want %q", stdout, want)
	}
}

func TestKeywordsCommandReport(t *testing.T) {
	rep := writeFile(t, t.TempDir(), "report.json", testReport)

	stdout, stderr, err := run(t, "keywords", "--report", rep, "--json")
	if err != nil {
		t.Fatalf("keywords failed: %v\n%s", err, stderr)
	}

	var findings []struct {
		ID       int      `json:"id"`
		Severity string   `json:"severity"`
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(stdout), &findings); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(findings) != 4 {
		t.Fatalf("expected 4 findings, got %d", len(findings))
	}
	if findings[0].Severity != "critical" || findings[1].Severity != "warning" {
		t.Errorf("severities = %q, %q", findings[0].Severity, findings[1].Severity)
	}
	if !reflect.DeepEqual(findings[1].Keywords, []string{"incubate"}) {
		t.Errorf("analyzer keywords not kept: %q", findings[1].Keywords)
	}
}

func TestKeywordsCommandErrors(t *testing.T) {
	rep := writeFile(t, t.TempDir(), "report.json", testReport)

	if _, _, err := run(t, "keywords"); err == nil {
		t.Error("expected an error without input")
	}
	if _, _, err := run(t, "keywords", "--report", rep, "some text"); err == nil {
		t.Error("expected an error with both inputs")
	}
}

// ============================================================================
// pages
// ============================================================================

func TestPagesCommand(t *testing.T) {
	layer := writeFile(t, t.TempDir(), "layer.html", testLayer)

	stdout, stderr, err := run(t, "pages", "--layer", layer)
	if err != nil {
		t.Fatalf("pages failed: %v\n%s", err, stderr)
	}

	for _, want := range []string{
		"3 pages",
		"page 1 (2 fragments) text within [72.0,90.0 200.0x122.0]",
		"[72.0,90.0 200.0x12.0] Step 1: Incubate samples at 37°C",
		"page 3 (0 fragments)",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestPagesCommandJSON(t *testing.T) {
	layer := writeFile(t, t.TempDir(), "layer.html", testLayer)

	stdout, stderr, err := run(t, "pages", "-l", layer, "-p", "2", "--zoom", "2", "--json")
	if err != nil {
		t.Fatalf("pages failed: %v\n%s", err, stderr)
	}

	var out struct {
		PageCount int `json:"page_count"`
		Pages     []struct {
			Page   int `json:"page"`
			Bounds struct {
				Left  float64 `json:"left"`
				Width float64 `json:"width"`
			} `json:"bounds"`
			Text      string `json:"text"`
			Fragments []struct {
				Content string `json:"content"`
				Box     struct {
					Left float64 `json:"left"`
				} `json:"box"`
			} `json:"fragments"`
		} `json:"pages"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if out.PageCount != 3 || len(out.Pages) != 1 || out.Pages[0].Page != 2 {
		t.Fatalf("output = %+v", out)
	}
	fr := out.Pages[0].Fragments
	if len(fr) != 1 || fr[0].Content != "Step 4: Vortex briefly" || fr[0].Box.Left != 144 {
		t.Errorf("fragments = %+v", fr)
	}
	p := out.Pages[0]
	if p.Text != "Step 4: Vortex briefly" || p.Bounds.Left != 144 || p.Bounds.Width != 300 {
		t.Errorf("page text = %q, bounds = %+v", p.Text, p.Bounds)
	}
}

func TestPagesCommandRequiresLayer(t *testing.T) {
	if _, _, err := run(t, "pages"); err == nil {
		t.Error("expected an error without a layer")
	}
}
