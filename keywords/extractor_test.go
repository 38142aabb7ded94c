package keywords

import (
	"reflect"
	"testing"
)

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func TestExtractPolicyOrder(t *testing.T) {
	got := Extract(`Incubate at 37°C for 30 minutes in "PBS buffer"`)
	want := []string{"PBS buffer", "37°c", "30 minutes", "37", "30", "incubate", "minutes", "buffer"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestExtractQuotedPhrases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"straight quotes", `Replace "Tris-HCl" with "HEPES"`, []string{"Tris-HCl", "HEPES"}},
		{"typographic quotes", "The step “Spin Down” is ambiguous", []string{"Spin Down"}},
		{"case preserved", `Use "DMSO" not dmso`, []string{"DMSO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			for i, w := range tt.want {
				if i >= len(got) || got[i] != w {
					t.Fatalf("Extract() = %q, want prefix %q", got, tt.want)
				}
			}
		})
	}
}

func TestExtractMeasurements(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Centrifuge at 4000 rpm", "4000 rpm"},
		{"Add 2.5 ml of media", "2.5 ml"},
		{"Add 10µl of enzyme", "10μl"},
		{"Use 5 mM MgCl2", "5 mm"},
		{"Heat to 95 ℃", "95 °c"},
		{"Wait 2 hours", "2 hours"},
		{"Weigh 3g of agar", "3g"},
		{"Read at 450nm", "450nm"},
		{"Incubate 30 minutes", "30 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Extract(tt.text)
			if !contains(got, tt.want) {
				t.Errorf("Extract(%q) = %q, want it to contain %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractMeasurementNeedsUnitBoundary(t *testing.T) {
	got := Extract("Use 5 mice per group")
	if contains(got, "5 m") {
		t.Errorf("Extract() = %q, should not read \"5 mice\" as a measurement", got)
	}
	if !contains(got, "5") {
		t.Errorf("Extract() = %q, want bare integer 5", got)
	}
}

func TestExtractBareIntegers(t *testing.T) {
	got := Extract("Repeat step 12 three times, see table 4")

	for _, n := range []string{"12", "4"} {
		if !contains(got, n) {
			t.Errorf("Extract() = %q, want it to contain %q", got, n)
		}
	}
	if indexOf(got, "12") > indexOf(got, "repeat") {
		t.Errorf("integers should precede generic tokens: %q", got)
	}
}

func TestExtractGenericTokens(t *testing.T) {
	got := Extract("These samples should be stored, frozen; and labelled!")

	for _, w := range []string{"samples", "stored", "frozen", "labelled"} {
		if !contains(got, w) {
			t.Errorf("Extract() = %q, want %q", got, w)
		}
	}
	for _, w := range []string{"these", "should", "be", "and"} {
		if contains(got, w) {
			t.Errorf("Extract() = %q, stop word %q should be dropped", got, w)
		}
	}
}

func TestExtractDropsShortTokens(t *testing.T) {
	got := Extract("add the dye now")
	if len(got) != 0 {
		t.Errorf("Extract() = %q, want no keywords", got)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	got := Extract("wash wash WASH")
	if !reflect.DeepEqual(got, []string{"wash"}) {
		t.Errorf("Extract() = %q, want [wash]", got)
	}
}

func TestExtractDeterministic(t *testing.T) {
	text := `Incubate "overnight" at 37°C for 16 hours, then spin at 4000 rpm`
	first := Extract(text)
	for i := 0; i < 10; i++ {
		if got := Extract(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Extract() = %q, want %q", i, got, first)
		}
	}
}

func TestExtractorExtraStopWords(t *testing.T) {
	e := New(Config{MinTokenLength: 3, ExtraStopWords: []string{"Protocol"}})

	got := e.Extract("The PROTOCOL omits controls")
	if contains(got, "protocol") {
		t.Errorf("Extract() = %q, extra stop word should be dropped regardless of case", got)
	}
	if !contains(got, "controls") {
		t.Errorf("Extract() = %q, want controls", got)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"37°C", "37°c"},
		{"10µl", "10μl"},
		{"95 ℃", "95 °c"},
		{"Incubate", "incubate"},
	}

	for _, tt := range tests {
		if got := Fold(tt.a); got != Fold(tt.b) {
			t.Errorf("Fold(%q) = %q, Fold(%q) = %q", tt.a, got, tt.b, Fold(tt.b))
		}
	}
}
