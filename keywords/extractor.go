package keywords

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	// quotedPattern matches straight and typographic double-quoted phrases
	quotedPattern = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)

	// measurementPattern matches a number followed by a unit. Longer units
	// come first so "30 minutes" is not cut down to "30 min", and the unit
	// must end on a word boundary so "5 mice" is not read as "5 m".
	// Input is NFKC-normalized first, so MICRO SIGN is already GREEK MU and
	// DEGREE CELSIUS is already "°C".
	measurementPattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:minutes|min|hours|rpm|mg|ml|μl|nm|mm|μm|°c|c|m|g)\b`)

	// numberPattern matches standalone integers
	numberPattern = regexp.MustCompile(`\b\d+\b`)
)

// defaultStopWords are articles, conjunctions, auxiliary verbs and
// demonstratives that carry no matching signal.
var defaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "should", "could", "may", "might",
	"must", "can", "this", "that", "these", "those", "with", "from", "not",
}

// DefaultMinTokenLength is the rune length a generic token must exceed to
// be kept.
const DefaultMinTokenLength = 3

// Config holds configuration for keyword extraction.
type Config struct {
	// MinTokenLength is the length a generic token must exceed, in runes.
	MinTokenLength int

	// ExtraStopWords are added to the built-in stop-word list.
	ExtraStopWords []string
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		MinTokenLength: DefaultMinTokenLength,
	}
}

// Extractor turns finding text into candidate matchable keywords.
// An Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	minTokenLength int
	stopWords      map[string]struct{}
}

// New creates an Extractor with the given configuration.
func New(config Config) *Extractor {
	stop := make(map[string]struct{}, len(defaultStopWords)+len(config.ExtraStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}
	for _, w := range config.ExtraStopWords {
		stop[Fold(w)] = struct{}{}
	}

	minLen := config.MinTokenLength
	if minLen < 0 {
		minLen = 0
	}

	return &Extractor{
		minTokenLength: minLen,
		stopWords:      stop,
	}
}

var defaultExtractor = New(DefaultConfig())

// Extract returns the keywords of text using the default configuration.
func Extract(text string) []string {
	return defaultExtractor.Extract(text)
}

// Extract returns the keywords of text as an ordered set.
//
// Keywords are accumulated in policy order: quoted phrases (verbatim),
// measurements, bare integers, then generic tokens. Everything except
// quoted phrases is case-folded. Exact duplicates are removed, keeping the
// first occurrence.
func (e *Extractor) Extract(text string) []string {
	set := newOrderedSet()

	for _, m := range quotedPattern.FindAllStringSubmatch(text, -1) {
		phrase := m[1]
		if phrase == "" {
			phrase = m[2]
		}
		set.add(phrase)
	}

	normalized := norm.NFKC.String(text)

	for _, m := range measurementPattern.FindAllString(normalized, -1) {
		set.add(Fold(m))
	}

	for _, n := range numberPattern.FindAllString(normalized, -1) {
		set.add(n)
	}

	for _, tok := range strings.Fields(stripPunctuation(Fold(normalized))) {
		if utf8.RuneCountInString(tok) <= e.minTokenLength {
			continue
		}
		if _, stop := e.stopWords[tok]; stop {
			continue
		}
		set.add(tok)
	}

	return set.items
}

// Fold normalizes s for case-insensitive comparison: NFKC compatibility
// normalization followed by Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// stripPunctuation replaces every rune that is not a letter, digit,
// underscore or whitespace with a space.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
