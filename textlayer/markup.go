package textlayer

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// getAttr returns the value of attribute key, or "" if absent.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// hasClass reports whether the element's class list contains class.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// getTextContent returns the concatenated text of n and its descendants
// with runs of whitespace collapsed to single spaces.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.Join(strings.Fields(result.String()), " ")
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style":
			return
		case "br":
			result.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
}

// parseStyle splits an inline style attribute into lower-cased property
// names and their raw values.
func parseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name != "" && value != "" {
			props[name] = value
		}
	}
	return props
}

// parseLength converts a CSS length to pixels at scale 1.
//
// Supported forms are "12px", "12", "8.5%" (relative to ref) and the
// pdf.js form "calc(var(--scale-factor)*12.00px)", where the scale-factor
// term is dropped so the result is the unscaled length.
func parseLength(value string, ref float64) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(value))

	if strings.HasPrefix(v, "calc(") && strings.HasSuffix(v, ")") {
		inner := v[len("calc(") : len(v)-1]
		v = ""
		for _, part := range strings.Split(inner, "*") {
			part = strings.TrimSpace(part)
			if part != "" && !strings.Contains(part, "var(") {
				v = part
			}
		}
		if v == "" {
			return 0, false
		}
	}

	switch {
	case strings.HasSuffix(v, "px"):
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "px")), 64)
		return f, err == nil
	case strings.HasSuffix(v, "%"):
		if ref <= 0 {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "%")), 64)
		return f * ref / 100, err == nil
	default:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
}
