package parse

import (
	"regexp"
	"strings"
)

// arrowPattern matches the separator glyphs the source documents use between
// before and after values. The unicode arrows appear in newer documents, the
// ASCII digraphs in older ones.
var arrowPattern = regexp.MustCompile(`→|⇒|=>|->`)

// CleanText collapses runs of whitespace to a single space and trims.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ChangeLine is one parsed "attribute: before -> after" line.
type ChangeLine struct {
	Attribute string
	Before    string
	After     string
}

// ParseChangeLine attempts to split a raw list-item line into an attribute and
// a before/after value pair. It reports false when the line carries no colon
// or no arrow; callers treat that as "not a change line", never as an error.
// The split happens at the first colon only, so value expressions containing
// ratios keep their own colons intact.
func ParseChangeLine(line string) (ChangeLine, bool) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return ChangeLine{}, false
	}

	attribute := CleanText(line[:colon])
	values := line[colon+1:]

	loc := arrowPattern.FindStringIndex(values)
	if loc == nil {
		return ChangeLine{}, false
	}

	return ChangeLine{
		Attribute: attribute,
		Before:    CleanText(values[:loc[0]]),
		After:     CleanText(values[loc[1]:]),
	}, true
}

// ParseLabelLine is the looser "label: description" fallback used by the TFT
// and Mayhem walkers when a line carries a colon but no arrow. Both sides must
// be non-empty.
func ParseLabelLine(line string) (label, description string, ok bool) {
	text := CleanText(line)
	colon := strings.Index(text, ":")
	if colon <= 0 {
		return "", "", false
	}
	label = strings.TrimSpace(text[:colon])
	description = strings.TrimSpace(text[colon+1:])
	if label == "" || description == "" {
		return "", "", false
	}
	return label, description, true
}
