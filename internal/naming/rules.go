package naming

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// ParseRule pairs a compiled regex with an extraction function for one field
// of a filename. Rules for a field are evaluated in order by [Parse]; the
// first rule whose pattern matches and whose Extract reports ok wins. When no
// rule wins, the field's fallback applies.
type ParseRule[T any] struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(matches []string) (T, bool)
}

// firstMatch runs rules against s in order and returns the first extracted value.
func firstMatch[T any](rules []ParseRule[T], s string) (T, bool) {
	for _, rule := range rules {
		m := rule.Pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if v, ok := rule.Extract(m); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// DateRules recognise the leading "YYYY-MM-DD--" prefix. The date must be a
// real calendar date; "2018-02-30--" does not match.
// Fallback: the parse time's calendar date.
var DateRules = []ParseRule[time.Time]{
	{
		Name:    "iso-date-prefix",
		Pattern: regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})--`),
		Extract: func(m []string) (time.Time, bool) {
			t, err := time.Parse(domain.DateLayout, m[1])
			if err != nil {
				return time.Time{}, false
			}
			return t, true
		},
	},
}

// DescriptionRules recognise the "--description__" segment.
// Fallback: descriptionFallback.
var DescriptionRules = []ParseRule[string]{
	{
		Name:    "dashed-segment",
		Pattern: regexp.MustCompile(`--([a-zA-Z0-9-]+)__`),
		Extract: func(m []string) (string, bool) {
			return m[1], true
		},
	},
}

// TagRules recognise the trailing "__tag1_tag2.pdf" block and split it into
// candidate names. Empty candidates (from "__a__b.pdf") are dropped.
// Fallback: no tags.
var TagRules = []ParseRule[[]string]{
	{
		Name:    "tag-block",
		Pattern: regexp.MustCompile(`__([a-zA-Z0-9_]+)\.(?i:pdf)$`),
		Extract: func(m []string) ([]string, bool) {
			var names []string
			for _, part := range strings.Split(m[1], "_") {
				if part != "" {
					names = append(names, part)
				}
			}
			return names, len(names) > 0
		},
	},
}

// descriptionFallback takes everything before the first "__" of the base
// name once the extension is removed, so "scan001.pdf" yields "scan001".
func descriptionFallback(base string) string {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	before, _, _ := strings.Cut(stem, "__")
	return before
}
