// Package naming implements the archive filename convention
//
//	YYYY-MM-DD--description__tag1_tag2.pdf
//
// It normalizes free text into slugs, parses existing filenames into their
// fields and derives the canonical filename and year directory for a document.
// Everything here is pure; filesystem side effects live in package archive.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// strippedRunes are deleted outright, not replaced by a separator.
const strippedRunes = `:;.,!?/\^+<>#@|`

var (
	reHyphenRun = regexp.MustCompile(`-{2,}`)

	umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")
)

// Normalize turns arbitrary description or tag text into a lowercase,
// hyphen-separated slug that is safe to embed in a filename.
//
// The steps run in a fixed order: lowercase, delete the characters in
// strippedRunes, turn whitespace/underscore runs into one hyphen, collapse
// hyphen runs, spell out ä ö ü ß, then drop one leading and one trailing
// hyphen. Characters outside the stripped set (such as "&") are kept.
// Normalize is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	// cases.Caser is stateful, so each call gets its own.
	s := cases.Lower(language.Und).String(raw)

	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedRunes, r) {
			return -1
		}
		return r
	}, s)

	s = hyphenateSpace(s)
	s = reHyphenRun.ReplaceAllString(s, "-")
	s = umlauts.Replace(s)

	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "-")
	return s
}

// hyphenateSpace replaces every run of Unicode whitespace or underscores with
// a single hyphen.
func hyphenateSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' {
			if !inRun {
				b.WriteByte('-')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}
