// Package normalize canonicalizes noisy track metadata so that equivalent
// spellings compare equal.
//
// Every output consists only of the characters a-z, 0-9 and single spaces,
// which is what makes the "|" separator in fingerprints safe.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

const leadingArticle = "the "

// String lowercases text, folds compatibility forms and diacritics, and
// reduces every run of other characters to a single space.
//
// String is idempotent.
func String(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}

	// Chains buffer state, so build one per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	s = nonAlphanumeric.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Artist normalizes like [String] and then moves a leading "the" to the end,
// so "The Beatles" and "Beatles, The" agree. A lone "the" is left as is.
//
// Album titles follow the same catalog convention and use this function too.
func Artist(text string) string {
	s := String(text)
	if rest, ok := strings.CutPrefix(s, leadingArticle); ok && rest != "" {
		return rest + " the"
	}
	return s
}

// Identifier canonicalizes external identifiers such as MusicBrainz ids.
func Identifier(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
