// Package engine implements the content-risk scorers for review text.
// It contains pure feature extractors, two declarative rule tables, and
// the authenticity and SEO-risk scorers built on top of them. All
// functions here are deterministic and safe for concurrent use: they
// only read immutable tables and their own arguments.
package engine

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics so "è" and "e" match the same
// keyword. Italian review text mixes accented and plain spellings.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases text and removes diacritical marks for matching.
func Fold(text string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return folded
}

// emotionPattern covers exclamation marks, repeated question marks and
// common text emoticons. Emoji are handled separately by rune class.
var emotionPattern = regexp.MustCompile(`!|\?{2,}|:-?\)|:-?\(|:-?D|;-?\)|<3`)

// HasEmotionSignals reports whether the text carries any expressive
// punctuation, emoticon, or emoji. Absence is an authenticity signal:
// organically written reviews about one's own illness almost always
// carry some emotional marker.
func HasEmotionSignals(text string) bool {
	if emotionPattern.MatchString(text) {
		return true
	}
	for _, r := range text {
		if unicode.Is(unicode.So, r) {
			return true
		}
	}
	return false
}

// Specificity markers: concrete details that generated text tends to omit.
var (
	yearPattern        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	measurementPattern = regexp.MustCompile(`\b\d+([.,]\d+)?\s?(mg|ml|g|kg|cm|anni|mesi|settimane|giorni|volte)\b`)
	informalPattern    = regexp.MustCompile(`\b(cmq|nn|xke|qlc|qlcs|boh|vabbe|cioe)\b`)
)

// HasSpecificDetail reports whether the text contains at least one
// concrete marker: a 4-digit year, a measurement with unit, a named
// medication, or an informal abbreviation. The text is accent-folded
// before matching.
func HasSpecificDetail(text string) bool {
	folded := Fold(text)
	if yearPattern.MatchString(folded) {
		return true
	}
	if measurementPattern.MatchString(folded) {
		return true
	}
	if informalPattern.MatchString(folded) {
		return true
	}
	return matchesAny(medicationMatcher, folded)
}

// SentenceCount returns the number of sentence-ending periods.
// Ellipses count once per period, which is acceptable for the
// terse-but-multi-sentence check.
func SentenceCount(text string) int {
	return strings.Count(text, ".")
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SpecialCharRatio returns the fraction of runes that are neither
// letters, digits, whitespace, nor ordinary sentence punctuation.
func SpecialCharRatio(text string) float64 {
	if text == "" {
		return 0
	}
	total := 0
	special := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '.', ',', ';', ':', '\'', '"', '!', '?', '(', ')', '-':
			continue
		}
		special++
	}
	return float64(special) / float64(total)
}

// HasParagraphBreaks reports whether the text contains at least one
// blank-line paragraph separator.
func HasParagraphBreaks(text string) bool {
	return strings.Contains(text, "\n\n")
}

// CountOccurrences counts non-overlapping occurrences of needle in
// haystack, both accent-folded. An empty needle never matches.
func CountOccurrences(haystack, needle string) int {
	needle = strings.TrimSpace(Fold(needle))
	if needle == "" {
		return 0
	}
	return strings.Count(Fold(haystack), needle)
}
