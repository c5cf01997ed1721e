// Package textmatch provides the text normalization and whole-word phrase
// counting used to compare drafts and score keyword usage.
package textmatch

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

const ratioPrecision = 10000

var whitespaceReplacer = strings.NewReplacer("\n", " ", "\t", " ", "\r", " ")

// NormalizeForComparison lowercases text, turns newlines, tabs and carriage
// returns into spaces, and trims the result.
func NormalizeForComparison(text string) string {
	return strings.TrimSpace(whitespaceReplacer.Replace(strings.ToLower(text)))
}

// Equivalent reports whether two drafts normalize to the same text.
func Equivalent(a, b string) bool {
	return NormalizeForComparison(a) == NormalizeForComparison(b)
}

// IsWordRune reports whether r is a letter, number or underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// CountPhraseOccurrences counts non-overlapping, case-insensitive occurrences
// of phrase in text that are not preceded or followed by a word rune.
func CountPhraseOccurrences(text, phrase string) int {
	needle := strings.ToLower(strings.TrimSpace(phrase))
	if needle == "" {
		return 0
	}
	return countLowered(strings.ToLower(text), needle)
}

func countLowered(haystack, needle string) int {
	count := 0
	pos := 0
	for pos <= len(haystack)-len(needle) {
		idx := strings.Index(haystack[pos:], needle)
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(needle)

		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			count++
			pos = end
			continue
		}

		_, size := utf8.DecodeRuneInString(haystack[start:])
		pos = start + size
	}
	return count
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !IsWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !IsWordRune(r)
}

// CountPhrases returns the whole-word occurrence count of each phrase, in
// input order. A single Aho-Corasick pass finds which phrases occur as
// substrings at all; only those are scanned for word boundaries.
func CountPhrases(text string, phrases []string) []int {
	counts := make([]int, len(phrases))
	if len(phrases) == 0 {
		return counts
	}

	needles := make([]string, 0, len(phrases))
	positions := make(map[string][]int, len(phrases))
	for i, phrase := range phrases {
		needle := strings.ToLower(strings.TrimSpace(phrase))
		if needle == "" {
			continue
		}
		if _, seen := positions[needle]; !seen {
			needles = append(needles, needle)
		}
		positions[needle] = append(positions[needle], i)
	}
	if len(needles) == 0 {
		return counts
	}

	haystack := strings.ToLower(text)
	matcher := ahocorasick.NewStringMatcher(needles)
	for _, hit := range matcher.Match([]byte(haystack)) {
		needle := needles[hit]
		n := countLowered(haystack, needle)
		for _, i := range positions[needle] {
			counts[i] = n
		}
	}
	return counts
}

// WordCount returns the number of maximal runs of word runes in text.
func WordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if IsWordRune(r) {
			if !inWord {
				count++
				inWord = true
			}
			continue
		}
		inWord = false
	}
	return count
}

// Ratio returns numerator/denominator clamped to [0, 1].
// A non-positive denominator is vacuously satisfied and yields 1.
func Ratio(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 1.0
	}
	return clamp(float64(numerator) / float64(denominator))
}

// RoundRatio clamps v to [0, 1] and rounds it to four decimal places.
func RoundRatio(v float64) float64 {
	return math.Round(clamp(v)*ratioPrecision) / ratioPrecision
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// NormalizeTerms trims and lowercases terms, dropping empties and duplicates
// while keeping first-seen order.
func NormalizeTerms(terms []string) []string {
	cleaned := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		normalized := strings.ToLower(strings.TrimSpace(term))
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		cleaned = append(cleaned, normalized)
	}
	return cleaned
}
