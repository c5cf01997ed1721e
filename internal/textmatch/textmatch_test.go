package textmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/review-responder/internal/textmatch"
)

func TestNormalizeForComparison(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Thanks For Visiting", "thanks for visiting"},
		{"control whitespace", "Thanks\nfor\tvisiting\r", "thanks for visiting"},
		{"trims", "   hello  ", "hello"},
		{"empty", "", ""},
		{"only whitespace", "\n\t\r ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, textmatch.NormalizeForComparison(tc.input))
		})
	}
}

func TestEquivalent(t *testing.T) {
	t.Parallel()

	assert.True(t, textmatch.Equivalent("Thanks!\nSee you soon.", "  thanks! see you soon.  "))
	assert.False(t, textmatch.Equivalent("Thanks!", "Thank you!"))
	// Interior runs of spaces are not collapsed.
	assert.False(t, textmatch.Equivalent("a  b", "a b"))
}

func TestCountPhraseOccurrences(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		text   string
		phrase string
		want   int
	}{
		{"partial word does not match", "The seafood was great", "sea", 0},
		{"whole word matches", "We love the sea and the Sea breeze", "sea", 2},
		{"multi word phrase", "Best Pizza Downtown, best pizza in town", "best pizza", 2},
		{"punctuation is a boundary", "pizza! pizza, (pizza)", "pizza", 3},
		{"underscore is a word rune", "pizza_place pizza", "pizza", 1},
		{"digit is a word rune", "pizza2go pizza", "pizza", 1},
		{"non overlapping", "aa aa aa", "aa aa", 1},
		{"phrase is trimmed and lowercased", "Great TACOS here", "  Tacos ", 1},
		{"empty phrase", "anything", "   ", 0},
		{"empty text", "", "pizza", 0},
		{"accented boundary", "café cafe", "caf", 0},
		{"unicode phrase", "Merci pour le café, le CAFÉ était bon", "café", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, textmatch.CountPhraseOccurrences(tc.text, tc.phrase))
		})
	}
}

func TestCountPhrases_MatchesSingleCounts(t *testing.T) {
	t.Parallel()

	text := "Best pizza in Toronto. Our pizza oven and seafood pasta are Toronto favourites."
	phrases := []string{"pizza", "toronto", "sea", "pasta", "", "Pizza", "sushi"}

	got := textmatch.CountPhrases(text, phrases)

	want := make([]int, len(phrases))
	for i, p := range phrases {
		want[i] = textmatch.CountPhraseOccurrences(text, p)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, []int{2, 2, 0, 1, 0, 2, 0}, got)
}

func TestCountPhrases_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, textmatch.CountPhrases("text", nil))
	assert.Equal(t, []int{0, 0}, textmatch.CountPhrases("text", []string{"", " "}))
}

func TestWordCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, textmatch.WordCount(""))
	assert.Equal(t, 0, textmatch.WordCount(" ... !! "))
	assert.Equal(t, 4, textmatch.WordCount("Thanks, we will see"))
	assert.Equal(t, 3, textmatch.WordCount("we'll go"))
	assert.Equal(t, 2, textmatch.WordCount("snake_case 42"))
}

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, textmatch.Ratio(0, 0), 1e-9)
	assert.InDelta(t, 1.0, textmatch.Ratio(3, -1), 1e-9)
	assert.InDelta(t, 0.5, textmatch.Ratio(1, 2), 1e-9)
	assert.InDelta(t, 1.0, textmatch.Ratio(5, 2), 1e-9)
	assert.InDelta(t, 0.0, textmatch.Ratio(-1, 2), 1e-9)
}

func TestRoundRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.3333, textmatch.RoundRatio(1.0/3.0), 1e-9)
	assert.InDelta(t, 0.6667, textmatch.RoundRatio(2.0/3.0), 1e-9)
	assert.InDelta(t, 1.0, textmatch.RoundRatio(1.7), 1e-9)
	assert.InDelta(t, 0.0, textmatch.RoundRatio(-0.2), 1e-9)
}

func TestNormalizeTerms(t *testing.T) {
	t.Parallel()

	got := textmatch.NormalizeTerms([]string{" Pizza ", "", "PIZZA", "Patio Dining", "  ", "pasta"})
	assert.Equal(t, []string{"pizza", "patio dining", "pasta"}, got)
	assert.Empty(t, textmatch.NormalizeTerms(nil))
}
