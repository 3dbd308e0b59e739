package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreTiers(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		query     string
		want      float64
	}{
		{"exact match", "jane doe", "jane doe", 1.0},
		{"exact match case-insensitive", "Jane Doe", "jane doe", 1.0},
		{"prefix match", "jane doe", "jane", 0.9},
		{"prefix match case-insensitive", "Jane Doe", "jane", 0.9},
		{"substring not prefix", "mary jane", "jane", 0.7},
		{"substring mid-word", "emergency fund", "gency", 0.7},
		{"no match", "clean water project", "bicycle", 0.0},
		{"empty candidate", "", "jane", 0.0},
		{"empty query", "jane doe", "", 0.0},
		{"whitespace query", "jane doe", "   ", 0.0},
		{"both empty", "", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.candidate, tt.query), 1e-9)
		})
	}
}

func TestScoreWordOverlap(t *testing.T) {
	// Neither exact, prefix, nor whole-query substring: falls through
	// to the word-overlap branch.
	tests := []struct {
		name      string
		candidate string
		query     string
		want      float64
	}{
		{"one of two words", "clean water project", "water bicycle", 0.25},
		{"both of two words", "water for the village fund", "village water", 0.5},
		{"word matches as substring of candidate word", "firefighters relief", "fire relief", 0.5},
		{"one of three words", "animal shelter", "shelter roof repair", 0.5 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.candidate, tt.query), 1e-9)
		})
	}
}

// Repeated query words are counted without deduplication, so a
// repeated matching word keeps the ratio at 1 and a repeated
// non-matching word drags it down. Documented historical behaviour.
func TestScoreRepeatedQueryWords(t *testing.T) {
	assert.InDelta(t, 0.5, Score("food bank north", "food food"), 1e-9)
	assert.InDelta(t, 0.5*1.0/3.0, Score("food bank", "xyz xyz food"), 1e-9)
}

func TestScoreRange(t *testing.T) {
	candidates := []string{"", "a", "Jane Doe", "clean water for the village", "ALL CAPS TITLE"}
	queries := []string{"", "ja", "jane doe", "water village", "zzz", "the the the"}

	for _, c := range candidates {
		for _, q := range queries {
			s := Score(c, q)
			assert.GreaterOrEqual(t, s, 0.0, "score(%q,%q)", c, q)
			assert.LessOrEqual(t, s, 1.0, "score(%q,%q)", c, q)
		}
	}
}
