package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		extracted string
		expected  string
		cer       float64
		wer       float64
		score     float64
	}{
		{
			name:      "exact match",
			extracted: "the cell is the unit",
			expected:  "the cell is the unit",
			cer:       0,
			wer:       0,
			score:     100,
		},
		{
			name:      "whitespace differences are ignored",
			extracted: "the cell\n is   the unit ",
			expected:  "the cell is the unit",
			cer:       0,
			wer:       0,
			score:     100,
		},
		{
			name:      "one dropped letter",
			extracted: "the cel is the unit",
			expected:  "the cell is the unit",
			cer:       0.05,
			wer:       0.2,
			score:     95,
		},
		{
			name:      "nothing extracted",
			extracted: "",
			expected:  "mitosis",
			cer:       1,
			wer:       1,
			score:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := Compare(tt.extracted, tt.expected)
			assert.Equal(t, tt.expected, diag.ExpectedText)
			assert.InDelta(t, tt.cer, diag.CharacterErrorRate, 0.0001)
			assert.InDelta(t, tt.wer, diag.WordErrorRate, 0.0001)
			assert.InDelta(t, tt.score, diag.MatchScore, 0.01)
		})
	}
}

func TestCompare_ScoreNeverNegative(t *testing.T) {
	diag := Compare("a completely unrelated and much longer passage of text", "cell")
	assert.Greater(t, diag.CharacterErrorRate, 1.0)
	assert.Equal(t, 0.0, diag.MatchScore)
}

func TestReport(t *testing.T) {
	text := "Mitochondria are the powerhouse of the cell."

	plain := Report(text, "  ")
	assert.Equal(t, text, plain.ExtractedText)
	assert.Equal(t, 7, plain.WordCount)
	assert.Equal(t, 44, plain.CharacterCount)
	assert.Nil(t, plain.Diagnostics)

	scored := Report(text, text)
	if assert.NotNil(t, scored.Diagnostics) {
		assert.Equal(t, 100.0, scored.Diagnostics.MatchScore)
	}
}
