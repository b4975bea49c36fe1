package models

import (
	"strings"
	"testing"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   \n", 0},
		{"Cats are mammals. Dogs are mammals too. Mammals are warm blooded.", 11},
		{"line one\nline\ttwo", 4},
		{"  padded   words   ", 2},
	}
	for _, tt := range tests {
		if got := WordCount(tt.text); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestEstimateReadingMinutes(t *testing.T) {
	tests := map[int]int{0: 1, 11: 1, 199: 1, 200: 1, 450: 2, 1000: 5}
	for words, want := range tests {
		if got := EstimateReadingMinutes(words); got != want {
			t.Errorf("EstimateReadingMinutes(%d) = %d, want %d", words, got, want)
		}
	}
	if got := EstimateReadingMinutes(WordCount(strings.Repeat("word ", 600))); got != 3 {
		t.Errorf("600 words should take 3 minutes, got %d", got)
	}
}
