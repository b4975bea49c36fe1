package ocr

import (
	"math"
	"strings"

	"github.com/anime-shed/study-worker-go/pkg/models"
	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"
)

// Compare scores extracted text against a known transcription.
// Whitespace runs are collapsed on both sides before scoring; case is kept.
func Compare(extracted, expected string) *models.OCRDiagnostics {
	got := normalize(extracted)
	want := normalize(expected)

	diag := &models.OCRDiagnostics{ExpectedText: expected}

	switch refLen := len([]rune(want)); {
	case refLen == 0 && len(got) == 0:
		diag.CharacterErrorRate = 0
	case refLen == 0:
		diag.CharacterErrorRate = 1
	default:
		diag.CharacterErrorRate = float64(levenshtein.Distance(want, got)) / float64(refLen)
	}

	refWords := strings.Fields(want)
	gotWords := strings.Fields(got)
	switch {
	case len(refWords) == 0 && len(gotWords) == 0:
		diag.WordErrorRate = 0
	case len(refWords) == 0:
		diag.WordErrorRate = 1
	default:
		diag.WordErrorRate, _ = wer.WER(refWords, gotWords)
	}

	diag.MatchScore = round2(math.Max(0, 1-diag.CharacterErrorRate) * 100)
	diag.CharacterErrorRate = round4(diag.CharacterErrorRate)
	diag.WordErrorRate = round4(diag.WordErrorRate)
	return diag
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// Report builds the extraction-only response; diagnostics are attached when
// expected is non-blank.
func Report(text, expected string) *models.OCRResponse {
	resp := &models.OCRResponse{
		ExtractedText:  text,
		WordCount:      models.WordCount(text),
		CharacterCount: len([]rune(text)),
	}
	if strings.TrimSpace(expected) != "" {
		resp.Diagnostics = Compare(text, expected)
	}
	return resp
}
