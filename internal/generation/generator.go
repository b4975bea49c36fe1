package generation

import (
	"context"

	"github.com/anime-shed/study-worker-go/pkg/models"
)

// Operation names double as the stage tag carried by generation_failed errors.
const (
	OpTopic       = "topic"
	OpSummary     = "summary"
	OpExplanation = "explanation"
	OpConcepts    = "concepts"
	OpFlashcards  = "flashcards"
	OpQuiz        = "quiz"
)

// Operations lists every generation operation in pipeline order.
var Operations = []string{OpTopic, OpSummary, OpExplanation, OpConcepts, OpFlashcards, OpQuiz}

const (
	// TopicFallback is returned whenever topic detection fails.
	TopicFallback = "General Topic"

	DefaultFlashcardCount = 10
	DefaultQuizCount      = 5

	// topicPrefixRunes bounds how much text is sent for topic detection.
	topicPrefixRunes = 500
)

// ContentGenerator produces the study artifacts for a passage of text.
//
// Every method fails with a generation_failed AppError tagged with its
// operation name. DetectTopic is the exception to the "no partial value" rule:
// on failure it returns TopicFallback alongside the error.
type ContentGenerator interface {
	DetectTopic(ctx context.Context, text string) (string, error)
	GenerateSummary(ctx context.Context, text string) (models.SummaryPair, error)
	GenerateExplanation(ctx context.Context, text string) (string, error)
	ExtractKeyConcepts(ctx context.Context, text string) ([]string, error)
	GenerateFlashcards(ctx context.Context, text string, count int) ([]models.Flashcard, error)
	GenerateQuiz(ctx context.Context, text string, count int) ([]models.QuizQuestion, error)
}
