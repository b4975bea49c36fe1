package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/anime-shed/study-worker-go/internal/generation"
	"github.com/anime-shed/study-worker-go/pkg/models"
)

var errEmptyTopic = errors.New("topic detection returned an empty label")

// artifacts collects stage outputs; each stage owns exactly one field.
type artifacts struct {
	topic       string
	summary     models.SummaryPair
	explanation string
	concepts    []string
	flashcards  []models.Flashcard
	quiz        []models.QuizQuestion
}

// stage is one generation step. A stage with a fallback is degrade-only:
// its failure installs the fallback value instead of aborting the run.
type stage struct {
	name     string
	run      func(ctx context.Context, gen generation.ContentGenerator, text string, out *artifacts) error
	fallback func(out *artifacts)
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{
			name: generation.OpTopic,
			run: func(ctx context.Context, gen generation.ContentGenerator, text string, out *artifacts) error {
				topic, err := gen.DetectTopic(ctx, text)
				if err != nil {
					return err
				}
				if topic = strings.TrimSpace(topic); topic == "" {
					return errEmptyTopic
				}
				out.topic = topic
				return nil
			},
			fallback: func(out *artifacts) { out.topic = generation.TopicFallback },
		},
		{
			name: generation.OpSummary,
			run: func(ctx context.Context, gen generation.ContentGenerator, text string, out *artifacts) (err error) {
				out.summary, err = gen.GenerateSummary(ctx, text)
				return err
			},
		},
		{
			name: generation.OpExplanation,
			run: func(ctx context.Context, gen generation.ContentGenerator, text string, out *artifacts) (err error) {
				out.explanation, err = gen.GenerateExplanation(ctx, text)
				return err
			},
		},
		{
			name: generation.OpConcepts,
			run: func(ctx context.Context, gen generation.ContentGenerator, text string, out *artifacts) (err error) {
				out.concepts, err = gen.ExtractKeyConcepts(ctx, text)
				return err
			},
		},
		{
			name: generation.OpFlashcards,
			run: func(ctx context.Context, gen generation.ContentGenerator, text string, out *artifacts) (err error) {
				out.flashcards, err = gen.GenerateFlashcards(ctx, text, p.flashcardCount)
				return err
			},
		},
		{
			name: generation.OpQuiz,
			run: func(ctx context.Context, gen generation.ContentGenerator, text string, out *artifacts) (err error) {
				out.quiz, err = gen.GenerateQuiz(ctx, text, p.quizCount)
				return err
			},
		},
	}
}
