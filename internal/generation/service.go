package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/anime-shed/study-worker-go/internal/errors"
	"github.com/anime-shed/study-worker-go/internal/logger"
	"github.com/anime-shed/study-worker-go/pkg/models"
	"github.com/sirupsen/logrus"
)

var errEmptyText = errors.New("source text is empty")

// Service implements ContentGenerator on top of a Completer.
type Service struct {
	completer Completer
	params    map[string]Params
	timeout   time.Duration
}

// NewService builds a generator. A nil params map uses DefaultParams;
// timeout bounds each provider call and is ignored when zero.
func NewService(completer Completer, params map[string]Params, timeout time.Duration) (*Service, error) {
	if params == nil {
		params = DefaultParams()
	}
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	return &Service{completer: completer, params: params, timeout: timeout}, nil
}

// complete runs one provider call for op and parses the output with parse.
func complete[T any](ctx context.Context, s *Service, op, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	p := s.params[op]

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := s.completer.Complete(ctx, CompletionRequest{
		Operation:   op,
		Prompt:      prompt,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return zero, apperrors.NewGenerationFailed(op, err)
	}

	value, err := parse(content)
	if err != nil {
		return zero, apperrors.NewGenerationFailed(op, fmt.Errorf("parse %s response: %w", op, err))
	}

	logger.WithFields(logrus.Fields{
		"operation":   op,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Generation call completed")
	return value, nil
}

func checkText(op, text string) error {
	if strings.TrimSpace(text) == "" {
		return apperrors.NewGenerationFailed(op, errEmptyText)
	}
	return nil
}

func checkCount(op string, count int) error {
	if count <= 0 {
		return apperrors.NewGenerationFailed(op, fmt.Errorf("count must be positive, got %d", count))
	}
	return nil
}

// DetectTopic labels the subject of text from its first 500 characters.
// It never returns an empty label: on failure the result is TopicFallback.
func (s *Service) DetectTopic(ctx context.Context, text string) (string, error) {
	if err := checkText(OpTopic, text); err != nil {
		return TopicFallback, err
	}
	topic, err := complete(ctx, s, OpTopic, topicPrompt(prefix(text, topicPrefixRunes)), parseTopic)
	if err != nil {
		return TopicFallback, err
	}
	return topic, nil
}

func (s *Service) GenerateSummary(ctx context.Context, text string) (models.SummaryPair, error) {
	if err := checkText(OpSummary, text); err != nil {
		return models.SummaryPair{}, err
	}
	return complete(ctx, s, OpSummary, summaryPrompt(text), parseSummary)
}

func (s *Service) GenerateExplanation(ctx context.Context, text string) (string, error) {
	if err := checkText(OpExplanation, text); err != nil {
		return "", err
	}
	return complete(ctx, s, OpExplanation, explanationPrompt(text), parseExplanation)
}

func (s *Service) ExtractKeyConcepts(ctx context.Context, text string) ([]string, error) {
	if err := checkText(OpConcepts, text); err != nil {
		return nil, err
	}
	return complete(ctx, s, OpConcepts, conceptsPrompt(text), parseConcepts)
}

// GenerateFlashcards asks for count cards; the model may return a different number.
func (s *Service) GenerateFlashcards(ctx context.Context, text string, count int) ([]models.Flashcard, error) {
	if err := checkText(OpFlashcards, text); err != nil {
		return nil, err
	}
	if err := checkCount(OpFlashcards, count); err != nil {
		return nil, err
	}
	return complete(ctx, s, OpFlashcards, flashcardsPrompt(text, count), parseFlashcards)
}

func (s *Service) GenerateQuiz(ctx context.Context, text string, count int) ([]models.QuizQuestion, error) {
	if err := checkText(OpQuiz, text); err != nil {
		return nil, err
	}
	if err := checkCount(OpQuiz, count); err != nil {
		return nil, err
	}
	return complete(ctx, s, OpQuiz, quizPrompt(text, count), parseQuiz)
}

func prefix(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
