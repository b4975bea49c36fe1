package pipeline

import (
	"context"
	"time"

	apperrors "github.com/anime-shed/study-worker-go/internal/errors"
	"github.com/anime-shed/study-worker-go/internal/generation"
	"github.com/anime-shed/study-worker-go/internal/observer"
	"github.com/anime-shed/study-worker-go/internal/ocr"
	"github.com/anime-shed/study-worker-go/pkg/models"
)

// MinTextLength is the fewest characters worth generating study material from.
const MinTextLength = 50

// Pipeline turns one page photo into a PipelineResult: extract, then the six
// generation stages. Only the topic stage may fail without failing the run.
type Pipeline struct {
	extractor      ocr.TextExtractor
	generator      generation.ContentGenerator
	strategy       Strategy
	events         observer.Subject
	flashcardCount int
	quizCount      int
}

type Option func(*Pipeline)

// WithStrategy replaces the default sequential schedule.
func WithStrategy(s Strategy) Option {
	return func(p *Pipeline) { p.strategy = s }
}

// WithEvents publishes stage events to subject.
func WithEvents(subject observer.Subject) Option {
	return func(p *Pipeline) { p.events = subject }
}

func WithCounts(flashcards, quiz int) Option {
	return func(p *Pipeline) {
		p.flashcardCount = flashcards
		p.quizCount = quiz
	}
}

func New(extractor ocr.TextExtractor, generator generation.ContentGenerator, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:      extractor,
		generator:      generator,
		strategy:       NewSequentialStrategy(),
		flashcardCount: generation.DefaultFlashcardCount,
		quizCount:      generation.DefaultQuizCount,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) StrategyName() string { return p.strategy.Name() }

// Process runs the full pipeline. On failure the result is nil and the error
// is an AppError tagged with the failing stage.
func (p *Pipeline) Process(ctx context.Context, imageURL, sessionID string) (*models.PipelineResult, error) {
	start := time.Now()
	p.emit(ctx, observer.StageEvent{
		EventType: observer.PipelineStarted,
		SessionID: sessionID,
		Metadata:  map[string]interface{}{"strategy": p.strategy.Name()},
	})

	text, err := p.extract(ctx, sessionID, imageURL)
	if err != nil {
		p.fail(ctx, sessionID, start, err)
		return nil, err
	}

	var out artifacts
	tasks := make([]Task, 0, len(generation.Operations))
	for _, st := range p.stages() {
		tasks = append(tasks, Task{
			Name: st.name,
			Run: func(taskCtx context.Context) error {
				return p.runStage(ctx, taskCtx, sessionID, st, text, &out)
			},
		})
	}

	if err := p.strategy.Execute(ctx, tasks); err != nil {
		p.fail(ctx, sessionID, start, err)
		return nil, err
	}

	wordCount := models.WordCount(text)
	result := &models.PipelineResult{
		SessionID:               sessionID,
		ExtractedText:           text,
		Topic:                   out.topic,
		ShortSummary:            out.summary.ShortSummary,
		DetailedSummary:         out.summary.DetailedSummary,
		SimplifiedExplanation:   out.explanation,
		KeyConcepts:             out.concepts,
		Flashcards:              out.flashcards,
		QuizQuestions:           out.quiz,
		WordCount:               wordCount,
		EstimatedReadingMinutes: models.EstimateReadingMinutes(wordCount),
		ProcessingTimeMs:        time.Since(start).Milliseconds(),
	}

	p.emit(ctx, observer.StageEvent{
		EventType: observer.PipelineCompleted,
		SessionID: sessionID,
		Duration:  time.Since(start),
		Metadata: map[string]interface{}{
			"word_count": wordCount,
			"flashcards": len(out.flashcards),
			"quiz":       len(out.quiz),
		},
	})
	return result, nil
}

func (p *Pipeline) extract(ctx context.Context, sessionID, imageURL string) (string, error) {
	start := time.Now()
	p.emit(ctx, observer.StageEvent{EventType: observer.StageStarted, SessionID: sessionID, Stage: apperrors.StageExtract})

	text, err := p.extractor.Extract(ctx, imageURL)
	if err == nil {
		if n := len([]rune(text)); n < MinTextLength {
			err = apperrors.NewInsufficientContent(n, MinTextLength)
		}
	} else if !apperrors.IsType(err, apperrors.ErrorTypeExtraction) {
		err = apperrors.NewExtractionFailed("failed to extract text from image", err)
	}

	if err != nil {
		p.emit(ctx, observer.StageEvent{
			EventType:    observer.StageFailed,
			SessionID:    sessionID,
			Stage:        apperrors.StageExtract,
			Duration:     time.Since(start),
			ErrorMessage: err.Error(),
		})
		return "", err
	}

	p.emit(ctx, observer.StageEvent{
		EventType: observer.StageCompleted,
		SessionID: sessionID,
		Stage:     apperrors.StageExtract,
		Duration:  time.Since(start),
		Metadata:  map[string]interface{}{"characters": len([]rune(text))},
	})
	return text, nil
}

// runStage executes st under taskCtx. parent is the run's own context: when
// taskCtx is done but parent is not, a sibling failed and st is only cancelled.
func (p *Pipeline) runStage(parent, taskCtx context.Context, sessionID string, st stage, text string, out *artifacts) error {
	if taskCtx.Err() != nil && parent.Err() == nil {
		p.emit(parent, observer.StageEvent{EventType: observer.StageCancelled, SessionID: sessionID, Stage: st.name})
		return taskCtx.Err()
	}

	start := time.Now()
	p.emit(parent, observer.StageEvent{EventType: observer.StageStarted, SessionID: sessionID, Stage: st.name})

	err := st.run(taskCtx, p.generator, text, out)
	if err == nil {
		p.emit(parent, observer.StageEvent{
			EventType: observer.StageCompleted,
			SessionID: sessionID,
			Stage:     st.name,
			Duration:  time.Since(start),
		})
		return nil
	}

	if st.fallback != nil {
		st.fallback(out)
		p.emit(parent, observer.StageEvent{
			EventType:    observer.StageDegraded,
			SessionID:    sessionID,
			Stage:        st.name,
			Duration:     time.Since(start),
			ErrorMessage: err.Error(),
		})
		return nil
	}

	if taskCtx.Err() != nil && parent.Err() == nil {
		p.emit(parent, observer.StageEvent{
			EventType: observer.StageCancelled,
			SessionID: sessionID,
			Stage:     st.name,
			Duration:  time.Since(start),
		})
		return taskCtx.Err()
	}

	if appErr, ok := apperrors.As(err); !ok || appErr.Type != apperrors.ErrorTypeGeneration || appErr.Stage != st.name {
		err = apperrors.NewGenerationFailed(st.name, err)
	}
	p.emit(parent, observer.StageEvent{
		EventType:    observer.StageFailed,
		SessionID:    sessionID,
		Stage:        st.name,
		Duration:     time.Since(start),
		ErrorMessage: err.Error(),
	})
	return err
}

func (p *Pipeline) fail(ctx context.Context, sessionID string, start time.Time, err error) {
	p.emit(ctx, observer.StageEvent{
		EventType:    observer.PipelineFailed,
		SessionID:    sessionID,
		Stage:        apperrors.StageOf(err),
		Duration:     time.Since(start),
		ErrorMessage: err.Error(),
	})
}

func (p *Pipeline) emit(ctx context.Context, event observer.StageEvent) {
	if p.events == nil {
		return
	}
	p.events.NotifyObservers(ctx, event)
}
