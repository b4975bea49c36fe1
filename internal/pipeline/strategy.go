package pipeline

import (
	"context"
	"fmt"

	"github.com/anime-shed/study-worker-go/internal/config"
	"golang.org/x/sync/errgroup"
)

// Task is one generation stage ready to run against the extracted text.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Strategy decides how the generation stages are scheduled. Whatever the
// schedule, Execute returns the first fatal error and every Task writes only
// its own artifact, so results never depend on completion order.
type Strategy interface {
	Name() string
	Execute(ctx context.Context, tasks []Task) error
}

// SequentialStrategy runs tasks one after another and stops at the first error.
type SequentialStrategy struct{}

func NewSequentialStrategy() *SequentialStrategy {
	return &SequentialStrategy{}
}

func (s *SequentialStrategy) Name() string { return config.PipelineModeSequential }

func (s *SequentialStrategy) Execute(ctx context.Context, tasks []Task) error {
	for _, task := range tasks {
		if err := task.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ConcurrentStrategy runs up to limit tasks at once. The first error cancels
// the context handed to the remaining tasks.
type ConcurrentStrategy struct {
	limit int
}

func NewConcurrentStrategy(limit int) *ConcurrentStrategy {
	if limit < 1 {
		limit = 1
	}
	return &ConcurrentStrategy{limit: limit}
}

func (s *ConcurrentStrategy) Name() string { return config.PipelineModeConcurrent }

func (s *ConcurrentStrategy) Execute(ctx context.Context, tasks []Task) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for _, task := range tasks {
		g.Go(func() error {
			return task.Run(gctx)
		})
	}
	return g.Wait()
}

// NewStrategy maps a PIPELINE_MODE value to a Strategy.
func NewStrategy(mode string, limit int) (Strategy, error) {
	switch mode {
	case "", config.PipelineModeSequential:
		return NewSequentialStrategy(), nil
	case config.PipelineModeConcurrent:
		return NewConcurrentStrategy(limit), nil
	default:
		return nil, fmt.Errorf("unknown pipeline mode %q", mode)
	}
}
