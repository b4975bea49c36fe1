package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/study-worker-go/internal/config"
	"github.com/anime-shed/study-worker-go/internal/factory"
	"github.com/anime-shed/study-worker-go/internal/logger"
	"github.com/anime-shed/study-worker-go/internal/observer"
	"github.com/anime-shed/study-worker-go/internal/ocr"
	"github.com/anime-shed/study-worker-go/internal/pipeline"
	"github.com/anime-shed/study-worker-go/internal/transport"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies
type Container struct {
	config    *config.Config
	extractor ocr.TextExtractor
	pipeline  *pipeline.Pipeline
	handler   http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	metrics, err := observer.NewMetricsObserver(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	events.Subscribe(metrics)

	components := factory.NewComponentFactory(cfg)

	imageSource, err := components.CreateImageSource()
	if err != nil {
		return nil, fmt.Errorf("failed to create image source: %w", err)
	}
	extractor := components.CreateExtractor(imageSource)

	generator, err := components.CreateGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	strategy, err := components.CreateStrategy()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline strategy: %w", err)
	}

	p := pipeline.New(extractor, generator,
		pipeline.WithStrategy(strategy),
		pipeline.WithEvents(events),
	)

	return &Container{
		config:    cfg,
		extractor: extractor,
		pipeline:  p,
		handler:   transport.NewHandler(p, extractor, registry, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Pipeline returns the configured content pipeline
func (c *Container) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Extractor returns the text extractor shared by the pipeline and /api/ocr
func (c *Container) Extractor() ocr.TextExtractor {
	return c.extractor
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
