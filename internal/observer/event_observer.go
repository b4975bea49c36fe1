package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// StageEvent describes one step of a pipeline run
type StageEvent struct {
	EventType    EventType              `json:"event_type"`
	Timestamp    time.Time              `json:"timestamp"`
	SessionID    string                 `json:"session_id"`
	Stage        string                 `json:"stage,omitempty"`
	Duration     time.Duration          `json:"duration"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	PipelineStarted   EventType = "pipeline_started"
	PipelineCompleted EventType = "pipeline_completed"
	PipelineFailed    EventType = "pipeline_failed"

	StageStarted   EventType = "stage_started"
	StageCompleted EventType = "stage_completed"
	// StageDegraded is emitted when a non-fatal stage falls back to its default value
	StageDegraded EventType = "stage_degraded"
	StageFailed   EventType = "stage_failed"
	// StageCancelled is emitted for stages abandoned after a sibling failed
	StageCancelled EventType = "stage_cancelled"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event StageEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event StageEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event StageEvent) {
	fields := logrus.Fields{
		"event_type":  event.EventType,
		"session_id":  event.SessionID,
		"duration_ms": event.Duration.Milliseconds(),
	}
	if event.Stage != "" {
		fields["stage"] = event.Stage
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case PipelineStarted:
		entry.Info("Pipeline started")
	case PipelineCompleted:
		entry.Info("Pipeline completed")
	case PipelineFailed:
		entry.Error("Pipeline failed")
	case StageStarted:
		entry.Debug("Stage started")
	case StageCompleted:
		entry.Info("Stage completed")
	case StageDegraded:
		entry.Warn("Stage degraded to fallback")
	case StageFailed:
		entry.Error("Stage failed")
	case StageCancelled:
		entry.Warn("Stage cancelled")
	default:
		entry.Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers event to every observer in subscription order,
// on the caller's goroutine. A panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event StageEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, observer := range observers {
		notify(ctx, observer, event)
	}
}

func notify(ctx context.Context, obs Observer, event StageEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
