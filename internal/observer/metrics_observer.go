package observer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver turns pipeline events into Prometheus series
type MetricsObserver struct {
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	pipelineTotal *prometheus.CounterVec
}

// NewMetricsObserver registers its collectors on reg.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	o := &MetricsObserver{
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyworker_stage_total",
			Help: "Pipeline stages finished, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studyworker_stage_duration_seconds",
			Help:    "Wall time of pipeline stages.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"stage"}),
		pipelineTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyworker_pipeline_total",
			Help: "Pipeline runs finished, by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{o.stageTotal, o.stageDuration, o.pipelineTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// OnEvent handles pipeline events by updating counters and histograms
func (o *MetricsObserver) OnEvent(ctx context.Context, event StageEvent) {
	switch event.EventType {
	case StageCompleted:
		o.observeStage(event, "completed")
	case StageDegraded:
		o.observeStage(event, "degraded")
	case StageFailed:
		o.observeStage(event, "failed")
	case StageCancelled:
		o.stageTotal.WithLabelValues(event.Stage, "cancelled").Inc()
	case PipelineCompleted:
		o.pipelineTotal.WithLabelValues("completed").Inc()
	case PipelineFailed:
		o.pipelineTotal.WithLabelValues("failed").Inc()
	}
}

func (o *MetricsObserver) observeStage(event StageEvent, outcome string) {
	o.stageTotal.WithLabelValues(event.Stage, outcome).Inc()
	o.stageDuration.WithLabelValues(event.Stage).Observe(event.Duration.Seconds())
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}
