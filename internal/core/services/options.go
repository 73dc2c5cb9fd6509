package services

import (
	"time"

	"github.com/SscSPs/recordsheet/internal/metrics"
)

// ServiceOption is a functional option shared by the services for their common settings.
type ServiceOption func(*BaseService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Now = now
	}
}

// WithMetrics sets the collector that records posting and import activity.
func WithMetrics(collector metrics.Collector) ServiceOption {
	return func(s *BaseService) {
		if collector != nil {
			s.Metrics = collector
		}
	}
}

func applyOptions(base *BaseService, options []ServiceOption) {
	base.Metrics = metrics.NoOpCollector{}
	for _, option := range options {
		option(base)
	}
}
