package service

import (
	"time"

	"github.com/okian/skillwheel/internal/adapters/render"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/plan"
	"github.com/okian/skillwheel/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath serves the dataset file at path. It takes precedence over
// WithDataset.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithDataset serves ds when no dataset path is set.
func WithDataset(ds model.Dataset) Option {
	return func(s *Service) {
		s.dataset = ds
	}
}

// WithWatch reloads the dataset file when it changes on disk.
func WithWatch(enabled bool, debounce time.Duration) Option {
	return func(s *Service) {
		s.watch = enabled
		if debounce > 0 {
			s.debounce = debounce
		}
	}
}

// WithPlanOptions configures the plan builder.
func WithPlanOptions(opts ...plan.Option) Option {
	return func(s *Service) {
		s.planOpts = append(s.planOpts, opts...)
	}
}

// WithSVGOptions configures every SVG render.
func WithSVGOptions(opts ...render.Option) Option {
	return func(s *Service) {
		s.svgOpts = append(s.svgOpts, opts...)
	}
}

// WithQueueSize sets the maximum number of pending redraw triggers.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxSessions bounds the number of viewer sessions kept in memory.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
