package worker

import (
	"github.com/okian/skillwheel/pkg/logger"
)

// Option applies a configuration option to the Redrawer.
type Option func(*Redrawer)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Redrawer) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Redrawer) {
		if l != nil {
			w.logger = l
		}
	}
}
