package live

import (
	"golang.org/x/time/rate"

	"github.com/okian/skillwheel/pkg/logger"
)

// Option configures a Handler.
type Option func(*Handler)

// WithClickRate limits clicks per connection.
func WithClickRate(perSecond float64, burst int) Option {
	return func(h *Handler) {
		if perSecond > 0 {
			h.limit = rate.Limit(perSecond)
		}
		if burst > 0 {
			h.burst = burst
		}
	}
}

// WithLogger sets the handler's logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithErrorCodes maps click errors to the codes reported to viewers.
func WithErrorCodes(fn func(error) string) Option {
	return func(h *Handler) {
		if fn != nil {
			h.code = fn
		}
	}
}
