package render

import "github.com/okian/skillwheel/internal/domain/types"

// LinkFunc returns the href a node should link to, or "" for no link.
type LinkFunc func(n types.Node) string

// Option configures an SVG renderer.
type Option func(*SVG)

// WithCanvas sets the document size.
func WithCanvas(width, height int) Option {
	return func(s *SVG) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithPalette overrides colours; empty fields keep the defaults.
func WithPalette(p Palette) Option {
	return func(s *SVG) {
		s.palette = p.merge(DefaultPalette())
	}
}

// WithLinks wraps every node in an anchor built by fn.
func WithLinks(fn LinkFunc) Option {
	return func(s *SVG) {
		s.link = fn
	}
}

// WithAnimation toggles the highlight draw-in animation.
func WithAnimation(enabled bool) Option {
	return func(s *SVG) {
		s.animate = enabled
	}
}
