package plan

import (
	"github.com/okian/skillwheel/internal/domain/curve"
	"github.com/okian/skillwheel/internal/domain/layout"
	"github.com/okian/skillwheel/internal/domain/types"
)

// Default geometry for a 1920x1000 canvas.
const (
	defaultCenterX = 960
	defaultCenterY = 450
	defaultRadius  = 350
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithGeometry sets the ring center and the skill ring radius.
// Non-positive radii are ignored.
func WithGeometry(center types.Point, radius float64) Option {
	return func(b *Builder) {
		if radius > 0 {
			b.geometry = layout.Geometry{Center: center, Radius: radius}
		}
	}
}

// WithStyle sets the highlight curve style.
func WithStyle(style curve.Style) Option {
	return func(b *Builder) {
		if style != "" {
			b.style = style
		}
	}
}

// WithDimUnselected toggles dimming of nodes that are neither selected nor connected.
func WithDimUnselected(dim bool) Option {
	return func(b *Builder) {
		b.dimUnselected = dim
	}
}
