// Package curve derives the control points of mesh and highlight curves.
package curve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/skillwheel/internal/domain/layout"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/types"
)

// ErrUnknownStyle is returned by ParseStyle for unsupported names.
var ErrUnknownStyle = errors.New("unknown highlight style")

// Style selects the shape of highlight curves.
type Style string

// Highlight styles.
const (
	// StyleSBend bends out along the start row, passes through the midpoint and
	// mirrors the bend into the end point.
	StyleSBend Style = "sbend"
	// StyleQuadratic uses the midpoint as its only control point.
	StyleQuadratic Style = "quadratic"
)

// ParseStyle parses a style name case-insensitively.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleSBend:
		return StyleSBend, nil
	case StyleQuadratic:
		return StyleQuadratic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
	}
}

// Mesh returns the arc from member i to member i+1 of r, controlled by the
// point at the angular midpoint on the same circle. Rings with fewer than two
// members have no neighbours, so ok is false.
func Mesh(r layout.Ring, i int) (c types.Curve, ok bool) {
	if r.Size < 2 {
		return types.Curve{}, false
	}
	fi := float64(i)
	return types.Curve{
		Kind:    types.CurveMesh,
		Ring:    r.Kind,
		Start:   r.Point(fi),
		Control: r.Point(fi + 0.5),
		End:     r.Point(fi + 1),
		Color:   model.RelationNeutral,
	}, true
}

// MeshRing returns the closed mesh of r: one arc per adjacent pair, including
// the closing arc from the last member back to the first.
func MeshRing(r layout.Ring) []types.Curve {
	if r.Size < 2 {
		return nil
	}
	out := make([]types.Curve, 0, r.Size)
	for i := 0; i < r.Size; i++ {
		c, _ := Mesh(r, i)
		out = append(out, c)
	}
	return out
}

// Highlight returns the curve from one endpoint to the other. Control points
// depend on the two endpoints only.
func Highlight(style Style, from, to types.Point, rel model.Relation) types.Curve {
	mid := from.Midpoint(to)
	c := types.Curve{
		Kind:   types.CurveHighlight,
		Start:  from,
		End:    to,
		Color:  rel,
		Length: from.Distance(to),
	}
	switch style {
	case StyleQuadratic:
		c.Control = mid
	default:
		c.Control = types.Point{X: (from.X + mid.X) / 2, Y: from.Y}
		c.Mid = &mid
	}
	return c
}
