// Package layout places ring members evenly around two concentric circles.
//
// Spacing is purely by count: member i of a ring of size n sits at angle
// i/n * 2pi, in the order the members were given.
package layout

import (
	"math"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/types"
)

// competenceRadiusFactor scales the skill radius down to the competence ring.
const competenceRadiusFactor = 0.5

// Geometry fixes the shared center and the outer (skill) ring radius.
type Geometry struct {
	Center types.Point `json:"center"`
	Radius float64     `json:"radius"`
}

// Angle maps index i of a ring of size n to an angle in [0, 2pi).
// Fractional indices are allowed and i wraps modulo n, so Angle(n, n) == Angle(0, n).
// A ring of size 0 has no positions; Angle returns 0 for it.
func Angle(i float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	size := float64(n)
	w := math.Mod(i, size)
	if w < 0 {
		w += size
	}
	return w / size * 2 * math.Pi
}

// Coordinates converts a polar position around center into canvas coordinates.
func Coordinates(center types.Point, radius, angle float64) types.Point {
	return types.Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// Ring is one circle of evenly spaced members.
type Ring struct {
	Kind   model.RingKind `json:"kind"`
	Size   int            `json:"size"`
	Center types.Point    `json:"center"`
	Radius float64        `json:"radius"`
}

// Empty reports whether the ring has nothing to draw.
func (r Ring) Empty() bool { return r.Size <= 0 }

// Angle returns the angle of (possibly fractional) index i.
func (r Ring) Angle(i float64) float64 { return Angle(i, r.Size) }

// Point returns the canvas position of (possibly fractional) index i.
func (r Ring) Point(i float64) types.Point {
	return Coordinates(r.Center, r.Radius, r.Angle(i))
}

// At returns the canvas position of member i.
func (r Ring) At(i int) types.Point { return r.Point(float64(i)) }

// Layout holds both rings of a diagram.
type Layout struct {
	Skills      Ring `json:"skills"`
	Competences Ring `json:"competences"`
}

// New builds the skill ring (full radius) and the competence ring (half radius).
func New(g Geometry, skillCount, competenceCount int) Layout {
	return Layout{
		Skills: Ring{
			Kind:   model.RingSkill,
			Size:   skillCount,
			Center: g.Center,
			Radius: g.Radius,
		},
		Competences: Ring{
			Kind:   model.RingCompetence,
			Size:   competenceCount,
			Center: g.Center,
			Radius: g.Radius * competenceRadiusFactor,
		},
	}
}

// Ring returns the ring of the given kind.
func (l Layout) Ring(kind model.RingKind) Ring {
	if kind == model.RingCompetence {
		return l.Competences
	}
	return l.Skills
}
