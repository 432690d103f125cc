// Package types contains the geometry types shared by the layout, curve and plan packages.
package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/skillwheel/internal/domain/model"
)

// coordPrecision is the number of decimals kept when formatting path coordinates.
const coordPrecision = 1000

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Midpoint returns the point halfway between p and o.
func (p Point) Midpoint(o Point) Point {
	return Point{X: (p.X + o.X) / 2, Y: (p.Y + o.Y) / 2}
}

// Distance returns the straight-line distance between p and o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// CurveKind tells mesh curves from highlight curves.
type CurveKind string

// Curve kinds.
const (
	CurveMesh      CurveKind = "mesh"
	CurveHighlight CurveKind = "highlight"
)

// Curve describes one quadratic path, optionally continued by a smooth segment through Mid.
type Curve struct {
	Kind    CurveKind      `json:"kind"`
	Ring    model.RingKind `json:"ring,omitempty"`
	Start   Point          `json:"start"`
	Control Point          `json:"control"`
	Mid     *Point         `json:"mid,omitempty"`
	End     Point          `json:"end"`
	Color   model.Relation `json:"color"`

	// Skill and Competence name the endpoints of a highlight curve.
	Skill      string `json:"skill,omitempty"`
	Competence string `json:"competence,omitempty"`

	// Length is the chord length, used by renderers for the draw-in animation.
	Length float64 `json:"length,omitempty"`
}

// Path returns the curve as SVG path data.
//
//	M start Q control end            (single quadratic)
//	M start Q control mid T end      (s-bend)
func (c Curve) Path() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, c.Start)
	b.WriteString(" Q ")
	writePoint(&b, c.Control)
	if c.Mid != nil {
		b.WriteByte(' ')
		writePoint(&b, *c.Mid)
		b.WriteString(" T ")
	} else {
		b.WriteByte(' ')
	}
	writePoint(&b, c.End)
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(FormatCoord(p.X))
	b.WriteByte(',')
	b.WriteString(FormatCoord(p.Y))
}

// FormatCoord rounds v to three decimals and prints it without trailing zeros.
// Trigonometric noise such as 1e-14 and negative zero both print as "0".
func FormatCoord(v float64) string {
	r := math.Round(v*coordPrecision)/coordPrecision + 0
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Emphasis is the styling state of a node for the current selection.
type Emphasis string

// Node emphasis states.
const (
	EmphasisNormal         Emphasis = "normal"
	EmphasisSelected       Emphasis = "selected"
	EmphasisConnectedMain  Emphasis = "connected_main"
	EmphasisConnectedOther Emphasis = "connected_other"
	EmphasisDimmed         Emphasis = "dimmed"
)

// Node is one ring member placed on the canvas.
type Node struct {
	Ring     model.RingKind `json:"ring"`
	Index    int            `json:"index"`
	Label    string         `json:"label"`
	Position Point          `json:"position"`
	Emphasis Emphasis       `json:"emphasis"`
}

// Op is a drawing instruction opcode.
type Op string

// Drawing opcodes.
const (
	OpClear Op = "clear"
	OpNode  Op = "node"
	OpCurve Op = "curve"
)

// Instruction is one step of a drawing plan.
type Instruction struct {
	Op    Op     `json:"op"`
	Node  *Node  `json:"node,omitempty"`
	Curve *Curve `json:"curve,omitempty"`
}
