package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/types"
)

// SVG renders a plan into a standalone SVG document. It is not safe for
// concurrent use; build one per render.
type SVG struct {
	width   int
	height  int
	palette Palette
	link    LinkFunc
	animate bool

	body bytes.Buffer
}

// NewSVG creates an SVG renderer.
func NewSVG(opts ...Option) *SVG {
	s := &SVG{
		width:   DefaultCanvasWidth,
		height:  DefaultCanvasHeight,
		palette: DefaultPalette(),
		animate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClearCanvas discards everything drawn so far.
func (s *SVG) ClearCanvas() {
	s.body.Reset()
}

// DrawNode draws a node circle and its label.
func (s *SVG) DrawNode(n types.Node) {
	href := ""
	if s.link != nil {
		href = s.link(n)
	}
	if href != "" {
		fmt.Fprintf(&s.body, `<a href="%s">`, attr(href))
	}
	fmt.Fprintf(&s.body, `<g class="node %s %s" data-ring="%s" data-name="%s" data-index="%d"`,
		n.Ring, n.Emphasis, n.Ring, attr(n.Label), n.Index)
	if n.Emphasis == types.EmphasisDimmed {
		fmt.Fprintf(&s.body, ` opacity="%s"`, num(DimmedOpacity))
	}
	s.body.WriteByte('>')

	cx, cy := num(n.Position.X), num(n.Position.Y)
	fmt.Fprintf(&s.body, `<circle cx="%s" cy="%s" r="%s" fill="%s"`, cx, cy, num(NodeRadius), s.palette.Fill(n))
	if n.Emphasis == types.EmphasisSelected {
		fmt.Fprintf(&s.body, ` stroke="%s" stroke-width="%s"`, s.palette.Main, num(SelectedStrokeWidth))
	}
	s.body.WriteString("/>")

	if n.Ring == model.RingCompetence {
		s.competenceLabel(n)
	} else {
		fmt.Fprintf(&s.body, `<text x="%s" y="%s" dy="-1em" text-anchor="middle" fill="%s">%s</text>`,
			cx, cy, s.palette.Label, html.EscapeString(n.Label))
	}

	s.body.WriteString("</g>")
	if href != "" {
		s.body.WriteString("</a>")
	}
	s.body.WriteByte('\n')
}

// competenceLabel stacks each word of the label on its own line.
func (s *SVG) competenceLabel(n types.Node) {
	x := num(n.Position.X + CompetenceLabelDX)
	fmt.Fprintf(&s.body, `<text x="%s" y="%s" fill="%s">`, x, num(n.Position.Y), s.palette.Label)
	dy := "0"
	for _, word := range strings.Fields(n.Label) {
		fmt.Fprintf(&s.body, `<tspan x="%s" dy="%s">%s</tspan>`, x, dy, html.EscapeString(word))
		dy = "1.5em"
	}
	s.body.WriteString("</text>")
}

// DrawCurve draws a mesh or highlight path.
func (s *SVG) DrawCurve(c types.Curve) {
	width := MeshStrokeWidth
	if c.Kind == types.CurveHighlight {
		width = HighlightStroke
	}
	fmt.Fprintf(&s.body, `<path class="curve %s" d="%s" fill="none" stroke="%s" stroke-width="%s"`,
		c.Kind, c.Path(), s.palette.Relation(c.Color), num(width))
	if c.Kind == types.CurveHighlight {
		fmt.Fprintf(&s.body, ` data-skill="%s" data-competence="%s"`, attr(c.Skill), attr(c.Competence))
	}
	if c.Kind != types.CurveHighlight || !s.animate || c.Length <= 0 {
		s.body.WriteString("/>\n")
		return
	}
	l := num(c.Length)
	fmt.Fprintf(&s.body, ` stroke-dasharray="%s" stroke-dashoffset="%s">`, l, l)
	fmt.Fprintf(&s.body, `<animate attributeName="stroke-dashoffset" from="%s" to="0" dur="%dms" fill="freeze"/>`,
		l, DrawInMillis)
	s.body.WriteString("</path>\n")
}

// Bytes returns the complete document.
func (s *SVG) Bytes() []byte {
	var out bytes.Buffer
	_, _ = s.WriteTo(&out)
	return out.Bytes()
}

// WriteTo writes the complete document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var doc bytes.Buffer
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="14">`+"\n",
		s.width, s.height, s.width, s.height)
	doc.Write(s.body.Bytes())
	doc.WriteString("</svg>\n")
	return doc.WriteTo(w)
}

// ContentType is the media type of the rendered document.
func (s *SVG) ContentType() string { return "image/svg+xml" }

func num(v float64) string { return types.FormatCoord(v) }

func attr(v string) string { return html.EscapeString(v) }
