// Package render paints diagram plans. The SVG backend writes a standalone
// document; the Recorder keeps the calls for inspection.
package render

import (
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/types"
)

// Drawing constants shared by every backend.
const (
	NodeRadius          = 18.76
	MeshStrokeWidth     = 2.35
	HighlightStroke     = 2.0
	SelectedStrokeWidth = 3.0
	DimmedOpacity       = 0.35
	DrawInMillis        = 800
	CompetenceLabelDX   = -40.0
	DefaultCanvasWidth  = 1920
	DefaultCanvasHeight = 1000
)

// Palette holds the colours used for relations, ring fills and labels.
type Palette struct {
	Main           string `json:"main"`
	Other          string `json:"other"`
	Neutral        string `json:"neutral"`
	SkillFill      string `json:"skillFill"`
	CompetenceFill string `json:"competenceFill"`
	Label          string `json:"label"`
}

// DefaultPalette returns the stock colours.
func DefaultPalette() Palette {
	return Palette{
		Main:           "orange",
		Other:          "purple",
		Neutral:        "#ADADAD",
		SkillFill:      "#FFD4AD",
		CompetenceFill: "#ADADAD",
		Label:          "#3A3A3A",
	}
}

// Relation returns the stroke colour for a curve relation.
func (p Palette) Relation(rel model.Relation) string {
	switch rel {
	case model.RelationMain:
		return p.Main
	case model.RelationOther:
		return p.Other
	default:
		return p.Neutral
	}
}

// Fill returns the fill colour of a node given its ring and emphasis.
// Counterparts of the selection take their relation colour.
func (p Palette) Fill(n types.Node) string {
	switch n.Emphasis {
	case types.EmphasisConnectedMain:
		return p.Main
	case types.EmphasisConnectedOther:
		return p.Other
	}
	if n.Ring == model.RingCompetence {
		return p.CompetenceFill
	}
	return p.SkillFill
}

// merge fills empty fields of p from base.
func (p Palette) merge(base Palette) Palette {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Palette{
		Main:           pick(p.Main, base.Main),
		Other:          pick(p.Other, base.Other),
		Neutral:        pick(p.Neutral, base.Neutral),
		SkillFill:      pick(p.SkillFill, base.SkillFill),
		CompetenceFill: pick(p.CompetenceFill, base.CompetenceFill),
		Label:          pick(p.Label, base.Label),
	}
}
