// Package plan turns a dataset and a selection into an immutable list of
// drawing instructions. Building a plan is a pure function of its inputs.
package plan

import (
	"github.com/okian/skillwheel/internal/domain/curve"
	"github.com/okian/skillwheel/internal/domain/layout"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/internal/domain/types"
)

// Renderer paints drawing instructions. Implementations own styling and output.
type Renderer interface {
	ClearCanvas()
	DrawNode(n types.Node)
	DrawCurve(c types.Curve)
}

// Plan is the full result of one redraw.
type Plan struct {
	Selection    selection.Selection    `json:"selection"`
	Layout       layout.Layout          `json:"layout"`
	Connections  []selection.Connection `json:"connections"`
	Instructions []types.Instruction    `json:"instructions"`
}

// Paint replays the instructions onto r in order.
func (p Plan) Paint(r Renderer) {
	for _, in := range p.Instructions {
		switch in.Op {
		case types.OpClear:
			r.ClearCanvas()
		case types.OpNode:
			r.DrawNode(*in.Node)
		case types.OpCurve:
			r.DrawCurve(*in.Curve)
		}
	}
}

// Nodes returns the node instructions in drawing order.
func (p Plan) Nodes() []types.Node {
	var out []types.Node
	for _, in := range p.Instructions {
		if in.Op == types.OpNode {
			out = append(out, *in.Node)
		}
	}
	return out
}

// Curves returns the curve instructions of the given kind in drawing order.
func (p Plan) Curves(kind types.CurveKind) []types.Curve {
	var out []types.Curve
	for _, in := range p.Instructions {
		if in.Op == types.OpCurve && in.Curve.Kind == kind {
			out = append(out, *in.Curve)
		}
	}
	return out
}

// Builder builds plans for a fixed geometry and style.
type Builder struct {
	geometry      layout.Geometry
	style         curve.Style
	dimUnselected bool
}

// NewBuilder creates a Builder. Defaults match a 1920x1000 canvas.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		geometry:      layout.Geometry{Center: types.Point{X: defaultCenterX, Y: defaultCenterY}, Radius: defaultRadius},
		style:         curve.StyleSBend,
		dimUnselected: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Geometry returns the builder's geometry.
func (b *Builder) Geometry() layout.Geometry { return b.geometry }

// Build indexes ds and builds the plan for sel.
func (b *Builder) Build(ds model.Dataset, sel selection.Selection) Plan {
	return b.BuildIndexed(selection.NewIndex(ds), sel)
}

// BuildIndexed builds the plan for sel against an existing index.
// Stale selections resolve to Idle and the plan reports the resolved value.
//
// Drawing order: clear, competence mesh, skill mesh, skill nodes,
// competence nodes, highlight curves.
func (b *Builder) BuildIndexed(idx *selection.Index, sel selection.Selection) Plan {
	ds := idx.Dataset()
	skills := idx.Skills()
	sel = idx.Resolve(sel)
	conns := idx.Connections(sel)
	lay := layout.New(b.geometry, len(skills), len(ds))

	compMesh := curve.MeshRing(lay.Competences)
	skillMesh := curve.MeshRing(lay.Skills)
	ins := make([]types.Instruction, 0, 1+len(compMesh)+len(skillMesh)+len(skills)+len(ds)+len(conns))
	ins = append(ins, types.Instruction{Op: types.OpClear})
	ins = appendCurves(ins, compMesh)
	ins = appendCurves(ins, skillMesh)

	skillEmph, compEmph := b.emphasis(idx, sel, conns)
	for i, s := range skills {
		ins = append(ins, nodeInstruction(types.Node{
			Ring:     model.RingSkill,
			Index:    i,
			Label:    s.Name,
			Position: lay.Skills.At(i),
			Emphasis: skillEmph[i],
		}))
	}
	for i, c := range ds {
		ins = append(ins, nodeInstruction(types.Node{
			Ring:     model.RingCompetence,
			Index:    i,
			Label:    c.Name,
			Position: lay.Competences.At(i),
			Emphasis: compEmph[i],
		}))
	}

	for _, conn := range conns {
		skillPt := lay.Skills.At(conn.SkillIndex)
		compPt := lay.Competences.At(conn.CompetenceIndex)
		from, to := skillPt, compPt
		if sel.State() == selection.StateCompetenceSelected {
			from, to = compPt, skillPt
		}
		c := curve.Highlight(b.style, from, to, conn.Relation)
		c.Skill = conn.Skill
		c.Competence = conn.Competence
		ins = append(ins, types.Instruction{Op: types.OpCurve, Curve: &c})
	}

	return Plan{
		Selection:    sel,
		Layout:       lay,
		Connections:  conns,
		Instructions: ins,
	}
}

// emphasis styles every node for sel. The selected node is "selected", its
// counterparts take the relation colour and everything else is dimmed when
// dimming is on.
func (b *Builder) emphasis(idx *selection.Index, sel selection.Selection, conns []selection.Connection) (skills, comps []types.Emphasis) {
	rest := types.EmphasisNormal
	if b.dimUnselected && !sel.IsIdle() {
		rest = types.EmphasisDimmed
	}
	skills = fill(len(idx.Skills()), rest)
	comps = fill(len(idx.Dataset()), rest)

	switch sel.State() {
	case selection.StateSkillSelected:
		sk, _ := sel.Skill()
		if i, ok := idx.SkillIndex(sk.Name); ok {
			skills[i] = types.EmphasisSelected
		}
		for _, conn := range conns {
			comps[conn.CompetenceIndex] = connectedEmphasis(conn.Relation)
		}
	case selection.StateCompetenceSelected:
		if i := idx.CompetenceIndex(sel); i >= 0 {
			comps[i] = types.EmphasisSelected
		}
		for _, conn := range conns {
			skills[conn.SkillIndex] = connectedEmphasis(conn.Relation)
		}
	}
	return skills, comps
}

func connectedEmphasis(rel model.Relation) types.Emphasis {
	if rel == model.RelationMain {
		return types.EmphasisConnectedMain
	}
	return types.EmphasisConnectedOther
}

func fill(n int, e types.Emphasis) []types.Emphasis {
	out := make([]types.Emphasis, n)
	for i := range out {
		out[i] = e
	}
	return out
}

func nodeInstruction(n types.Node) types.Instruction {
	return types.Instruction{Op: types.OpNode, Node: &n}
}

func appendCurves(ins []types.Instruction, curves []types.Curve) []types.Instruction {
	for i := range curves {
		c := curves[i]
		ins = append(ins, types.Instruction{Op: types.OpCurve, Curve: &c})
	}
	return ins
}
