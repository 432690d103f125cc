package plan_test

import (
	"testing"

	"github.com/okian/skillwheel/internal/domain/curve"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/plan"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

const epsilon = 1e-9

type recorder struct {
	calls  []string
	nodes  []types.Node
	curves []types.Curve
}

func (r *recorder) ClearCanvas() {
	r.calls = append(r.calls, "clear")
	r.nodes, r.curves = nil, nil
}

func (r *recorder) DrawNode(n types.Node) {
	r.calls = append(r.calls, "node")
	r.nodes = append(r.nodes, n)
}

func (r *recorder) DrawCurve(c types.Curve) {
	r.calls = append(r.calls, "curve:"+string(c.Kind))
	r.curves = append(r.curves, c)
}

func scenario() model.Dataset {
	return model.Dataset{
		{Name: "A", MainSkills: []string{"x"}, OtherSkills: []string{"y"}},
		{Name: "B", MainSkills: []string{"y"}, OtherSkills: []string{}},
	}
}

func TestBuildEmptyDataset(t *testing.T) {
	Convey("Given an empty dataset", t, func() {
		p := plan.NewBuilder().Build(nil, selection.Idle())

		Convey("Then the plan only clears the canvas", func() {
			So(p.Instructions, ShouldResemble, []types.Instruction{{Op: types.OpClear}})
			So(p.Nodes(), ShouldBeEmpty)
			So(p.Curves(types.CurveMesh), ShouldBeEmpty)
			So(p.Layout.Skills.Empty(), ShouldBeTrue)
			So(p.Layout.Competences.Empty(), ShouldBeTrue)
		})
	})
}

func TestBuildSingleMember(t *testing.T) {
	Convey("Given one competence with one main skill", t, func() {
		ds := model.Dataset{{Name: "Solo", MainSkills: []string{"only"}, OtherSkills: []string{}}}
		p := plan.NewBuilder().Build(ds, selection.Idle())

		Convey("Then each ring has one node and no mesh", func() {
			So(p.Layout.Skills.Size, ShouldEqual, 1)
			So(p.Layout.Competences.Size, ShouldEqual, 1)
			So(len(p.Nodes()), ShouldEqual, 2)
			So(p.Curves(types.CurveMesh), ShouldBeEmpty)
		})

		Convey("When the skill is selected", func() {
			p = plan.NewBuilder().Build(ds, selection.OfSkill(model.Skill{Name: "only"}))

			Convey("Then a single main highlight is drawn", func() {
				hl := p.Curves(types.CurveHighlight)
				So(len(hl), ShouldEqual, 1)
				So(hl[0].Color, ShouldEqual, model.RelationMain)
			})
		})
	})
}

func TestBuildScenario(t *testing.T) {
	Convey("Given the two-competence scenario", t, func() {
		b := plan.NewBuilder()

		Convey("When idle", func() {
			p := b.Build(scenario(), selection.Idle())

			Convey("Then the order is clear, mesh, skill nodes, competence nodes", func() {
				r := &recorder{}
				p.Paint(r)
				So(r.calls, ShouldResemble, []string{
					"clear",
					"curve:mesh", "curve:mesh",
					"curve:mesh", "curve:mesh",
					"node", "node", "node", "node",
				})
				So(r.nodes[0].Ring, ShouldEqual, model.RingSkill)
				So(r.nodes[0].Label, ShouldEqual, "x")
				So(r.nodes[2].Ring, ShouldEqual, model.RingCompetence)
				So(r.nodes[2].Label, ShouldEqual, "A")
				So(r.curves[0].Ring, ShouldEqual, model.RingCompetence)
				So(r.curves[2].Ring, ShouldEqual, model.RingSkill)
				for _, n := range r.nodes {
					So(n.Emphasis, ShouldEqual, types.EmphasisNormal)
				}
				So(p.Curves(types.CurveHighlight), ShouldBeEmpty)
			})

			Convey("And nodes sit on their rings", func() {
				nodes := p.Nodes()
				So(nodes[0].Position.X, ShouldAlmostEqual, 1310, epsilon)
				So(nodes[0].Position.Y, ShouldAlmostEqual, 450, epsilon)
				So(nodes[2].Position.X, ShouldAlmostEqual, 1135, epsilon)
				So(nodes[3].Position.X, ShouldAlmostEqual, 785, epsilon)
			})
		})

		Convey("When skill y is selected", func() {
			p := b.Build(scenario(), selection.OfSkill(model.Skill{Name: "y"}))

			Convey("Then A is highlighted as other and B as main, drawn from the skill", func() {
				hl := p.Curves(types.CurveHighlight)
				So(len(hl), ShouldEqual, 2)
				So(hl[0].Competence, ShouldEqual, "A")
				So(hl[0].Color, ShouldEqual, model.RelationOther)
				So(hl[1].Competence, ShouldEqual, "B")
				So(hl[1].Color, ShouldEqual, model.RelationMain)
				skillPos := p.Nodes()[1].Position
				So(hl[0].Start, ShouldResemble, skillPos)
				So(hl[0].Mid, ShouldNotBeNil)
			})

			Convey("And node emphasis follows the selection", func() {
				nodes := p.Nodes()
				So(nodes[0].Emphasis, ShouldEqual, types.EmphasisDimmed)
				So(nodes[1].Emphasis, ShouldEqual, types.EmphasisSelected)
				So(nodes[2].Emphasis, ShouldEqual, types.EmphasisConnectedOther)
				So(nodes[3].Emphasis, ShouldEqual, types.EmphasisConnectedMain)
			})

			Convey("And highlights are drawn after every node", func() {
				last := p.Instructions[len(p.Instructions)-1]
				So(last.Op, ShouldEqual, types.OpCurve)
				So(last.Curve.Kind, ShouldEqual, types.CurveHighlight)
			})
		})

		Convey("When competence A is selected with dimming off", func() {
			p := plan.NewBuilder(plan.WithDimUnselected(false), plan.WithStyle(curve.StyleQuadratic)).
				Build(scenario(), selection.OfCompetence(scenario()[0]))

			Convey("Then curves run from the competence to each skill", func() {
				hl := p.Curves(types.CurveHighlight)
				So(len(hl), ShouldEqual, 2)
				compPos := p.Nodes()[2].Position
				So(hl[0].Start, ShouldResemble, compPos)
				So(hl[0].Skill, ShouldEqual, "x")
				So(hl[0].Color, ShouldEqual, model.RelationMain)
				So(hl[1].Color, ShouldEqual, model.RelationOther)
				So(hl[0].Mid, ShouldBeNil)
			})

			Convey("And the unrelated competence stays normal", func() {
				nodes := p.Nodes()
				So(nodes[2].Emphasis, ShouldEqual, types.EmphasisSelected)
				So(nodes[3].Emphasis, ShouldEqual, types.EmphasisNormal)
				So(nodes[0].Emphasis, ShouldEqual, types.EmphasisConnectedMain)
				So(nodes[1].Emphasis, ShouldEqual, types.EmphasisConnectedOther)
			})
		})

		Convey("When a competence without skills is selected", func() {
			ds := append(scenario(), model.Competence{Name: "Empty", MainSkills: []string{}, OtherSkills: []string{}})
			p := b.Build(ds, selection.OfCompetence(ds[2]))

			Convey("Then it is still marked selected", func() {
				So(p.Curves(types.CurveHighlight), ShouldBeEmpty)
				So(p.Nodes()[4].Emphasis, ShouldEqual, types.EmphasisSelected)
			})
		})
	})
}

func TestBuildPinnedCompetence(t *testing.T) {
	Convey("Given two identical competences and the second one selected", t, func() {
		twin := model.Competence{Name: "A", MainSkills: []string{"x"}, OtherSkills: []string{}}
		ds := model.Dataset{twin, twin}
		p := plan.NewBuilder().Build(ds, selection.OfCompetenceAt(twin, 1))

		Convey("Then only the second node is marked selected", func() {
			nodes := p.Nodes()
			So(nodes[1].Index, ShouldEqual, 0)
			So(nodes[1].Emphasis, ShouldNotEqual, types.EmphasisSelected)
			So(nodes[2].Index, ShouldEqual, 1)
			So(nodes[2].Emphasis, ShouldEqual, types.EmphasisSelected)
			So(p.Connections[0].CompetenceIndex, ShouldEqual, 1)
		})
	})
}

func TestBuildStaleSelection(t *testing.T) {
	Convey("Given a selection of a skill the dataset no longer has", t, func() {
		p := plan.NewBuilder().Build(scenario(), selection.OfSkill(model.Skill{Name: "gone"}))

		Convey("Then the plan is drawn as idle", func() {
			So(p.Selection.IsIdle(), ShouldBeTrue)
			So(p.Curves(types.CurveHighlight), ShouldBeEmpty)
			So(p.Connections, ShouldBeEmpty)
		})
	})
}

func TestBuildIsIdempotent(t *testing.T) {
	Convey("Given identical inputs", t, func() {
		b := plan.NewBuilder(plan.WithGeometry(types.Point{X: 10, Y: 20}, 100))
		sel := selection.OfSkill(model.Skill{Name: "y"})

		Convey("Then two builds produce identical plans", func() {
			So(b.Build(scenario(), sel), ShouldResemble, b.Build(scenario(), sel))
			So(b.Geometry().Radius, ShouldEqual, 100.0)
		})
	})
}
