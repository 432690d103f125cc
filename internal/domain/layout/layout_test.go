package layout_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/okian/skillwheel/internal/domain/layout"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

const epsilon = 1e-9

func TestAngle(t *testing.T) {
	Convey("Given rings of several sizes", t, func() {
		for _, n := range []int{1, 2, 3, 7, 12, 100} {
			Convey(fmt.Sprintf("Then ring %d starts at 0 and is spaced by 2pi/n", n), func() {
				So(layout.Angle(0, n), ShouldEqual, 0.0)
				step := 2 * math.Pi / float64(n)
				prev := -1.0
				for i := 0; i < n; i++ {
					a := layout.Angle(float64(i), n)
					So(a, ShouldBeGreaterThan, prev)
					So(a, ShouldBeGreaterThanOrEqualTo, 0)
					So(a, ShouldBeLessThan, 2*math.Pi)
					So(a, ShouldAlmostEqual, float64(i)*step, epsilon)
					prev = a
				}
			})
		}
	})

	Convey("Given an index equal to the ring size", t, func() {
		Convey("Then it wraps to index 0", func() {
			So(layout.Angle(5, 5), ShouldEqual, layout.Angle(0, 5))
			So(layout.Angle(5.5, 5), ShouldAlmostEqual, layout.Angle(0.5, 5), epsilon)
		})
	})

	Convey("Given a negative index", t, func() {
		Convey("Then it wraps from the end", func() {
			So(layout.Angle(-1, 4), ShouldAlmostEqual, layout.Angle(3, 4), epsilon)
		})
	})

	Convey("Given an empty ring", t, func() {
		Convey("Then every angle is 0 and nothing divides by zero", func() {
			So(layout.Angle(0, 0), ShouldEqual, 0.0)
			So(layout.Angle(3, 0), ShouldEqual, 0.0)
		})
	})
}

func TestCoordinates(t *testing.T) {
	Convey("Given a center and radius", t, func() {
		center := types.Point{X: 960, Y: 450}

		Convey("Then angle 0 lies to the right and pi/2 below", func() {
			p0 := layout.Coordinates(center, 350, 0)
			So(p0.X, ShouldAlmostEqual, 1310, epsilon)
			So(p0.Y, ShouldAlmostEqual, 450, epsilon)

			p1 := layout.Coordinates(center, 350, math.Pi/2)
			So(p1.X, ShouldAlmostEqual, 960, epsilon)
			So(p1.Y, ShouldAlmostEqual, 800, epsilon)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given a geometry", t, func() {
		g := layout.Geometry{Center: types.Point{X: 100, Y: 100}, Radius: 80}
		l := layout.New(g, 4, 2)

		Convey("Then the competence ring has half the radius", func() {
			So(l.Skills.Radius, ShouldEqual, 80.0)
			So(l.Competences.Radius, ShouldEqual, 40.0)
			So(l.Skills.Kind, ShouldEqual, model.RingSkill)
			So(l.Competences.Kind, ShouldEqual, model.RingCompetence)
			So(l.Ring(model.RingCompetence), ShouldResemble, l.Competences)
			So(l.Ring(model.RingSkill), ShouldResemble, l.Skills)
		})

		Convey("Then members are placed on their circle", func() {
			p := l.Skills.At(1)
			So(p.X, ShouldAlmostEqual, 100, epsilon)
			So(p.Y, ShouldAlmostEqual, 180, epsilon)
			q := l.Competences.At(1)
			So(q.X, ShouldAlmostEqual, 60, epsilon)
			So(q.Y, ShouldAlmostEqual, 100, epsilon)
		})

		Convey("Then a ring of size zero is empty", func() {
			So(layout.New(g, 0, 0).Skills.Empty(), ShouldBeTrue)
			So(l.Skills.Empty(), ShouldBeFalse)
		})
	})
}
