package scoring_test

import (
	"testing"

	"github.com/prixsix/engine/internal/domain/model"
	"github.com/prixsix/engine/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngineScore(t *testing.T) {
	Convey("Given a scoring engine with the default point scale", t, func() {
		engine := scoring.NewEngine()
		actual := [model.SlotCount]string{"A", "B", "C", "D", "E", "F"}

		Convey("When the prediction matches the result exactly", func() {
			b := engine.Score(actual, actual)

			Convey("Then every slot earns six points and the bonus applies", func() {
				for _, pts := range b.PerSlot {
					So(pts, ShouldEqual, 6)
				}
				So(b.Bonus, ShouldEqual, 10)
				So(b.Total, ShouldEqual, 46)
				So(b.PerfectSet(), ShouldBeTrue)
			})
		})

		Convey("When the prediction is the exact reverse order", func() {
			predicted := [model.SlotCount]string{"F", "E", "D", "C", "B", "A"}
			b := engine.Score(predicted, actual)

			Convey("Then every slot earns distance points and the bonus still applies", func() {
				// Distances are 5,3,1,1,3,5 -> 2,2,4,4,2,2 points.
				So(b.PerSlot, ShouldResemble, [model.SlotCount]int{2, 2, 4, 4, 2, 2})
				So(b.Bonus, ShouldEqual, 10)
				So(b.Total, ShouldEqual, 26)
				So(b.Total, ShouldBeLessThan, 46)
			})
		})

		Convey("When two adjacent competitors are swapped", func() {
			predicted := [model.SlotCount]string{"B", "A", "C", "D", "E", "F"}
			b := engine.Score(predicted, actual)

			Convey("Then the swapped pair earns four points each and the rest six", func() {
				So(b.PerSlot, ShouldResemble, [model.SlotCount]int{4, 4, 6, 6, 6, 6})
				So(b.Bonus, ShouldEqual, 10)
				So(b.Total, ShouldEqual, 42)
			})
		})

		Convey("When one predicted competitor is absent from the top six", func() {
			predicted := [model.SlotCount]string{"A", "B", "C", "D", "E", "X"}
			b := engine.Score(predicted, actual)

			Convey("Then that slot scores zero and the bonus is withheld", func() {
				So(b.PerSlot[5], ShouldEqual, 0)
				So(b.Bonus, ShouldEqual, 0)
				So(b.Total, ShouldEqual, 30)
				So(b.PerfectSet(), ShouldBeFalse)
			})
		})

		Convey("When no predicted competitor finishes in the top six", func() {
			predicted := [model.SlotCount]string{"U", "V", "W", "X", "Y", "Z"}
			b := engine.Score(predicted, actual)

			Convey("Then the total is zero", func() {
				So(b.Total, ShouldEqual, 0)
				So(b.Bonus, ShouldEqual, 0)
			})
		})

		Convey("When a competitor is two positions off", func() {
			predicted := [model.SlotCount]string{"C", "B", "A", "D", "E", "F"}
			b := engine.Score(predicted, actual)

			Convey("Then those slots earn three points each", func() {
				So(b.PerSlot, ShouldResemble, [model.SlotCount]int{3, 6, 3, 6, 6, 6})
				So(b.Total, ShouldEqual, 30+10)
			})
		})

		Convey("Then scoring is deterministic", func() {
			predicted := [model.SlotCount]string{"B", "A", "C", "D", "E", "F"}
			first := engine.Score(predicted, actual)
			second := engine.Score(predicted, actual)
			So(first, ShouldResemble, second)
		})
	})
}

func TestEngineOptions(t *testing.T) {
	Convey("Given custom scoring options", t, func() {
		actual := [model.SlotCount]string{"A", "B", "C", "D", "E", "F"}

		Convey("When overriding the bonus", func() {
			engine := scoring.NewEngine(scoring.WithBonusPoints(0))
			b := engine.Score(actual, actual)
			So(b.Bonus, ShouldEqual, 0)
			So(b.Total, ShouldEqual, 36)
		})

		Convey("When overriding the point scale", func() {
			engine := scoring.NewEngine(scoring.WithPointScale(10, 5, 2, 1))
			b := engine.Score(actual, actual)
			So(b.Total, ShouldEqual, 60+10)
		})

		Convey("When supplying a disordered point scale", func() {
			engine := scoring.NewEngine(scoring.WithPointScale(1, 5, 2, 9))

			Convey("Then the default scale is kept", func() {
				b := engine.Score(actual, actual)
				So(b.Total, ShouldEqual, 46)
			})
		})
	})
}
