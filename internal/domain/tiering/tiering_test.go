package tiering_test

import (
	"math"
	"testing"

	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/scoring"
	"github.com/okian/diamond/internal/domain/tiering"
	. "github.com/smartystreets/goconvey/convey"
)

func gem() tiering.Record {
	return tiering.Record{
		PitcherID:    "p1",
		DiamondScore: 76,
		Saves:        10,
		BustRisk:     30,
		MarketPrice:  5,
	}
}

func TestHiddenGems(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		th := tiering.DefaultThresholds()

		Convey("A pitcher clearing every cut-off is a gem", func() {
			So(th.IsHiddenGem(gem()), ShouldBeTrue)
		})

		Convey("Any single violated threshold excludes the pitcher", func() {
			cases := []func(r *tiering.Record){
				func(r *tiering.Record) { r.DiamondScore = 75 },
				func(r *tiering.Record) { r.Saves = 15 },
				func(r *tiering.Record) { r.BustRisk = 40 },
				func(r *tiering.Record) { r.MarketPrice = 6 },
				func(r *tiering.Record) { r.MarketPrice = math.NaN() },
			}
			for _, mutate := range cases {
				r := gem()
				mutate(&r)
				So(th.IsHiddenGem(r), ShouldBeFalse)
			}
		})

		Convey("HiddenGems filters and sorts best first", func() {
			a := gem()
			b := gem()
			b.PitcherID = "p2"
			b.DiamondScore = 90
			c := gem()
			c.PitcherID = "p3"
			c.Saves = 30

			out := th.HiddenGems([]tiering.Record{a, b, c})
			So(out, ShouldHaveLength, 2)
			So(out[0].PitcherID, ShouldEqual, "p2")
			So(out[1].PitcherID, ShouldEqual, "p1")
		})

		Convey("An empty input yields an empty, non-nil list", func() {
			out := th.HiddenGems(nil)
			So(out, ShouldNotBeNil)
			So(out, ShouldBeEmpty)
		})
	})
}

func TestCategorize(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		th := tiering.DefaultThresholds()

		Convey("Categories may overlap", func() {
			r := tiering.Record{PitcherID: "p", DiamondScore: 85, ValueScore: 80, BustRisk: 25}
			cats := th.Categorize(r)
			So(cats, ShouldContain, tiering.CategoryElite)
			So(cats, ShouldContain, tiering.CategoryValuePlay)
			So(cats, ShouldNotContain, tiering.CategoryAvoid)
		})

		Convey("High upside needs both score and risk", func() {
			r := tiering.Record{DiamondScore: 72, BustRisk: 55}
			So(th.Categorize(r), ShouldContain, tiering.CategoryHighUpsideRisk)
			r.BustRisk = 49
			So(th.Categorize(r), ShouldNotContain, tiering.CategoryHighUpsideRisk)
		})

		Convey("Avoid triggers on either a low score or a high risk", func() {
			So(th.Categorize(tiering.Record{DiamondScore: 49}), ShouldContain, tiering.CategoryAvoid)
			So(th.Categorize(tiering.Record{DiamondScore: 90, BustRisk: 70}), ShouldContain, tiering.CategoryAvoid)
		})

		Convey("Role mismatch is a single threshold", func() {
			So(th.Categorize(tiering.Record{DiamondScore: 60, RoleMismatch: 40}), ShouldContain, tiering.CategoryRoleMismatch)
			So(th.Categorize(tiering.Record{DiamondScore: 60, RoleMismatch: 39}), ShouldBeEmpty)
		})

		Convey("Bucketize lists every category", func() {
			buckets := th.Bucketize([]tiering.Record{
				{PitcherID: "b", DiamondScore: 85, BustRisk: 10},
				{PitcherID: "a", DiamondScore: 85, BustRisk: 10},
				{PitcherID: "c", DiamondScore: 20},
			})
			So(buckets, ShouldHaveLength, len(tiering.AllCategories()))
			So(buckets[tiering.CategoryElite], ShouldHaveLength, 2)
			So(buckets[tiering.CategoryElite][0].PitcherID, ShouldEqual, "a")
			So(buckets[tiering.CategoryAvoid], ShouldHaveLength, 1)
			So(buckets[tiering.CategoryValuePlay], ShouldBeEmpty)
		})
	})
}

func TestTiersAndArchetypes(t *testing.T) {
	Convey("Tier boundaries are inclusive", t, func() {
		So(tiering.TierOf(85), ShouldEqual, "S")
		So(tiering.TierOf(84.9), ShouldEqual, "A")
		So(tiering.TierOf(75), ShouldEqual, "A")
		So(tiering.TierOf(65), ShouldEqual, "B")
		So(tiering.TierOf(50), ShouldEqual, "C")
		So(tiering.TierOf(49.99), ShouldEqual, "D")
	})

	Convey("Archetypes follow the dominant component", t, func() {
		th := tiering.DefaultThresholds()

		power := tiering.Record{Components: map[scoring.Signal]float64{
			scoring.SignalEffectiveVelocity:  90,
			scoring.SignalDeceptionTunneling: 70,
		}}
		So(th.ArchetypeOf(power), ShouldEqual, tiering.ArchetypePowerArm)

		deceiver := tiering.Record{Components: map[scoring.Signal]float64{
			scoring.SignalEffectiveVelocity:  60,
			scoring.SignalDeceptionTunneling: 80,
		}}
		So(th.ArchetypeOf(deceiver), ShouldEqual, tiering.ArchetypeDeceiver)

		So(th.ArchetypeOf(tiering.Record{RoleMismatch: 45}), ShouldEqual, tiering.ArchetypeCloserInWaiting)
		So(th.ArchetypeOf(tiering.Record{}), ShouldEqual, tiering.ArchetypeBalanced)
	})
}

func TestSortAndFlatten(t *testing.T) {
	Convey("SortByDiamond is descending with id ties ascending", t, func() {
		rs := []tiering.Record{
			{PitcherID: "c", DiamondScore: 60},
			{PitcherID: "b", DiamondScore: 70},
			{PitcherID: "a", DiamondScore: 60},
		}
		tiering.SortByDiamond(rs)
		So([]string{rs[0].PitcherID, rs[1].PitcherID, rs[2].PitcherID}, ShouldResemble, []string{"b", "a", "c"})
	})

	Convey("FromEvaluation carries usage and price", t, func() {
		agg, err := scoring.NewAggregator()
		So(err, ShouldBeNil)
		m := model.RawMetrics{model.MetricSaves: 3, model.MetricMarketPrice: 2.5}
		ev := agg.Evaluate(scoring.Input{PitcherID: "x", Metrics: m})

		r := tiering.FromEvaluation("X", ev, m)
		So(r.PitcherID, ShouldEqual, "x")
		So(r.Name, ShouldEqual, "X")
		So(r.Saves, ShouldEqual, 3.0)
		So(r.MarketPrice, ShouldEqual, 2.5)
		So(r.DiamondScore, ShouldEqual, ev.DiamondScore)
		So(r.Components, ShouldHaveLength, len(agg.Signals()))

		noPrice := tiering.FromEvaluation("X", ev, model.RawMetrics{})
		So(math.IsNaN(noPrice.MarketPrice), ShouldBeTrue)
	})
}
