package profile_test

import (
	"testing"

	"github.com/whichracket/advisor/internal/domain/catalog"
	"github.com/whichracket/advisor/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func baseline() map[string]float64 {
	b := make(map[string]float64, len(catalog.Attributes))
	for _, name := range catalog.Attributes {
		b[name] = 50
	}
	b["Power"] = 80
	b["Control"] = 60
	return b
}

func TestAccumulatorInit(t *testing.T) {
	Convey("Given a fresh accumulator", t, func() {
		acc := profile.NewAccumulator(baseline())
		snap := acc.Snapshot()

		Convey("Then attributes start at their baseline values", func() {
			So(snap.Attributes["Power"], ShouldEqual, 80)
			So(snap.Attributes["Control"], ShouldEqual, 60)
			So(snap.Attributes["Slice"], ShouldEqual, 50)
		})

		Convey("And styles start at the neutral constant", func() {
			for _, name := range profile.Styles {
				So(snap.Styles[name], ShouldEqual, catalog.NeutralScore)
			}
		})

		Convey("And no range preferences are set", func() {
			So(snap.Ranges, ShouldBeEmpty)
			So(acc.Depth(), ShouldEqual, 0)
		})
	})

	Convey("Given a baseline missing some attributes", t, func() {
		acc := profile.NewAccumulator(map[string]float64{"Power": 70})

		Convey("Then missing attributes default to neutral", func() {
			snap := acc.Snapshot()
			So(snap.Attributes["Power"], ShouldEqual, 70)
			So(snap.Attributes["Volleys"], ShouldEqual, catalog.NeutralScore)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given an accumulator with a known baseline", t, func() {
		acc := profile.NewAccumulator(baseline())

		Convey("When an answer adjusts attributes and styles", func() {
			acc.Apply(profile.AnswerEvent{QuestionIndex: 0, Effect: profile.Effect{
				"Power":                12,
				"Control":              -15,
				"Aggressive Baseliner": 10,
			}})
			snap := acc.Snapshot()

			Convey("Then deltas apply to each dimension", func() {
				So(snap.Attributes["Power"], ShouldEqual, 92)
				So(snap.Attributes["Control"], ShouldEqual, 45)
				So(snap.Styles["Aggressive Baseliner"], ShouldEqual, 60)
				So(acc.Depth(), ShouldEqual, 1)
			})
		})

		Convey("When an effect pushes a value past the bounds", func() {
			acc.Apply(profile.AnswerEvent{Effect: profile.Effect{"Power": 40, "Control": -80}})
			snap := acc.Snapshot()

			Convey("Then the value saturates at the bound", func() {
				So(snap.Attributes["Power"], ShouldEqual, 100)
				So(snap.Attributes["Control"], ShouldEqual, 0)
			})
		})

		Convey("When an effect carries an unknown key", func() {
			acc.Apply(profile.AnswerEvent{Effect: profile.Effect{"Swagger": 50, "Power": 5}})
			snap := acc.Snapshot()

			Convey("Then the unknown key is ignored and the rest applies", func() {
				So(snap.Attributes["Power"], ShouldEqual, 85)
				_, ok := snap.Attributes["Swagger"]
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given an accumulator with a halved effect scale", t, func() {
		acc := profile.NewAccumulator(baseline(), profile.WithEffectScale(0.5))

		Convey("When a delta is applied", func() {
			acc.Apply(profile.AnswerEvent{Effect: profile.Effect{"Power": 10}})

			Convey("Then the delta is scaled before clamping", func() {
				So(acc.Snapshot().Attributes["Power"], ShouldEqual, 85)
			})
		})
	})
}

func TestRangePreferences(t *testing.T) {
	Convey("Given an accumulator", t, func() {
		acc := profile.NewAccumulator(baseline())

		Convey("When answers set range bounds", func() {
			acc.Apply(profile.AnswerEvent{Effect: profile.Effect{"weightMin": 295, "weightMax": 310}})
			acc.Apply(profile.AnswerEvent{Effect: profile.Effect{"headSizeMax": 100}})
			snap := acc.Snapshot()

			Convey("Then bounds are stored as values, not accumulated", func() {
				So(*snap.Ranges[profile.RangeWeight].Min, ShouldEqual, 295)
				So(*snap.Ranges[profile.RangeWeight].Max, ShouldEqual, 310)
				So(snap.Ranges[profile.RangeHeadSize].Min, ShouldBeNil)
				So(*snap.Ranges[profile.RangeHeadSize].Max, ShouldEqual, 100)
			})

			Convey("And a later answer overwrites the same bound", func() {
				acc.Apply(profile.AnswerEvent{Effect: profile.Effect{"weightMin": 305}})
				r := acc.Snapshot().Ranges[profile.RangeWeight]
				So(*r.Min, ShouldEqual, 305)
				So(*r.Max, ShouldEqual, 310)
			})
		})
	})
}

func TestBack(t *testing.T) {
	Convey("Given a history that saturated a value", t, func() {
		acc := profile.NewAccumulator(baseline())
		acc.Apply(profile.AnswerEvent{QuestionIndex: 0, Effect: profile.Effect{"Power": 30}}) // 80 -> 100 (clamped)
		acc.Apply(profile.AnswerEvent{QuestionIndex: 1, Effect: profile.Effect{"Power": 10}}) // stays 100

		Convey("When the last answer is undone", func() {
			So(acc.Back(), ShouldBeTrue)

			Convey("Then the profile is replayed, not delta-subtracted", func() {
				// Subtracting the +10 would give 90; replay keeps the clamp at 100.
				So(acc.Snapshot().Attributes["Power"], ShouldEqual, 100)
				So(acc.Depth(), ShouldEqual, 1)
			})
		})

		Convey("When every answer is undone", func() {
			So(acc.Back(), ShouldBeTrue)
			So(acc.Back(), ShouldBeTrue)

			Convey("Then the profile is back at the baseline", func() {
				So(acc.Snapshot().Attributes["Power"], ShouldEqual, 80)
				So(acc.Depth(), ShouldEqual, 0)
			})

			Convey("And a further undo is a no-op", func() {
				So(acc.Back(), ShouldBeFalse)
				So(acc.Depth(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a history with a range preference", t, func() {
		acc := profile.NewAccumulator(baseline())
		acc.Apply(profile.AnswerEvent{QuestionIndex: 0, Effect: profile.Effect{"weightMax": 300}})
		acc.Apply(profile.AnswerEvent{QuestionIndex: 1, Effect: profile.Effect{"weightMax": 310}})

		Convey("When the overwriting answer is undone", func() {
			acc.Back()

			Convey("Then the earlier bound is restored by replay", func() {
				So(*acc.Snapshot().Ranges[profile.RangeWeight].Max, ShouldEqual, 300)
			})
		})

		Convey("When the only bound-setting answer remains undone too", func() {
			acc.Back()
			acc.Back()

			Convey("Then the preference is absent, not zero", func() {
				_, ok := acc.Snapshot().Ranges[profile.RangeWeight]
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestReset(t *testing.T) {
	Convey("Given an accumulator with accumulated state", t, func() {
		acc := profile.NewAccumulator(baseline())
		acc.Apply(profile.AnswerEvent{Effect: profile.Effect{"Power": 15, "weightMin": 300, "Counterpuncher": 8}})

		Convey("When it is reset", func() {
			acc.Reset()
			snap := acc.Snapshot()

			Convey("Then history and profile return to the initial state", func() {
				So(acc.Depth(), ShouldEqual, 0)
				So(snap.Attributes["Power"], ShouldEqual, 80)
				So(snap.Styles["Counterpuncher"], ShouldEqual, catalog.NeutralScore)
				So(snap.Ranges, ShouldBeEmpty)
			})
		})
	})
}

func TestSnapshotIsolation(t *testing.T) {
	Convey("Given a snapshot of the current profile", t, func() {
		acc := profile.NewAccumulator(baseline())
		acc.Apply(profile.AnswerEvent{Effect: profile.Effect{"weightMin": 300}})
		snap := acc.Snapshot()

		Convey("When the snapshot is mutated", func() {
			snap.Attributes["Power"] = -999
			*snap.Ranges[profile.RangeWeight].Min = 1

			Convey("Then the accumulator's state is unaffected", func() {
				fresh := acc.Snapshot()
				So(fresh.Attributes["Power"], ShouldEqual, 80)
				So(*fresh.Ranges[profile.RangeWeight].Min, ShouldEqual, 300)
			})
		})
	})

	Convey("Given a copy of the history", t, func() {
		acc := profile.NewAccumulator(baseline())
		acc.Apply(profile.AnswerEvent{QuestionIndex: 3, Effect: profile.Effect{"Power": 5}})
		history := acc.History()

		Convey("Then it reflects the applied events in order", func() {
			So(len(history), ShouldEqual, 1)
			So(history[0].QuestionIndex, ShouldEqual, 3)
			So(history[0].Effect["Power"], ShouldEqual, 5)
		})
	})
}
