package catalog_test

import (
	"testing"

	"github.com/whichracket/advisor/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStoreIngestion(t *testing.T) {
	Convey("Given items on mixed source scales", t, func() {
		store := catalog.NewStore([]catalog.Item{
			{ID: "a", Name: "A", Attributes: map[string]float64{"Power": 8.7}},
			{ID: "b", Name: "B", Attributes: map[string]float64{"Power": 87}},
		})

		Convey("Then both values normalize to the same internal value", func() {
			items := store.Items()
			So(items[0].Attributes["Power"], ShouldEqual, 87)
			So(items[1].Attributes["Power"], ShouldEqual, 87)
		})

		Convey("And the baseline reflects the normalized values", func() {
			So(store.Baseline()["Power"], ShouldEqual, 87)
		})
	})

	Convey("Given an item with an attribute outside the closed set", t, func() {
		store := catalog.NewStore([]catalog.Item{
			{ID: "a", Name: "A", Attributes: map[string]float64{"Power": 80, "Swagger": 99}},
		})

		Convey("Then the unknown attribute is dropped at ingestion", func() {
			_, ok := store.Items()[0].Attributes["Swagger"]
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a boundary value of exactly 10", t, func() {
		store := catalog.NewStore([]catalog.Item{
			{ID: "a", Name: "A", Attributes: map[string]float64{"Control": 10}},
		})

		Convey("Then it is treated as legacy scale and multiplied", func() {
			So(store.Items()[0].Attributes["Control"], ShouldEqual, 100)
		})
	})
}

func TestBaseline(t *testing.T) {
	Convey("Given a catalog where items define different attributes", t, func() {
		store := catalog.NewStore([]catalog.Item{
			{ID: "a", Name: "A", Attributes: map[string]float64{"Power": 80, "Control": 60}},
			{ID: "b", Name: "B", Attributes: map[string]float64{"Power": 70}},
			{ID: "c", Name: "C", Attributes: map[string]float64{"Power": 61}},
		})
		baseline := store.Baseline()

		Convey("Then each attribute averages only over items defining it", func() {
			// (80+70+61)/3 = 70.33 rounds to 70
			So(baseline["Power"], ShouldEqual, 70)
			So(baseline["Control"], ShouldEqual, 60)
		})

		Convey("And attributes no item defines fall back to the neutral constant", func() {
			So(baseline["Slice"], ShouldEqual, catalog.NeutralScore)
			So(baseline["Topspin"], ShouldEqual, catalog.NeutralScore)
		})
	})

	Convey("Given an empty catalog", t, func() {
		store := catalog.NewStore(nil)

		Convey("Then the baseline is all-neutral, not an error", func() {
			baseline := store.Baseline()
			So(len(baseline), ShouldEqual, len(catalog.Attributes))
			for _, name := range catalog.Attributes {
				So(baseline[name], ShouldEqual, catalog.NeutralScore)
			}
		})

		Convey("And the store is empty", func() {
			So(store.Len(), ShouldEqual, 0)
		})
	})
}

func TestIsAttribute(t *testing.T) {
	Convey("Given the closed attribute set", t, func() {
		Convey("Then every canonical name is recognized", func() {
			for _, name := range catalog.Attributes {
				So(catalog.IsAttribute(name), ShouldBeTrue)
			}
		})

		Convey("And other names are not", func() {
			So(catalog.IsAttribute("Aggressive Baseliner"), ShouldBeFalse)
			So(catalog.IsAttribute("weightMin"), ShouldBeFalse)
			So(catalog.IsAttribute(""), ShouldBeFalse)
		})
	})
}
