package ranking_test

import (
	"testing"

	"github.com/ieum-project/ieum/internal/domain/ranking"
	"github.com/ieum-project/ieum/internal/domain/region"
	"github.com/ieum-project/ieum/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func composite(code string, score float64) scoring.CompositeScore {
	return scoring.CompositeScore{RegionCode: code, Composite: score}
}

func TestRank(t *testing.T) {
	Convey("Given composite scores for more regions than the ranking size", t, func() {
		scores := map[string]scoring.CompositeScore{}
		scores["41830"] = composite("41830", 100)
		scores["51150"] = composite("51150", 80)
		scores["44790"] = composite("44790", 80)
		scores["52210"] = composite("52210", 60)
		scores["26710"] = composite("26710", 40)
		scores["41250"] = composite("41250", 20)
		scores["46110"] = composite("46110", 10)

		r := ranking.NewRanker(region.NewRegistry())

		Convey("When ranking", func() {
			entries := r.Rank(scores, nil)

			Convey("Then the list is capped at the default size", func() {
				So(len(entries), ShouldEqual, ranking.DefaultTopK)
			})

			Convey("Then entries descend by score", func() {
				for i := 1; i < len(entries); i++ {
					So(entries[i].Score, ShouldBeLessThanOrEqualTo, entries[i-1].Score)
				}
			})

			Convey("Then ties break by ascending region code", func() {
				So(entries[1].RegionCode, ShouldEqual, "44790")
				So(entries[2].RegionCode, ShouldEqual, "51150")
			})

			Convey("Then the lowest-scoring region is dropped", func() {
				for _, e := range entries {
					So(e.RegionCode, ShouldNotEqual, "46110")
				}
			})

			Convey("Then region codes resolve to display names", func() {
				So(entries[0].RegionName, ShouldEqual, "경기 양평군")
			})
		})

		Convey("When ranking with a house counter", func() {
			entries := r.Rank(scores, func(code string) int {
				if code == "41830" {
					return 12
				}
				return 3
			})

			Convey("Then house counts are attached per region", func() {
				So(entries[0].HouseCount, ShouldEqual, 12)
				So(entries[1].HouseCount, ShouldEqual, 3)
			})
		})

		Convey("When the ranking size is overridden", func() {
			small := ranking.NewRanker(region.NewRegistry(), ranking.WithTopK(2))
			entries := small.Rank(scores, nil)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].RegionCode, ShouldEqual, "41830")
		})
	})

	Convey("Given fractional scores", t, func() {
		scores := map[string]scoring.CompositeScore{}
		scores["41830"] = composite("41830", 66.666)

		r := ranking.NewRanker(region.NewRegistry())

		Convey("Then presentation scores round to two decimals", func() {
			entries := r.Rank(scores, nil)
			So(entries[0].Score, ShouldEqual, 66.67)
		})
	})

	Convey("Given no scores", t, func() {
		r := ranking.NewRanker(region.NewRegistry())

		Convey("Then ranking yields an empty, non-nil list", func() {
			entries := r.Rank(map[string]scoring.CompositeScore{}, nil)
			So(entries, ShouldNotBeNil)
			So(entries, ShouldBeEmpty)
		})
	})
}
