package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ieum-project/ieum/internal/adapters/narrative"
	service "github.com/ieum-project/ieum/internal/app"
	"github.com/ieum-project/ieum/internal/domain/model"
	"github.com/ieum-project/ieum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeFetcher serves canned records and can fail per source.
type fakeFetcher struct {
	jobs     []model.JobRecord
	policies []model.PolicyRecord
	listings map[string][]model.RealEstateRecord

	failJobs       bool
	failPolicies   bool
	failRealEstate bool
}

func (f *fakeFetcher) Jobs(context.Context) ([]model.JobRecord, error) {
	if f.failJobs {
		return nil, errors.New("jobs source down")
	}
	return f.jobs, nil
}

func (f *fakeFetcher) Policies(context.Context) ([]model.PolicyRecord, error) {
	if f.failPolicies {
		return nil, errors.New("policies source down")
	}
	return f.policies, nil
}

func (f *fakeFetcher) RealEstate(_ context.Context, code string) ([]model.RealEstateRecord, error) {
	if f.failRealEstate {
		return nil, errors.New("realestate source down")
	}
	return f.listings[code], nil
}

// fakeProvider maps candidate texts to fixed scores.
type fakeProvider struct {
	scores map[string]float64
	fail   bool
}

func (f *fakeProvider) Similarity(_ context.Context, _ string, candidates []string) (map[string]float64, error) {
	if f.fail {
		return nil, errors.New("similarity down")
	}
	out := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		if v, ok := f.scores[c]; ok {
			out[c] = v
		}
	}
	return out, nil
}

// fakeNarrator records its input and returns a fixed blurb.
type fakeNarrator struct {
	lastInput narrative.Input
}

func (f *fakeNarrator) Generate(_ context.Context, in narrative.Input) string {
	f.lastInput = in
	return "테스트 리포트"
}

func testService(t *testing.T, fetcher *fakeFetcher, provider *fakeProvider, opts ...service.Option) *service.Service {
	t.Helper()
	_ = logger.Init()
	base := []service.Option{
		service.WithFetcher(fetcher),
		service.WithSimilarityProvider(provider),
		service.WithLogger(logger.Named("service-test")),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	return svc
}

func fixtureFetcher() *fakeFetcher {
	return &fakeFetcher{
		jobs: []model.JobRecord{
			{Title: "농업기술 지도사", Institution: "양평군청", RegionCodes: "41830", NCSField: "농림어업"},
			{Title: "관광 기획자", Institution: "강릉관광재단", RegionCodes: "51150", NCSField: "문화예술"},
			{Title: "전국 행정직", Institution: "한국농어촌공사", RegionCodes: "00000", NCSField: "경영회계"},
		},
		policies: []model.PolicyRecord{
			{Name: "청년 귀농 정착 지원", No: "P-1", ZipCodes: "41830", Institution: "양평군청"},
			{Name: "강원 청년 주거 지원", No: "P-2", ZipCodes: "51000", Institution: "강원도청"},
		},
		listings: map[string][]model.RealEstateRecord{
			"41830": {
				{Name: "양평리버뷰", Deposit: 5000, Rent: 0},
				{Name: "양평힐즈", Deposit: 20000, Rent: 100},
			},
		},
	}
}

func fixtureProvider() *fakeProvider {
	scores := map[string]float64{}
	scores["농림어업"] = 0.9
	scores["문화예술"] = 0.2
	scores["경영회계"] = 0.5
	scores["청년 귀농 정착 지원"] = 0.8
	scores["강원 청년 주거 지원"] = 0.4
	return &fakeProvider{scores: scores}
}

func TestIntegratedRanking(t *testing.T) {
	Convey("Given a started service over fixture data", t, func() {
		svc := testService(t, fixtureFetcher(), fixtureProvider(),
			service.WithPlaceholderHouseCount(7))

		Convey("When requesting the integrated ranking", func() {
			entries, err := svc.IntegratedRanking(context.Background(), service.RankingQuery{
				UserInterest: "농업",
				PolicyQuery:  "귀농 지원",
			})

			Convey("Then the ranking covers at most the default size", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldBeLessThanOrEqualTo, 6)
				So(len(entries), ShouldBeGreaterThan, 0)
			})

			Convey("Then the region with the strongest matches ranks first", func() {
				So(entries[0].RegionCode, ShouldEqual, "41830")
				So(entries[0].Score, ShouldEqual, 100)
			})

			Convey("Then entries carry counts and the placeholder house count", func() {
				So(entries[0].JobCount, ShouldBeGreaterThan, 0)
				So(entries[0].PolicyCount, ShouldEqual, 1)
				So(entries[0].HouseCount, ShouldEqual, 7)
			})

			Convey("Then ordering is total and deterministic", func() {
				for i := 1; i < len(entries); i++ {
					if entries[i].Score == entries[i-1].Score {
						So(entries[i].RegionCode, ShouldBeGreaterThan, entries[i-1].RegionCode)
					} else {
						So(entries[i].Score, ShouldBeLessThan, entries[i-1].Score)
					}
				}
			})
		})

		Convey("When a source is down", func() {
			fetcher := fixtureFetcher()
			fetcher.failJobs = true
			degraded := testService(t, fetcher, fixtureProvider())

			entries, err := degraded.IntegratedRanking(context.Background(), service.RankingQuery{
				UserInterest: "농업",
				PolicyQuery:  "귀농 지원",
			})

			Convey("Then the ranking still serves from the surviving category", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldBeGreaterThan, 0)
				So(entries[0].RegionCode, ShouldEqual, "41830")
				So(entries[0].JobCount, ShouldEqual, 0)
			})
		})

		Convey("When the similarity collaborator fails", func() {
			broken := testService(t, fixtureFetcher(), &fakeProvider{fail: true})

			_, err := broken.IntegratedRanking(context.Background(), service.RankingQuery{
				UserInterest: "농업",
				PolicyQuery:  "귀농 지원",
			})

			Convey("Then the operation is a hard failure", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New(
			service.WithFetcher(fixtureFetcher()),
			service.WithSimilarityProvider(fixtureProvider()),
		)

		Convey("Then operations refuse to run", func() {
			_, err := svc.IntegratedRanking(context.Background(), service.RankingQuery{})
			So(err, ShouldWrap, service.ErrNotStarted)
		})
	})
}

func TestRegionDetail(t *testing.T) {
	Convey("Given a started service over fixture data", t, func() {
		narrator := &fakeNarrator{}
		svc := testService(t, fixtureFetcher(), fixtureProvider(),
			service.WithNarrator(narrator))

		Convey("When requesting the detail of a known region", func() {
			detail, err := svc.RegionDetail(context.Background(), service.DetailQuery{
				RegionCode:   "41830",
				UserInterest: "농업",
				PolicyQuery:  "귀농 지원",
				Budget:       "1억",
				RentBudget:   "50만원",
			})

			Convey("Then every block reports success", func() {
				So(err, ShouldBeNil)
				So(detail.Summary.Success, ShouldBeTrue)
				So(detail.Jobs.Success, ShouldBeTrue)
				So(detail.RealEstate.Success, ShouldBeTrue)
				So(detail.Policies.Success, ShouldBeTrue)
			})

			Convey("Then only regionally relevant records appear, ranked by similarity", func() {
				So(len(detail.Jobs.Jobs), ShouldEqual, 2)
				So(detail.Jobs.Jobs[0].NCSField, ShouldEqual, "농림어업")
				So(len(detail.Policies.Policies), ShouldEqual, 1)
				So(detail.Policies.Policies[0].Name, ShouldEqual, "청년 귀농 정착 지원")
			})

			Convey("Then listings are budget filtered and labeled", func() {
				So(len(detail.RealEstate.Listings), ShouldEqual, 1)
				So(detail.RealEstate.Listings[0].Name, ShouldEqual, "양평리버뷰")
				So(detail.RealEstate.Listings[0].DealLabel, ShouldEqual, "전세 5,000만원")
			})

			Convey("Then the summary carries counts, narrative, and coordinates", func() {
				So(detail.Summary.RegionName, ShouldEqual, "경기 양평군")
				So(detail.Summary.TotalJobs, ShouldEqual, 2)
				So(detail.Summary.TotalPolicies, ShouldEqual, 1)
				So(detail.Summary.TotalListings, ShouldEqual, 1)
				So(detail.Summary.Text, ShouldEqual, "테스트 리포트")
				So(detail.Summary.Coord.Lat, ShouldAlmostEqual, 37.5665)
				So(narrator.lastInput.RegionName, ShouldEqual, "경기 양평군")
			})
		})

		Convey("When the region code is unknown", func() {
			_, err := svc.RegionDetail(context.Background(), service.DetailQuery{RegionCode: "99999"})

			Convey("Then the unknown-region error is returned", func() {
				So(err, ShouldWrap, service.ErrUnknownRegion)
			})
		})

		Convey("When one source is down", func() {
			fetcher := fixtureFetcher()
			fetcher.failRealEstate = true
			degraded := testService(t, fetcher, fixtureProvider(),
				service.WithNarrator(narrator))

			detail, err := degraded.RegionDetail(context.Background(), service.DetailQuery{
				RegionCode:   "41830",
				UserInterest: "농업",
				PolicyQuery:  "귀농 지원",
			})

			Convey("Then only that block is marked failed", func() {
				So(err, ShouldBeNil)
				So(detail.RealEstate.Success, ShouldBeFalse)
				So(detail.RealEstate.Listings, ShouldBeEmpty)
				So(detail.Jobs.Success, ShouldBeTrue)
				So(detail.Policies.Success, ShouldBeTrue)
				So(detail.Summary.Success, ShouldBeTrue)
			})
		})

		Convey("When no narrator is configured", func() {
			plain := testService(t, fixtureFetcher(), fixtureProvider())

			detail, err := plain.RegionDetail(context.Background(), service.DetailQuery{
				RegionCode:   "41830",
				UserInterest: "농업",
				PolicyQuery:  "귀농 지원",
			})

			Convey("Then the summary falls back to the template narrative", func() {
				So(err, ShouldBeNil)
				So(detail.Summary.Text, ShouldContainSubstring, "경기 양평군")
			})
		})

		Convey("When the display caps are tightened", func() {
			capped := testService(t, fixtureFetcher(), fixtureProvider(),
				service.WithDisplayCounts(1, 1, 1))

			detail, err := capped.RegionDetail(context.Background(), service.DetailQuery{
				RegionCode:   "41830",
				UserInterest: "농업",
				PolicyQuery:  "귀농 지원",
			})

			Convey("Then each block truncates to its cap", func() {
				So(err, ShouldBeNil)
				So(len(detail.Jobs.Jobs), ShouldEqual, 1)
				So(detail.Jobs.Jobs[0].NCSField, ShouldEqual, "농림어업")
				So(len(detail.Policies.Policies), ShouldEqual, 1)
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := testService(t, fixtureFetcher(), fixtureProvider())

		Convey("Then stats expose registry size and state", func() {
			stats := svc.Stats()
			So(stats["started"], ShouldBeTrue)
			So(stats["regions"], ShouldEqual, 14)
			So(stats["topK"], ShouldEqual, 6)
		})
	})
}
