package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ieum-project/ieum/internal/adapters/fetch"
	"github.com/ieum-project/ieum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func testLogger() logger.Logger {
	_ = logger.Init()
	return logger.Named("fetch-test")
}

func TestJobs(t *testing.T) {
	Convey("Given a job source", t, func() {
		ctx := context.Background()

		Convey("When the source responds with postings", func() {
			var gotKey string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotKey = r.URL.Query().Get("apiKey")
				_, _ = w.Write([]byte(`{"jobs":[
					{"recrutPbancTtl":"농업기술 지도사 채용","instNm":"양평군청","workRgnLst":"41830","ncsCdNmLst":"농림어업"},
					{"recrutPbancTtl":"행정 지원","instNm":"한국농어촌공사","workRgnLst":"00000","ncsCdNmLst":"경영회계"}
				]}`))
			}))
			defer srv.Close()

			c := fetch.NewClient(testLogger(), fetch.WithJobSource(srv.URL, "job-key"))
			jobs, err := c.Jobs(ctx)

			Convey("Then all postings decode with their fields", func() {
				So(err, ShouldBeNil)
				So(gotKey, ShouldEqual, "job-key")
				So(len(jobs), ShouldEqual, 2)
				So(jobs[0].Institution, ShouldEqual, "양평군청")
				So(jobs[0].RegionCodes, ShouldEqual, "41830")
				So(jobs[1].CandidateText(), ShouldEqual, "경영회계")
			})
		})

		Convey("When the source returns a server error", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer srv.Close()

			c := fetch.NewClient(testLogger(), fetch.WithJobSource(srv.URL, ""))
			jobs, err := c.Jobs(ctx)

			Convey("Then the error is the unreachable kind", func() {
				So(jobs, ShouldBeNil)
				So(err, ShouldWrap, fetch.ErrUnreachable)
				So(fetch.KindLabel(err), ShouldEqual, "unreachable")
			})
		})

		Convey("When the source returns garbage", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>not json</html>`))
			}))
			defer srv.Close()

			c := fetch.NewClient(testLogger(), fetch.WithJobSource(srv.URL, ""))
			_, err := c.Jobs(ctx)

			Convey("Then the error is the malformed kind", func() {
				So(err, ShouldWrap, fetch.ErrMalformed)
			})
		})

		Convey("When the source hangs past the timeout", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			}))
			defer srv.Close()

			c := fetch.NewClient(testLogger(),
				fetch.WithJobSource(srv.URL, ""),
				fetch.WithTimeout(20*time.Millisecond))
			_, err := c.Jobs(ctx)

			Convey("Then the error is the timeout kind", func() {
				So(err, ShouldWrap, fetch.ErrTimeout)
				So(fetch.KindLabel(err), ShouldEqual, "timeout")
			})
		})
	})
}

func TestPolicies(t *testing.T) {
	Convey("Given a policy source", t, func() {
		var gotDisplay string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotDisplay = r.URL.Query().Get("display")
			_, _ = w.Write([]byte(`{"policies":[
				{"plcyNm":"청년 귀농 정착 지원","plcyNo":"P-100","zipCd":"41000,00000","sprvsnInstCdNm":"경기도청"}
			]}`))
		}))
		defer srv.Close()

		c := fetch.NewClient(testLogger(), fetch.WithPolicySource(srv.URL, "policy-key"))

		Convey("When fetching policies", func() {
			policies, err := c.Policies(context.Background())

			Convey("Then the catalog decodes", func() {
				So(err, ShouldBeNil)
				So(gotDisplay, ShouldEqual, "100")
				So(len(policies), ShouldEqual, 1)
				So(policies[0].Name, ShouldEqual, "청년 귀농 정착 지원")
				So(policies[0].ZipCodes, ShouldEqual, "41000,00000")
			})
		})
	})
}

func TestRealEstate(t *testing.T) {
	Convey("Given a rental listing source", t, func() {
		ctx := context.Background()

		Convey("When items hold a list", func() {
			var gotRegion, gotMonth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRegion = r.URL.Query().Get("LAWD_CD")
				gotMonth = r.URL.Query().Get("DEAL_YMD")
				_, _ = w.Write([]byte(`{"response":{"body":{"items":{"item":[
					{"aptNm":"양평리버뷰","umdNm":"양평읍","deposit":"5,000","monthlyRent":"0"},
					{"아파트":"강상타운","법정동":"강상면","보증금액":"3,000","월세금액":"40"}
				]}}}}`))
			}))
			defer srv.Close()

			c := fetch.NewClient(testLogger(),
				fetch.WithRealEstateSource(srv.URL, "re-key"),
				fetch.WithDealMonth("202507"))
			listings, err := c.RealEstate(ctx, "41830")

			Convey("Then listings decode across both field-name schemas", func() {
				So(err, ShouldBeNil)
				So(gotRegion, ShouldEqual, "41830")
				So(gotMonth, ShouldEqual, "202507")
				So(len(listings), ShouldEqual, 2)
				So(listings[0].Name, ShouldEqual, "양평리버뷰")
				So(listings[0].Deposit, ShouldEqual, 5000)
				So(listings[0].Rent, ShouldEqual, 0)
				So(listings[1].Name, ShouldEqual, "강상타운")
				So(listings[1].Deposit, ShouldEqual, 3000)
				So(listings[1].Rent, ShouldEqual, 40)
			})
		})

		Convey("When items collapse to a single object", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"response":{"body":{"items":{"item":
					{"aptNm":"단독매물","deposit":"2000","monthlyRent":"30"}
				}}}}`))
			}))
			defer srv.Close()

			c := fetch.NewClient(testLogger(),
				fetch.WithRealEstateSource(srv.URL, ""),
				fetch.WithDealMonth("202507"))
			listings, err := c.RealEstate(ctx, "41830")

			Convey("Then the single listing still decodes", func() {
				So(err, ShouldBeNil)
				So(len(listings), ShouldEqual, 1)
				So(listings[0].Name, ShouldEqual, "단독매물")
			})
		})

		Convey("When items are absent", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"response":{"body":{"items":{}}}}`))
			}))
			defer srv.Close()

			c := fetch.NewClient(testLogger(),
				fetch.WithRealEstateSource(srv.URL, ""),
				fetch.WithDealMonth("202507"))
			listings, err := c.RealEstate(ctx, "41830")

			Convey("Then the result is empty without error", func() {
				So(err, ShouldBeNil)
				So(listings, ShouldBeEmpty)
			})
		})
	})
}
