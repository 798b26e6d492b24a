// Package ranking orders composite region scores into the final
// recommendation list. Ordering is total and deterministic: descending
// composite score with ties broken by ascending region code, so repeated
// requests over identical inputs produce identical rankings.
package ranking

import (
	"math"
	"sort"

	"github.com/ieum-project/ieum/internal/domain/region"
	"github.com/ieum-project/ieum/internal/domain/scoring"
)

// DefaultTopK is the number of regions returned when no override is set.
const DefaultTopK = 6

// Entry is one ranked region in the recommendation response.
type Entry struct {
	RegionName  string  `json:"regionName"`
	RegionCode  string  `json:"regionCode"`
	Score       float64 `json:"score"`
	HouseCount  int     `json:"houseCount"`
	JobCount    int     `json:"jobCount"`
	PolicyCount int     `json:"policyCount"`
}

// HouseCounter reports the number of available rental listings for a
// region. It is supplied by the caller so ranking stays free of transport
// concerns.
type HouseCounter func(regionCode string) int

// Ranker turns composite scores into a bounded, ordered recommendation list.
type Ranker struct {
	regions *region.Registry
	topK    int
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithTopK overrides the ranking size. Non-positive values are ignored.
func WithTopK(k int) Option {
	return func(r *Ranker) {
		if k > 0 {
			r.topK = k
		}
	}
}

// NewRanker creates a ranker over the given registry.
func NewRanker(regions *region.Registry, opts ...Option) *Ranker {
	r := &Ranker{regions: regions, topK: DefaultTopK}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank orders the composite scores and returns at most topK entries. An
// empty input yields an empty, non-nil slice. Composite scores are rounded
// to two decimals for presentation after ordering, so rounding never
// affects rank.
func (r *Ranker) Rank(scores map[string]scoring.CompositeScore, houses HouseCounter) []Entry {
	ordered := make([]scoring.CompositeScore, 0, len(scores))
	for _, cs := range scores {
		ordered = append(ordered, cs)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Composite != ordered[j].Composite {
			return ordered[i].Composite > ordered[j].Composite
		}
		return ordered[i].RegionCode < ordered[j].RegionCode
	})
	if len(ordered) > r.topK {
		ordered = ordered[:r.topK]
	}

	entries := make([]Entry, 0, len(ordered))
	for _, cs := range ordered {
		name := cs.RegionCode
		if reg, ok := r.regions.Lookup(cs.RegionCode); ok {
			name = reg.DisplayName
		}
		houseCount := 0
		if houses != nil {
			houseCount = houses(cs.RegionCode)
		}
		entries = append(entries, Entry{
			RegionName:  name,
			RegionCode:  cs.RegionCode,
			Score:       round2(cs.Composite),
			HouseCount:  houseCount,
			JobCount:    cs.JobCount,
			PolicyCount: cs.PolicyCount,
		})
	}
	return entries
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
