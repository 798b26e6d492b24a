// Package scoring turns per-record similarity scores into comparable
// per-region composite scores. Raw similarity sums are not comparable
// across categories, so each category is min-max normalized to a 0-100
// scale across all candidate regions before the weighted combination.
package scoring

import (
	"github.com/ieum-project/ieum/internal/domain/model"
	"github.com/ieum-project/ieum/internal/domain/relevance"
	"github.com/ieum-project/ieum/internal/domain/similarity"
)

// Default scoring configuration constants.
const (
	defaultJobWeight    = 0.5
	defaultPolicyWeight = 0.5
	maxNormalizedScore  = 100
)

// CategoryScore holds one region's raw aggregation for a single category.
type CategoryScore struct {
	RegionCode string
	// RawSum is the sum of relevant records' similarity scores.
	RawSum float64
	// MatchCount counts relevant records clearing the confidence threshold.
	// It is for display and is not the basis of RawSum.
	MatchCount int
}

// CompositeScore is one region's final, comparable score.
type CompositeScore struct {
	RegionCode  string
	JobScore    float64 // normalized to [0,100]
	PolicyScore float64 // normalized to [0,100]
	Composite   float64 // weighted mean of the two, in [0,100]
	JobCount    int     // confident job matches
	PolicyCount int     // confident policy matches
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWeights sets the category weights for the composite. Weights are
// normalized to sum to 1; non-positive pairs are ignored.
func WithWeights(job, policy float64) Option {
	return func(a *Aggregator) {
		if job >= 0 && policy >= 0 && job+policy > 0 {
			total := job + policy
			a.jobWeight = job / total
			a.policyWeight = policy / total
		}
	}
}

// Aggregator computes composite scores for all candidate regions.
type Aggregator struct {
	matcher      *relevance.Matcher
	jobWeight    float64
	policyWeight float64
}

// NewAggregator creates an aggregator using the given relevance matcher.
func NewAggregator(matcher *relevance.Matcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		matcher:      matcher,
		jobWeight:    defaultJobWeight,
		policyWeight: defaultPolicyWeight,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// JobCategory aggregates the job category for one region.
func (a *Aggregator) JobCategory(code string, jobs []model.JobRecord, scores similarity.Scores) CategoryScore {
	cs := CategoryScore{RegionCode: code}
	for _, job := range jobs {
		if !a.matcher.Relevant(job.RegionCodes, job.Institution, code) {
			continue
		}
		cs.RawSum += scores.Lookup(job.CandidateText())
		if scores.Confident(job.CandidateText()) {
			cs.MatchCount++
		}
	}
	return cs
}

// PolicyCategory aggregates the policy category for one region.
func (a *Aggregator) PolicyCategory(code string, policies []model.PolicyRecord, scores similarity.Scores) CategoryScore {
	cs := CategoryScore{RegionCode: code}
	for _, policy := range policies {
		if !a.matcher.Relevant(policy.ZipCodes, policy.Institution, code) {
			continue
		}
		cs.RawSum += scores.Lookup(policy.CandidateText())
		if scores.Confident(policy.CandidateText()) {
			cs.MatchCount++
		}
	}
	return cs
}

// Aggregate computes one CompositeScore per candidate region code. All
// derived values are recomputed from scratch; nothing is cached between
// calls.
func (a *Aggregator) Aggregate(
	codes []string,
	jobs []model.JobRecord,
	policies []model.PolicyRecord,
	jobScores, policyScores similarity.Scores,
) map[string]CompositeScore {
	jobSums := make(map[string]float64, len(codes))
	policySums := make(map[string]float64, len(codes))
	jobCounts := make(map[string]int, len(codes))
	policyCounts := make(map[string]int, len(codes))

	for _, code := range codes {
		jc := a.JobCategory(code, jobs, jobScores)
		pc := a.PolicyCategory(code, policies, policyScores)
		jobSums[code] = jc.RawSum
		policySums[code] = pc.RawSum
		jobCounts[code] = jc.MatchCount
		policyCounts[code] = pc.MatchCount
	}

	jobNorm := Normalize(jobSums)
	policyNorm := Normalize(policySums)

	out := make(map[string]CompositeScore, len(codes))
	for _, code := range codes {
		out[code] = CompositeScore{
			RegionCode:  code,
			JobScore:    jobNorm[code],
			PolicyScore: policyNorm[code],
			Composite:   a.jobWeight*jobNorm[code] + a.policyWeight*policyNorm[code],
			JobCount:    jobCounts[code],
			PolicyCount: policyCounts[code],
		}
	}
	return out
}

// Normalize min-max scales raw sums to [0,100] across regions. The maximum
// maps to exactly 100. An all-zero input yields 0 for every key rather than
// dividing by zero, and an empty input yields an empty map.
func Normalize(raw map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(raw))
	maxVal := 0.0
	for _, v := range raw {
		if v > maxVal {
			maxVal = v
		}
	}
	for k, v := range raw {
		if maxVal > 0 {
			out[k] = (v / maxVal) * maxNormalizedScore
		} else {
			out[k] = 0
		}
	}
	return out
}
