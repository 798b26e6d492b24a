// Package service provides the core recommendation service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ieum-project/ieum/internal/adapters/narrative"
	"github.com/ieum-project/ieum/internal/domain/budget"
	"github.com/ieum-project/ieum/internal/domain/model"
	"github.com/ieum-project/ieum/internal/domain/ranking"
	"github.com/ieum-project/ieum/internal/domain/region"
	"github.com/ieum-project/ieum/internal/domain/relevance"
	"github.com/ieum-project/ieum/internal/domain/scoring"
	"github.com/ieum-project/ieum/internal/domain/similarity"
	"github.com/ieum-project/ieum/pkg/logger"
	"github.com/ieum-project/ieum/pkg/metrics"
)

// Fetcher retrieves raw records from the upstream sources.
type Fetcher interface {
	Jobs(ctx context.Context) ([]model.JobRecord, error)
	Policies(ctx context.Context) ([]model.PolicyRecord, error)
	RealEstate(ctx context.Context, regionCode string) ([]model.RealEstateRecord, error)
}

// Narrator produces the summary blurb for a region detail view.
type Narrator interface {
	Generate(ctx context.Context, in narrative.Input) string
}

// RankingQuery is the input to the integrated ranking operation. Budget
// fields are free text and parsed fail-open.
type RankingQuery struct {
	UserInterest string
	PolicyQuery  string
	Budget       string
	RentBudget   string
}

// DetailQuery is the input to the region detail operation.
type DetailQuery struct {
	RegionCode   string
	UserInterest string
	PolicyQuery  string
	Budget       string
	RentBudget   string
}

// SummaryBlock is the detail view's headline block.
type SummaryBlock struct {
	Success       bool
	RegionName    string
	TotalJobs     int
	TotalListings int
	TotalPolicies int
	Text          string
	Coord         region.Coord
}

// JobsBlock carries the ranked job postings for one region.
type JobsBlock struct {
	Success bool
	Jobs    []model.JobRecord
}

// ListingsBlock carries the budget-filtered rental listings.
type ListingsBlock struct {
	Success  bool
	Listings []model.RealEstateRecord
}

// PoliciesBlock carries the ranked policies for one region.
type PoliciesBlock struct {
	Success  bool
	Policies []model.PolicyRecord
}

// Detail is the full region detail view. Each block succeeds or fails
// independently; a failed source never takes the whole view down.
type Detail struct {
	Summary    SummaryBlock
	Jobs       JobsBlock
	RealEstate ListingsBlock
	Policies   PoliciesBlock
}

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	fetcher  Fetcher
	provider similarity.Provider
	narrator Narrator

	// Domain components, built at Start
	regions    *region.Registry
	matcher    *relevance.Matcher
	aggregator *scoring.Aggregator
	ranker     *ranking.Ranker

	// Configuration
	topK                  int
	jobWeight             float64
	policyWeight          float64
	jobDisplayCount       int
	policyDisplayCount    int
	listingDisplayCount   int
	placeholderHouseCount int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the upstream source client.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithSimilarityProvider sets the similarity collaborator.
func WithSimilarityProvider(p similarity.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithNarrator sets the narrative collaborator.
func WithNarrator(n Narrator) Option {
	return func(s *Service) {
		if n != nil {
			s.narrator = n
		}
	}
}

// WithTopK sets the ranking length.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithCategoryWeights sets the composite score weighting.
func WithCategoryWeights(job, policy float64) Option {
	return func(s *Service) {
		if job >= 0 && policy >= 0 && job+policy > 0 {
			s.jobWeight = job
			s.policyWeight = policy
		}
	}
}

// WithDisplayCounts caps the per-block sizes in the detail view.
func WithDisplayCounts(jobs, policies, listings int) Option {
	return func(s *Service) {
		if jobs > 0 {
			s.jobDisplayCount = jobs
		}
		if policies > 0 {
			s.policyDisplayCount = policies
		}
		if listings > 0 {
			s.listingDisplayCount = listings
		}
	}
}

// WithPlaceholderHouseCount sets the per-region listing count reported in
// the ranking response.
func WithPlaceholderHouseCount(count int) Option {
	return func(s *Service) {
		if count >= 0 {
			s.placeholderHouseCount = count
		}
	}
}

// WithRegistry replaces the region catalog. Intended for tests.
func WithRegistry(r *region.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.regions = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topK:                  ranking.DefaultTopK,
		jobWeight:             0.5,
		policyWeight:          0.5,
		jobDisplayCount:       15,
		policyDisplayCount:    15,
		listingDisplayCount:   20,
		placeholderHouseCount: 10,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the domain components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.fetcher == nil || s.provider == nil {
		return ErrMissingCollaborator
	}

	s.logger.Info(ctx, "starting recommendation service...")

	if s.regions == nil {
		s.regions = region.NewRegistry()
	}
	s.matcher = relevance.NewMatcher(s.regions)
	s.aggregator = scoring.NewAggregator(s.matcher,
		scoring.WithWeights(s.jobWeight, s.policyWeight))
	s.ranker = ranking.NewRanker(s.regions, ranking.WithTopK(s.topK))

	metrics.UpdateCandidateRegions(s.regions.Count())

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("regions", s.regions.Count()),
		logger.Int("topK", s.topK),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// IntegratedRanking fetches the job and policy streams, scores every
// candidate region against the user's interests, and returns the ordered
// recommendation list.
//
// A failed source degrades to an empty category rather than failing the
// ranking; a similarity failure is a hard error.
func (s *Service) IntegratedRanking(ctx context.Context, q RankingQuery) ([]ranking.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	var jobs []model.JobRecord
	var policies []model.PolicyRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.fetcher.Jobs(gctx)
		if err != nil {
			// Degraded: score the region set without this category.
			return nil
		}
		jobs = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := s.fetcher.Policies(gctx)
		if err != nil {
			return nil
		}
		policies = fetched
		return nil
	})
	_ = g.Wait()

	jobScores, policyScores, err := s.scoreStreams(ctx, q.UserInterest, q.PolicyQuery, jobs, policies)
	if err != nil {
		return nil, err
	}

	composites := s.aggregator.Aggregate(s.regions.Codes(), jobs, policies, jobScores, policyScores)
	entries := s.ranker.Rank(composites, func(string) int { return s.placeholderHouseCount })

	metrics.RecordRankingServed()
	s.logger.Info(ctx, "integrated ranking served",
		logger.Int("jobs", len(jobs)),
		logger.Int("policies", len(policies)),
		logger.Int("entries", len(entries)),
	)
	return entries, nil
}

// scoreStreams computes both similarity score sets concurrently.
func (s *Service) scoreStreams(
	ctx context.Context,
	userInterest, policyQuery string,
	jobs []model.JobRecord,
	policies []model.PolicyRecord,
) (similarity.Scores, similarity.Scores, error) {
	var jobScores, policyScores similarity.Scores

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		byText, err := s.provider.Similarity(gctx, userInterest, jobCandidates(jobs))
		if err != nil {
			return err
		}
		jobScores = similarity.NewScores(byText)
		return nil
	})
	g.Go(func() error {
		byText, err := s.provider.Similarity(gctx, policyQuery, policyCandidates(policies))
		if err != nil {
			return err
		}
		policyScores = similarity.NewScores(byText)
		return nil
	})
	if err := g.Wait(); err != nil {
		return similarity.Scores{}, similarity.Scores{}, err
	}
	return jobScores, policyScores, nil
}

// RegionDetail assembles the full detail view for one region. The three
// sources are fetched concurrently; each block reports its own success.
func (s *Service) RegionDetail(ctx context.Context, q DetailQuery) (Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return Detail{}, ErrNotStarted
	}

	reg, ok := s.regions.Lookup(q.RegionCode)
	if !ok {
		return Detail{}, ErrUnknownRegion
	}

	var (
		jobs        []model.JobRecord
		policies    []model.PolicyRecord
		listings    []model.RealEstateRecord
		jobsOK      bool
		policiesOK  bool
		listingsOK  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.fetcher.Jobs(gctx)
		if err == nil {
			jobs, jobsOK = fetched, true
		}
		return nil
	})
	g.Go(func() error {
		fetched, err := s.fetcher.Policies(gctx)
		if err == nil {
			policies, policiesOK = fetched, true
		}
		return nil
	})
	g.Go(func() error {
		fetched, err := s.fetcher.RealEstate(gctx, q.RegionCode)
		if err == nil {
			listings, listingsOK = fetched, true
		}
		return nil
	})
	_ = g.Wait()

	relevantJobs := s.relevantJobs(q.RegionCode, jobs)
	relevantPolicies := s.relevantPolicies(q.RegionCode, policies)

	jobScores, policyScores, err := s.scoreStreams(ctx, q.UserInterest, q.PolicyQuery, relevantJobs, relevantPolicies)
	if err != nil {
		return Detail{}, err
	}

	rankedJobs, confidentJobs := rankJobs(relevantJobs, jobScores, s.jobDisplayCount)
	rankedPolicies, confidentPolicies := rankPolicies(relevantPolicies, policyScores, s.policyDisplayCount)

	limits := budget.LimitsFromInput(q.Budget, q.RentBudget)
	kept := budget.Filter(listings, limits)
	if len(kept) > s.listingDisplayCount {
		kept = kept[:s.listingDisplayCount]
	}

	text := ""
	in := narrative.Input{
		RegionName:   reg.DisplayName,
		UserInterest: q.UserInterest,
		PolicyQuery:  q.PolicyQuery,
		JobCount:     confidentJobs,
		ListingCount: len(kept),
		PolicyCount:  confidentPolicies,
	}
	if s.narrator != nil {
		text = s.narrator.Generate(ctx, in)
	} else {
		text = narrative.Fallback(in)
	}

	metrics.RecordDetailServed()
	s.logger.Info(ctx, "region detail served",
		logger.String("region", q.RegionCode),
		logger.Bool("jobsOK", jobsOK),
		logger.Bool("policiesOK", policiesOK),
		logger.Bool("listingsOK", listingsOK),
	)

	return Detail{
		Summary: SummaryBlock{
			Success:       true,
			RegionName:    reg.DisplayName,
			TotalJobs:     confidentJobs,
			TotalListings: len(kept),
			TotalPolicies: confidentPolicies,
			Text:          text,
			Coord:         s.regions.Coordinate(q.RegionCode),
		},
		Jobs:       JobsBlock{Success: jobsOK, Jobs: rankedJobs},
		RealEstate: ListingsBlock{Success: listingsOK, Listings: kept},
		Policies:   PoliciesBlock{Success: policiesOK, Policies: rankedPolicies},
	}, nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"topK":    s.topK,
	}
	if s.regions != nil {
		stats["regions"] = s.regions.Count()
	}
	return stats
}

// relevantJobs keeps the jobs that apply to the target region.
func (s *Service) relevantJobs(code string, jobs []model.JobRecord) []model.JobRecord {
	out := make([]model.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if s.matcher.Relevant(j.RegionCodes, j.Institution, code) {
			out = append(out, j)
		}
	}
	return out
}

// relevantPolicies keeps the policies that apply to the target region.
func (s *Service) relevantPolicies(code string, policies []model.PolicyRecord) []model.PolicyRecord {
	out := make([]model.PolicyRecord, 0, len(policies))
	for _, p := range policies {
		if s.matcher.Relevant(p.ZipCodes, p.Institution, code) {
			out = append(out, p)
		}
	}
	return out
}

// rankJobs attaches similarity, orders by it, truncates to limit, and
// counts confident matches over the whole relevant set.
func rankJobs(jobs []model.JobRecord, scores similarity.Scores, limit int) ([]model.JobRecord, int) {
	confident := 0
	for i := range jobs {
		jobs[i].Similarity = scores.Lookup(jobs[i].CandidateText())
		if scores.Confident(jobs[i].CandidateText()) {
			confident++
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Similarity > jobs[j].Similarity
	})
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, confident
}

// rankPolicies is rankJobs for the policy stream.
func rankPolicies(policies []model.PolicyRecord, scores similarity.Scores, limit int) ([]model.PolicyRecord, int) {
	confident := 0
	for i := range policies {
		policies[i].Similarity = scores.Lookup(policies[i].CandidateText())
		if scores.Confident(policies[i].CandidateText()) {
			confident++
		}
	}
	sort.SliceStable(policies, func(i, j int) bool {
		return policies[i].Similarity > policies[j].Similarity
	})
	if len(policies) > limit {
		policies = policies[:limit]
	}
	return policies, confident
}

// jobCandidates collects the candidate texts for the job stream.
func jobCandidates(jobs []model.JobRecord) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.CandidateText())
	}
	return out
}

// policyCandidates collects the candidate texts for the policy stream.
func policyCandidates(policies []model.PolicyRecord) []string {
	out := make([]string, 0, len(policies))
	for _, p := range policies {
		out = append(out, p.CandidateText())
	}
	return out
}
