// Package embedding computes semantic similarity between the user's query
// and record candidate texts using OpenAI embedding vectors. Vectors are
// cached per text and the API is called only for cache misses, behind a rate
// limiter shared by all requests.
package embedding

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ieum-project/ieum/pkg/logger"
	"github.com/ieum-project/ieum/pkg/metrics"
)

// Defaults applied when no option overrides them.
const (
	defaultModel     = openai.SmallEmbedding3
	defaultRPS       = 5
	defaultBurst     = 5
	defaultCacheSize = 10_000
	// maxBatchSize bounds the number of texts per embedding request.
	maxBatchSize = 512
)

// embeddingAPI is the slice of the OpenAI client the provider uses.
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Provider computes similarity scores via embedding vectors.
type Provider struct {
	api     embeddingAPI
	cache   *Cache
	limiter *rate.Limiter
	model   openai.EmbeddingModel
	log     logger.Logger
}

// Option applies a configuration option to the Provider.
type Option func(*Provider)

// WithModel selects the embedding model.
func WithModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.model = openai.EmbeddingModel(model)
		}
	}
}

// WithRateLimit bounds embedding API calls per second.
func WithRateLimit(rps float64) Option {
	return func(p *Provider) {
		if rps > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(rps), defaultBurst)
		}
	}
}

// WithCacheSize bounds the vector cache.
func WithCacheSize(size int) Option {
	return func(p *Provider) {
		p.cache = NewCache(size)
	}
}

// WithAPI replaces the OpenAI client. Intended for tests.
func WithAPI(api embeddingAPI) Option {
	return func(p *Provider) {
		if api != nil {
			p.api = api
		}
	}
}

// NewProvider creates a similarity provider backed by the OpenAI API.
func NewProvider(apiKey string, log logger.Logger, opts ...Option) *Provider {
	p := &Provider{
		api:     openai.NewClient(apiKey),
		cache:   NewCache(defaultCacheSize),
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		model:   defaultModel,
		log:     log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Similarity returns cosine similarity between the query and each candidate,
// keyed by candidate text. Duplicate and empty candidates collapse; the
// caller looks scores up by text, not position.
func (p *Provider) Similarity(ctx context.Context, query string, candidates []string) (map[string]float64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSimilarityLatency(float64(time.Since(start).Milliseconds()))
	}()

	if query == "" || len(candidates) == 0 {
		return map[string]float64{}, nil
	}

	unique := make([]string, 0, len(candidates)+1)
	seen := make(map[string]bool, len(candidates)+1)
	for _, text := range append([]string{query}, candidates...) {
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		unique = append(unique, text)
	}

	vectors, err := p.vectors(ctx, unique)
	if err != nil {
		return nil, err
	}

	queryVec := vectors[query]
	scores := make(map[string]float64, len(candidates))
	for _, text := range candidates {
		if text == "" {
			continue
		}
		if vec, ok := vectors[text]; ok {
			scores[text] = cosine(queryVec, vec)
		}
	}
	return scores, nil
}

// vectors resolves each text to its embedding, hitting the API only for
// cache misses.
func (p *Provider) vectors(ctx context.Context, texts []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(texts))
	missing := make([]string, 0, len(texts))
	for _, text := range texts {
		if vec, ok := p.cache.Get(text); ok {
			out[text] = vec
		} else {
			missing = append(missing, text)
		}
	}

	for len(missing) > 0 {
		batch := missing
		if len(batch) > maxBatchSize {
			batch = batch[:maxBatchSize]
		}
		missing = missing[len(batch):]

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbedFailed, err)
		}
		resp, err := p.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: p.model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbedFailed, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrVectorMismatch, len(resp.Data), len(batch))
		}
		for i, data := range resp.Data {
			p.cache.Put(batch[i], data.Embedding)
			out[batch[i]] = data.Embedding
		}
	}
	return out, nil
}

// cosine computes cosine similarity between two vectors. Mismatched or
// zero-magnitude vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
