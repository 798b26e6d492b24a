// Package similarity defines the contract for externally computed semantic
// similarity and wraps the resulting scores for lookup. No similarity is
// computed here; the package only carries scores from a Provider to the
// aggregation step, with explicit default handling for missing entries.
package similarity

import "context"

// ConfidenceThreshold is the fixed similarity a record must clear to count
// as a confident match for display purposes.
const ConfidenceThreshold = 0.30

// Provider computes similarity scores between a query and candidate texts.
// The returned map is keyed by candidate text, which makes the contract
// order-independent; callers never rely on positional alignment.
type Provider interface {
	Similarity(ctx context.Context, query string, candidates []string) (map[string]float64, error)
}

// Scores is an immutable lookup over one request's similarity results.
type Scores struct {
	byText map[string]float64
}

// NewScores wraps a text-to-score map. A nil map is valid and behaves as
// all-missing.
func NewScores(byText map[string]float64) Scores {
	return Scores{byText: byText}
}

// Lookup returns the score for a candidate text, 0 if missing, clamped to
// be non-negative so downstream sums stay monotone.
func (s Scores) Lookup(text string) float64 {
	v, ok := s.byText[text]
	if !ok || v < 0 {
		return 0
	}
	return v
}

// Confident reports whether the candidate clears the confidence threshold.
func (s Scores) Confident(text string) bool {
	return s.Lookup(text) >= ConfidenceThreshold
}

// Len returns the number of scored candidates.
func (s Scores) Len() int {
	return len(s.byText)
}
