// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	service "github.com/ieum-project/ieum/internal/app"
)

// RankingHandler handles integrated ranking requests.
type RankingHandler struct {
	deps Dependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandlePostRanking handles POST /recommendation/integrated-ranking requests.
func (h *RankingHandler) HandlePostRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.integrated_ranking"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req rankingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	entries, err := h.deps.IntegratedRanking(r.Context(), service.RankingQuery{
		UserInterest: req.UserInterest,
		PolicyQuery:  req.PolicyQuery,
		Budget:       string(req.Budget),
		RentBudget:   string(req.RentBudget),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
