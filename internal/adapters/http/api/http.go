// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/ieum-project/ieum/internal/app"
	"github.com/ieum-project/ieum/internal/domain/ranking"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// IntegratedRanking returns the ordered region recommendation list.
	IntegratedRanking(ctx context.Context, q service.RankingQuery) ([]ranking.Entry, error)

	// RegionDetail assembles the per-region detail view.
	RegionDetail(ctx context.Context, q service.DetailQuery) (service.Detail, error)

	// Stats exposes service statistics for monitoring.
	Stats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	rankingHandler *RankingHandler
	detailHandler  *DetailHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		rankingHandler: NewRankingHandler(deps),
		detailHandler:  NewDetailHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendation/integrated-ranking",
		RequestIDMiddleware(MetricsMiddleware(s.rankingHandler.HandlePostRanking, "integrated_ranking")))
	mux.HandleFunc("/recommendation/region-detail",
		RequestIDMiddleware(MetricsMiddleware(s.detailHandler.HandlePostDetail, "region_detail")))
}

// budgetText is a budget field accepting either JSON shape clients send: a
// bare number already in 만원 or free text like "1억". Numbers keep their
// decimal spelling so the currency parser reads them as plain 만원 digits.
type budgetText string

func (b *budgetText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*b = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = budgetText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*b = budgetText(n.String())
	return nil
}

// rankingRequest mirrors the OpenAPI schema for POST /recommendation/integrated-ranking.
type rankingRequest struct {
	UserInterest string     `json:"user_interest"`
	PolicyQuery  string     `json:"policy_query"`
	Budget       budgetText `json:"budget"`
	RentBudget   budgetText `json:"rent_budget"`
}

func (r rankingRequest) validate() error {
	switch {
	case strings.TrimSpace(r.UserInterest) == "":
		return errors.New("missing user_interest")
	case strings.TrimSpace(r.PolicyQuery) == "":
		return errors.New("missing policy_query")
	}
	return nil
}

// detailRequest mirrors the OpenAPI schema for POST /recommendation/region-detail.
type detailRequest struct {
	RegionCode   string     `json:"regionCode"`
	UserInterest string     `json:"user_interest"`
	PolicyQuery  string     `json:"policy_query"`
	Budget       budgetText `json:"budget"`
	RentBudget   budgetText `json:"rent_budget"`
}

func (r detailRequest) validate() error {
	switch {
	case strings.TrimSpace(r.RegionCode) == "":
		return errors.New("missing regionCode")
	case strings.TrimSpace(r.UserInterest) == "":
		return errors.New("missing user_interest")
	case strings.TrimSpace(r.PolicyQuery) == "":
		return errors.New("missing policy_query")
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
