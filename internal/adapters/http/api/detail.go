// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/ieum-project/ieum/internal/app"
	"github.com/ieum-project/ieum/internal/domain/model"
)

// DetailHandler handles region detail requests.
type DetailHandler struct {
	deps Dependencies
}

// NewDetailHandler creates a new detail handler.
func NewDetailHandler(deps Dependencies) *DetailHandler {
	return &DetailHandler{deps: deps}
}

// detailResponse mirrors the OpenAPI schema for POST /recommendation/region-detail.
// Each block carries its own success flag so the client can render partial
// views when one source degrades.
type detailResponse struct {
	Summary    summaryBlock  `json:"summary"`
	Jobs       jobsBlock     `json:"jobs"`
	RealEstate listingsBlock `json:"realestate"`
	Policies   policiesBlock `json:"policies"`
}

type summaryBlock struct {
	Success    bool           `json:"success"`
	Summary    summaryContent `json:"summary"`
	RegionInfo regionInfo     `json:"region_info"`
}

type summaryContent struct {
	TotalJobs       int    `json:"total_jobs"`
	TotalProperties int    `json:"total_properties"`
	TotalPolicies   int    `json:"total_policies"`
	RegionName      string `json:"region_name"`
	Text            string `json:"text"`
}

type regionInfo struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type jobsBlock struct {
	Success bool              `json:"success"`
	Jobs    []model.JobRecord `json:"jobs"`
}

type listingsBlock struct {
	Success    bool                     `json:"success"`
	Properties []model.RealEstateRecord `json:"properties"`
}

type policiesBlock struct {
	Success  bool                 `json:"success"`
	Policies []model.PolicyRecord `json:"policies"`
}

// HandlePostDetail handles POST /recommendation/region-detail requests.
func (h *DetailHandler) HandlePostDetail(w http.ResponseWriter, r *http.Request) {
	const op = "api.region_detail"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req detailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	detail, err := h.deps.RegionDetail(r.Context(), service.DetailQuery{
		RegionCode:   req.RegionCode,
		UserInterest: req.UserInterest,
		PolicyQuery:  req.PolicyQuery,
		Budget:       string(req.Budget),
		RentBudget:   string(req.RentBudget),
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownRegion) {
			writeError(w, http.StatusBadRequest, "unknown_region", NewKind(op, ErrUnknownRegion))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toDetailResponse(detail))
}

// toDetailResponse maps the service view to the wire shape. Nil slices
// become empty arrays so clients never see null blocks.
func toDetailResponse(d service.Detail) detailResponse {
	jobs := d.Jobs.Jobs
	if jobs == nil {
		jobs = []model.JobRecord{}
	}
	properties := d.RealEstate.Listings
	if properties == nil {
		properties = []model.RealEstateRecord{}
	}
	policies := d.Policies.Policies
	if policies == nil {
		policies = []model.PolicyRecord{}
	}

	return detailResponse{
		Summary: summaryBlock{
			Success: d.Summary.Success,
			Summary: summaryContent{
				TotalJobs:       d.Summary.TotalJobs,
				TotalProperties: d.Summary.TotalListings,
				TotalPolicies:   d.Summary.TotalPolicies,
				RegionName:      d.Summary.RegionName,
				Text:            d.Summary.Text,
			},
			RegionInfo: regionInfo{
				Name: d.Summary.RegionName,
				Lat:  d.Summary.Coord.Lat,
				Lng:  d.Summary.Coord.Lng,
			},
		},
		Jobs:       jobsBlock{Success: d.Jobs.Success, Jobs: jobs},
		RealEstate: listingsBlock{Success: d.RealEstate.Success, Properties: properties},
		Policies:   policiesBlock{Success: d.Policies.Success, Policies: policies},
	}
}
