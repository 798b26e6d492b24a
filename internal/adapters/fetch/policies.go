package fetch

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ieum-project/ieum/internal/domain/model"
	"github.com/ieum-project/ieum/pkg/metrics"
)

const sourcePolicies = "policies"

// policyPageSize is the number of policies requested per call.
const policyPageSize = 100

// policiesResponse is the policy source envelope.
type policiesResponse struct {
	Policies []model.PolicyRecord `json:"policies"`
}

// Policies fetches the current youth policy catalog.
func (c *Client) Policies(ctx context.Context) ([]model.PolicyRecord, error) {
	params := url.Values{}
	if c.policyKey != "" {
		params.Set("apiKey", c.policyKey)
	}
	params.Set("display", strconv.Itoa(policyPageSize))

	var out policiesResponse
	if err := c.get(ctx, sourcePolicies, c.policyURL, params, &out); err != nil {
		return nil, err
	}
	if len(out.Policies) == 0 {
		metrics.RecordEmptyCategory(sourcePolicies)
	}
	return out.Policies, nil
}
