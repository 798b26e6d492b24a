package fetch

import (
	"context"
	"net/url"

	"github.com/ieum-project/ieum/internal/domain/model"
	"github.com/ieum-project/ieum/pkg/metrics"
)

const sourceJobs = "jobs"

// jobsResponse is the job source envelope.
type jobsResponse struct {
	Jobs []model.JobRecord `json:"jobs"`
}

// Jobs fetches all current job postings. The source is not region-scoped;
// relevance filtering happens downstream.
func (c *Client) Jobs(ctx context.Context) ([]model.JobRecord, error) {
	params := url.Values{}
	if c.jobKey != "" {
		params.Set("apiKey", c.jobKey)
	}

	var out jobsResponse
	if err := c.get(ctx, sourceJobs, c.jobURL, params, &out); err != nil {
		return nil, err
	}
	if len(out.Jobs) == 0 {
		metrics.RecordEmptyCategory(sourceJobs)
	}
	return out.Jobs, nil
}
