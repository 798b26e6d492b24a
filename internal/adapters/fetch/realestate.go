package fetch

import (
	"context"
	"net/url"
	"time"

	"github.com/ieum-project/ieum/internal/domain/model"
	"github.com/ieum-project/ieum/pkg/metrics"
)

const sourceRealEstate = "realestate"

// realEstateResponse is the rental listing envelope. The items node holds a
// list normally but collapses to a single object when only one listing
// exists, so item is decoded loosely and normalized afterwards.
type realEstateResponse struct {
	Response struct {
		Body struct {
			Items struct {
				Item any `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// RealEstate fetches apartment rental listings for one region. The contract
// month is the configured override or the previous calendar month.
func (c *Client) RealEstate(ctx context.Context, regionCode string) ([]model.RealEstateRecord, error) {
	dealYmd := c.dealYmd
	if dealYmd == "" {
		dealYmd = previousMonth(time.Now())
	}

	params := url.Values{}
	if c.realEstateKey != "" {
		params.Set("serviceKey", c.realEstateKey)
	}
	params.Set("LAWD_CD", regionCode)
	params.Set("DEAL_YMD", dealYmd)

	var out realEstateResponse
	if err := c.get(ctx, sourceRealEstate, c.realEstateURL, params, &out); err != nil {
		return nil, err
	}

	records := itemRecords(out.Response.Body.Items.Item)
	if len(records) == 0 {
		metrics.RecordEmptyCategory(sourceRealEstate)
	}
	return records, nil
}

// itemRecords normalizes the single-object-or-list item node into records.
func itemRecords(item any) []model.RealEstateRecord {
	switch t := item.(type) {
	case []any:
		records := make([]model.RealEstateRecord, 0, len(t))
		for _, raw := range t {
			if fields, ok := raw.(map[string]any); ok {
				records = append(records, model.RealEstateFromFields(fields))
			}
		}
		return records
	case map[string]any:
		return []model.RealEstateRecord{model.RealEstateFromFields(t)}
	default:
		return nil
	}
}
