// Package model defines the typed record shapes flowing through the
// recommendation pipeline. Source APIs disagree on field names between
// batches, so all alias resolution happens here, at the ingestion boundary,
// and the rest of the pipeline sees fixed fields.
package model

import (
	"strconv"
	"strings"
)

// JobRecord is one public-sector job posting.
type JobRecord struct {
	// Title is the posting title (recrutPbancTtl).
	Title string `json:"recrutPbancTtl"`
	// Institution is the hiring body (instNm).
	Institution string `json:"instNm"`
	// RegionCodes is the comma-separated work region code list (workRgnLst),
	// possibly containing province-level or nationwide wildcards.
	RegionCodes string `json:"workRgnLst"`
	// RegionNames is the display form of the work regions (workRgnNmLst).
	RegionNames string `json:"workRgnNmLst"`
	// NCSField is the comma-separated duty classification (ncsCdNmLst); it is
	// the candidate text for similarity ranking.
	NCSField string `json:"ncsCdNmLst"`
	// HireTypes is the employment type list (hireTypeNmLst).
	HireTypes string `json:"hireTypeNmLst"`
	// Education is the education requirement code list (acbgCondLst).
	Education string `json:"acbgCondLst"`
	// Deadline is the application deadline as yyyymmdd (pbancEndYmd).
	Deadline string `json:"pbancEndYmd"`

	// Similarity is attached during scoring; it is not part of the source
	// record and lives only for the duration of one request.
	Similarity float64 `json:"-"`
}

// CandidateText returns the text compared against the user's interest.
func (j JobRecord) CandidateText() string {
	return j.NCSField
}

// PolicyRecord is one government youth policy.
type PolicyRecord struct {
	// Name is the policy name (plcyNm); it is the candidate text for
	// similarity ranking.
	Name string `json:"plcyNm"`
	// No is the policy number used to build detail links (plcyNo).
	No string `json:"plcyNo"`
	// ZipCodes is the comma-separated applicable region code list (zipCd),
	// possibly containing wildcards.
	ZipCodes string `json:"zipCd"`
	// Institution is the supervising body name (sprvsnInstCdNm).
	Institution string `json:"sprvsnInstCdNm"`
	// Explanation is the policy description (plcyExplnCn).
	Explanation string `json:"plcyExplnCn"`
	// Keywords is the policy keyword list (plcyKywdNm).
	Keywords string `json:"plcyKywdNm"`
	// LargeCategory and MediumCategory classify the policy (lclsfNm/mclsfNm).
	LargeCategory  string `json:"lclsfNm"`
	MediumCategory string `json:"mclsfNm"`
	// ApplyPeriod is the free-form application window (aplyYmd).
	ApplyPeriod string `json:"aplyYmd"`
	// SupportContent describes what the policy provides (plcySprtCn).
	SupportContent string `json:"plcySprtCn"`

	// Similarity is attached during scoring; request-scoped, see JobRecord.
	Similarity float64 `json:"-"`
}

// CandidateText returns the text compared against the user's policy query.
func (p PolicyRecord) CandidateText() string {
	return p.Name
}

// RealEstateRecord is one apartment rental listing with money fields already
// coerced to 만원 integers.
type RealEstateRecord struct {
	Name      string `json:"aptNm"`
	Dong      string `json:"umdNm"`
	AreaM2    string `json:"excluUseAr"`
	Floor     string `json:"floor"`
	BuildYear string `json:"buildYear"`
	// Deposit and Rent are in 만원. Zero means missing or 전세/월세-only.
	Deposit int64 `json:"-"`
	Rent    int64 `json:"-"`
	// DealLabel is the human-readable deal amount, set by the budget filter.
	DealLabel string `json:"dealAmount,omitempty"`
}

// Field-name aliases observed across real-estate source batches. The first
// matching alias wins.
var (
	depositAliases = []string{"deposit", "보증금액", "depositAmount"}
	rentAliases    = []string{"monthlyRent", "월세금액", "monthlyAmount"}
	nameAliases    = []string{"aptNm", "아파트", "apartment"}
	dongAliases    = []string{"umdNm", "법정동"}
	areaAliases    = []string{"excluUseAr", "전용면적"}
	floorAliases   = []string{"floor", "층"}
	builtAliases   = []string{"buildYear", "건축년도"}
)

// RealEstateFromFields builds a RealEstateRecord from a raw field map,
// resolving aliases and coercing money fields. Non-numeric or absent money
// values coerce to 0 rather than failing.
func RealEstateFromFields(fields map[string]any) RealEstateRecord {
	return RealEstateRecord{
		Name:      firstString(fields, nameAliases),
		Dong:      firstString(fields, dongAliases),
		AreaM2:    firstString(fields, areaAliases),
		Floor:     firstString(fields, floorAliases),
		BuildYear: firstString(fields, builtAliases),
		Deposit:   firstAmount(fields, depositAliases),
		Rent:      firstAmount(fields, rentAliases),
	}
}

// firstString returns the first non-empty alias value as a string.
func firstString(fields map[string]any, aliases []string) string {
	for _, key := range aliases {
		if v, ok := fields[key]; ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstAmount returns the first alias value coerced to a 만원 integer.
func firstAmount(fields map[string]any, aliases []string) int64 {
	for _, key := range aliases {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if n, ok := asAmount(v); ok {
			return n
		}
	}
	return 0
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers arrive as float64; amounts in these feeds are integral.
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func asAmount(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0, false
		}
		return int64(t), true
	case int:
		if t < 0 {
			return 0, false
		}
		return int64(t), true
	case int64:
		if t < 0 {
			return 0, false
		}
		return t, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
