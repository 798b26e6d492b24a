// Package relevance decides whether a raw job or policy record applies to a
// candidate region. Source records identify regions with inconsistent,
// wildcarded code lists and free-text institution names, so the decision is
// a two-stage gate: a code match followed by an institution-name match.
//
// The gate deliberately prefers false negatives: a nationwide posting whose
// institution name carries no recognizable regional or national marker is
// dropped rather than counted for every region.
package relevance

import (
	"strings"

	"github.com/ieum-project/ieum/internal/domain/region"
)

// nationwideCode matches records that apply to the whole country.
const nationwideCode = "00000"

// provinceWildcardSuffix turns a region code prefix into a province-level
// wildcard, e.g. "41" -> "41000".
const provinceWildcardSuffix = "000"

// nationalKeywords mark institutions with country-wide scope. A wildcarded
// record from one of these still counts for the target region.
var nationalKeywords = []string{"중앙", "정부", "국가", "진흥원", "재단", "본부", "위원회", "공사"}

// citySuffixes are the administrative suffixes stripped to get the short
// city name used for substring matching.
var citySuffixes = []string{"시", "군"}

// Matcher evaluates record-to-region relevance against a registry.
type Matcher struct {
	regions *region.Registry
}

// NewMatcher creates a matcher over the given registry.
func NewMatcher(regions *region.Registry) *Matcher {
	return &Matcher{regions: regions}
}

// Relevant reports whether a record with the given comma-separated region
// code list and institution name applies to the target region.
//
// Both gates must pass:
//  1. the code list contains the target code, its province wildcard
//     (first two digits + "000"), or the nationwide wildcard; and
//  2. the institution name contains the region's short city name, its
//     province name, or a national-scope keyword.
//
// An unknown target code or an empty code list is never relevant.
func (m *Matcher) Relevant(codeList, institution, target string) bool {
	if strings.TrimSpace(codeList) == "" {
		return false
	}
	reg, ok := m.regions.Lookup(target)
	if !ok {
		return false
	}

	if !codeMatch(codeList, target) {
		return false
	}
	return institutionMatch(institution, reg)
}

// codeMatch checks the wildcard-aware code gate.
func codeMatch(codeList, target string) bool {
	provinceWildcard := ""
	if len(target) >= 2 {
		provinceWildcard = target[:2] + provinceWildcardSuffix
	}
	for _, raw := range strings.Split(codeList, ",") {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		if code == target || code == nationwideCode || (provinceWildcard != "" && code == provinceWildcard) {
			return true
		}
	}
	return false
}

// institutionMatch checks the name gate against a resolved region.
func institutionMatch(institution string, reg region.Region) bool {
	if cityShort := CityShortName(reg.City); cityShort != "" && strings.Contains(institution, cityShort) {
		return true
	}
	if reg.Province != "" && strings.Contains(institution, reg.Province) {
		return true
	}
	for _, kw := range nationalKeywords {
		if strings.Contains(institution, kw) {
			return true
		}
	}
	return false
}

// CityShortName strips the trailing administrative suffix from a city name,
// e.g. "양평군" -> "양평". Names without a known suffix are returned as-is.
func CityShortName(city string) string {
	for _, suffix := range citySuffixes {
		if strings.HasSuffix(city, suffix) {
			return strings.TrimSuffix(city, suffix)
		}
	}
	return city
}
