// Package region holds the static catalog of candidate regions.
//
// The catalog is the closed set of shrinking-population municipalities the
// service recommends from. It is built once at startup and read-only after
// that, so lookups need no synchronization.
package region

import "sort"

// Region is one candidate municipality.
type Region struct {
	// Code is the 5-digit administrative area code (법정동코드 prefix).
	Code string
	// DisplayName is the human-facing "province city" form, e.g. "경기 양평군".
	DisplayName string
	// Province is the parent province short name, e.g. "경기".
	Province string
	// City is the municipality name including its suffix, e.g. "양평군".
	City string
}

// Coord is a display coordinate for a region.
type Coord struct {
	Lat float64
	Lng float64
}

// Registry is a read-only lookup table of candidate regions.
type Registry struct {
	byCode     map[string]Region
	byProvince map[string][]string
	coords     map[string]Coord
	codes      []string
}

// defaultCatalog lists the candidate municipalities, keyed by area code.
var defaultCatalog = []Region{
	{Code: "26710", DisplayName: "부산 기장군", Province: "부산", City: "기장군"},
	{Code: "41250", DisplayName: "경기 동두천시", Province: "경기", City: "동두천시"},
	{Code: "41650", DisplayName: "경기 포천시", Province: "경기", City: "포천시"},
	{Code: "41670", DisplayName: "경기 여주시", Province: "경기", City: "여주시"},
	{Code: "41800", DisplayName: "경기 연천군", Province: "경기", City: "연천군"},
	{Code: "41820", DisplayName: "경기 가평군", Province: "경기", City: "가평군"},
	{Code: "41830", DisplayName: "경기 양평군", Province: "경기", City: "양평군"},
	{Code: "44790", DisplayName: "충남 청양군", Province: "충남", City: "청양군"},
	{Code: "44800", DisplayName: "충남 예산군", Province: "충남", City: "예산군"},
	{Code: "46110", DisplayName: "전남 목포시", Province: "전남", City: "목포시"},
	{Code: "51150", DisplayName: "강원 강릉시", Province: "강원", City: "강릉시"},
	{Code: "51750", DisplayName: "강원 영월군", Province: "강원", City: "영월군"},
	{Code: "51770", DisplayName: "강원 정선군", Province: "강원", City: "정선군"},
	{Code: "52210", DisplayName: "전북 김제시", Province: "전북", City: "김제시"},
}

// defaultCoords maps region codes to map-display coordinates. Regions
// without an entry fall back to the Seoul city-hall coordinate.
var defaultCoords = map[string]Coord{
	"44790": {Lat: 36.4595, Lng: 126.8028},
	"51150": {Lat: 37.7519, Lng: 128.8761},
	"51750": {Lat: 37.1833, Lng: 128.4619},
	"51770": {Lat: 37.3802, Lng: 128.6631},
	"52210": {Lat: 35.8032, Lng: 126.8800},
}

// fallbackCoord is used when a region has no coordinate entry.
var fallbackCoord = Coord{Lat: 37.5665, Lng: 126.9780}

// NewRegistry builds a registry from the default catalog.
func NewRegistry() *Registry {
	return NewRegistryFrom(defaultCatalog)
}

// NewRegistryFrom builds a registry from an explicit catalog. Intended for
// tests that need a small fixed region set.
func NewRegistryFrom(catalog []Region) *Registry {
	r := &Registry{
		byCode:     make(map[string]Region, len(catalog)),
		byProvince: make(map[string][]string),
		coords:     defaultCoords,
		codes:      make([]string, 0, len(catalog)),
	}
	for _, reg := range catalog {
		r.byCode[reg.Code] = reg
		r.byProvince[reg.Province] = append(r.byProvince[reg.Province], reg.Code)
		r.codes = append(r.codes, reg.Code)
	}
	sort.Strings(r.codes)
	return r
}

// Lookup returns the region for code and whether it exists.
func (r *Registry) Lookup(code string) (Region, bool) {
	reg, ok := r.byCode[code]
	return reg, ok
}

// Codes returns all candidate region codes in ascending order.
// The returned slice must not be mutated.
func (r *Registry) Codes() []string {
	return r.codes
}

// ProvinceCodes returns the candidate codes belonging to a province.
func (r *Registry) ProvinceCodes(province string) []string {
	return r.byProvince[province]
}

// Coordinate returns the display coordinate for a region code, falling back
// to a fixed default for regions without one.
func (r *Registry) Coordinate(code string) Coord {
	if c, ok := r.coords[code]; ok {
		return c
	}
	return fallbackCoord
}

// Count returns the number of candidate regions.
func (r *Registry) Count() int {
	return len(r.byCode)
}
