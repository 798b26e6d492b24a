// Package budget filters rental listings against user budget ceilings and
// attaches human-readable deal labels to the survivors.
package budget

import (
	"github.com/ieum-project/ieum/internal/domain/model"
	"github.com/ieum-project/ieum/internal/domain/money"
)

// Limits are the user's budget ceilings in 만원. Either side may be
// money.Unbounded when the user gave no limit.
type Limits struct {
	Deposit money.Amount
	Rent    money.Amount
}

// LimitsFromInput parses free-text budget strings into Limits. Unreadable
// input yields an unbounded side, so a malformed budget never excludes
// every listing.
func LimitsFromInput(deposit, rent string) Limits {
	return Limits{
		Deposit: money.Parse(deposit),
		Rent:    money.Parse(rent),
	}
}

// Filter keeps the listings whose deposit and rent both fit under the
// limits, labels each kept listing, and returns them in input order. The
// result is always non-nil.
func Filter(listings []model.RealEstateRecord, limits Limits) []model.RealEstateRecord {
	kept := make([]model.RealEstateRecord, 0, len(listings))
	for _, l := range listings {
		// Neither amount present means the money fields failed to parse
		// upstream; such listings are dropped rather than labeled.
		if l.Deposit == 0 && l.Rent == 0 {
			continue
		}
		if !limits.Deposit.Within(l.Deposit) || !limits.Rent.Within(l.Rent) {
			continue
		}
		l.DealLabel = DealLabel(l.Deposit, l.Rent)
		kept = append(kept, l)
	}
	return kept
}

// DealLabel renders the deal amount for display. A listing without monthly
// rent is a 전세 (lump-sum lease); one without a deposit is plain 월세.
func DealLabel(deposit, rent int64) string {
	switch {
	case rent == 0:
		return "전세 " + money.FormatLabel(deposit) + "만원"
	case deposit == 0:
		return "월세 " + money.FormatLabel(rent) + "만원"
	default:
		return "보증금 " + money.FormatLabel(deposit) + " / 월세 " + money.FormatLabel(rent) + "만원"
	}
}
