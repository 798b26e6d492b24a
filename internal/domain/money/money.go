// Package money parses free-text Korean budget amounts into integer 만원
// units. User budget inputs mix digits with the 억/천/만원 unit words and a
// handful of "no limit" placeholder spellings, so parsing is grammar-based
// rather than a plain strconv call.
//
// Parsing fails open: any string the grammar cannot read is treated as
// Unbounded, which keeps a malformed budget from silently filtering out
// every listing.
package money

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Amount is a money value in 만원 (ten-thousand won) units.
type Amount int64

// Unbounded represents the absence of a budget limit. Every finite amount
// compares below it.
const Unbounded Amount = math.MaxInt64

// IsUnbounded reports whether the amount is the no-limit sentinel.
func (a Amount) IsUnbounded() bool {
	return a == Unbounded
}

// Within reports whether a value fits under this amount as a limit.
func (a Amount) Within(v int64) bool {
	return a.IsUnbounded() || v <= int64(a)
}

// placeholders are input spellings that mean "no limit was given".
var placeholders = map[string]bool{
	"":          true,
	"미입력":       true,
	"제한없음":      true,
	"null":      true,
	"undefined": true,
}

var (
	eokPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*억`)
	cheonAfter  = regexp.MustCompile(`억\s*(\d+)\s*천`)
	manAfter    = regexp.MustCompile(`억\s*(\d+)\s*(?:만원|만)?\s*$`)
	cheonOnly   = regexp.MustCompile(`^(\d+)\s*천(?:만원|만)?$`)
	manOnly     = regexp.MustCompile(`^(\d+(?:,\d{3})*)\s*(?:만원|만)$`)
	bareDigits  = regexp.MustCompile(`^\d+(?:,\d{3})*$`)
	eokPerUnit  = int64(10000) // 1억 = 10,000 만원
	cheonFactor = int64(1000)  // 1천 = 1,000 만원
)

// Parse reads a Korean budget string into 만원. Recognized forms:
//
//	"2억"       -> 20000
//	"2억 5000"  -> 25000
//	"2억5천"    -> 25000
//	"5000만원"  -> 5000
//	"5천만원"   -> 5000
//	"50만원"    -> 50
//	"5000"      -> 5000
//
// Placeholder spellings and anything unreadable return Unbounded.
func Parse(raw string) Amount {
	s := strings.TrimSpace(raw)
	if placeholders[strings.ToLower(s)] {
		return Unbounded
	}

	if m := eokPattern.FindStringSubmatch(s); m != nil {
		eok, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Unbounded
		}
		total := int64(eok * float64(eokPerUnit))
		switch {
		case cheonAfter.MatchString(s):
			cm := cheonAfter.FindStringSubmatch(s)
			n, err := strconv.ParseInt(cm[1], 10, 64)
			if err != nil {
				return Unbounded
			}
			total += n * cheonFactor
		case manAfter.MatchString(s):
			mm := manAfter.FindStringSubmatch(s)
			n, err := strconv.ParseInt(mm[1], 10, 64)
			if err != nil {
				return Unbounded
			}
			total += n
		case strings.TrimSpace(s[strings.Index(s, "억")+len("억"):]) != "":
			// Trailing text after 억 that no sub-pattern read.
			return Unbounded
		}
		return Amount(total)
	}

	if m := cheonOnly.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Unbounded
		}
		return Amount(n * cheonFactor)
	}

	if m := manOnly.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
		if err != nil {
			return Unbounded
		}
		return Amount(n)
	}

	if bareDigits.MatchString(s) {
		n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
		if err != nil {
			return Unbounded
		}
		return Amount(n)
	}

	return Unbounded
}

// FormatLabel renders a 만원 amount for display, splitting off the 억 part
// when present: 25000 -> "2억 5,000", 5000 -> "5,000".
func FormatLabel(v int64) string {
	if v >= eokPerUnit {
		eok := v / eokPerUnit
		rest := v % eokPerUnit
		if rest == 0 {
			return strconv.FormatInt(eok, 10) + "억"
		}
		return strconv.FormatInt(eok, 10) + "억 " + groupDigits(rest)
	}
	return groupDigits(v)
}

// groupDigits inserts thousands separators.
func groupDigits(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
