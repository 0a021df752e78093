package offmeta

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// SortKey is the field the ranked result is ordered by.
type SortKey string

const (
	SortPopularity SortKey = "edhrec"
	SortName       SortKey = "name"
	SortReleased   SortKey = "released"
	SortPrice      SortKey = "usd"
	SortManaValue  SortKey = "cmc"
	SortPower      SortKey = "power"
	SortToughness  SortKey = "toughness"
)

// SortKeys lists every supported sort key.
var SortKeys = []SortKey{SortPopularity, SortName, SortReleased, SortPrice, SortManaValue, SortPower, SortToughness}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

const (
	// DefaultPercentile keeps 60% of the retrieved cards.
	DefaultPercentile = 60

	// CatalogRankCeiling is the least popular EDHREC rank in the catalog. Unranked
	// cards take this rank when ordering for the percentile cut.
	CatalogRankCeiling = 26923

	// UnrankedSentinel is the rank unranked cards take in the final popularity sort,
	// placing them after every ranked card when ascending.
	UnrankedSentinel = math.MaxInt
)

// DefaultDirection returns the direction a sort key starts in.
func DefaultDirection(key SortKey) Direction {
	switch key {
	case SortReleased, SortPower, SortToughness:
		return Descending
	default:
		return Ascending
	}
}

// orderParam is the Scryfall order: value for keys the server can sort by.
func (k SortKey) orderParam() string {
	switch k {
	case SortName, SortReleased, SortPrice, SortManaValue, SortPower, SortToughness:
		return string(k)
	default:
		return ""
	}
}

// Valid reports whether k is one of SortKeys.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// RankState controls the popularity cut and the final ordering of a result set.
type RankState struct {
	Percentile int // 0-100, share of cards kept
	SortKey    SortKey
	Direction  Direction
}

// DefaultRankState returns a 60th percentile cut sorted by popularity, most popular first.
func DefaultRankState() RankState {
	return RankState{
		Percentile: DefaultPercentile,
		SortKey:    SortPopularity,
		Direction:  DefaultDirection(SortPopularity),
	}
}

// WithSortKey switches the sort key and resets the direction to that key's default.
func (r RankState) WithSortKey(key SortKey) RankState {
	r.SortKey = key
	r.Direction = DefaultDirection(key)
	return r
}

// ExcludeCount returns how many of n cards the percentile cut removes.
// A percentile of 0 removes everything; otherwise floor((100-p)/100 * n).
func ExcludeCount(n, percentile int) int {
	if n <= 0 {
		return 0
	}
	percentile = clampPercentile(percentile)
	if percentile == 0 {
		return n
	}
	return (100 - percentile) * n / 100
}

func clampPercentile(p int) int {
	return min(max(p, 0), 100)
}

// PercentileCut orders cards by EDHREC rank (unranked as CatalogRankCeiling) and drops
// the first ExcludeCount of them. The input slice is not modified.
func PercentileCut(cards []*Card, percentile int) []*Card {
	byRank := slices.Clone(cards)
	if byRank == nil {
		byRank = []*Card{}
	}
	slices.SortStableFunc(byRank, func(a, b *Card) int {
		return cmp.Compare(a.rankOr(CatalogRankCeiling), b.rankOr(CatalogRankCeiling))
	})
	return byRank[ExcludeCount(len(byRank), percentile):]
}

// Rank produces the ranked result set: the percentile cut followed by the sort in r.
//
// Behavior:
//   - popularity sorts by EDHREC rank, unranked cards as UnrankedSentinel
//   - name sorts lexicographically
//   - released sorts by date with undated cards last in either direction
//   - any other key is left in percentile cut order
//
// Rank never fails and never modifies cards; the result is a new slice.
func Rank(cards []*Card, r RankState) []*Card {
	kept := PercentileCut(cards, r.Percentile)
	desc := r.Direction == Descending

	directed := func(c int) int {
		if desc {
			return -c
		}
		return c
	}

	switch r.SortKey {
	case SortPopularity:
		slices.SortStableFunc(kept, func(a, b *Card) int {
			return directed(cmp.Compare(a.rankOr(UnrankedSentinel), b.rankOr(UnrankedSentinel)))
		})
	case SortName:
		slices.SortStableFunc(kept, func(a, b *Card) int {
			return directed(strings.Compare(a.DisplayName(), b.DisplayName()))
		})
	case SortReleased:
		missing := int64(math.MaxInt64)
		if desc {
			missing = math.MinInt64
		}
		slices.SortStableFunc(kept, func(a, b *Card) int {
			return directed(cmp.Compare(a.releaseOr(missing), b.releaseOr(missing)))
		})
	}
	return kept
}
