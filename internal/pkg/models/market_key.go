package models

import (
	"fmt"
	"regexp"
	"strconv"
)

// MarketKey identifies one market inside a match event. The tuple is the
// market's natural key: two markets with equal keys are the same market.
type MarketKey struct {
	BettingTypeID    int     `json:"betting_type_id"`
	ScopeID          int     `json:"scope_id"`
	HandicapTypeID   int     `json:"handicap_type_id"`
	HandicapValue    float64 `json:"handicap_value"`
	MixedParameterID int     `json:"mixed_parameter_id"`
}

// Market keys arrive as "E-<bt>-<sc>-<ht>-<hv>-<mp>", e.g. "E-5-2-1-2.5-0".
// Anchored at the start only: the API occasionally appends trailing junk.
var marketKeyPattern = regexp.MustCompile(`^E-(\d+)-(\d+)-(\d+)-([\d.]+)-(\d+)`)

// ParseMarketKey parses a compact market identifier string.
// Returns ok=false for keys that do not match the pattern; market
// dictionaries legitimately contain keys we do not understand, so
// callers skip those silently instead of failing the whole event.
func ParseMarketKey(key string) (MarketKey, bool) {
	m := marketKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return MarketKey{}, false
	}

	bettingTypeID, err := strconv.Atoi(m[1])
	if err != nil {
		return MarketKey{}, false
	}
	scopeID, err := strconv.Atoi(m[2])
	if err != nil {
		return MarketKey{}, false
	}
	handicapTypeID, err := strconv.Atoi(m[3])
	if err != nil {
		return MarketKey{}, false
	}
	handicapValue, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return MarketKey{}, false
	}
	mixedParameterID, err := strconv.Atoi(m[5])
	if err != nil {
		return MarketKey{}, false
	}

	return MarketKey{
		BettingTypeID:    bettingTypeID,
		ScopeID:          scopeID,
		HandicapTypeID:   handicapTypeID,
		HandicapValue:    handicapValue,
		MixedParameterID: mixedParameterID,
	}, true
}

// String rebuilds the canonical key form. Handicap values print without
// trailing zeros so round-tripping "E-5-2-1-2.5-0" is exact.
func (k MarketKey) String() string {
	return fmt.Sprintf("E-%d-%d-%d-%s-%d",
		k.BettingTypeID, k.ScopeID, k.HandicapTypeID,
		strconv.FormatFloat(k.HandicapValue, 'f', -1, 64),
		k.MixedParameterID)
}
