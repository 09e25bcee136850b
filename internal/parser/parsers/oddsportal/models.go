package oddsportal

import (
	"encoding/json"
	"sort"
	"strconv"
)

// DecryptedResponse is the envelope inside every decrypted odds
// payload. Status 1 means success; anything else is terminal for the
// request (no retry at this layer).
type DecryptedResponse struct {
	Status int         `json:"s"`
	Data   OddsPayload `json:"d"`
}

// OddsPayload is the "d" object of a decrypted odds response.
type OddsPayload struct {
	EncodedEventID string                     `json:"encodeventId"`
	BettingTypeID  int                        `json:"bt"`
	ScopeID        int                        `json:"sc"`
	TimeBase       int64                      `json:"time-base"`
	Refresh        int                        `json:"refresh"`
	BrokenParsers  []string                   `json:"brokenParser"`
	Nav            map[string]json.RawMessage `json:"nav"`
	OddsData       OddsDataPayload            `json:"oddsdata"`
}

// OddsDataPayload splits markets into back and lay collections. The two
// sides are mutually exclusive books and are assembled independently.
type OddsDataPayload struct {
	Back map[string]MarketPayload `json:"back"`
	Lay  map[string]MarketPayload `json:"lay"`
}

// MarketPayload is one market entry, keyed in the parent map by the
// compact "E-..." market key. The API is loosely typed here: outcomeId
// and the three current-odds blocks arrive either as arrays or as
// objects keyed by string index, and lay markets omit the current-odds
// blocks entirely.
type MarketPayload struct {
	OutcomeID          json.RawMessage            `json:"outcomeId"`
	MixedParameterName string                     `json:"mixedParameterName"`
	Odds               map[string]json.RawMessage `json:"odds"`       // bookmaker ID -> positional values
	Volume             map[string]json.RawMessage `json:"volume"`     // bookmaker ID -> positional values
	ChangeTime         map[string]json.RawMessage `json:"changeTime"` // bookmaker ID -> positional values
	// History entries are [odds, volume, timestamp] triples per
	// (outcome ID, bookmaker ID), in the API's own temporal order.
	History map[string]map[string][][]float64 `json:"history"`
}

// parsePositional normalizes the API's two positional encodings — an
// object keyed by string index ({"0": 2.1}) or a plain array — into an
// index-keyed map. Unparseable input yields nil, which callers treat as
// "no values".
func parsePositional(raw json.RawMessage) map[int]float64 {
	if len(raw) == 0 {
		return nil
	}

	var asArray []float64
	if err := json.Unmarshal(raw, &asArray); err == nil {
		if len(asArray) == 0 {
			return nil
		}
		out := make(map[int]float64, len(asArray))
		for i, v := range asArray {
			out[i] = v
		}
		return out
	}

	var asMap map[string]float64
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil
	}
	out := make(map[int]float64, len(asMap))
	for k, v := range asMap {
		idx, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[idx] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseOutcomeIDs materializes the outcomeId field into a
// position-ordered slice. The object form is ordered by its numeric
// keys, matching how the site's own client walks it.
func parseOutcomeIDs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var asArray []string
	if err := json.Unmarshal(raw, &asArray); err == nil {
		return asArray
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil
	}
	indices := make([]int, 0, len(asMap))
	for k := range asMap {
		idx, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		out = append(out, asMap[strconv.Itoa(idx)])
	}
	return out
}
