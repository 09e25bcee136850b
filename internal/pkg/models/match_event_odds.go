package models

import "time"

// MatchEventOdds is the full odds snapshot for one match and one
// requested (betting type, scope) fetch. It exclusively owns its
// markets, outcomes and points; a fresh fetch produces a fresh
// aggregate, never an update in place.
type MatchEventOdds struct {
	MatchID            string    `json:"match_id"`
	EncodedEventID     string    `json:"encoded_event_id"`
	CurrentBettingType int       `json:"current_betting_type"`
	CurrentScope       int       `json:"current_scope"`
	TimeBase           time.Time `json:"time_base"`
	RefreshInterval    int       `json:"refresh_interval"` // seconds
	IsStarted          bool      `json:"is_started"`
	BackMarkets        []Market  `json:"back_markets"`
	LayMarkets         []Market  `json:"lay_markets"`
	BrokenParsers      []string  `json:"broken_parsers"`
}

// AllMarkets returns back then lay markets as one slice, for sinks that
// treat both sides uniformly.
func (o *MatchEventOdds) AllMarkets() []Market {
	out := make([]Market, 0, len(o.BackMarkets)+len(o.LayMarkets))
	out = append(out, o.BackMarkets...)
	out = append(out, o.LayMarkets...)
	return out
}

// Market is one back or lay market inside a match event.
type Market struct {
	Key                  MarketKey `json:"key"`
	BettingTypeName      string    `json:"betting_type_name"`
	BettingTypeShortName string    `json:"betting_type_short_name"`
	ScopeName            string    `json:"scope_name"`
	HandicapName         string    `json:"handicap_name"`
	// Mixed parameter is pass-through: the source never resolves it to a
	// semantic mapping, so neither do we.
	MixedParameterName string `json:"mixed_parameter_name,omitempty"`

	IsBack bool `json:"is_back"`

	// OutcomeIDs preserves the API's positional order; the position is
	// what maps an outcome to its semantic type.
	OutcomeIDs []string  `json:"outcome_ids"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Outcome is the odds time series of one bookmaker for one outcome
// position of a market.
type Outcome struct {
	BookmakerID   string      `json:"bookmaker_id"`
	BookmakerName string      `json:"bookmaker_name"`
	OutcomeID     string      `json:"outcome_id"`
	Position      int         `json:"outcome_position"`
	OutcomeType   string      `json:"outcome_type"` // derived, never stored by the source
	History       []OddsPoint `json:"odds_history"` // ascending time, duplicates kept
}

// OddsPoint is one logged odds value. Volume is 0 where the source
// reports none (back and lay markets report it inconsistently).
type OddsPoint struct {
	Odds      float64   `json:"odds_value"`
	Volume    int       `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}
