package oddsportal

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// ErrInvalidResponse means the payload decrypted fine but its status
// field was not 1. Fatal for this payload.
var ErrInvalidResponse = errors.New("oddsportal: invalid response status")

// AssembleMatchEventOdds turns one decrypted odds response into the
// per-match odds aggregate. Assembly is all-or-nothing past the status
// check: individual market or outcome malformation degrades by omission
// and never aborts, so a successful return is a best-effort-complete
// snapshot.
func AssembleMatchEventOdds(resp *DecryptedResponse, matchID string, isStarted bool, names *NamingTables) (*models.MatchEventOdds, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", ErrInvalidResponse)
	}
	if resp.Status != 1 {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.Status)
	}

	d := &resp.Data
	out := &models.MatchEventOdds{
		MatchID:            matchID,
		EncodedEventID:     d.EncodedEventID,
		CurrentBettingType: d.BettingTypeID,
		CurrentScope:       d.ScopeID,
		RefreshInterval:    d.Refresh,
		IsStarted:          isStarted,
		BrokenParsers:      d.BrokenParsers,
	}
	if d.TimeBase != 0 {
		out.TimeBase = time.Unix(d.TimeBase, 0).UTC()
	}

	out.BackMarkets = assembleMarkets(d.OddsData.Back, true, names)
	out.LayMarkets = assembleMarkets(d.OddsData.Lay, false, names)

	return out, nil
}

func assembleMarkets(payloads map[string]MarketPayload, isBack bool, names *NamingTables) []models.Market {
	if len(payloads) == 0 {
		return nil
	}

	// Walk keys in sorted order so assembled output is deterministic.
	keys := make([]string, 0, len(payloads))
	for k := range payloads {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var markets []models.Market
	for _, rawKey := range keys {
		payload := payloads[rawKey]
		key, ok := models.ParseMarketKey(rawKey)
		if !ok {
			continue // market dictionaries legitimately contain keys we do not understand
		}
		markets = append(markets, assembleMarket(key, &payload, isBack, names))
	}
	return markets
}

func assembleMarket(key models.MarketKey, payload *MarketPayload, isBack bool, names *NamingTables) models.Market {
	label := names.BettingTypeLabel(key.BettingTypeID)

	market := models.Market{
		Key:                  key,
		BettingTypeName:      label.Name,
		BettingTypeShortName: label.ShortName,
		ScopeName:            names.ScopeName(key.ScopeID),
		HandicapName:         names.HandicapName(key.HandicapTypeID),
		MixedParameterName:   payload.MixedParameterName,
		IsBack:               isBack,
		OutcomeIDs:           parseOutcomeIDs(payload.OutcomeID),
	}

	merged := MergeOddsHistory(payload.History, currentOddsFromMarket(payload), market.OutcomeIDs)
	market.Outcomes = buildOutcomes(merged, market.OutcomeIDs, key.BettingTypeID, names)

	return market
}

// buildOutcomes flattens the merged series into Outcome records ordered
// by (position, bookmaker).
func buildOutcomes(merged map[OutcomeRef][]models.OddsPoint, outcomeIDs []string, bettingTypeID int, names *NamingTables) []models.Outcome {
	if len(merged) == 0 {
		return nil
	}

	refs := make([]OutcomeRef, 0, len(merged))
	for ref := range merged {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Position != refs[j].Position {
			return refs[i].Position < refs[j].Position
		}
		return bookmakerIDLess(refs[i].BookmakerID, refs[j].BookmakerID)
	})

	outcomes := make([]models.Outcome, 0, len(refs))
	for _, ref := range refs {
		outcomes = append(outcomes, models.Outcome{
			BookmakerID:   ref.BookmakerID,
			BookmakerName: names.BookmakerName(ref.BookmakerID),
			OutcomeID:     outcomeIDs[ref.Position],
			Position:      ref.Position,
			OutcomeType:   models.ResolveOutcomeType(bettingTypeID, ref.Position),
			History:       merged[ref],
		})
	}
	return outcomes
}
