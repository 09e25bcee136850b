package oddsportal

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// CurrentOdds carries a back market's current-odds snapshot: per
// bookmaker, positional odds values plus the volume and change-time
// reported alongside them. Lay markets ship no such snapshot; their
// CurrentOdds is nil.
type CurrentOdds struct {
	Odds       map[string]map[int]float64
	Volume     map[string]map[int]float64
	ChangeTime map[string]map[int]float64
}

func currentOddsFromMarket(m *MarketPayload) *CurrentOdds {
	if m.Odds == nil {
		return nil
	}
	return &CurrentOdds{
		Odds:       positionalByBookmaker(m.Odds),
		Volume:     positionalByBookmaker(m.Volume),
		ChangeTime: positionalByBookmaker(m.ChangeTime),
	}
}

func positionalByBookmaker(raw map[string]json.RawMessage) map[string]map[int]float64 {
	out := make(map[string]map[int]float64, len(raw))
	for bookmakerID, values := range raw {
		if parsed := parsePositional(values); parsed != nil {
			out[bookmakerID] = parsed
		}
	}
	return out
}

// OutcomeRef identifies one merged time series: one bookmaker's odds
// for one outcome position of a market.
type OutcomeRef struct {
	BookmakerID string
	Position    int
}

// MergeOddsHistory normalizes the API's two odds shapes into one
// ordered series per (bookmaker, outcome position).
//
// Lay markets (current == nil) ship only the historical log, which is
// emitted verbatim in the API's own order. Back markets additionally
// ship a dense current-odds snapshot; for those the union of bookmakers
// from both blocks is taken, and a bookmaker's current value at a
// position is appended after its historical entries. Entries with fewer
// than three elements are dropped, and a pair that ends up with zero
// points is omitted entirely.
func MergeOddsHistory(history map[string]map[string][][]float64, current *CurrentOdds, outcomeIDs []string) map[OutcomeRef][]models.OddsPoint {
	merged := make(map[OutcomeRef][]models.OddsPoint)

	for position, outcomeID := range outcomeIDs {
		if outcomeID == "" {
			continue
		}
		byBookmaker := history[outcomeID]

		if current == nil {
			for bookmakerID, entries := range byBookmaker {
				if points := historyPoints(entries); len(points) > 0 {
					merged[OutcomeRef{bookmakerID, position}] = points
				}
			}
			continue
		}

		for _, bookmakerID := range unionBookmakerIDs(byBookmaker, current.Odds) {
			points := historyPoints(byBookmaker[bookmakerID])
			if odds, ok := current.Odds[bookmakerID][position]; ok {
				points = append(points, models.OddsPoint{
					Odds:      odds,
					Volume:    int(current.Volume[bookmakerID][position]),
					Timestamp: time.Unix(int64(current.ChangeTime[bookmakerID][position]), 0).UTC(),
				})
			}
			if len(points) > 0 {
				merged[OutcomeRef{bookmakerID, position}] = points
			}
		}
	}

	return merged
}

func historyPoints(entries [][]float64) []models.OddsPoint {
	var points []models.OddsPoint
	for _, entry := range entries {
		if len(entry) < 3 {
			continue // malformed entry, dropped silently
		}
		points = append(points, models.OddsPoint{
			Odds:      entry[0],
			Volume:    int(entry[1]),
			Timestamp: time.Unix(int64(entry[2]), 0).UTC(),
		})
	}
	return points
}

// unionBookmakerIDs returns all bookmaker IDs from either block, sorted
// numerically where possible so assembled output is deterministic.
func unionBookmakerIDs(history map[string][][]float64, current map[string]map[int]float64) []string {
	seen := make(map[string]struct{}, len(history)+len(current))
	for id := range history {
		seen[id] = struct{}{}
	}
	for id := range current {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bookmakerIDLess(ids[i], ids[j])
	})
	return ids
}

// bookmakerIDLess orders bookmaker IDs numerically where both parse as
// integers (the usual case), lexically otherwise.
func bookmakerIDLess(x, y string) bool {
	a, errA := strconv.Atoi(x)
	b, errB := strconv.Atoi(y)
	if errA == nil && errB == nil {
		return a < b
	}
	return x < y
}
