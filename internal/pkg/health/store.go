package health

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// InMemoryOddsStore keeps the latest assembled aggregate per (match,
// bettingType, scope) for fast API access. Aggregates are immutable
// after assembly, so the store holds and hands out pointers directly.
type InMemoryOddsStore struct {
	mu   sync.RWMutex
	odds map[oddsKey]*models.MatchEventOdds
}

type oddsKey struct {
	matchID     string
	bettingType int
	scope       int
}

var globalOddsStore = &InMemoryOddsStore{
	odds: make(map[oddsKey]*models.MatchEventOdds),
}

// AddMatchEventOdds adds or replaces the aggregate for its (match,
// bettingType, scope) slot.
func AddMatchEventOdds(odds *models.MatchEventOdds) {
	if odds == nil {
		return
	}
	key := oddsKey{odds.MatchID, odds.CurrentBettingType, odds.CurrentScope}

	globalOddsStore.mu.Lock()
	globalOddsStore.odds[key] = odds
	total := len(globalOddsStore.odds)
	globalOddsStore.mu.Unlock()

	slog.Debug("Stored odds aggregate",
		"match_id", odds.MatchID,
		"betting_type", odds.CurrentBettingType,
		"scope", odds.CurrentScope,
		"total_in_store", total)
}

// GetMatchEventOdds returns all stored aggregates, ordered by match ID
// then (bettingType, scope).
func GetMatchEventOdds() []*models.MatchEventOdds {
	globalOddsStore.mu.RLock()
	defer globalOddsStore.mu.RUnlock()

	out := make([]*models.MatchEventOdds, 0, len(globalOddsStore.odds))
	for _, o := range globalOddsStore.odds {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		if out[i].CurrentBettingType != out[j].CurrentBettingType {
			return out[i].CurrentBettingType < out[j].CurrentBettingType
		}
		return out[i].CurrentScope < out[j].CurrentScope
	})
	return out
}

// GetMatchEventOddsByMatch returns the stored aggregates for one match.
func GetMatchEventOddsByMatch(matchID string) []*models.MatchEventOdds {
	var out []*models.MatchEventOdds
	for _, o := range GetMatchEventOdds() {
		if o.MatchID == matchID {
			out = append(out, o)
		}
	}
	return out
}

// ClearOdds clears the store. Called at the start of a parsing cycle
// when fresh-only data is wanted.
func ClearOdds() {
	globalOddsStore.mu.Lock()
	cleared := len(globalOddsStore.odds)
	globalOddsStore.odds = make(map[oddsKey]*models.MatchEventOdds)
	globalOddsStore.mu.Unlock()
	slog.Info("Cleared odds aggregates from in-memory store", "cleared_count", cleared)
}

// --- Stats records store (footystats, separate from odds) ---

var recordsStore = struct {
	mu         sync.RWMutex
	byEndpoint map[string][]map[string]any
}{byEndpoint: make(map[string][]map[string]any)}

// AddRecords replaces the stored record set for a stats endpoint.
func AddRecords(endpoint string, records []map[string]any) {
	recordsStore.mu.Lock()
	recordsStore.byEndpoint[endpoint] = records
	recordsStore.mu.Unlock()
	slog.Debug("Stored stats records", "endpoint", endpoint, "count", len(records))
}

// GetRecords returns the stored record sets keyed by endpoint.
func GetRecords() map[string][]map[string]any {
	recordsStore.mu.RLock()
	defer recordsStore.mu.RUnlock()
	out := make(map[string][]map[string]any, len(recordsStore.byEndpoint))
	for endpoint, records := range recordsStore.byEndpoint {
		out[endpoint] = records
	}
	return out
}
