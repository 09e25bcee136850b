package oddsportal

import (
	"reflect"
	"testing"
	"time"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

func point(odds float64, volume int, ts int64) models.OddsPoint {
	return models.OddsPoint{Odds: odds, Volume: volume, Timestamp: time.Unix(ts, 0).UTC()}
}

func TestMergeOddsHistoryLayShape(t *testing.T) {
	// Lay markets ship only the historical log; it is emitted verbatim,
	// in the API's own order, with no appended current point.
	history := map[string]map[string][][]float64{
		"out-a": {
			"16": {{2.10, 100, 1700000000}, {2.05, 150, 1700000100}},
			"18": {{1.95, 0, 1700000000}},
		},
		"out-b": {
			"16": {{1.80, 50, 1700000000}},
		},
	}

	merged := MergeOddsHistory(history, nil, []string{"out-a", "out-b"})

	want := map[OutcomeRef][]models.OddsPoint{
		{"16", 0}: {point(2.10, 100, 1700000000), point(2.05, 150, 1700000100)},
		{"18", 0}: {point(1.95, 0, 1700000000)},
		{"16", 1}: {point(1.80, 50, 1700000000)},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("MergeOddsHistory() = %v, want %v", merged, want)
	}
}

func TestMergeOddsHistoryBackShapeAppendsCurrent(t *testing.T) {
	history := map[string]map[string][][]float64{
		"out-a": {
			"16": {{2.10, 100, 1700000000}},
		},
	}
	current := &CurrentOdds{
		Odds:       map[string]map[int]float64{"16": {0: 2.00}, "18": {0: 1.98}},
		Volume:     map[string]map[int]float64{"16": {0: 300}},
		ChangeTime: map[string]map[int]float64{"16": {0: 1700000200}},
	}

	merged := MergeOddsHistory(history, current, []string{"out-a"})

	// Bookmaker 16: history entry plus the current snapshot appended.
	got16 := merged[OutcomeRef{"16", 0}]
	want16 := []models.OddsPoint{point(2.10, 100, 1700000000), point(2.00, 300, 1700000200)}
	if !reflect.DeepEqual(got16, want16) {
		t.Errorf("bookmaker 16 series = %v, want %v", got16, want16)
	}

	// Bookmaker 18 appears only in the current block: one point, with
	// volume and change time defaulting to zero values.
	got18 := merged[OutcomeRef{"18", 0}]
	want18 := []models.OddsPoint{point(1.98, 0, 0)}
	if !reflect.DeepEqual(got18, want18) {
		t.Errorf("bookmaker 18 series = %v, want %v", got18, want18)
	}
}

func TestMergeOddsHistoryHistoryOnlyBookmakerSurvivesBackMerge(t *testing.T) {
	// A bookmaker present in history but absent from the current block
	// keeps its historical series.
	history := map[string]map[string][][]float64{
		"out-a": {
			"44": {{3.50, 10, 1700000000}},
		},
	}
	current := &CurrentOdds{
		Odds: map[string]map[int]float64{"16": {0: 2.00}},
	}

	merged := MergeOddsHistory(history, current, []string{"out-a"})
	want := []models.OddsPoint{point(3.50, 10, 1700000000)}
	if !reflect.DeepEqual(merged[OutcomeRef{"44", 0}], want) {
		t.Errorf("bookmaker 44 series = %v, want %v", merged[OutcomeRef{"44", 0}], want)
	}
}

func TestMergeOddsHistoryDropsShortEntries(t *testing.T) {
	history := map[string]map[string][][]float64{
		"out-a": {
			"16": {{2.10}, {2.05, 150}, {2.00, 150, 1700000100}},
		},
	}

	merged := MergeOddsHistory(history, nil, []string{"out-a"})
	want := []models.OddsPoint{point(2.00, 150, 1700000100)}
	if !reflect.DeepEqual(merged[OutcomeRef{"16", 0}], want) {
		t.Errorf("series = %v, want %v", merged[OutcomeRef{"16", 0}], want)
	}
}

func TestMergeOddsHistoryOmitsEmptyPairs(t *testing.T) {
	// Every entry malformed: the pair must be absent, not empty.
	history := map[string]map[string][][]float64{
		"out-a": {
			"16": {{2.10}, {}},
		},
	}

	merged := MergeOddsHistory(history, nil, []string{"out-a"})
	if len(merged) != 0 {
		t.Errorf("merged = %v, want empty", merged)
	}
}

func TestMergeOddsHistorySkipsBlankOutcomeIDs(t *testing.T) {
	history := map[string]map[string][][]float64{
		"out-b": {
			"16": {{2.10, 0, 1700000000}},
		},
	}

	// Position 0 has no outcome ID; only position 1 resolves.
	merged := MergeOddsHistory(history, nil, []string{"", "out-b"})
	if _, ok := merged[OutcomeRef{"16", 0}]; ok {
		t.Error("blank outcome ID produced a series at position 0")
	}
	if _, ok := merged[OutcomeRef{"16", 1}]; !ok {
		t.Error("missing series at position 1")
	}
}

func TestBookmakerIDLess(t *testing.T) {
	tests := []struct {
		x, y string
		want bool
	}{
		{"2", "10", true},   // numeric, not lexical
		{"10", "2", false},
		{"16", "16", false},
		{"abc", "b", true},  // non-numeric falls back to lexical
		{"16", "abc", true}, // mixed falls back to lexical
	}
	for _, tt := range tests {
		if got := bookmakerIDLess(tt.x, tt.y); got != tt.want {
			t.Errorf("bookmakerIDLess(%q, %q) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
