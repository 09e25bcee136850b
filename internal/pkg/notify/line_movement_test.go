package notify

import (
	"testing"
	"time"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

func seriesOdds(values ...float64) []models.OddsPoint {
	points := make([]models.OddsPoint, len(values))
	for i, v := range values {
		points[i] = models.OddsPoint{Odds: v, Timestamp: time.Unix(int64(1700000000+i*60), 0).UTC()}
	}
	return points
}

func TestDetectLineMovements(t *testing.T) {
	odds := &models.MatchEventOdds{
		MatchID: "m1",
		BackMarkets: []models.Market{
			{
				BettingTypeName: "1X2",
				ScopeName:       "Full Time",
				Outcomes: []models.Outcome{
					// 2.00 -> 1.60 is a 20% drop.
					{BookmakerName: "bet365", OutcomeType: "home", History: seriesOdds(2.00, 1.80, 1.60)},
					// 3.40 -> 3.20 is under 10%.
					{BookmakerName: "bet365", OutcomeType: "draw", History: seriesOdds(3.40, 3.20)},
					// Drifting out, never reported.
					{BookmakerName: "Pinnacle", OutcomeType: "away", History: seriesOdds(3.00, 3.50)},
					// Single point, nothing to compare.
					{BookmakerName: "Unibet", OutcomeType: "home", History: seriesOdds(2.10)},
				},
			},
		},
		LayMarkets: []models.Market{
			{
				BettingTypeName: "1X2",
				Outcomes: []models.Outcome{
					// Big lay drop, but lay markets are skipped.
					{BookmakerName: "Betfair Exchange", OutcomeType: "home", History: seriesOdds(3.00, 1.50)},
				},
			},
		},
	}

	movements := DetectLineMovements(odds, 10)
	if len(movements) != 1 {
		t.Fatalf("DetectLineMovements() = %d movements, want 1", len(movements))
	}

	m := movements[0]
	if m.MatchID != "m1" || m.Bookmaker != "bet365" || m.OutcomeType != "home" {
		t.Errorf("movement = %+v", m)
	}
	if m.Market != "1X2 Full Time" {
		t.Errorf("Market = %q, want \"1X2 Full Time\"", m.Market)
	}
	if m.FromOdds != 2.00 || m.ToOdds != 1.60 {
		t.Errorf("odds = %v -> %v, want 2.00 -> 1.60", m.FromOdds, m.ToOdds)
	}
	if m.DropPercent < 19.99 || m.DropPercent > 20.01 {
		t.Errorf("DropPercent = %v, want 20", m.DropPercent)
	}
	if !m.To.After(m.From) {
		t.Errorf("timestamps not ordered: %v -> %v", m.From, m.To)
	}
}

func TestDetectLineMovementsExactThreshold(t *testing.T) {
	odds := &models.MatchEventOdds{
		MatchID: "m1",
		BackMarkets: []models.Market{
			{
				BettingTypeName: "1X2",
				Outcomes: []models.Outcome{
					// 2.00 -> 1.50 is exactly 25%; the threshold is inclusive.
					{BookmakerName: "bet365", OutcomeType: "home", History: seriesOdds(2.00, 1.50)},
				},
			},
		},
	}
	if got := DetectLineMovements(odds, 25); len(got) != 1 {
		t.Errorf("exact-threshold drop not reported (got %d movements)", len(got))
	}
}

func TestDetectLineMovementsGuards(t *testing.T) {
	if got := DetectLineMovements(nil, 10); got != nil {
		t.Errorf("nil aggregate: got %v", got)
	}

	odds := &models.MatchEventOdds{
		BackMarkets: []models.Market{
			{Outcomes: []models.Outcome{{History: seriesOdds(2.00, 1.00)}}},
		},
	}
	if got := DetectLineMovements(odds, 0); got != nil {
		t.Errorf("zero threshold must disable detection, got %v", got)
	}
}
