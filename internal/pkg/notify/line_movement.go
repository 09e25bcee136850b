package notify

import (
	"fmt"
	"time"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// LineMovement is one detected odds drop: a bookmaker shortened an
// outcome's price by at least the configured percentage over the
// history carried in one aggregate.
type LineMovement struct {
	MatchID     string
	Market      string
	Bookmaker   string
	OutcomeType string
	FromOdds    float64
	ToOdds      float64
	DropPercent float64
	From        time.Time
	To          time.Time
}

// DetectLineMovements scans the back markets of an aggregate for drops
// of at least thresholdPercent between the first and last point of each
// outcome series. Lay markets are skipped: exchange lay prices move for
// liquidity reasons that have nothing to do with sharp money.
func DetectLineMovements(odds *models.MatchEventOdds, thresholdPercent float64) []LineMovement {
	if odds == nil || thresholdPercent <= 0 {
		return nil
	}

	var movements []LineMovement
	for _, market := range odds.BackMarkets {
		label := market.BettingTypeName
		if market.ScopeName != "" {
			label = fmt.Sprintf("%s %s", label, market.ScopeName)
		}
		for _, outcome := range market.Outcomes {
			if len(outcome.History) < 2 {
				continue
			}
			first := outcome.History[0]
			last := outcome.History[len(outcome.History)-1]
			if first.Odds <= 0 || last.Odds >= first.Odds {
				continue
			}
			drop := (first.Odds - last.Odds) / first.Odds * 100
			if drop < thresholdPercent {
				continue
			}
			movements = append(movements, LineMovement{
				MatchID:     odds.MatchID,
				Market:      label,
				Bookmaker:   outcome.BookmakerName,
				OutcomeType: outcome.OutcomeType,
				FromOdds:    first.Odds,
				ToOdds:      last.Odds,
				DropPercent: drop,
				From:        first.Timestamp,
				To:          last.Timestamp,
			})
		}
	}
	return movements
}
