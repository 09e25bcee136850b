package models

import "fmt"

// outcomeTypesByBettingType maps an outcome's position to its semantic
// label, per betting type. Correct Score (8), Half Time / Full Time (9)
// and Winner (11) have data-dependent outcome counts and no static
// mapping; their positions fall through to the generic label.
var outcomeTypesByBettingType = map[int]map[int]string{
	1:  {0: "home", 1: "draw", 2: "away"}, // 1X2
	2:  {0: "under", 1: "over"},           // Over/Under
	3:  {0: "home", 1: "away"},            // Home/Away
	4:  {0: "1x", 1: "12", 2: "x2"},       // Double Chance
	5:  {0: "home", 1: "away"},            // Asian Handicap
	6:  {0: "home", 1: "away"},            // Draw No Bet
	7:  {0: "home", 1: "away"},            // To Qualify
	10: {0: "odd", 1: "even"},             // Odd or Even
	12: {0: "home", 1: "draw", 2: "away"}, // European Handicap
	13: {0: "no", 1: "yes"},               // Both Teams to Score
}

// ResolveOutcomeType returns the semantic label for an outcome position
// of a betting type. Unknown betting types and positions get
// "outcome_<position>": an unresolved label is always safe to store and
// reclassify later, so this never fails.
func ResolveOutcomeType(bettingTypeID, position int) string {
	if byPosition, ok := outcomeTypesByBettingType[bettingTypeID]; ok {
		if name, ok := byPosition[position]; ok {
			return name
		}
	}
	return fmt.Sprintf("outcome_%d", position)
}
