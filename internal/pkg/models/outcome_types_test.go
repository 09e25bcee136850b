package models

import "testing"

func TestResolveOutcomeType(t *testing.T) {
	tests := []struct {
		bettingTypeID int
		position      int
		want          string
	}{
		{1, 0, "home"},
		{1, 1, "draw"},
		{1, 2, "away"},
		{2, 0, "under"},
		{2, 1, "over"},
		{4, 1, "12"},
		{5, 1, "away"},
		{10, 0, "odd"},
		{13, 1, "yes"},
		// Unknown betting type falls back to the positional label.
		{99, 0, "outcome_0"},
		// Known betting type, unknown position.
		{1, 5, "outcome_5"},
		// Data-dependent outcome counts (Correct Score etc.) have no
		// static mapping at all.
		{8, 0, "outcome_0"},
		{9, 2, "outcome_2"},
		{11, 7, "outcome_7"},
	}
	for _, tt := range tests {
		got := ResolveOutcomeType(tt.bettingTypeID, tt.position)
		if got != tt.want {
			t.Errorf("ResolveOutcomeType(%d, %d) = %q, want %q",
				tt.bettingTypeID, tt.position, got, tt.want)
		}
	}
}
