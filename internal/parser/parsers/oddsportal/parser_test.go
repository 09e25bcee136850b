package oddsportal

import (
	"reflect"
	"testing"
)

func TestSelectCombosFromNav(t *testing.T) {
	session := &SessionParams{
		Nav: map[int][]int{
			1: {2, 3},
			2: {2},
			5: {2, 3, 4},
		},
	}

	// No filters: everything the page offers, betting types in order.
	got := selectCombos(session, nil, nil)
	want := []btScope{{1, 2}, {1, 3}, {2, 2}, {5, 2}, {5, 3}, {5, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectCombos() = %v, want %v", got, want)
	}
}

func TestSelectCombosNavWithFilters(t *testing.T) {
	session := &SessionParams{
		Nav: map[int][]int{
			1: {2, 3},
			2: {2},
			5: {2, 3, 4},
		},
	}

	got := selectCombos(session, []int{1, 5}, []int{2})
	want := []btScope{{1, 2}, {5, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectCombos() = %v, want %v", got, want)
	}
}

func TestSelectCombosWithoutNav(t *testing.T) {
	tests := []struct {
		name     string
		session  *SessionParams
		betTypes []int
		scopes   []int
		want     []btScope
	}{
		{
			name:     "configured lists crossed",
			session:  &SessionParams{},
			betTypes: []int{1, 2},
			scopes:   []int{2, 3},
			want:     []btScope{{1, 2}, {1, 3}, {2, 2}, {2, 3}},
		},
		{
			name:    "page defaults fill empty lists",
			session: &SessionParams{DefaultBettingType: 5, DefaultScope: 3},
			want:    []btScope{{5, 3}},
		},
		{
			name:    "hard fallback when page has no defaults",
			session: &SessionParams{},
			want:    []btScope{{1, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectCombos(tt.session, tt.betTypes, tt.scopes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("selectCombos() = %v, want %v", got, tt.want)
			}
		})
	}
}
