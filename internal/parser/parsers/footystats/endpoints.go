package footystats

import "sort"

// Endpoint is one stats API endpoint with its record field table. Field
// tables cover the fields downstream consumers use, not the API's full
// payload (it ships hundreds of columns per record).
type Endpoint struct {
	Name      string
	Path      string
	PerSeason bool // takes a season_id parameter, fetched once per configured league
	Fields    []FieldSpec
}

var endpoints = map[string]Endpoint{
	"league-list": {
		Name: "league-list",
		Path: "/league-list",
		Fields: []FieldSpec{
			{Name: "name", Kind: KindString, Required: true},
			{Name: "country", Kind: KindString, Required: true},
			{Name: "league_name", Kind: KindString, Required: true},
			{Name: "image", Kind: KindString},
			{Name: "season", Kind: KindList},
		},
	},
	"league-matches": {
		Name:      "league-matches",
		Path:      "/league-matches",
		PerSeason: true,
		Fields: []FieldSpec{
			{Name: "id", Kind: KindInt, Required: true},
			{Name: "home_name", Kind: KindString, Required: true},
			{Name: "away_name", Kind: KindString, Required: true},
			{Name: "season", Kind: KindString, Required: true},
			{Name: "homeID", Kind: KindInt},
			{Name: "awayID", Kind: KindInt},
			{Name: "status", Kind: KindString},
			{Name: "game_week", Kind: KindInt},
			{Name: "date_unix", Kind: KindInt},
			{Name: "homeGoalCount", Kind: KindInt},
			{Name: "awayGoalCount", Kind: KindInt},
			{Name: "totalGoalCount", Kind: KindInt},
			{Name: "team_a_corners", Kind: KindInt},
			{Name: "team_b_corners", Kind: KindInt},
			{Name: "team_a_possession", Kind: KindInt},
			{Name: "team_b_possession", Kind: KindInt},
			{Name: "team_a_xg", Kind: KindFloat},
			{Name: "team_b_xg", Kind: KindFloat},
			{Name: "total_xg", Kind: KindFloat},
			{Name: "odds_ft_1", Kind: KindFloat},
			{Name: "odds_ft_x", Kind: KindFloat},
			{Name: "odds_ft_2", Kind: KindFloat},
		},
	},
	"league-table": {
		Name:      "league-table",
		Path:      "/league-tables",
		PerSeason: true,
		Fields: []FieldSpec{
			{Name: "id", Kind: KindInt, Required: true},
			{Name: "name", Kind: KindString, Required: true},
			{Name: "position", Kind: KindInt, Required: true},
			{Name: "cleanName", Kind: KindString},
			{Name: "shortName", Kind: KindString},
			{Name: "played", Kind: KindInt},
			{Name: "wins", Kind: KindInt},
			{Name: "draws", Kind: KindInt},
			{Name: "losses", Kind: KindInt},
			{Name: "goals_for", Kind: KindInt},
			{Name: "goals_against", Kind: KindInt},
			{Name: "goal_difference", Kind: KindInt},
			{Name: "points", Kind: KindInt},
			{Name: "points_per_game", Kind: KindFloat},
			{Name: "form", Kind: KindAny},
			{Name: "country", Kind: KindString},
		},
	},
	"todays-matches": {
		Name: "todays-matches",
		Path: "/todays-matches",
		Fields: []FieldSpec{
			{Name: "id", Kind: KindInt, Required: true},
			{Name: "home_name", Kind: KindString, Required: true},
			{Name: "away_name", Kind: KindString, Required: true},
			{Name: "status", Kind: KindString},
			{Name: "date_unix", Kind: KindInt},
			{Name: "competition_id", Kind: KindInt},
			{Name: "homeGoalCount", Kind: KindInt},
			{Name: "awayGoalCount", Kind: KindInt},
			{Name: "odds_ft_1", Kind: KindFloat},
			{Name: "odds_ft_x", Kind: KindFloat},
			{Name: "odds_ft_2", Kind: KindFloat},
		},
	},
}

// EndpointByName returns the endpoint definition for a config name.
func EndpointByName(name string) (Endpoint, bool) {
	ep, ok := endpoints[name]
	return ep, ok
}

// AvailableEndpoints returns all known endpoint names, sorted.
func AvailableEndpoints() []string {
	names := make([]string, 0, len(endpoints))
	for name := range endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
