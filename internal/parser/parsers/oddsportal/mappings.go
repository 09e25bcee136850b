package oddsportal

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// BettingTypeLabel is the display name pair for a betting type.
type BettingTypeLabel struct {
	Name      string
	ShortName string
}

// NamingTables maps the site's numeric identifiers to display names.
// Constructed once (bundled defaults or a JSON override file), never
// mutated afterwards, so it is safe to share across concurrent
// assemblies. Every lookup tolerates missing entries: absence degrades
// to a synthesized label, never to an error.
type NamingTables struct {
	Bookmakers   map[string]string
	BettingTypes map[int]BettingTypeLabel
	Scopes       map[int]string
	Handicaps    map[int]string
}

// BookmakerName returns the display name for a bookmaker ID, or a
// synthesized "Bookmaker_<id>" label.
func (t *NamingTables) BookmakerName(id string) string {
	if t != nil {
		if name, ok := t.Bookmakers[id]; ok {
			return name
		}
	}
	return "Bookmaker_" + id
}

// BettingTypeLabel returns the name pair for a betting type ID, or
// synthesized "Unknown_<id>" labels.
func (t *NamingTables) BettingTypeLabel(id int) BettingTypeLabel {
	if t != nil {
		if label, ok := t.BettingTypes[id]; ok {
			return label
		}
	}
	unknown := "Unknown_" + strconv.Itoa(id)
	return BettingTypeLabel{Name: unknown, ShortName: unknown}
}

// ScopeName returns the display name for a scope ID, or "Unknown_<id>".
func (t *NamingTables) ScopeName(id int) string {
	if t != nil {
		if name, ok := t.Scopes[id]; ok {
			return name
		}
	}
	return "Unknown_" + strconv.Itoa(id)
}

// HandicapName returns the display name for a handicap type ID.
// Type 0 is always "No Handicap" regardless of table contents.
func (t *NamingTables) HandicapName(id int) string {
	if id == 0 {
		return "No Handicap"
	}
	if t != nil {
		if name, ok := t.Handicaps[id]; ok {
			return name
		}
	}
	return "Unknown_" + strconv.Itoa(id)
}

// DefaultNamingTables returns the bundled tables, matching the ones the
// site ships to its own client.
func DefaultNamingTables() *NamingTables {
	return &NamingTables{
		Bookmakers: map[string]string{
			"5":    "Unibet",
			"14":   "10bet",
			"16":   "bet365",
			"18":   "Pinnacle",
			"24":   "Betsafe",
			"26":   "Betway",
			"27":   "888sport",
			"33":   "NordicBet",
			"43":   "Betsson",
			"44":   "Betfair Exchange",
			"147":  "Dafabet",
			"417":  "1xBet",
			"429":  "Betfair",
			"500":  "22Bet",
			"550":  "GGBET",
			"575":  "BetInAsia",
			"635":  "BC.Game",
			"847":  "Duelbits",
			"899":  "Cloudbet",
			"909":  "Bets.io",
			"911":  "Betfury",
			"941":  "Mozzartbet",
			"997":  "Stake.com",
			"1011": "Megapari",
		},
		BettingTypes: map[int]BettingTypeLabel{
			1:  {"1X2", "1X2"},
			2:  {"Over/Under", "O/U"},
			3:  {"Home/Away", "Home/Away"},
			4:  {"Double Chance", "DC"},
			5:  {"Asian Handicap", "AH"},
			6:  {"Draw No Bet", "DNB"},
			7:  {"To Qualify", "TQ"},
			8:  {"Correct Score", "CS"},
			9:  {"Half Time / Full Time", "HT/FT"},
			10: {"Odd or Even", "O/E"},
			11: {"Winner", "Winner"},
			12: {"European Handicap", "EH"},
			13: {"Both Teams to Score", "BTS"},
		},
		Scopes: map[int]string{
			1:  "FT including OT",
			2:  "Full Time",
			3:  "1st Half",
			4:  "2nd Half",
			5:  "1st Period",
			6:  "2nd Period",
			7:  "3rd Period",
			8:  "1st Quarter",
			9:  "2nd Quarter",
			10: "3rd Quarter",
			11: "4th Quarter",
			12: "1st Set",
			13: "2nd Set",
			14: "3rd Set",
			15: "4th Set",
			16: "5th Set",
			17: "1st Inning",
			18: "2nd Inning",
			19: "3rd Inning",
			20: "4th Inning",
			21: "5th Inning",
			22: "6th Inning",
			23: "7th Inning",
			24: "8th Inning",
			25: "9th Inning",
			26: "Next Set",
			27: "Current Set",
			28: "Next Game",
			29: "Current Game",
		},
		Handicaps: map[int]string{
			1: "Sets",
			2: "Games",
			3: "Points",
			4: "Frames",
			5: "Goals",
			6: "Runs",
			7: "Legs",
		},
	}
}

// mappingsFile is the JSON override format: the same string-keyed shape
// the site embeds in its pages.
type mappingsFile struct {
	BookmakerNames   map[string]string `json:"bookmaker_names"`
	BettingTypeNames map[string]struct {
		Name      string `json:"name"`
		ShortName string `json:"short-name"`
	} `json:"betting_type_names"`
	ScopeNames    map[string]string `json:"scope_names"`
	HandicapNames map[string]struct {
		Name string `json:"Name"`
	} `json:"handicap_names"`
}

// LoadNamingTables reads a naming-tables override file. Tables missing
// from the file keep their bundled defaults.
func LoadNamingTables(path string) (*NamingTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read naming tables: %w", err)
	}

	var file mappingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse naming tables: %w", err)
	}

	tables := DefaultNamingTables()
	if len(file.BookmakerNames) > 0 {
		tables.Bookmakers = file.BookmakerNames
	}
	if len(file.BettingTypeNames) > 0 {
		tables.BettingTypes = make(map[int]BettingTypeLabel, len(file.BettingTypeNames))
		for k, v := range file.BettingTypeNames {
			id, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			tables.BettingTypes[id] = BettingTypeLabel{Name: v.Name, ShortName: v.ShortName}
		}
	}
	if len(file.ScopeNames) > 0 {
		tables.Scopes = make(map[int]string, len(file.ScopeNames))
		for k, v := range file.ScopeNames {
			id, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			tables.Scopes[id] = v
		}
	}
	if len(file.HandicapNames) > 0 {
		tables.Handicaps = make(map[int]string, len(file.HandicapNames))
		for k, v := range file.HandicapNames {
			id, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			tables.Handicaps[id] = v.Name
		}
	}
	return tables, nil
}
