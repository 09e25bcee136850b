// Package all imports all available parsers for side-effect registration.
//
// Import this package from your main to ensure all parsers are registered:
//   import _ "github.com/mazyy/RobbinOdds/internal/parser/parsers/all"
package all

import (
	_ "github.com/mazyy/RobbinOdds/internal/parser/parsers/footystats"
	_ "github.com/mazyy/RobbinOdds/internal/parser/parsers/oddsportal"
)
