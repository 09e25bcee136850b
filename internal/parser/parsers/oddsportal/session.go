package oddsportal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoEventHeader means the match page had no react event header
// component, usually because the page was served without JS rendering.
var ErrNoEventHeader = errors.New("oddsportal: react event header not found")

// SessionParams is everything scraped off a match page that later odds
// requests need: the session token, the numeric identifiers that go
// into the odds endpoint URL, and the navigation map of (bettingType,
// scope) combinations the site actually offers for this match.
type SessionParams struct {
	MatchID        string
	XHash          string // already percent-decoded, ready for URL use
	SportID        int
	VersionID      int
	Home           string
	Away           string
	TournamentName string
	IsLive         bool
	IsStarted      bool
	IsFinished     bool

	DefaultBettingType int
	DefaultScope       int
	// Nav maps betting type ID -> sorted scope IDs available for it.
	// Empty when the pageVar script was missing.
	Nav map[int][]int
}

// The header component stores its payload as JSON in a plain `data`
// attribute; pageVar is a JSON blob inside a quoted JS string.
var pageVarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)var\s+pageVar\s*=\s*'(.*?)'\s*;`),
	regexp.MustCompile(`(?s)var\s+pageVar\s*=\s*"(.*?)"\s*;`),
	regexp.MustCompile(`(?s)var\s+pageVar\s*=\s*(\{.*?\})\s*;`),
}

type reactEventHeader struct {
	EventData eventData `json:"eventData"`
}

// eventData mirrors the header component's payload. The id and numeric
// fields arrive as either JSON strings or numbers depending on the page
// version, so they go through flexString.
type eventData struct {
	ID             flexString `json:"id"`
	XHash          string     `json:"xhash"`
	XHashF         string     `json:"xhashf"`
	SportID        flexString `json:"sportId"`
	VersionID      flexString `json:"versionId"`
	Home           string     `json:"home"`
	Away           string     `json:"away"`
	TournamentName string     `json:"tournamentName"`
	IsLive         bool       `json:"isLive"`
	IsStarted      bool       `json:"isStarted"`
	IsFinished     bool       `json:"isFinished"`
}

// flexString accepts a JSON string or bare number and keeps it as text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type pageVar struct {
	DefaultBettingType int                        `json:"defaultBettingType"`
	DefaultScope       int                        `json:"defaultScope"`
	Nav                map[string]json.RawMessage `json:"nav"`
}

// ExtractSessionParams pulls the session parameters out of a match page.
// A missing or unparsable event header is an error; a missing pageVar
// script only degrades to the header's default bet/scope IDs.
func ExtractSessionParams(html []byte) (*SessionParams, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing match page: %w", err)
	}

	raw, ok := doc.Find("#react-event-header").Attr("data")
	if !ok || raw == "" {
		return nil, ErrNoEventHeader
	}

	var header reactEventHeader
	if err := json.Unmarshal([]byte(raw), &header); err != nil {
		return nil, fmt.Errorf("decoding event header: %w", err)
	}

	ev := header.EventData
	sp := &SessionParams{
		MatchID:        string(ev.ID),
		SportID:        flexInt(ev.SportID, 0),
		VersionID:      flexInt(ev.VersionID, 1),
		Home:           ev.Home,
		Away:           ev.Away,
		TournamentName: ev.TournamentName,
		IsLive:         ev.IsLive,
		IsStarted:      ev.IsStarted,
		IsFinished:     ev.IsFinished,
	}
	if sp.MatchID == "" {
		return nil, fmt.Errorf("event header has no match id")
	}

	sp.XHash, err = sessionHash(ev)
	if err != nil {
		return nil, err
	}

	if pv := extractPageVar(doc); pv != nil {
		sp.DefaultBettingType = pv.DefaultBettingType
		sp.DefaultScope = pv.DefaultScope
		sp.Nav = parseNav(pv.Nav)
	}

	return sp, nil
}

// sessionHash prefers the URL-encoded token (xhashf) since the plain
// one is HTML-mangled on some page versions; either way the returned
// value is decoded and ready to substitute into the odds endpoint URL.
func sessionHash(ev eventData) (string, error) {
	encoded := ev.XHashF
	if encoded == "" {
		encoded = ev.XHash
	}
	if encoded == "" {
		return "", fmt.Errorf("event header has no session hash")
	}
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding session hash: %w", err)
	}
	return decoded, nil
}

func extractPageVar(doc *goquery.Document) *pageVar {
	var pv *pageVar
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		for _, pattern := range pageVarPatterns {
			m := pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			blob := m[1]
			var parsed pageVar
			if err := json.Unmarshal([]byte(blob), &parsed); err != nil {
				// The double-quoted spelling escapes its inner quotes.
				blob = strings.ReplaceAll(blob, `\"`, `"`)
				if err := json.Unmarshal([]byte(blob), &parsed); err != nil {
					continue
				}
			}
			pv = &parsed
			return false
		}
		return true
	})
	return pv
}

// parseNav flattens the nav block (betting type -> scope -> bookmaker
// counts) into the combinations a scrape can request.
func parseNav(raw map[string]json.RawMessage) map[int][]int {
	if len(raw) == 0 {
		return nil
	}
	nav := make(map[int][]int, len(raw))
	for btKey, scopesRaw := range raw {
		bt, err := strconv.Atoi(btKey)
		if err != nil {
			continue
		}
		var scopes map[string]json.RawMessage
		if err := json.Unmarshal(scopesRaw, &scopes); err != nil {
			continue
		}
		ids := make([]int, 0, len(scopes))
		for scKey := range scopes {
			if sc, err := strconv.Atoi(scKey); err == nil {
				ids = append(ids, sc)
			}
		}
		if len(ids) == 0 {
			continue
		}
		sort.Ints(ids)
		nav[bt] = ids
	}
	if len(nav) == 0 {
		return nil
	}
	return nav
}

func flexInt(s flexString, fallback int) int {
	v, err := strconv.Atoi(string(s))
	if err != nil {
		return fallback
	}
	return v
}
