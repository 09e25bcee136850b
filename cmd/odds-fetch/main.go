// odds-fetch is a one-shot diagnostic: fetch one match's odds for one
// (bettingType, scope) combination, decrypt, assemble and dump the
// aggregate as JSON. Useful for checking a match URL and session
// extraction without running the full scraper.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mazyy/RobbinOdds/internal/parser/parsers/oddsportal"
	"github.com/mazyy/RobbinOdds/internal/pkg/config"
)

func main() {
	configPath := flag.String("config", "configs/production.yaml", "Path to config file")
	matchURL := flag.String("match", "", "Match page URL (required)")
	bettingType := flag.Int("bt", 1, "Betting type ID")
	scope := flag.Int("sc", 2, "Scope ID")
	outputFile := flag.String("output", "", "Output JSON file (default: stdout)")
	flag.Parse()

	if *matchURL == "" {
		fmt.Fprintln(os.Stderr, "-match is required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	op := &cfg.Parser.OddsPortal

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	client := oddsportal.NewClient(op.BaseURL, op.Timeout, op.ProxyList)

	fmt.Printf("Fetching match page %s...\n", *matchURL)
	html, err := client.FetchMatchPage(ctx, *matchURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch match page: %v\n", err)
		os.Exit(1)
	}

	session, err := oddsportal.ExtractSessionParams(html)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to extract session: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Session: match_id=%s sport=%d version=%d %s vs %s\n",
		session.MatchID, session.SportID, session.VersionID, session.Home, session.Away)

	payload, err := client.FetchEncryptedOdds(ctx, oddsportal.OddsRequest{
		VersionID:     session.VersionID,
		SportID:       session.SportID,
		EventID:       session.MatchID,
		BettingTypeID: *bettingType,
		ScopeID:       *scope,
		XHash:         session.XHash,
		Referer:       *matchURL,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch odds: %v\n", err)
		os.Exit(1)
	}

	resp, err := oddsportal.DecryptPayload(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decrypt payload: %v\n", err)
		os.Exit(1)
	}

	names := oddsportal.DefaultNamingTables()
	if op.MappingsPath != "" {
		if loaded, err := oddsportal.LoadNamingTables(op.MappingsPath); err == nil {
			names = loaded
		}
	}

	odds, err := oddsportal.AssembleMatchEventOdds(resp, session.MatchID, session.IsStarted, names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to assemble odds: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(odds, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal aggregate: %v\n", err)
		os.Exit(1)
	}

	if *outputFile == "" {
		fmt.Println(string(out))
	} else {
		if err := os.WriteFile(*outputFile, out, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d back markets, %d lay markets to %s\n",
			len(odds.BackMarkets), len(odds.LayMarkets), *outputFile)
	}
}
