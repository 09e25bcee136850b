package oddsportal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mazyy/RobbinOdds/internal/parser/parsers"
	"github.com/mazyy/RobbinOdds/internal/pkg/config"
	"github.com/mazyy/RobbinOdds/internal/pkg/health"
	"github.com/mazyy/RobbinOdds/internal/pkg/interfaces"
	"github.com/mazyy/RobbinOdds/internal/pkg/metrics"
	"github.com/mazyy/RobbinOdds/internal/pkg/models"
	"github.com/mazyy/RobbinOdds/internal/pkg/notify"
)

const parserName = "OddsPortal"

// The site throttles aggressively; two odds requests in flight per
// match with a delay between them stays under its radar.
const (
	defaultConcurrency  = 2
	defaultRequestDelay = 500 * time.Millisecond
)

var runOnceMu sync.Mutex

func init() {
	parsers.Register("oddsportal", func(cfg *config.Config, deps parsers.Deps) interfaces.Parser {
		return NewParser(cfg, deps)
	})
}

type Parser struct {
	cfg    *config.Config
	deps   parsers.Deps
	client *Client
	names  *NamingTables
}

func NewParser(cfg *config.Config, deps parsers.Deps) *Parser {
	op := &cfg.Parser.OddsPortal
	timeout := op.Timeout
	if timeout <= 0 {
		timeout = cfg.Parser.Timeout
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	names := DefaultNamingTables()
	if op.MappingsPath != "" {
		loaded, err := LoadNamingTables(op.MappingsPath)
		if err != nil {
			slog.Warn("oddsportal: failed to load naming tables, using defaults", "path", op.MappingsPath, "error", err)
		} else {
			names = loaded
		}
	}

	return &Parser{
		cfg:    cfg,
		deps:   deps,
		client: NewClient(op.BaseURL, timeout, op.ProxyList),
		names:  names,
	}
}

func (p *Parser) runOnce(ctx context.Context) error {
	op := &p.cfg.Parser.OddsPortal
	if len(op.MatchURLs) == 0 {
		slog.Warn("oddsportal: no match_urls configured, skipping")
		return nil
	}
	runOnceMu.Lock()
	defer runOnceMu.Unlock()

	start := time.Now()
	var totalAggregates int
	defer func() {
		slog.Info("oddsportal: parsing cycle finished", "aggregates", totalAggregates, "duration", time.Since(start))
	}()

	slog.Info("oddsportal: runOnce started", "matches", len(op.MatchURLs))

	for _, matchURL := range op.MatchURLs {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := p.scrapeMatch(ctx, matchURL)
		if err != nil {
			slog.Warn("oddsportal: match scrape failed", "match_url", matchURL, "error", err)
			continue
		}
		totalAggregates += n
	}

	return nil
}

// scrapeMatch runs the full pipeline for one match page: session
// extraction, then one odds request per (bettingType, scope)
// combination. Returns the number of aggregates delivered.
func (p *Parser) scrapeMatch(ctx context.Context, matchURL string) (int, error) {
	op := &p.cfg.Parser.OddsPortal

	session, err := p.extractSession(ctx, matchURL)
	if err != nil {
		metrics.SessionExtractions.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("extract session: %w", err)
	}
	metrics.SessionExtractions.WithLabelValues("ok").Inc()

	combos := selectCombos(session, op.BetTypes, op.Scopes)
	if len(combos) == 0 {
		return 0, fmt.Errorf("no (betting type, scope) combinations for match %s", session.MatchID)
	}

	slog.Debug("oddsportal: scraping match",
		"match_id", session.MatchID,
		"home", session.Home, "away", session.Away,
		"combinations", len(combos))

	concurrency := op.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	delay := op.RequestDelay
	if delay <= 0 {
		delay = defaultRequestDelay
	}

	var (
		deliveredMu sync.Mutex
		delivered   int
	)

	// A failed combination never fails its siblings: per-request errors
	// are logged and counted, and the group error stays nil.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, combo := range combos {
		combo := combo
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			case <-time.After(delay):
			}

			odds, err := p.fetchCombo(gctx, session, matchURL, combo)
			if err != nil {
				slog.Warn("oddsportal: combination failed",
					"match_id", session.MatchID,
					"betting_type", combo.bettingType, "scope", combo.scope,
					"error", err)
				return nil
			}

			p.deliver(gctx, odds)
			deliveredMu.Lock()
			delivered++
			deliveredMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return delivered, nil
}

// extractSession fetches the match page statically first; when the
// react header is missing and the headless fallback is enabled, retries
// with a rendered page.
func (p *Parser) extractSession(ctx context.Context, matchURL string) (*SessionParams, error) {
	op := &p.cfg.Parser.OddsPortal

	html, err := p.client.FetchMatchPage(ctx, matchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch match page: %w", err)
	}

	session, err := ExtractSessionParams(html)
	if err == nil {
		return session, nil
	}
	if !op.UseBrowser || !errors.Is(err, ErrNoEventHeader) {
		return nil, err
	}

	metrics.SessionExtractions.WithLabelValues("browser_fallback").Inc()
	slog.Info("oddsportal: static page has no event header, retrying with headless browser", "match_url", matchURL)

	html, err = fetchRenderedPage(ctx, p.client.absoluteURL(matchURL), op.Timeout)
	if err != nil {
		return nil, fmt.Errorf("headless fetch: %w", err)
	}
	return ExtractSessionParams(html)
}

// fetchCombo runs fetch -> decrypt -> assemble for one combination.
func (p *Parser) fetchCombo(ctx context.Context, session *SessionParams, matchURL string, combo btScope) (*models.MatchEventOdds, error) {
	payload, err := p.client.FetchEncryptedOdds(ctx, OddsRequest{
		VersionID:     session.VersionID,
		SportID:       session.SportID,
		EventID:       session.MatchID,
		BettingTypeID: combo.bettingType,
		ScopeID:       combo.scope,
		XHash:         session.XHash,
		Referer:       matchURL,
	})
	if err != nil {
		metrics.OddsRequests.WithLabelValues("fetch_error").Inc()
		return nil, err
	}

	resp, err := DecryptPayload(payload)
	if err != nil {
		metrics.OddsRequests.WithLabelValues("decrypt_error").Inc()
		return nil, err
	}

	odds, err := AssembleMatchEventOdds(resp, session.MatchID, session.IsStarted, p.names)
	if err != nil {
		metrics.OddsRequests.WithLabelValues("assemble_error").Inc()
		return nil, err
	}

	metrics.OddsRequests.WithLabelValues("ok").Inc()
	metrics.MarketsParsed.WithLabelValues("back").Add(float64(len(odds.BackMarkets)))
	metrics.MarketsParsed.WithLabelValues("lay").Add(float64(len(odds.LayMarkets)))
	return odds, nil
}

// deliver hands one aggregate to every configured sink. Sink errors are
// logged, never propagated: one slow store must not cost the scrape.
func (p *Parser) deliver(ctx context.Context, odds *models.MatchEventOdds) {
	health.AddMatchEventOdds(odds)

	for _, store := range p.deps.Stores {
		if err := store.StoreMatchEventOdds(ctx, odds); err != nil {
			slog.Error("oddsportal: store failed", "match_id", odds.MatchID, "error", err)
		}
	}

	if p.deps.Publisher != nil {
		if err := p.deps.Publisher.Publish(ctx, odds); err != nil {
			slog.Error("oddsportal: publish failed", "match_id", odds.MatchID, "error", err)
		}
	}

	if p.deps.Notifier != nil {
		threshold := p.cfg.Telegram.DropThresholdPercent
		for _, movement := range notify.DetectLineMovements(odds, threshold) {
			p.deps.Notifier.NotifyLineMovement(movement)
		}
	}
}

type btScope struct {
	bettingType int
	scope       int
}

// selectCombos builds the (bettingType, scope) request list: the page
// nav when available, the configured defaults otherwise, intersected
// with any configured filters.
func selectCombos(session *SessionParams, betTypes, scopes []int) []btScope {
	btFilter := intSet(betTypes)
	scFilter := intSet(scopes)

	var combos []btScope
	if len(session.Nav) > 0 {
		for _, bt := range sortedKeys(session.Nav) {
			if btFilter != nil && !btFilter[bt] {
				continue
			}
			for _, sc := range session.Nav[bt] {
				if scFilter != nil && !scFilter[sc] {
					continue
				}
				combos = append(combos, btScope{bt, sc})
			}
		}
		return combos
	}

	// No nav: cross the configured lists, falling back to the page
	// defaults where a list is empty.
	if len(betTypes) == 0 {
		betTypes = []int{defaultOr(session.DefaultBettingType, 1)}
	}
	if len(scopes) == 0 {
		scopes = []int{defaultOr(session.DefaultScope, 2)}
	}
	for _, bt := range betTypes {
		for _, sc := range scopes {
			combos = append(combos, btScope{bt, sc})
		}
	}
	return combos
}

func intSet(values []int) map[int]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func defaultOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func (p *Parser) Start(ctx context.Context) error {
	slog.Info("Starting OddsPortal parser (background mode)...")
	if err := p.runOnce(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (p *Parser) ParseOnce(ctx context.Context) error {
	return p.runOnce(ctx)
}

func (p *Parser) Stop() error {
	return nil
}

func (p *Parser) GetName() string {
	return parserName
}
