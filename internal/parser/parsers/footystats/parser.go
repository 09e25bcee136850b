// Package footystats pulls pre-match statistics from the FootyStats
// API: league lists, league matches, league tables, today's fixtures.
// Records are validated and type-coerced against per-endpoint field
// tables before anything stores them.
package footystats

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mazyy/RobbinOdds/internal/parser/parsers"
	"github.com/mazyy/RobbinOdds/internal/pkg/config"
	"github.com/mazyy/RobbinOdds/internal/pkg/health"
	"github.com/mazyy/RobbinOdds/internal/pkg/interfaces"
	"github.com/mazyy/RobbinOdds/internal/pkg/metrics"
)

const parserName = "FootyStats"

var runOnceMu sync.Mutex

func init() {
	parsers.Register("footystats", func(cfg *config.Config, deps parsers.Deps) interfaces.Parser {
		return NewParser(cfg, deps)
	})
}

type Parser struct {
	cfg    *config.Config
	client *Client
}

func NewParser(cfg *config.Config, _ parsers.Deps) *Parser {
	fs := &cfg.Parser.FootyStats
	timeout := fs.Timeout
	if timeout <= 0 {
		timeout = cfg.Parser.Timeout
	}
	return &Parser{
		cfg:    cfg,
		client: NewClient(fs.BaseURL, fs.APIKey, timeout, fs.PageDelay),
	}
}

func (p *Parser) runOnce(ctx context.Context) error {
	fs := &p.cfg.Parser.FootyStats
	if fs.APIKey == "" {
		slog.Warn("footystats: api_key not set, skipping")
		return nil
	}
	runOnceMu.Lock()
	defer runOnceMu.Unlock()

	start := time.Now()
	var totalRecords int
	defer func() {
		slog.Info("footystats: parsing cycle finished", "records", totalRecords, "duration", time.Since(start))
	}()

	names := fs.Endpoints
	if len(names) == 0 {
		names = AvailableEndpoints()
	}

	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		ep, ok := EndpointByName(name)
		if !ok {
			slog.Warn("footystats: unknown endpoint in config", "endpoint", name, "available", AvailableEndpoints())
			continue
		}

		n, err := p.scrapeEndpoint(ctx, ep)
		if err != nil {
			slog.Warn("footystats: endpoint failed", "endpoint", name, "error", err)
			continue
		}
		totalRecords += n
	}

	return nil
}

// scrapeEndpoint fetches, coerces and stores one endpoint's records.
// Per-season endpoints run once per configured league.
func (p *Parser) scrapeEndpoint(ctx context.Context, ep Endpoint) (int, error) {
	fs := &p.cfg.Parser.FootyStats

	paramSets := []url.Values{{}}
	if ep.PerSeason {
		if len(fs.LeagueIDs) == 0 {
			return 0, fmt.Errorf("endpoint %s needs league_ids in config", ep.Name)
		}
		paramSets = paramSets[:0]
		for _, id := range fs.LeagueIDs {
			paramSets = append(paramSets, url.Values{"season_id": {strconv.Itoa(id)}})
		}
	}

	var coerced []map[string]any
	for _, params := range paramSets {
		raw, err := p.client.FetchAll(ctx, ep, params, fs.TestLimit)
		if err != nil {
			return 0, err
		}
		for _, record := range raw {
			out, err := CoerceRecord(record, ep.Fields)
			if err != nil {
				metrics.RecordsRejected.WithLabelValues(ep.Name).Inc()
				slog.Debug("footystats: record rejected", "endpoint", ep.Name, "error", err)
				continue
			}
			metrics.RecordsCoerced.WithLabelValues(ep.Name).Inc()
			coerced = append(coerced, out)
		}
	}

	health.AddRecords(ep.Name, coerced)
	slog.Debug("footystats: endpoint scraped", "endpoint", ep.Name, "records", len(coerced))
	return len(coerced), nil
}

func (p *Parser) Start(ctx context.Context) error {
	slog.Info("Starting FootyStats parser (background mode)...")
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
