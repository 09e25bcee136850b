package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/mazyy/RobbinOdds/internal/parser/parsers"
	pkgconfig "github.com/mazyy/RobbinOdds/internal/pkg/config"
	"github.com/mazyy/RobbinOdds/internal/pkg/health"
	"github.com/mazyy/RobbinOdds/internal/pkg/interfaces"
	"github.com/mazyy/RobbinOdds/internal/pkg/logging"
	"github.com/mazyy/RobbinOdds/internal/pkg/notify"
	"github.com/mazyy/RobbinOdds/internal/pkg/parserutil"
	"github.com/mazyy/RobbinOdds/internal/pkg/publish"
	"github.com/mazyy/RobbinOdds/internal/pkg/storage"

	// Register all supported parsers via init().
	_ "github.com/mazyy/RobbinOdds/internal/parser/parsers/all"
)

const (
	defaultConfigPath = "configs/production.yaml"
)

type config struct {
	configPath string
	runFor     time.Duration
	parser     string // Override enabled_parsers from config (e.g. "oddsportal" or "footystats")
}

func main() {
	if err := run(); err != nil {
		slog.Error("Scraper failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.Info("Starting scraper...")

	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	_, err = logging.Setup(&appConfig.Logging, "scraper")
	if err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	} else {
		slog.Info("Logging initialized", "service", "scraper")
	}

	slog.Info("Config loaded successfully")

	deps, closeDeps := buildDeps(appConfig)
	defer closeDeps()

	if cfg.parser != "" {
		appConfig.Parser.EnabledParsers = []string{cfg.parser}
	}
	ps, err := selectParsers(appConfig, deps)
	if err != nil {
		return err
	}
	printSelectedParsers(ps)

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	health.RegisterParsers(ps)

	port := appConfig.Health.Port
	if port <= 0 {
		slog.Error("health.port must be specified in config")
		os.Exit(1)
	}
	health.Run(ctx, health.AddrFor(port), "scraper", appConfig.Health.ReadHeaderTimeout)

	slog.Info("Starting parsers...")
	return runParsers(ctx, ps, appConfig)
}

// buildDeps wires the optional sinks from config. Every sink is
// optional: a missing DSN or token disables that sink with a log line
// instead of failing startup.
func buildDeps(cfg *pkgconfig.Config) (parsers.Deps, func()) {
	var deps parsers.Deps
	var closers []func()

	if dsn := cfg.Storage.Postgres.DSN; dsn != "" {
		pg, err := storage.NewPostgresOddsStorage(dsn)
		if err != nil {
			slog.Warn("Postgres storage disabled", "error", err)
		} else {
			deps.Stores = append(deps.Stores, pg)
			closers = append(closers, func() { _ = pg.Close() })
		}
	}

	if addr := cfg.Storage.Redis.Addr; addr != "" {
		cache, err := storage.NewRedisOddsCache(addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB, cfg.Storage.Redis.TTL)
		if err != nil {
			slog.Warn("Redis cache disabled", "error", err)
		} else {
			deps.Stores = append(deps.Stores, cache)
			closers = append(closers, func() { _ = cache.Close() })
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := publish.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			slog.Warn("Kafka publishing disabled", "error", err)
		} else {
			deps.Publisher = publisher
			closers = append(closers, func() { _ = publisher.Close() })
		}
	}

	if cfg.Telegram.BotToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			slog.Warn("Telegram alerts disabled", "error", err)
		} else {
			deps.Notifier = notifier
			closers = append(closers, notifier.Close)
		}
	}

	return deps, func() {
		for _, close := range closers {
			close()
		}
	}
}

func parseFlags() config {
	var cfg config

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.StringVar(&cfg.parser, "parser", "", "Override enabled_parsers: specify parser name (e.g. 'oddsportal' or 'footystats'). Empty = use config")
	flag.Parse()
	return cfg
}

func selectParsers(cfg *pkgconfig.Config, deps parsers.Deps) ([]interfaces.Parser, error) {
	available := parsers.Available()

	// If enabled_parsers is not specified in config, run all available parsers
	enabledSet := buildEnabledSet(cfg.Parser.EnabledParsers)

	if err := validateEnabledParsers(enabledSet, available); err != nil {
		return nil, err
	}

	var ps []interfaces.Parser
	for key, ctor := range available {
		if len(enabledSet) == 0 || enabledSet[key] {
			ps = append(ps, ctor(cfg, deps))
		}
	}

	if len(ps) == 0 {
		return nil, fmt.Errorf("no parsers selected to run (parser.enabled_parsers=%v)", cfg.Parser.EnabledParsers)
	}

	return ps, nil
}

func buildEnabledSet(enabledParsers []string) map[string]bool {
	enabledSet := make(map[string]bool)
	for _, name := range enabledParsers {
		n := strings.ToLower(strings.TrimSpace(name))
		if n != "" {
			enabledSet[n] = true
		}
	}
	return enabledSet
}

func validateEnabledParsers(enabledSet map[string]bool, available map[string]parsers.Factory) error {
	if len(enabledSet) == 0 {
		return nil
	}

	var unknown []string
	for name := range enabledSet {
		if _, ok := available[name]; !ok {
			unknown = append(unknown, name)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown parsers in parser.enabled_parsers: %v (available: %v)", unknown, parsers.AvailableNames())
	}

	return nil
}

func printSelectedParsers(ps []interfaces.Parser) {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.GetName())
	}
	sort.Strings(names)
	slog.Info("Using parsers", "parsers", strings.Join(names, ", "))
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping scraper...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			// Context already cancelled (timeout or parent cancellation)
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}

func runParsers(ctx context.Context, ps []interfaces.Parser, appConfig *pkgconfig.Config) error {
	// Start parsers in background (each runs one cycle, then waits for context)
	opts := parserutil.AsyncRunOptions()
	opts.LogStart = true
	opts.OnError = func(p interfaces.Parser, err error) {
		slog.Error("Parser failed", "parser", p.GetName(), "error", err)
	}
	_ = parserutil.RunParsers(ctx, ps, func(ctx context.Context, p interfaces.Parser) error {
		return p.Start(ctx)
	}, opts)

	parseInterval := appConfig.Parser.Interval
	if parseInterval <= 0 {
		parseInterval = 2 * time.Minute
		slog.Info("parser.interval not set, using default", "interval", parseInterval)
	} else {
		slog.Info("Starting periodic parsing", "interval", parseInterval)
	}

	cycleTimeout := appConfig.Health.AsyncParsingTimeout
	if cycleTimeout <= 0 {
		cycleTimeout = 60 * time.Second
	}
	startPeriodicParsing(ctx, ps, parseInterval, cycleTimeout)

	<-ctx.Done()
	slog.Info("Scraper stopped gracefully")
	return nil
}

func startPeriodicParsing(ctx context.Context, ps []interfaces.Parser, interval time.Duration, timeout time.Duration) {
	createAsyncOpts := func() parserutil.RunOptions {
		opts := parserutil.AsyncRunOptions()
		opts.OnError = func(p interfaces.Parser, err error) {
			slog.Error("Periodic parsing failed", "parser", p.GetName(), "error", err)
		}
		return opts
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("Stopping periodic parsing...")
				return
			case <-ticker.C:
				runParsingOnce(ps, timeout, createAsyncOpts())
			}
		}
	}()
}

func runParsingOnce(ps []interfaces.Parser, timeout time.Duration, opts parserutil.RunOptions) {
	parseCtx, cancel := parserutil.CreateCycleContext(context.Background(), timeout)
	defer cancel()

	opts.WaitForCompletion = true // wait for all parsers so context stays valid for full timeout
	_ = parserutil.RunParsers(parseCtx, ps, func(ctx context.Context, p interfaces.Parser) error {
		return p.ParseOnce(ctx)
	}, opts)
}
