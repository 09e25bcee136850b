package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Health   HealthConfig   `yaml:"health"`
	Parser   ParserConfig   `yaml:"parser"`
	Storage  StorageConfig  `yaml:"storage"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`     // debug, info, warn, error (default: info)
	JSONPath string `yaml:"json_path"` // optional file for JSON logs (for log shipping)
}

type HealthConfig struct {
	Port                int           `yaml:"port"`
	ReadHeaderTimeout   time.Duration `yaml:"read_header_timeout"`
	AsyncParsingTimeout time.Duration `yaml:"async_parsing_timeout"`
}

type ParserConfig struct {
	EnabledParsers []string         `yaml:"enabled_parsers"`
	Interval       time.Duration    `yaml:"interval"`
	UserAgent      string           `yaml:"user_agent"`
	Timeout        time.Duration    `yaml:"timeout"`
	OddsPortal     OddsPortalConfig `yaml:"oddsportal"`
	FootyStats     FootyStatsConfig `yaml:"footystats"`
}

type OddsPortalConfig struct {
	BaseURL      string        `yaml:"base_url"`
	MatchURLs    []string      `yaml:"match_urls"`    // full match page URLs to scrape
	BetTypes     []int         `yaml:"bet_types"`     // betting type IDs; empty = all from page nav
	Scopes       []int         `yaml:"scopes"`        // scope IDs; empty = all from page nav
	Timeout      time.Duration `yaml:"timeout"`
	Concurrency  int           `yaml:"concurrency"`   // odds requests in flight per match (default: 2)
	RequestDelay time.Duration `yaml:"request_delay"` // politeness delay between odds requests
	UseBrowser   bool          `yaml:"use_browser"`   // headless fallback for JS-walled match pages
	ProxyList    []string      `yaml:"proxy_list"`    // proxies to try in order
	MappingsPath string        `yaml:"mappings_path"` // optional JSON file overriding bundled naming tables
}

type FootyStatsConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	LeagueIDs []int         `yaml:"league_ids"`
	Endpoints []string      `yaml:"endpoints"` // endpoint names; empty = all known
	Timeout   time.Duration `yaml:"timeout"`
	PageDelay time.Duration `yaml:"page_delay"` // delay between paginated requests
	TestLimit int           `yaml:"test_limit"` // stop after N records (0 = no limit)
}

type StorageConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // cache TTL for latest aggregates (default: 1h)
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TelegramConfig struct {
	BotToken             string  `yaml:"bot_token"`
	ChatID               int64   `yaml:"chat_id"`
	DropThresholdPercent float64 `yaml:"drop_threshold_percent"` // min odds drop to alert on (default: 15.0)
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}
