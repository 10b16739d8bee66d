package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode     string   `yaml:"mode"`     // LIVE or MOCK
	Universe []string `yaml:"universe"` // default tickers for batch runs
	Source   struct {
		BaseURL           string `yaml:"base_url"`
		ScrapeBaseURL     string `yaml:"scrape_base_url"`
		ScrapeFallback    bool   `yaml:"scrape_fallback"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
		RequestsPerSecond int    `yaml:"requests_per_second"`
	} `yaml:"source"`
	Cache struct {
		Dir                  string `yaml:"dir"`
		StatementTTLMinutes  int    `yaml:"statement_ttl_minutes"`
		QuoteTTLMinutes      int    `yaml:"quote_ttl_minutes"`
		DividendTTLHours     int    `yaml:"dividend_ttl_hours"`
	} `yaml:"cache"`
	Output struct {
		Decimals int    `yaml:"decimals"`
		Dir      string `yaml:"dir"`
	} `yaml:"output"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Market struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"market"`
}

func (c *Config) Validate() error {
	if c.Mode != "LIVE" && c.Mode != "MOCK" {
		return fmt.Errorf("invalid mode '%s': must be 'LIVE' or 'MOCK'", c.Mode)
	}
	if len(c.Universe) == 0 {
		return errors.New("universe cannot be empty")
	}
	if c.Output.Decimals < 0 || c.Output.Decimals > 6 {
		return fmt.Errorf("output.decimals must be between 0-6, got %d", c.Output.Decimals)
	}
	if c.Cache.StatementTTLMinutes <= 0 {
		return fmt.Errorf("cache.statement_ttl_minutes must be positive, got %d", c.Cache.StatementTTLMinutes)
	}
	if c.Source.RequestsPerSecond <= 0 {
		return fmt.Errorf("source.requests_per_second must be positive, got %d", c.Source.RequestsPerSecond)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "MOCK"
	}
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Source.TimeoutSeconds == 0 {
		c.Source.TimeoutSeconds = 30
	}
	if c.Source.RequestsPerSecond == 0 {
		c.Source.RequestsPerSecond = 5
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "cache/statements"
	}
	// Statement cache window follows the reporting cadence: statements only
	// change on new filings, quotes move intraday.
	if c.Cache.StatementTTLMinutes == 0 {
		c.Cache.StatementTTLMinutes = 30
	}
	if c.Cache.QuoteTTLMinutes == 0 {
		c.Cache.QuoteTTLMinutes = 10
	}
	if c.Cache.DividendTTLHours == 0 {
		c.Cache.DividendTTLHours = 24 * 7
	}
	if c.Output.Decimals == 0 {
		c.Output.Decimals = 2
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
