package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/logger"
	"ratio-analyzer/internal/store"
)

// LiveDataSource implements MarketDataSource against real providers: the
// JSON API first, the HTML scraper as a statement fallback, with a file
// cache and per-source rate limiting in front.
type LiveDataSource struct {
	yahoo       *YahooClient
	scraper     *StatementScraper
	cache       *Cache
	rateLimiter *MultiRateLimiter

	statementTTL time.Duration
	quoteTTL     time.Duration
	dividendTTL  time.Duration
}

// NewLiveDataSource wires the live clients from config.
func NewLiveDataSource(cfg *store.Config) *LiveDataSource {
	timeout := time.Duration(cfg.Source.TimeoutSeconds) * time.Second

	rateLimiter := NewMultiRateLimiter()
	rateLimiter.AddLimiter("YAHOO", cfg.Source.RequestsPerSecond, time.Second/time.Duration(cfg.Source.RequestsPerSecond))
	rateLimiter.AddLimiter("SCRAPE", 1, 2*time.Second)

	lds := &LiveDataSource{
		yahoo:        NewYahooClient(cfg.Source.BaseURL, timeout),
		cache:        NewCache(cfg.Cache.Dir),
		rateLimiter:  rateLimiter,
		statementTTL: time.Duration(cfg.Cache.StatementTTLMinutes) * time.Minute,
		quoteTTL:     time.Duration(cfg.Cache.QuoteTTLMinutes) * time.Minute,
		dividendTTL:  time.Duration(cfg.Cache.DividendTTLHours) * time.Hour,
	}

	if cfg.Source.ScrapeFallback && cfg.Source.ScrapeBaseURL != "" {
		lds.scraper = NewStatementScraper(cfg.Source.ScrapeBaseURL, timeout)
	}

	return lds
}

// FetchStatements retrieves the three annual statements, trying the JSON API
// first and the scraper when the API comes back empty.
func (lds *LiveDataSource) FetchStatements(ctx context.Context, symbol string) (*interfaces.StatementSet, error) {
	cacheKey := fmt.Sprintf("statements:%s", symbol)

	if cached, ok := lds.cache.Get(cacheKey, lds.statementTTL); ok {
		var set interfaces.StatementSet
		if err := json.Unmarshal(cached, &set); err == nil {
			logger.Fetch(ctx, symbol, "CACHE", "statements")
			return &set, nil
		}
	}

	if err := lds.rateLimiter.Wait(ctx, "YAHOO"); err != nil {
		return nil, err
	}

	set, err := lds.yahoo.FetchStatements(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "API statement fetch failed", "symbol", symbol, "error", err)
	} else {
		logger.Fetch(ctx, symbol, "YAHOO", "statements",
			"income_rows", len(set.Income.Rows),
			"balance_rows", len(set.Balance.Rows))
	}

	if (set == nil || statementsEmpty(set)) && lds.scraper != nil {
		if waitErr := lds.rateLimiter.Wait(ctx, "SCRAPE"); waitErr != nil {
			return nil, waitErr
		}
		scraped, scrapeErr := lds.scraper.FetchStatements(ctx, symbol)
		if scrapeErr != nil {
			logger.Warn(ctx, "Scrape fallback failed", "symbol", symbol, "error", scrapeErr)
		} else {
			logger.Fetch(ctx, symbol, "SCRAPE", "statements",
				"income_rows", len(scraped.Income.Rows))
			set, err = scraped, nil
		}
	}

	if set == nil {
		return nil, fmt.Errorf("failed to fetch statements for %s: %w", symbol, err)
	}

	if data, marshalErr := json.Marshal(set); marshalErr == nil {
		lds.cache.Set(cacheKey, data)
	}
	return set, nil
}

// FetchQuote retrieves the live quote.
func (lds *LiveDataSource) FetchQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	cacheKey := fmt.Sprintf("quote:%s", symbol)

	if cached, ok := lds.cache.Get(cacheKey, lds.quoteTTL); ok {
		var quote interfaces.Quote
		if err := json.Unmarshal(cached, &quote); err == nil {
			logger.Fetch(ctx, symbol, "CACHE", "quote")
			return &quote, nil
		}
	}

	if err := lds.rateLimiter.Wait(ctx, "YAHOO"); err != nil {
		return nil, err
	}

	quote, err := lds.yahoo.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	logger.Fetch(ctx, symbol, "YAHOO", "quote", "price", quote.LastPrice)

	if data, marshalErr := json.Marshal(quote); marshalErr == nil {
		lds.cache.Set(cacheKey, data)
	}
	return quote, nil
}

// FetchDailyBars retrieves recent daily bars. Bars share the quote TTL.
func (lds *LiveDataSource) FetchDailyBars(ctx context.Context, symbol string, days int) ([]interfaces.PriceBar, error) {
	cacheKey := fmt.Sprintf("bars:%s:%d", symbol, days)

	if cached, ok := lds.cache.Get(cacheKey, lds.quoteTTL); ok {
		var bars []interfaces.PriceBar
		if err := json.Unmarshal(cached, &bars); err == nil {
			logger.Fetch(ctx, symbol, "CACHE", "bars")
			return bars, nil
		}
	}

	if err := lds.rateLimiter.Wait(ctx, "YAHOO"); err != nil {
		return nil, err
	}

	bars, err := lds.yahoo.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	logger.Fetch(ctx, symbol, "YAHOO", "bars", "count", len(bars))

	if data, marshalErr := json.Marshal(bars); marshalErr == nil {
		lds.cache.Set(cacheKey, data)
	}
	return bars, nil
}

// FetchDividends retrieves the trailing year of dividend payments.
func (lds *LiveDataSource) FetchDividends(ctx context.Context, symbol string) ([]interfaces.DividendPayment, error) {
	cacheKey := fmt.Sprintf("dividends:%s", symbol)

	if cached, ok := lds.cache.Get(cacheKey, lds.dividendTTL); ok {
		var payments []interfaces.DividendPayment
		if err := json.Unmarshal(cached, &payments); err == nil {
			logger.Fetch(ctx, symbol, "CACHE", "dividends")
			return payments, nil
		}
	}

	if err := lds.rateLimiter.Wait(ctx, "YAHOO"); err != nil {
		return nil, err
	}

	payments, err := lds.yahoo.FetchDividends(ctx, symbol)
	if err != nil {
		return nil, err
	}
	logger.Fetch(ctx, symbol, "YAHOO", "dividends", "count", len(payments))

	if data, marshalErr := json.Marshal(payments); marshalErr == nil {
		lds.cache.Set(cacheKey, data)
	}
	return payments, nil
}

func statementsEmpty(set *interfaces.StatementSet) bool {
	return len(set.Income.Rows) == 0 && len(set.Balance.Rows) == 0 && len(set.CashFlow.Rows) == 0
}
