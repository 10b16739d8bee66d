package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/logger"
	"ratio-analyzer/internal/statement"
)

// StatementScraper pulls annual statements out of the HTML statement pages
// of a stockanalysis-style site. It is the fallback when the JSON API
// returns nothing for a symbol.
type StatementScraper struct {
	baseURL string
	timeout time.Duration
}

// statementPage maps a statement to its URL path under the symbol page.
type statementPage struct {
	name string
	path string
}

var statementPages = []statementPage{
	{name: "income", path: "financials/"},
	{name: "balance", path: "financials/balance-sheet/"},
	{name: "cashflow", path: "financials/cash-flow-statement/"},
}

// NewStatementScraper creates a scraper against the given base URL
// (e.g. https://stockanalysis.com/stocks).
func NewStatementScraper(baseURL string, timeout time.Duration) *StatementScraper {
	return &StatementScraper{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// FetchStatements scrapes the three statement pages for a symbol.
func (s *StatementScraper) FetchStatements(ctx context.Context, symbol string) (*interfaces.StatementSet, error) {
	set := &interfaces.StatementSet{Symbol: symbol}

	for _, page := range statementPages {
		raw, err := s.scrapePage(ctx, symbol, page.path)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape statement page", err,
				"symbol", symbol, "page", page.name)
			continue
		}

		switch page.name {
		case "income":
			set.Income = raw
		case "balance":
			set.Balance = raw
		case "cashflow":
			set.CashFlow = raw
		}

		// Rate limiting between pages
		time.Sleep(500 * time.Millisecond)
	}

	if len(set.Income.Rows) == 0 && len(set.Balance.Rows) == 0 && len(set.CashFlow.Rows) == 0 {
		return nil, fmt.Errorf("no statement tables found for %s", symbol)
	}
	return set, nil
}

// scrapePage fetches one statement page and extracts its main data table.
func (s *StatementScraper) scrapePage(ctx context.Context, symbol, path string) (statement.RawStatement, error) {
	var raw statement.RawStatement
	var parseErr error

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(s.baseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)

	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML("table", func(e *colly.HTMLElement) {
		if len(raw.Rows) > 0 {
			return
		}
		parsed, err := ParseStatementTable(e.DOM)
		if err != nil {
			parseErr = err
			return
		}
		raw = parsed
	})

	c.OnError(func(r *colly.Response, err error) {
		parseErr = err
	})

	pageURL := fmt.Sprintf("%s/%s/%s", s.baseURL, strings.ToLower(symbol), path)
	if err := c.Visit(pageURL); err != nil {
		return statement.RawStatement{}, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	if len(raw.Rows) == 0 && parseErr != nil {
		return statement.RawStatement{}, parseErr
	}
	return raw, nil
}

// ParseStatementTable converts an HTML statement table into raw rows, one
// per period column. The first header cell is the line-item label column;
// the remaining header cells are period dates. Data rows carry the label in
// the first cell and one value per period after it.
func ParseStatementTable(table *goquery.Selection) (statement.RawStatement, error) {
	var dates []string
	table.Find("thead th").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		dates = append(dates, strings.TrimSpace(cell.Text()))
	})
	if len(dates) == 0 {
		return statement.RawStatement{}, fmt.Errorf("statement table has no period header")
	}

	items := make([]map[string]string, len(dates))
	for i := range items {
		items[i] = make(map[string]string)
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		if label == "" {
			return
		}
		cells.Each(func(i int, cell *goquery.Selection) {
			if i == 0 || i > len(dates) {
				return
			}
			items[i-1][label] = strings.TrimSpace(cell.Text())
		})
	})

	var raw statement.RawStatement
	for i, date := range dates {
		if len(items[i]) == 0 {
			continue
		}
		raw.Rows = append(raw.Rows, statement.RawRow{Date: date, Items: items[i]})
	}
	if len(raw.Rows) == 0 {
		return statement.RawStatement{}, fmt.Errorf("statement table has no data rows")
	}
	return raw, nil
}

// getDomain extracts the hostname from a URL
func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
