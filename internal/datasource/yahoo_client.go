package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"ratio-analyzer/internal/api"
	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/statement"
)

// YahooClient fetches statements and market data from a Yahoo-Finance-style
// JSON API: the chart endpoint for prices and dividend events, the
// quoteSummary endpoint for the live quote, and the fundamentals-timeseries
// endpoint for annual statement line items.
type YahooClient struct {
	client *api.Client
}

// NewYahooClient creates a client against the given base URL
// (e.g. https://query1.finance.yahoo.com).
func NewYahooClient(baseURL string, timeout time.Duration) *YahooClient {
	return &YahooClient{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			api.WithLogging(true),
		),
	}
}

// yahooValue is Yahoo's {raw, fmt} number wrapper.
type yahooValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
		PreviousClose      float64 `json:"previousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []float64 `json:"open"`
			High   []float64 `json:"high"`
			Low    []float64 `json:"low"`
			Close  []float64 `json:"close"`
			Volume []int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
	Events struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
}

type yahooChartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"chart"`
}

type yahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				Symbol                     string     `json:"symbol"`
				RegularMarketPrice         yahooValue `json:"regularMarketPrice"`
				RegularMarketPreviousClose yahooValue `json:"regularMarketPreviousClose"`
				MarketCap                  yahooValue `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

type yahooTimeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  any               `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Symbol []string `json:"symbol"`
	Type   []string `json:"type"`
}

type timeseriesPoint struct {
	AsOfDate      string     `json:"asOfDate"`
	ReportedValue yahooValue `json:"reportedValue"`
}

// Fundamentals-timeseries type keys mapped to the provider's line-item
// labels, one table per statement.
var incomeModules = map[string]string{
	"annualTotalRevenue":    "Total Revenue",
	"annualNetIncome":       "Net Income",
	"annualEBIT":            "EBIT",
	"annualInterestExpense": "Interest Expense",
	"annualCostOfRevenue":   "Cost Of Revenue",
	"annualGrossProfit":     "Gross Profit",
	"annualBasicEPS":        "Basic EPS",
	"annualDilutedEPS":      "Diluted EPS",
}

var balanceModules = map[string]string{
	"annualCurrentAssets":                    "Current Assets",
	"annualCurrentLiabilities":               "Current Liabilities",
	"annualCashCashEquivalentsAndShortTermInvestments": "Cash Cash Equivalents And Short Term Investments",
	"annualInventory":                        "Inventory",
	"annualAccountsReceivable":               "Accounts Receivable",
	"annualAccountsPayable":                  "Accounts Payable",
	"annualTotalAssets":                      "Total Assets",
	"annualTotalDebt":                        "Total Debt",
	"annualTotalEquityGrossMinorityInterest": "Total Equity Gross Minority Interest",
	"annualShareIssued":                      "Share Issued",
	"annualOrdinarySharesNumber":             "Ordinary Shares Number",
}

var cashflowModules = map[string]string{
	"annualOperatingCashFlow":  "Operating Cash Flow",
	"annualInvestingCashFlow":  "Investing Cash Flow",
	"annualFinancingCashFlow":  "Financing Cash Flow",
	"annualFreeCashFlow":       "Free Cash Flow",
	"annualCapitalExpenditure": "Capital Expenditure",
}

// FetchStatements retrieves the three annual statements in one
// fundamentals-timeseries request.
func (yc *YahooClient) FetchStatements(ctx context.Context, symbol string) (*interfaces.StatementSet, error) {
	types := make([]string, 0, len(incomeModules)+len(balanceModules)+len(cashflowModules))
	for _, modules := range []map[string]string{incomeModules, balanceModules, cashflowModules} {
		for key := range modules {
			types = append(types, key)
		}
	}
	sort.Strings(types)

	now := time.Now()
	url := fmt.Sprintf(
		"/ws/fundamentals-timeseries/v1/finance/timeseries/%s?symbol=%s&type=%s&period1=%d&period2=%d",
		symbol, symbol, strings.Join(types, ","), now.AddDate(-10, 0, 0).Unix(), now.Unix(),
	)

	resp, err := yc.client.GET(ctx, url, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch statements: %w", err)
	}

	var parsed yahooTimeseriesResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, err
	}

	// One builder per statement, rows keyed by the asOfDate label.
	income := newStatementBuilder()
	balance := newStatementBuilder()
	cashflow := newStatementBuilder()

	for _, raw := range parsed.Timeseries.Result {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		var meta timeseriesMeta
		if m, ok := fields["meta"]; ok {
			if err := json.Unmarshal(m, &meta); err != nil || len(meta.Type) == 0 {
				continue
			}
		} else {
			continue
		}
		typeKey := meta.Type[0]

		// The data array sits under a dynamic key named after the type.
		data, ok := fields[typeKey]
		if !ok {
			continue
		}
		var points []*timeseriesPoint
		if err := json.Unmarshal(data, &points); err != nil {
			continue
		}

		builder, label := income, ""
		switch {
		case incomeModules[typeKey] != "":
			builder, label = income, incomeModules[typeKey]
		case balanceModules[typeKey] != "":
			builder, label = balance, balanceModules[typeKey]
		case cashflowModules[typeKey] != "":
			builder, label = cashflow, cashflowModules[typeKey]
		default:
			continue
		}
		for _, p := range points {
			if p == nil {
				continue
			}
			builder.set(p.AsOfDate, label, p.ReportedValue.Raw)
		}
	}

	return &interfaces.StatementSet{
		Symbol:   symbol,
		Income:   income.build(),
		Balance:  balance.build(),
		CashFlow: cashflow.build(),
	}, nil
}

// FetchQuote retrieves the live quote via the quoteSummary price module.
func (yc *YahooClient) FetchQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	url := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=price", symbol)
	resp, err := yc.client.GET(ctx, url, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}

	var parsed yahooQuoteSummaryResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	price := parsed.QuoteSummary.Result[0].Price
	return &interfaces.Quote{
		Symbol:    symbol,
		LastPrice: price.RegularMarketPrice.Raw,
		LastClose: price.RegularMarketPreviousClose.Raw,
		MarketCap: price.MarketCap.Raw,
	}, nil
}

// FetchDailyBars retrieves recent daily bars via the chart endpoint.
func (yc *YahooClient) FetchDailyBars(ctx context.Context, symbol string, days int) ([]interfaces.PriceBar, error) {
	rng := "5d"
	switch {
	case days > 250:
		rng = "2y"
	case days > 20:
		rng = "1y"
	case days > 5:
		rng = "1mo"
	}

	result, err := yc.fetchChart(ctx, symbol, rng, false)
	if err != nil {
		return nil, err
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]interfaces.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bar := interfaces.PriceBar{Date: time.Unix(ts, 0).UTC()}
		if i < len(quote.Open) {
			bar.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Close) {
			bar.Close = quote.Close[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// FetchDividends retrieves a year of dividend events via the chart endpoint.
func (yc *YahooClient) FetchDividends(ctx context.Context, symbol string) ([]interfaces.DividendPayment, error) {
	result, err := yc.fetchChart(ctx, symbol, "1y", true)
	if err != nil {
		return nil, err
	}

	payments := make([]interfaces.DividendPayment, 0, len(result.Events.Dividends))
	for _, d := range result.Events.Dividends {
		payments = append(payments, interfaces.DividendPayment{
			Date:   time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].Date.Before(payments[j].Date)
	})
	return payments, nil
}

func (yc *YahooClient) fetchChart(ctx context.Context, symbol, rng string, withDividends bool) (*chartResult, error) {
	url := fmt.Sprintf("/v8/finance/chart/%s?range=%s&interval=1d", symbol, rng)
	if withDividends {
		url += "&events=div"
	}

	resp, err := yc.client.GET(ctx, url, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}

	var parsed yahooChartResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}
	return &parsed.Chart.Result[0], nil
}

// statementBuilder accumulates line items keyed by report date and emits a
// RawStatement with date-sorted rows.
type statementBuilder struct {
	rows map[string]map[string]string
}

func newStatementBuilder() *statementBuilder {
	return &statementBuilder{rows: make(map[string]map[string]string)}
}

func (b *statementBuilder) set(date, label string, value float64) {
	if date == "" {
		return
	}
	row, ok := b.rows[date]
	if !ok {
		row = make(map[string]string)
		b.rows[date] = row
	}
	row[label] = strconv.FormatFloat(value, 'f', -1, 64)
}

func (b *statementBuilder) build() statement.RawStatement {
	dates := make([]string, 0, len(b.rows))
	for d := range b.rows {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out statement.RawStatement
	for _, d := range dates {
		out.Rows = append(out.Rows, statement.RawRow{Date: d, Items: b.rows[d]})
	}
	return out
}
