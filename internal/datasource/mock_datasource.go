package datasource

import (
	"context"
	"time"

	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/statement"
)

// MockDataSource returns deterministic fixture data for offline runs and
// tests. Every symbol gets the same two-year statement set, including a
// restated duplicate for the latest fiscal year so normalization paths stay
// exercised.
type MockDataSource struct{}

// NewMockDataSource creates a mock data source.
func NewMockDataSource() *MockDataSource {
	return &MockDataSource{}
}

// FetchStatements returns the fixture statement set.
func (m *MockDataSource) FetchStatements(ctx context.Context, symbol string) (*interfaces.StatementSet, error) {
	income := statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2022-09-30", Items: map[string]string{
			"Total Revenue":    "1000",
			"Net Income":       "100",
			"EBIT":             "300",
			"Interest Expense": "-50",
			"Cost Of Revenue":  "600",
			"Gross Profit":     "400",
			"Basic EPS":        "1.00",
		}},
		// Preliminary filing, superseded by the restated row below.
		{Date: "2023-06-30", Items: map[string]string{
			"Total Revenue": "1150",
			"Net Income":    "140",
		}},
		{Date: "2023-09-30", Items: map[string]string{
			"Total Revenue":    "1200",
			"Net Income":       "150",
			"EBIT":             "330",
			"Interest Expense": "-55",
			"Cost Of Revenue":  "730",
			"Gross Profit":     "470",
			"Basic EPS":        "1.50",
		}},
	}}

	balance := statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2022-09-30", Items: map[string]string{
			"Current Assets":      "500",
			"Current Liabilities": "250",
			"Cash Cash Equivalents And Short Term Investments": "150",
			"Inventory":           "100",
			"Accounts Receivable": "120",
			"Accounts Payable":    "80",
			"Total Assets":        "2000",
			"Total Debt":          "600",
			"Total Equity Gross Minority Interest": "900",
			"Share Issued":                         "100",
		}},
		{Date: "2023-09-30", Items: map[string]string{
			"Current Assets":      "560",
			"Current Liabilities": "280",
			"Cash Cash Equivalents And Short Term Investments": "180",
			"Inventory":           "46",
			"Accounts Receivable": "130",
			"Accounts Payable":    "90",
			"Total Assets":        "2400",
			"Total Debt":          "650",
			"Total Equity Gross Minority Interest": "1000",
			"Share Issued":                         "100",
		}},
	}}

	cashflow := statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2022-09-30", Items: map[string]string{
			"Operating Cash Flow":  "180",
			"Investing Cash Flow":  "-90",
			"Financing Cash Flow":  "-40",
			"Capital Expenditure":  "-70",
			"Free Cash Flow":       "110",
		}},
		{Date: "2023-09-30", Items: map[string]string{
			"Operating Cash Flow":  "220",
			"Investing Cash Flow":  "-110",
			"Financing Cash Flow":  "-60",
			"Capital Expenditure":  "-80",
			"Free Cash Flow":       "140",
		}},
	}}

	return &interfaces.StatementSet{
		Symbol:   symbol,
		Income:   income,
		Balance:  balance,
		CashFlow: cashflow,
	}, nil
}

// FetchQuote returns a fixture quote.
func (m *MockDataSource) FetchQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	return &interfaces.Quote{
		Symbol:    symbol,
		LastPrice: 30,
		LastClose: 29.5,
		MarketCap: 3000,
	}, nil
}

// FetchDailyBars returns a short fixture bar series ending today.
func (m *MockDataSource) FetchDailyBars(ctx context.Context, symbol string, days int) ([]interfaces.PriceBar, error) {
	if days <= 0 || days > 5 {
		days = 5
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)

	bars := make([]interfaces.PriceBar, 0, days)
	for i := days - 1; i >= 0; i-- {
		close := 30 - float64(i)*0.5
		bars = append(bars, interfaces.PriceBar{
			Date:   end.AddDate(0, 0, -i),
			Open:   close - 0.2,
			High:   close + 0.3,
			Low:    close - 0.4,
			Close:  close,
			Volume: 1_000_000,
		})
	}
	return bars, nil
}

// FetchDividends returns four fixture quarterly payments.
func (m *MockDataSource) FetchDividends(ctx context.Context, symbol string) ([]interfaces.DividendPayment, error) {
	now := time.Now().UTC()
	return []interfaces.DividendPayment{
		{Date: now.AddDate(0, -11, 0), Amount: 0.20},
		{Date: now.AddDate(0, -8, 0), Amount: 0.20},
		{Date: now.AddDate(0, -5, 0), Amount: 0.22},
		{Date: now.AddDate(0, -2, 0), Amount: 0.22},
	}, nil
}
