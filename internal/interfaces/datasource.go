package interfaces

import (
	"context"
	"time"

	"ratio-analyzer/internal/statement"
)

// MarketDataSource provides raw statements and market data for a ticker.
// Implementations must treat returned values as immutable snapshots: callers
// may hold them for the duration of a computation without copying.
type MarketDataSource interface {
	// FetchStatements retrieves the three annual statements for a symbol.
	FetchStatements(ctx context.Context, symbol string) (*StatementSet, error)

	// FetchQuote retrieves the live quote for a symbol.
	FetchQuote(ctx context.Context, symbol string) (*Quote, error)

	// FetchDailyBars retrieves recent daily price bars, oldest first.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]PriceBar, error)

	// FetchDividends retrieves the dividend payment history, oldest first.
	FetchDividends(ctx context.Context, symbol string) ([]DividendPayment, error)
}

// StatementSet bundles the three annual statements for one ticker. Cash flow
// is carried for display; ratio math only consumes income and balance.
type StatementSet struct {
	Symbol   string                  `json:"symbol"`
	Income   statement.RawStatement  `json:"income"`
	Balance  statement.RawStatement  `json:"balance"`
	CashFlow statement.RawStatement  `json:"cash_flow"`
}

// Quote is a point-in-time market snapshot. Zero or NaN fields mean the
// provider did not supply them.
type Quote struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"last_price"`
	LastClose float64 `json:"last_close"`
	MarketCap float64 `json:"market_cap"`
}

// PriceBar is one daily OHLCV bar.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// DividendPayment is one dividend payment event.
type DividendPayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}
