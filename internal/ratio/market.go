package ratio

import (
	"context"
	"encoding/json"
	"fmt"

	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/statement"
)

// MarketMetric is one named market-ratio value. NaN marks an unavailable
// metric and serializes as null.
type MarketMetric struct {
	Name  string
	Value float64
}

// MarshalJSON serializes missing values as null.
func (m MarketMetric) MarshalJSON() ([]byte, error) {
	out := struct {
		Name  string   `json:"name"`
		Value *float64 `json:"value"`
	}{Name: m.Name}
	if !statement.IsMissing(m.Value) {
		out.Value = &m.Value
	}
	return json.Marshal(out)
}

// ComputeMarket assembles the market-ratio block for a ticker from live
// quote, price history, dividends, and the latest statement values.
//
// This is a boundary component: a returned error means the whole block is
// unavailable and callers surface it as an informational note. It never
// aborts the statement-ratio families.
func ComputeMarket(ctx context.Context, src interfaces.MarketDataSource, symbol string, inc, bal statement.YearTable) ([]MarketMetric, error) {
	quote, err := src.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}

	price := orMissing(quote.LastPrice)
	if statement.IsMissing(price) {
		price = orMissing(quote.LastClose)
	}
	if statement.IsMissing(price) {
		bars, err := src.FetchDailyBars(ctx, symbol, 5)
		if err != nil {
			return nil, fmt.Errorf("fetch daily bars: %w", err)
		}
		for i := len(bars) - 1; i >= 0; i-- {
			if c := orMissing(bars[i].Close); !statement.IsMissing(c) {
				price = c
				break
			}
		}
	}

	shares := bal.GetAny(statement.SharesOutstandingAliases...)
	_, latestShares, sharesOK := shares.Last()

	marketCap := orMissing(quote.MarketCap)
	if statement.IsMissing(marketCap) && sharesOK {
		marketCap = clamp(price * latestShares)
	}

	eps := statement.Missing()
	if _, v, ok := inc.GetAny(statement.EPSAliases...).Last(); ok {
		eps = v
	}
	// Negative EPS means loss-making, not cheap: P/E is undefined for
	// zero or negative earnings, not just zero.
	pe := statement.Missing()
	if !statement.IsMissing(eps) && eps > 0 {
		pe = SafeRatio(price, eps)
	}

	bvps := statement.Missing()
	if _, equity, ok := bal.GetAny(statement.TotalEquityAliases...).Last(); ok && sharesOK {
		bvps = SafeRatio(equity, latestShares)
	}
	pb := statement.Missing()
	if !statement.IsMissing(bvps) && bvps != 0 {
		pb = SafeRatio(price, bvps)
	}

	dividends, err := src.FetchDividends(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch dividends: %w", err)
	}
	trailingDiv := statement.Missing()
	if len(dividends) > 0 {
		// Trailing twelve months approximated by the last four payments.
		start := len(dividends) - 4
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for _, d := range dividends[start:] {
			sum += d.Amount
		}
		trailingDiv = sum
	}
	divYield := SafeRatio(trailingDiv, price)

	return []MarketMetric{
		{Name: "Price", Value: price},
		{Name: "Market Cap", Value: marketCap},
		{Name: "EPS (latest FY)", Value: eps},
		{Name: "P/E", Value: pe},
		{Name: "Book Value/Share", Value: bvps},
		{Name: "P/B", Value: pb},
		{Name: "Trailing 12m Dividends", Value: trailingDiv},
		{Name: "Dividend Yield", Value: divYield},
	}, nil
}

// orMissing treats a provider zero as an absent field. Prices, caps, and
// closes are never legitimately zero.
func orMissing(v float64) float64 {
	if statement.IsMissing(v) || v == 0 {
		return statement.Missing()
	}
	return v
}
