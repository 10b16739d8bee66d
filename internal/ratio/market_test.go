package ratio

import (
	"context"
	"errors"
	"testing"
	"time"

	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/statement"
)

type stubSource struct {
	quote     *interfaces.Quote
	quoteErr  error
	bars      []interfaces.PriceBar
	dividends []interfaces.DividendPayment
	divErr    error
}

func (s *stubSource) FetchStatements(ctx context.Context, symbol string) (*interfaces.StatementSet, error) {
	return nil, errors.New("not used")
}

func (s *stubSource) FetchQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	return s.quote, s.quoteErr
}

func (s *stubSource) FetchDailyBars(ctx context.Context, symbol string, days int) ([]interfaces.PriceBar, error) {
	return s.bars, nil
}

func (s *stubSource) FetchDividends(ctx context.Context, symbol string) ([]interfaces.DividendPayment, error) {
	return s.dividends, s.divErr
}

func metric(metrics []MarketMetric, name string) float64 {
	for _, m := range metrics {
		if m.Name == name {
			return m.Value
		}
	}
	return statement.Missing()
}

func marketBalance() statement.YearTable {
	return statement.Normalize(statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2023-09-30", Items: map[string]string{
			"Total Equity Gross Minority Interest": "1000",
			"Share Issued":                         "100",
		}},
	}})
}

func TestComputeMarketNegativeEPSHasNoPE(t *testing.T) {
	inc := statement.Normalize(statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2023-09-30", Items: map[string]string{"Basic EPS": "-2.0"}},
	}})
	src := &stubSource{quote: &interfaces.Quote{Symbol: "LOSS", LastPrice: 100}}
	metrics, err := ComputeMarket(context.Background(), src, "LOSS", inc, marketBalance())
	if err != nil {
		t.Fatal(err)
	}
	if v := metric(metrics, "P/E"); !statement.IsMissing(v) {
		t.Errorf("P/E must be missing for negative EPS, got %f", v)
	}
	if v := metric(metrics, "EPS (latest FY)"); v != -2.0 {
		t.Errorf("EPS itself still reported: expected -2.0, got %f", v)
	}
}

func TestComputeMarketPriceFallbackToBars(t *testing.T) {
	src := &stubSource{
		quote: &interfaces.Quote{Symbol: "X"},
		bars: []interfaces.PriceBar{
			{Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Close: 98},
			{Date: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), Close: 99},
		},
	}
	metrics, err := ComputeMarket(context.Background(), src, "X", statement.YearTable{}, marketBalance())
	if err != nil {
		t.Fatal(err)
	}
	if v := metric(metrics, "Price"); v != 99 {
		t.Errorf("expected last close 99, got %f", v)
	}
}

func TestComputeMarketCapFallback(t *testing.T) {
	src := &stubSource{quote: &interfaces.Quote{Symbol: "X", LastPrice: 50}}
	metrics, err := ComputeMarket(context.Background(), src, "X", statement.YearTable{}, marketBalance())
	if err != nil {
		t.Fatal(err)
	}
	if v := metric(metrics, "Market Cap"); v != 5000 {
		t.Errorf("expected price*shares = 5000, got %f", v)
	}
	if v := metric(metrics, "Book Value/Share"); v != 10 {
		t.Errorf("expected 1000/100 = 10, got %f", v)
	}
	if v := metric(metrics, "P/B"); v != 5 {
		t.Errorf("expected 50/10 = 5, got %f", v)
	}
}

func TestComputeMarketDividendYield(t *testing.T) {
	src := &stubSource{
		quote: &interfaces.Quote{Symbol: "X", LastPrice: 100},
		dividends: []interfaces.DividendPayment{
			{Amount: 0.25}, {Amount: 0.5}, {Amount: 0.5}, {Amount: 0.5}, {Amount: 1.0},
		},
	}
	metrics, err := ComputeMarket(context.Background(), src, "X", statement.YearTable{}, marketBalance())
	if err != nil {
		t.Fatal(err)
	}
	// Last four payments: 0.5+0.5+0.5+1.0 = 2.5.
	if v := metric(metrics, "Trailing 12m Dividends"); v != 2.5 {
		t.Errorf("expected 2.5, got %f", v)
	}
	if v := metric(metrics, "Dividend Yield"); v != 0.025 {
		t.Errorf("expected 0.025, got %f", v)
	}
}

func TestComputeMarketQuoteFailureIsError(t *testing.T) {
	src := &stubSource{quoteErr: errors.New("provider down")}
	_, err := ComputeMarket(context.Background(), src, "X", statement.YearTable{}, statement.YearTable{})
	if err == nil {
		t.Fatal("expected error to surface to caller as a note")
	}
}
