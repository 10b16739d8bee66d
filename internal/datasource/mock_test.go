package datasource

import (
	"context"
	"testing"

	"ratio-analyzer/internal/statement"
)

func TestMockStatementsNormalize(t *testing.T) {
	src := NewMockDataSource()
	set, err := src.FetchStatements(context.Background(), "DEMO")
	if err != nil {
		t.Fatal(err)
	}

	income := statement.Normalize(set.Income)
	years := income.Years()
	if len(years) != 2 {
		t.Fatalf("preliminary and restated 2023 rows must collapse to one year: %v", years)
	}

	// The later filing date wins for the duplicated fiscal year.
	rev, _ := income.Get("Total Revenue").Value(2023)
	if rev != 1200 {
		t.Errorf("restated revenue must win: got %f", rev)
	}
}

func TestMockDividendsCoverTrailingYear(t *testing.T) {
	src := NewMockDataSource()
	payments, err := src.FetchDividends(context.Background(), "DEMO")
	if err != nil {
		t.Fatal(err)
	}
	if len(payments) != 4 {
		t.Fatalf("expected 4 quarterly payments, got %d", len(payments))
	}
	for i := 1; i < len(payments); i++ {
		if !payments[i-1].Date.Before(payments[i].Date) {
			t.Error("payments must be in ascending date order")
		}
	}
}
