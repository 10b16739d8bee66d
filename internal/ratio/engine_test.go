package ratio

import (
	"errors"
	"math"
	"sort"
	"testing"

	"ratio-analyzer/internal/statement"
)

func incomeFixture() statement.YearTable {
	return statement.Normalize(statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2022-09-30", Items: map[string]string{
			"Total Revenue":    "1000",
			"Net Income":       "100",
			"EBIT":             "300",
			"Interest Expense": "-50",
			"Cost Of Revenue":  "600",
			"Gross Profit":     "400",
		}},
		{Date: "2023-09-30", Items: map[string]string{
			"Total Revenue":    "1200",
			"Net Income":       "150",
			"EBIT":             "330",
			"Interest Expense": "-55",
			"Cost Of Revenue":  "730",
			"Gross Profit":     "470",
		}},
	}})
}

func balanceFixture() statement.YearTable {
	return statement.Normalize(statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2022-09-30", Items: map[string]string{
			"Current Assets":      "500",
			"Current Liabilities": "250",
			"Inventory":           "100",
			"Accounts Receivable": "120",
			"Accounts Payable":    "80",
			"Total Assets":        "2000",
			"Total Debt":          "600",
			"Total Equity Gross Minority Interest": "900",
		}},
		{Date: "2023-09-30", Items: map[string]string{
			"Current Assets":      "560",
			"Current Liabilities": "280",
			"Inventory":           "46",
			"Accounts Receivable": "130",
			"Accounts Payable":    "90",
			"Total Assets":        "2400",
			"Total Debt":          "650",
			"Total Equity Gross Minority Interest": "1000",
		}},
	}})
}

func TestComputeBothEmpty(t *testing.T) {
	_, err := Compute(statement.YearTable{}, statement.YearTable{})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestComputeYearIndexSortedUnique(t *testing.T) {
	f, err := Compute(incomeFixture(), balanceFixture())
	if err != nil {
		t.Fatal(err)
	}
	for _, table := range []Table{f.Profitability, f.Liquidity, f.Leverage, f.Efficiency} {
		years := table.Years
		if !sort.IntsAreSorted(years) {
			t.Errorf("year index not sorted: %v", years)
		}
		seen := make(map[int]bool)
		for _, y := range years {
			if seen[y] {
				t.Errorf("duplicate year %d in index %v", y, years)
			}
			seen[y] = true
		}
	}
}

func TestComputeROAUsesAverageAssets(t *testing.T) {
	f, err := Compute(incomeFixture(), balanceFixture())
	if err != nil {
		t.Fatal(err)
	}
	// Average total assets 2023 = (2400+2000)/2 = 2200; ROA = 150/2200.
	got := f.Profitability.Value("ROA", 2023)
	want := 150.0 / 2200.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ROA 2023: expected %f, got %f", want, got)
	}
	if v := f.Profitability.Value("ROA", 2022); !statement.IsMissing(v) {
		t.Error("ROA for earliest year must be missing: no prior asset balance")
	}
}

func TestComputeLiquidityRatios(t *testing.T) {
	f, err := Compute(incomeFixture(), balanceFixture())
	if err != nil {
		t.Fatal(err)
	}
	if v := f.Liquidity.Value("Current Ratio", 2022); v != 2.0 {
		t.Errorf("Current Ratio: expected 2.0, got %f", v)
	}
	if v := f.Liquidity.Value("Quick Ratio", 2022); v != 1.6 {
		t.Errorf("Quick Ratio: expected (500-100)/250 = 1.6, got %f", v)
	}
	if v := f.Liquidity.Value("Working Capital", 2022); v != 250 {
		t.Errorf("Working Capital: expected 250, got %f", v)
	}
}

func TestComputeInterestCoverageUsesAbsoluteExpense(t *testing.T) {
	f, err := Compute(incomeFixture(), balanceFixture())
	if err != nil {
		t.Fatal(err)
	}
	// EBIT 300 over |−50| = 6.0, not −6.0.
	if v := f.Leverage.Value("Interest Coverage", 2022); v != 6.0 {
		t.Errorf("Interest Coverage: expected 6.0, got %f", v)
	}
}

func TestComputeEfficiencyTurnoverAndDays(t *testing.T) {
	f, err := Compute(incomeFixture(), balanceFixture())
	if err != nil {
		t.Fatal(err)
	}
	// Average inventory 2023 = (100+46)/2 = 73; turnover = 730/73 = 10.
	if v := f.Efficiency.Value("Inventory Turnover", 2023); v != 10 {
		t.Errorf("Inventory Turnover: expected 10, got %f", v)
	}
	if v := f.Efficiency.Value("Days Inventory Outstanding", 2023); v != 36.5 {
		t.Errorf("DIO: expected 36.5, got %f", v)
	}
	// Earliest year has no average balances, so the whole chain is missing.
	for _, name := range []string{"Inventory Turnover", "Days Inventory Outstanding", "Cash Conversion Cycle"} {
		if v := f.Efficiency.Value(name, 2022); !statement.IsMissing(v) {
			t.Errorf("%s 2022: expected missing, got %f", name, v)
		}
	}
}

func TestComputeCCCPropagatesMissing(t *testing.T) {
	// Drop inventory entirely: DIO missing for every year, so CCC missing too,
	// while DSO/DPO still compute.
	bal := statement.Normalize(statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2022-09-30", Items: map[string]string{
			"Current Assets":      "500",
			"Current Liabilities": "250",
			"Accounts Receivable": "120",
			"Accounts Payable":    "80",
			"Total Assets":        "2000",
			"Total Equity Gross Minority Interest": "900",
		}},
		{Date: "2023-09-30", Items: map[string]string{
			"Current Assets":      "560",
			"Current Liabilities": "280",
			"Accounts Receivable": "130",
			"Accounts Payable":    "90",
			"Total Assets":        "2400",
			"Total Equity Gross Minority Interest": "1000",
		}},
	}})
	f, err := Compute(incomeFixture(), bal)
	if err != nil {
		t.Fatal(err)
	}
	if v := f.Efficiency.Value("Days Sales Outstanding", 2023); statement.IsMissing(v) {
		t.Error("DSO should still compute without inventory")
	}
	if v := f.Efficiency.Value("Cash Conversion Cycle", 2023); !statement.IsMissing(v) {
		t.Errorf("CCC must be missing when DIO is missing, got %f", v)
	}
}

func TestComputeAbsentDebtColumnDegrades(t *testing.T) {
	// No Total Debt column at all: leverage debt columns exist but are
	// all-missing, and the year index is unaffected.
	bal := statement.Normalize(statement.RawStatement{Rows: []statement.RawRow{
		{Date: "2022-09-30", Items: map[string]string{
			"Total Assets": "2000",
			"Total Equity Gross Minority Interest": "900",
		}},
		{Date: "2023-09-30", Items: map[string]string{
			"Total Assets": "2400",
			"Total Equity Gross Minority Interest": "1000",
		}},
	}})
	f, err := Compute(incomeFixture(), bal)
	if err != nil {
		t.Fatal(err)
	}
	if f.Leverage.Column("Debt to Assets") == nil {
		t.Fatal("Debt to Assets column must exist even when all-missing")
	}
	for _, y := range f.Leverage.Years {
		if v := f.Leverage.Value("Debt to Assets", y); !statement.IsMissing(v) {
			t.Errorf("Debt to Assets %d: expected missing, got %f", y, v)
		}
	}
	if len(f.Leverage.Years) != 2 {
		t.Errorf("index must not shrink for a missing non-anchor item: %v", f.Leverage.Years)
	}
}

func TestComputeIncomeOnly(t *testing.T) {
	f, err := Compute(incomeFixture(), statement.YearTable{})
	if err != nil {
		t.Fatal(err)
	}
	if v := f.Profitability.Value("Net Profit Margin", 2023); v != 0.125 {
		t.Errorf("margin should compute from income alone, got %f", v)
	}
	if v := f.Liquidity.Value("Current Ratio", 2023); !statement.IsMissing(v) {
		t.Error("balance-sheet ratios must degrade to missing")
	}
}

func TestCombinedPrefixesFamilies(t *testing.T) {
	f, err := Compute(incomeFixture(), balanceFixture())
	if err != nil {
		t.Fatal(err)
	}
	combined := Combined(f)
	if combined.Column("Profitability: ROA") == nil {
		t.Error("expected family-prefixed ROA column")
	}
	if combined.Column("Efficiency: Cash Conversion Cycle") == nil {
		t.Error("expected family-prefixed CCC column")
	}
	wantCols := 6 + 4 + 3 + 7
	if len(combined.Columns) != wantCols {
		t.Errorf("expected %d combined columns, got %d", wantCols, len(combined.Columns))
	}
}
