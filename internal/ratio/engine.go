package ratio

import (
	"errors"
	"sort"

	"ratio-analyzer/internal/statement"
)

// ErrInsufficientData is returned when both primary statements are empty.
// Ratio computation is not attempted in that case; every other data gap
// degrades to missing values instead of an error.
var ErrInsufficientData = errors.New("both income statement and balance sheet are empty")

// Income statement line items.
const (
	colTotalRevenue    = "Total Revenue"
	colNetIncome       = "Net Income"
	colEBIT            = "EBIT"
	colInterestExpense = "Interest Expense"
	colCostOfRevenue   = "Cost Of Revenue"
	colGrossProfit     = "Gross Profit"
)

// Balance sheet line items.
const (
	colCurrentAssets      = "Current Assets"
	colCurrentLiabilities = "Current Liabilities"
	colCashSTI            = "Cash Cash Equivalents And Short Term Investments"
	colInventory          = "Inventory"
	colAccountsPayable    = "Accounts Payable"
	colTotalAssets        = "Total Assets"
	colTotalDebt          = "Total Debt"
)

const daysPerYear = 365

// Compute derives the four ratio families from normalized income and balance
// statements. Missing line items yield all-missing ratio columns; the only
// hard failure is both statements being empty.
func Compute(inc, bal statement.YearTable) (*Families, error) {
	if inc.IsEmpty() && bal.IsEmpty() {
		return nil, ErrInsufficientData
	}

	// Income statement
	rev := inc.Get(colTotalRevenue)
	ni := inc.Get(colNetIncome)
	ebit := inc.Get(colEBIT)
	intExp := inc.Get(colInterestExpense)
	cogs := inc.Get(colCostOfRevenue)
	grossProfit := inc.Get(colGrossProfit)

	// Balance sheet
	curAssets := bal.Get(colCurrentAssets)
	curLiab := bal.Get(colCurrentLiabilities)
	cashSTI := bal.Get(colCashSTI)
	inventory := bal.Get(colInventory)
	receivables := bal.GetAny(statement.ReceivablesAliases...)
	payables := bal.Get(colAccountsPayable)
	totalAssets := bal.Get(colTotalAssets)
	totalDebt := bal.Get(colTotalDebt)
	totalEquity := bal.GetAny(statement.TotalEquityAliases...)

	// Aligned index: union across the anchor items only, so a line item that
	// is entirely absent leaves its ratios all-missing without shrinking the
	// index for everything else.
	years := yearUnion(rev, ni, ebit, curAssets, curLiab, totalAssets, totalEquity)
	if len(years) == 0 {
		return nil, ErrInsufficientData
	}

	align := func(s statement.Series) statement.Series { return s.Reindex(years) }
	rev, ni, ebit, intExp, cogs, grossProfit =
		align(rev), align(ni), align(ebit), align(intExp), align(cogs), align(grossProfit)
	curAssets, curLiab, cashSTI, inventory, receivables, payables, totalAssets, totalDebt, totalEquity =
		align(curAssets), align(curLiab), align(cashSTI), align(inventory), align(receivables),
		align(payables), align(totalAssets), align(totalDebt), align(totalEquity)

	// Average balances for ratios mixing flows with stocks.
	avgAssets := totalAssets.TwoPeriodAverage()
	avgInventory := inventory.TwoPeriodAverage()
	avgReceivables := receivables.TwoPeriodAverage()
	avgPayables := payables.TwoPeriodAverage()
	avgEquity := totalEquity.TwoPeriodAverage()

	profitability := Table{Years: years, Columns: []Column{
		{Name: "Gross Margin", Values: Div(grossProfit, rev).Values()},
		{Name: "EBIT Margin", Values: Div(ebit, rev).Values()},
		{Name: "Net Profit Margin", Values: Div(ni, rev).Values()},
		{Name: "ROA", Values: Div(ni, avgAssets).Values()},
		{Name: "ROE", Values: Div(ni, avgEquity).Values()},
		{Name: "Asset Turnover", Values: Div(rev, avgAssets).Values()},
	}}

	quickAssets := curAssets.Sub(inventory)
	liquidity := Table{Years: years, Columns: []Column{
		{Name: "Current Ratio", Values: Div(curAssets, curLiab).Values()},
		{Name: "Quick Ratio", Values: Div(quickAssets, curLiab).Values()},
		{Name: "Cash Ratio", Values: Div(cashSTI, curLiab).Values()},
		{Name: "Working Capital", Values: curAssets.Sub(curLiab).Values()},
	}}

	leverage := Table{Years: years, Columns: []Column{
		{Name: "Debt to Assets", Values: Div(totalDebt, totalAssets).Values()},
		{Name: "Debt to Equity", Values: Div(totalDebt, totalEquity).Values()},
		{Name: "Interest Coverage", Values: Div(ebit, intExp.Abs()).Values()},
	}}

	invTurnover := Div(cogs, avgInventory)
	recTurnover := Div(rev, avgReceivables)
	payTurnover := Div(cogs, avgPayables)
	dio := ScalarDiv(daysPerYear, invTurnover)
	dso := ScalarDiv(daysPerYear, recTurnover)
	dpo := ScalarDiv(daysPerYear, payTurnover)
	efficiency := Table{Years: years, Columns: []Column{
		{Name: "Inventory Turnover", Values: invTurnover.Values()},
		{Name: "Receivables Turnover", Values: recTurnover.Values()},
		{Name: "Payables Turnover", Values: payTurnover.Values()},
		{Name: "Days Inventory Outstanding", Values: dio.Values()},
		{Name: "Days Sales Outstanding", Values: dso.Values()},
		{Name: "Days Payables Outstanding", Values: dpo.Values()},
		{Name: "Cash Conversion Cycle", Values: dio.Add(dso).Sub(dpo).Values()},
	}}

	return &Families{
		Profitability: profitability,
		Liquidity:     liquidity,
		Leverage:      leverage,
		Efficiency:    efficiency,
	}, nil
}

func yearUnion(series ...statement.Series) []int {
	seen := make(map[int]bool)
	for _, s := range series {
		for _, y := range s.Years() {
			seen[y] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Combined flattens the four families into a single table with columns
// prefixed by family name, the shape the CSV export uses.
func Combined(f *Families) Table {
	out := Table{Years: f.Profitability.Years}
	add := func(prefix string, t Table) {
		for _, c := range t.Columns {
			out.Columns = append(out.Columns, Column{
				Name:   prefix + ": " + c.Name,
				Values: c.Values,
			})
		}
	}
	add("Profitability", f.Profitability)
	add("Liquidity", f.Liquidity)
	add("Leverage", f.Leverage)
	add("Efficiency", f.Efficiency)
	return out
}
