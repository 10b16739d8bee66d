package statement

// Alias chains for line items that appear under different labels across
// providers and filers. Order is priority order; GetAny takes the first
// non-empty match.
var (
	ReceivablesAliases = []string{
		"Accounts Receivable",
		"Net Receivables",
	}

	TotalEquityAliases = []string{
		"Total Equity Gross Minority Interest",
		"Total Equity",
		"Total Stockholder Equity",
	}

	SharesOutstandingAliases = []string{
		"Share Issued",
		"Ordinary Shares Number",
	}

	EPSAliases = []string{
		"Basic EPS",
		"Diluted EPS",
	}
)
