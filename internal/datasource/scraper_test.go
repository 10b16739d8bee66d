package datasource

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const statementTableHTML = `
<table>
  <thead>
    <tr>
      <th>Fiscal Year</th>
      <th>2023-09-30</th>
      <th>2022-09-30</th>
    </tr>
  </thead>
  <tbody>
    <tr>
      <td>Total Revenue</td>
      <td>1,200</td>
      <td>1,000</td>
    </tr>
    <tr>
      <td>Net Income</td>
      <td>150</td>
      <td>100</td>
    </tr>
    <tr>
      <td>Interest Expense</td>
      <td>-55</td>
      <td>-</td>
    </tr>
  </tbody>
</table>`

func parseTable(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc.Find("table").First()
}

func TestParseStatementTable(t *testing.T) {
	raw, err := ParseStatementTable(parseTable(t, statementTableHTML))
	if err != nil {
		t.Fatal(err)
	}

	if len(raw.Rows) != 2 {
		t.Fatalf("expected one row per period, got %d", len(raw.Rows))
	}
	if raw.Rows[0].Date != "2023-09-30" {
		t.Errorf("first row date: got %q", raw.Rows[0].Date)
	}
	if got := raw.Rows[0].Items["Total Revenue"]; got != "1,200" {
		t.Errorf("Total Revenue 2023: got %q", got)
	}
	if got := raw.Rows[1].Items["Net Income"]; got != "100" {
		t.Errorf("Net Income 2022: got %q", got)
	}
	// Placeholder cells survive as-is; normalization turns them into gaps.
	if got := raw.Rows[1].Items["Interest Expense"]; got != "-" {
		t.Errorf("Interest Expense 2022: got %q", got)
	}
}

func TestParseStatementTableNoHeader(t *testing.T) {
	html := `<table><tbody><tr><td>Total Revenue</td><td>100</td></tr></tbody></table>`
	if _, err := ParseStatementTable(parseTable(t, html)); err == nil {
		t.Fatal("expected error for table without period header")
	}
}

func TestParseStatementTableSkipsEmptyLabels(t *testing.T) {
	html := `
<table>
  <thead><tr><th></th><th>2023-09-30</th></tr></thead>
  <tbody>
    <tr><td></td><td>999</td></tr>
    <tr><td>Total Assets</td><td>2,400</td></tr>
  </tbody>
</table>`
	raw, err := ParseStatementTable(parseTable(t, html))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(raw.Rows))
	}
	if len(raw.Rows[0].Items) != 1 {
		t.Errorf("unlabeled row must be dropped: %v", raw.Rows[0].Items)
	}
}
