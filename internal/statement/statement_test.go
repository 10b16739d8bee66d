package statement

import (
	"testing"
)

func row(date string, items map[string]string) RawRow {
	return RawRow{Date: date, Items: items}
}

func TestNormalizeEmpty(t *testing.T) {
	table := Normalize(RawStatement{})
	if !table.IsEmpty() {
		t.Fatal("expected empty table for empty statement")
	}
	if s := table.Get("Total Revenue"); !s.IsEmpty() {
		t.Error("expected empty series from empty table")
	}
}

func TestNormalizeDropsUnparseableDates(t *testing.T) {
	raw := RawStatement{Rows: []RawRow{
		row("not-a-date", map[string]string{"Total Revenue": "999"}),
		row("2023-09-30", map[string]string{"Total Revenue": "1200"}),
		row("", map[string]string{"Total Revenue": "888"}),
	}}
	table := Normalize(raw)
	years := table.Years()
	if len(years) != 1 || years[0] != 2023 {
		t.Fatalf("expected only year 2023, got %v", years)
	}
	if v, _ := table.Get("Total Revenue").Value(2023); v != 1200 {
		t.Errorf("expected 1200, got %f", v)
	}
}

func TestNormalizeDuplicateYearKeepsLaterDate(t *testing.T) {
	// A restated filing shares the fiscal year but carries a later date.
	raw := RawStatement{Rows: []RawRow{
		row("2023-12-31", map[string]string{"Total Revenue": "1250"}),
		row("2023-03-31", map[string]string{"Total Revenue": "1200"}),
	}}
	table := Normalize(raw)
	if got := table.Years(); len(got) != 1 || got[0] != 2023 {
		t.Fatalf("expected single year 2023, got %v", got)
	}
	if v, _ := table.Get("Total Revenue").Value(2023); v != 1250 {
		t.Errorf("later date should win: expected 1250, got %f", v)
	}
}

func TestNormalizeSortsAscending(t *testing.T) {
	raw := RawStatement{Rows: []RawRow{
		row("2023-09-30", map[string]string{"Net Income": "150"}),
		row("2021-09-30", map[string]string{"Net Income": "90"}),
		row("2022-09-30", map[string]string{"Net Income": "100"}),
	}}
	years := Normalize(raw).Years()
	want := []int{2021, 2022, 2023}
	for i, y := range want {
		if years[i] != y {
			t.Fatalf("expected %v, got %v", want, years)
		}
	}
}

func TestNormalizeIdempotentOnCleanInput(t *testing.T) {
	// Already-normalized input (unique years, valid dates, sorted) passes
	// through with identical years and values.
	raw := RawStatement{Rows: []RawRow{
		row("2022-09-30", map[string]string{"Total Revenue": "1000"}),
		row("2023-09-30", map[string]string{"Total Revenue": "1200"}),
	}}
	table := Normalize(raw)
	years := table.Years()
	if len(years) != 2 || years[0] != 2022 || years[1] != 2023 {
		t.Fatalf("unexpected years %v", years)
	}
	rev := table.Get("Total Revenue")
	if v, _ := rev.Value(2022); v != 1000 {
		t.Errorf("2022: expected 1000, got %f", v)
	}
	if v, _ := rev.Value(2023); v != 1200 {
		t.Errorf("2023: expected 1200, got %f", v)
	}
}

func TestGetDropsNonNumericValues(t *testing.T) {
	raw := RawStatement{Rows: []RawRow{
		row("2021-09-30", map[string]string{"Inventory": "abc"}),
		row("2022-09-30", map[string]string{"Inventory": "-"}),
		row("2023-09-30", map[string]string{"Inventory": "4,200.5"}),
	}}
	s := Normalize(raw).Get("Inventory")
	if s.Len() != 1 {
		t.Fatalf("expected 1 valid observation, got %d", s.Len())
	}
	if v, _ := s.Value(2023); v != 4200.5 {
		t.Errorf("expected 4200.5, got %f", v)
	}
}

func TestGetAbsentColumn(t *testing.T) {
	raw := RawStatement{Rows: []RawRow{
		row("2023-09-30", map[string]string{"Total Revenue": "1200"}),
	}}
	if s := Normalize(raw).Get("Gross Profit"); !s.IsEmpty() {
		t.Error("expected empty series for absent column")
	}
}

func TestGetAnyAliasFallback(t *testing.T) {
	raw := RawStatement{Rows: []RawRow{
		row("2023-09-30", map[string]string{"Net Receivables": "350"}),
	}}
	table := Normalize(raw)
	s := table.GetAny(ReceivablesAliases...)
	if s.IsEmpty() {
		t.Fatal("expected alias fallback to find Net Receivables")
	}
	if v, _ := s.Value(2023); v != 350 {
		t.Errorf("expected 350 unchanged through fallback, got %f", v)
	}
}

func TestGetAnyPrefersFirstAlias(t *testing.T) {
	raw := RawStatement{Rows: []RawRow{
		row("2023-09-30", map[string]string{
			"Accounts Receivable": "300",
			"Net Receivables":     "350",
		}),
	}}
	s := Normalize(raw).GetAny(ReceivablesAliases...)
	if v, _ := s.Value(2023); v != 300 {
		t.Errorf("first alias should win: expected 300, got %f", v)
	}
}
