package statement

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawRow is one reporting period of a statement as delivered by a data
// provider: a date-like label and named line items with unparsed values.
type RawRow struct {
	Date  string            `json:"date"`
	Items map[string]string `json:"items"`
}

// RawStatement is a raw annual statement table. Row dates may be unparseable
// and values may be absent or non-numeric; Normalize sorts that out.
type RawStatement struct {
	Rows []RawRow `json:"rows"`
}

// IsEmpty reports whether the statement carries no rows.
func (r RawStatement) IsEmpty() bool {
	return len(r.Rows) == 0
}

// YearTable is a normalized statement: unique ascending fiscal years and
// numeric columns aligned to them, NaN where a cell is absent or failed
// numeric coercion.
type YearTable struct {
	years []int
	order []string
	cols  map[string][]float64
}

// Date layouts providers have been seen to use for the row index.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"1/2/2006",
	"2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber coerces a raw cell to a float. Empty cells, placeholder
// dashes, and anything else strconv rejects become missing.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "", "-", "--", "N/A", "n/a":
		return Missing()
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing()
	}
	return v
}

// Normalize converts a raw statement into a year-indexed table.
//
// Rows with unparseable dates are discarded entirely. Duplicate fiscal years
// (restated filings) collapse to the row with the chronologically later
// date. An empty or missing input yields an empty table, never an error.
func Normalize(raw RawStatement) YearTable {
	type dated struct {
		at  time.Time
		row RawRow
	}
	parsed := make([]dated, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		at, ok := parseDate(row.Date)
		if !ok {
			continue
		}
		parsed = append(parsed, dated{at: at, row: row})
	}
	if len(parsed) == 0 {
		return YearTable{}
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].at.Before(parsed[j].at)
	})

	// Ascending date order means the later filing wins for a repeated year.
	byYear := make(map[int]RawRow)
	var order []string
	seen := make(map[string]bool)
	for _, d := range parsed {
		byYear[d.at.Year()] = d.row
		for _, name := range sortedKeys(d.row.Items) {
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	cols := make(map[string][]float64, len(order))
	for _, name := range order {
		vals := make([]float64, len(years))
		for i, y := range years {
			raw, ok := byYear[y].Items[name]
			if !ok {
				vals[i] = Missing()
				continue
			}
			vals[i] = parseNumber(raw)
		}
		cols[name] = vals
	}

	return YearTable{years: years, order: order, cols: cols}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether the table has no years.
func (t YearTable) IsEmpty() bool {
	return len(t.years) == 0
}

// Years returns a copy of the ascending year index.
func (t YearTable) Years() []int {
	out := make([]int, len(t.years))
	copy(out, t.years)
	return out
}

// Columns returns the column names in first-appearance order.
func (t YearTable) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether the table carries a column of that name.
func (t YearTable) Has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

// Get extracts one line item as a Series. An empty table or an absent column
// yields an empty series; years whose cell failed numeric coercion are
// dropped so the result only holds valid observations.
func (t YearTable) Get(col string) Series {
	vals, ok := t.cols[col]
	if !ok {
		return Series{}
	}
	byYear := make(map[int]float64, len(t.years))
	for i, y := range t.years {
		if IsMissing(vals[i]) {
			continue
		}
		byYear[y] = vals[i]
	}
	return NewSeries(byYear)
}

// GetAny tries each candidate column in priority order and returns the first
// that yields a non-empty series. Providers label the same concept
// differently; the alias lists in aliases.go feed this.
func (t YearTable) GetAny(cols ...string) Series {
	for _, col := range cols {
		if s := t.Get(col); !s.IsEmpty() {
			return s
		}
	}
	return Series{}
}
