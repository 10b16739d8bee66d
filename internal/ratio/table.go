package ratio

import (
	"encoding/json"

	"ratio-analyzer/internal/statement"
)

// Column is one named ratio over the table's shared year index. Values hold
// NaN for missing entries, never ±Inf.
type Column struct {
	Name   string
	Values []float64
}

// Table is a year-indexed table of named ratio columns. All columns are
// aligned to the same ascending, duplicate-free year index.
type Table struct {
	Years   []int
	Columns []Column
}

// Families holds the four ratio family tables for one ticker. All four share
// the same aligned year index.
type Families struct {
	Profitability Table
	Liquidity     Table
	Leverage      Table
	Efficiency    Table
}

// Column returns the named column, or nil when absent.
func (t Table) Column(name string) []float64 {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Values
		}
	}
	return nil
}

// Value returns the named column's value for a year, missing when either the
// column or the year is absent.
func (t Table) Value(name string, year int) float64 {
	vals := t.Column(name)
	if vals == nil {
		return statement.Missing()
	}
	for i, y := range t.Years {
		if y == year {
			return vals[i]
		}
	}
	return statement.Missing()
}

// ClampYears restricts the table to years within [from, to] inclusive.
func (t Table) ClampYears(from, to int) Table {
	var keep []int
	for i, y := range t.Years {
		if y >= from && y <= to {
			keep = append(keep, i)
		}
	}
	out := Table{Years: make([]int, len(keep))}
	for j, i := range keep {
		out.Years[j] = t.Years[i]
	}
	for _, c := range t.Columns {
		vals := make([]float64, len(keep))
		for j, i := range keep {
			vals[j] = c.Values[i]
		}
		out.Columns = append(out.Columns, Column{Name: c.Name, Values: vals})
	}
	return out
}

// jsonTable mirrors Table with nullable cells. encoding/json rejects NaN, so
// missing values serialize as null.
type jsonTable struct {
	Years   []int        `json:"years"`
	Columns []jsonColumn `json:"columns"`
}

type jsonColumn struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// MarshalJSON serializes missing values as null.
func (t Table) MarshalJSON() ([]byte, error) {
	out := jsonTable{Years: t.Years}
	if out.Years == nil {
		out.Years = []int{}
	}
	for _, c := range t.Columns {
		jc := jsonColumn{Name: c.Name, Values: make([]*float64, len(c.Values))}
		for i, v := range c.Values {
			if statement.IsMissing(v) {
				continue
			}
			v := v
			jc.Values[i] = &v
		}
		out.Columns = append(out.Columns, jc)
	}
	return json.Marshal(out)
}
