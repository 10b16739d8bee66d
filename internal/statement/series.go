package statement

import (
	"math"
	"sort"
)

// Series is one financial line item indexed by fiscal year. Years are unique
// and ascending. math.NaN() marks a missing value; downstream arithmetic
// propagates it the way the ta helpers do for indicators.
type Series struct {
	years  []int
	values []float64
}

// IsMissing reports whether a value represents a missing observation.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing returns the canonical missing value.
func Missing() float64 {
	return math.NaN()
}

// NewSeries builds a Series from a year->value map. Years are sorted
// ascending; duplicate years cannot occur in a map by construction.
func NewSeries(byYear map[int]float64) Series {
	if len(byYear) == 0 {
		return Series{}
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	values := make([]float64, len(years))
	for i, y := range years {
		values[i] = byYear[y]
	}
	return Series{years: years, values: values}
}

// IsEmpty reports whether the series has no observations at all.
func (s Series) IsEmpty() bool {
	return len(s.years) == 0
}

// Len returns the number of indexed years, including missing entries.
func (s Series) Len() int {
	return len(s.years)
}

// Years returns a copy of the year index.
func (s Series) Years() []int {
	out := make([]int, len(s.years))
	copy(out, s.years)
	return out
}

// Values returns a copy of the values aligned with Years().
func (s Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Value returns the value for a year. ok is false when the year is not in
// the index; a year that is indexed but missing returns (NaN, true).
func (s Series) Value(year int) (float64, bool) {
	i := sort.SearchInts(s.years, year)
	if i < len(s.years) && s.years[i] == year {
		return s.values[i], true
	}
	return Missing(), false
}

// Reindex aligns the series onto the given year index. Years absent from the
// series become missing; years dropped from the index are discarded.
func (s Series) Reindex(years []int) Series {
	out := Series{
		years:  make([]int, len(years)),
		values: make([]float64, len(years)),
	}
	copy(out.years, years)
	for i, y := range years {
		if v, ok := s.Value(y); ok {
			out.values[i] = v
		} else {
			out.values[i] = Missing()
		}
	}
	return out
}

// Add returns the elementwise sum over the receiver's index. A year the other
// series lacks yields a missing value.
func (s Series) Add(other Series) Series {
	return s.combine(other, func(a, b float64) float64 { return a + b })
}

// Sub returns the elementwise difference over the receiver's index.
func (s Series) Sub(other Series) Series {
	return s.combine(other, func(a, b float64) float64 { return a - b })
}

func (s Series) combine(other Series, op func(a, b float64) float64) Series {
	out := Series{
		years:  make([]int, len(s.years)),
		values: make([]float64, len(s.years)),
	}
	copy(out.years, s.years)
	for i, y := range s.years {
		b, ok := other.Value(y)
		if !ok {
			out.values[i] = Missing()
			continue
		}
		out.values[i] = op(s.values[i], b)
	}
	return out
}

// Abs returns the series with every value replaced by its absolute value.
// Interest expense is commonly reported negative.
func (s Series) Abs() Series {
	out := Series{
		years:  make([]int, len(s.years)),
		values: make([]float64, len(s.values)),
	}
	copy(out.years, s.years)
	for i, v := range s.values {
		out.values[i] = math.Abs(v)
	}
	return out
}

// TwoPeriodAverage returns the mean of each year's value and the prior
// year's value, modelling "average balance" conventions. The earliest year
// is always missing: there is no prior period to average against.
func (s Series) TwoPeriodAverage() Series {
	out := Series{
		years:  make([]int, len(s.years)),
		values: make([]float64, len(s.values)),
	}
	copy(out.years, s.years)
	for i := range s.values {
		if i == 0 {
			out.values[i] = Missing()
			continue
		}
		out.values[i] = (s.values[i] + s.values[i-1]) / 2.0
	}
	return out
}

// Last returns the latest year carrying a non-missing value.
func (s Series) Last() (year int, value float64, ok bool) {
	for i := len(s.values) - 1; i >= 0; i-- {
		if !IsMissing(s.values[i]) {
			return s.years[i], s.values[i], true
		}
	}
	return 0, Missing(), false
}
