package ratio

import (
	"math"

	"ratio-analyzer/internal/statement"
)

// Safe division helpers. Post-condition for all of them: the result never
// contains ±Inf. A zero or missing denominator yields a missing value, so
// downstream tables and exports never see infinities.

// SafeRatio divides two scalars, returning missing for a zero or missing
// denominator and clamping any non-finite result.
func SafeRatio(n, d float64) float64 {
	if statement.IsMissing(n) || statement.IsMissing(d) || d == 0 {
		return statement.Missing()
	}
	return clamp(n / d)
}

// Div divides two series elementwise over the numerator's year index.
func Div(n, d statement.Series) statement.Series {
	out := make(map[int]float64, n.Len())
	for _, y := range n.Years() {
		nv, _ := n.Value(y)
		dv, ok := d.Value(y)
		if !ok {
			out[y] = statement.Missing()
			continue
		}
		out[y] = SafeRatio(nv, dv)
	}
	return statement.NewSeries(out)
}

// DivScalar divides a series by a scalar denominator.
func DivScalar(n statement.Series, d float64) statement.Series {
	out := make(map[int]float64, n.Len())
	for _, y := range n.Years() {
		nv, _ := n.Value(y)
		out[y] = SafeRatio(nv, d)
	}
	return statement.NewSeries(out)
}

// ScalarDiv broadcasts a scalar numerator over the denominator's year index.
func ScalarDiv(n float64, d statement.Series) statement.Series {
	out := make(map[int]float64, d.Len())
	for _, y := range d.Years() {
		dv, _ := d.Value(y)
		out[y] = SafeRatio(n, dv)
	}
	return statement.NewSeries(out)
}

func clamp(v float64) float64 {
	if math.IsInf(v, 0) {
		return statement.Missing()
	}
	return v
}
