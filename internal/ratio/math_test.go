package ratio

import (
	"math"
	"testing"

	"ratio-analyzer/internal/statement"
)

func TestSafeRatioZeroDenominator(t *testing.T) {
	if v := SafeRatio(100, 0); !statement.IsMissing(v) {
		t.Errorf("expected missing for /0, got %f", v)
	}
}

func TestSafeRatioMissingOperands(t *testing.T) {
	if v := SafeRatio(statement.Missing(), 5); !statement.IsMissing(v) {
		t.Error("missing numerator must yield missing")
	}
	if v := SafeRatio(5, statement.Missing()); !statement.IsMissing(v) {
		t.Error("missing denominator must yield missing")
	}
}

func TestSafeRatioNeverInfinite(t *testing.T) {
	huge := math.MaxFloat64
	if v := SafeRatio(huge, 0.5); math.IsInf(v, 0) {
		t.Error("result clamped: no infinity may escape")
	}
}

func TestDivElementwise(t *testing.T) {
	n := statement.NewSeries(map[int]float64{2022: 100, 2023: 150})
	d := statement.NewSeries(map[int]float64{2022: 1000, 2023: 1200})
	q := Div(n, d)
	if v, _ := q.Value(2022); v != 0.1 {
		t.Errorf("expected 0.1, got %f", v)
	}
	if v, _ := q.Value(2023); v != 0.125 {
		t.Errorf("expected 0.125, got %f", v)
	}
}

func TestDivZeroAndMissingDenominator(t *testing.T) {
	n := statement.NewSeries(map[int]float64{2022: 100, 2023: 150})
	d := statement.NewSeries(map[int]float64{2022: 0})
	q := Div(n, d)
	if v, _ := q.Value(2022); !statement.IsMissing(v) {
		t.Error("zero denominator must be missing, not infinite")
	}
	if v, _ := q.Value(2023); !statement.IsMissing(v) {
		t.Error("denominator absent for year must be missing")
	}
}

func TestScalarDivBroadcast(t *testing.T) {
	turnover := statement.NewSeries(map[int]float64{2023: 10})
	days := ScalarDiv(365, turnover)
	if v, _ := days.Value(2023); v != 36.5 {
		t.Errorf("expected 36.5, got %f", v)
	}
}

func TestScalarDivZero(t *testing.T) {
	turnover := statement.NewSeries(map[int]float64{2023: 0})
	days := ScalarDiv(365, turnover)
	if v, _ := days.Value(2023); !statement.IsMissing(v) {
		t.Error("365/0 must be missing")
	}
}

func TestDivScalar(t *testing.T) {
	s := statement.NewSeries(map[int]float64{2023: 500})
	if v, _ := DivScalar(s, 2).Value(2023); v != 250 {
		t.Errorf("expected 250, got %f", v)
	}
	if v, _ := DivScalar(s, 0).Value(2023); !statement.IsMissing(v) {
		t.Error("series/0 must be missing")
	}
}
