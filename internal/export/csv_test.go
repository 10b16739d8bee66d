package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ratio-analyzer/internal/ratio"
)

func sampleTable() ratio.Table {
	return ratio.Table{
		Years: []int{2022, 2023},
		Columns: []ratio.Column{
			{Name: "ROA", Values: []float64{math.NaN(), 0.068181}},
			{Name: "Current Ratio", Values: []float64{2, 2}},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleTable(), Options{Decimals: 2}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Year,ROA,Current Ratio" {
		t.Errorf("header: got %q", lines[0])
	}
	// Missing ROA in 2022 renders as an empty cell, not 0.
	if lines[1] != "2022,,2.00" {
		t.Errorf("2022 row: got %q", lines[1])
	}
	if lines[2] != "2023,0.07,2.00" {
		t.Errorf("2023 row: got %q", lines[2])
	}
}

func TestWriteTableFileWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ratios.csv")
	if err := WriteTableFile(path, sampleTable(), Options{Decimals: 2, BOM: true}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Error("expected UTF-8 BOM prefix")
	}
	if !bytes.Contains(data, []byte("Year,ROA")) {
		t.Error("expected header after BOM")
	}
}

func TestWriteMarketMetrics(t *testing.T) {
	metrics := []ratio.MarketMetric{
		{Name: "Price", Value: 189.95},
		{Name: "Market Cap", Value: 2950000000000},
		{Name: "P/E", Value: math.NaN()},
		{Name: "Dividend Yield", Value: 0.025},
	}

	var buf bytes.Buffer
	if err := WriteMarketMetrics(&buf, metrics, Options{Decimals: 2}); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	if !strings.Contains(got, "Price,189.95") {
		t.Errorf("price row missing: %q", got)
	}
	if !strings.Contains(got, `Market Cap,"2,950,000,000,000"`) {
		t.Errorf("market cap grouping missing: %q", got)
	}
	if !strings.Contains(got, "P/E,\n") {
		t.Errorf("missing P/E must be an empty cell: %q", got)
	}
	if !strings.Contains(got, "Dividend Yield,2.50%") {
		t.Errorf("yield percent missing: %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(math.NaN(), 2); got != "" {
		t.Errorf("missing must be blank, got %q", got)
	}
	if got := FormatValue(1.005, 2); got != "1.00" && got != "1.01" {
		t.Errorf("unexpected rounding: %q", got)
	}
	if got := FormatValue(-0.5, 3); got != "-0.500" {
		t.Errorf("got %q", got)
	}
}

func TestFormatLargeValue(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		if got := FormatLargeValue(in); got != want {
			t.Errorf("FormatLargeValue(%f): got %q, want %q", in, got, want)
		}
	}
}
