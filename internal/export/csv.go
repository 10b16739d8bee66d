package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"ratio-analyzer/internal/ratio"
)

// utf8BOM makes Excel open the file as UTF-8 instead of the locale codepage.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls CSV rendering.
type Options struct {
	Decimals int
	BOM      bool
}

// WriteTable writes a ratio table as CSV: a leading Year column, then one
// column per ratio, one row per fiscal year in ascending order.
func WriteTable(w io.Writer, table ratio.Table, opts Options) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := make([]string, 0, len(table.Columns)+1)
	header = append(header, "Year")
	for _, col := range table.Columns {
		header = append(header, col.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, year := range table.Years {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(year))
		for _, col := range table.Columns {
			rec = append(rec, FormatValue(col.Values[i], opts.Decimals))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTableFile writes a ratio table to a CSV file, creating parent
// directories as needed.
func WriteTableFile(path string, table ratio.Table, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if opts.BOM {
		if _, err := f.Write(utf8BOM); err != nil {
			return err
		}
	}
	if err := WriteTable(f, table, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteMarketMetrics writes scalar market metrics as two-column CSV.
func WriteMarketMetrics(w io.Writer, metrics []ratio.MarketMetric, opts Options) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	for _, m := range metrics {
		var cell string
		switch m.Name {
		case "Market Cap":
			cell = FormatLargeValue(m.Value)
		case "Dividend Yield":
			cell = FormatPercent(m.Value, opts.Decimals)
		default:
			cell = FormatValue(m.Value, opts.Decimals)
		}
		if err := cw.Write([]string{m.Name, cell}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
