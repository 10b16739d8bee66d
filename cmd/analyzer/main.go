package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"ratio-analyzer/internal/export"
	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/logger"
	"ratio-analyzer/internal/ratio"
	"ratio-analyzer/internal/statement"
	"ratio-analyzer/internal/store"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	writeCSV := flag.Bool("csv", false, "also write combined ratio CSVs to the output dir")
	fromYear := flag.Int("from", 0, "first fiscal year to report")
	toYear := flag.Int("to", math.MaxInt32, "last fiscal year to report")
	flag.Parse()

	must(initializeSystem())

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	symbols := flag.Args()
	if len(symbols) == 0 {
		symbols = cfg.Universe
	}

	ctx := context.Background()
	src := newDataSource(cfg)

	exitCode := 0
	for _, symbol := range symbols {
		if err := analyzeOne(ctx, cfg, src, symbol, *fromYear, *toYear, *writeCSV); err != nil {
			logger.ErrorWithErr(ctx, "Analysis failed", err, "symbol", symbol)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func analyzeOne(ctx context.Context, cfg *store.Config, src interfaces.MarketDataSource, symbol string, from, to int, writeCSV bool) error {
	set, err := src.FetchStatements(ctx, symbol)
	if err != nil {
		return err
	}

	inc := statement.Normalize(set.Income)
	bal := statement.Normalize(set.Balance)

	fam, err := ratio.Compute(inc, bal)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s ===\n", symbol)
	printTable("Profitability", fam.Profitability.ClampYears(from, to), cfg.Output.Decimals)
	printTable("Liquidity", fam.Liquidity.ClampYears(from, to), cfg.Output.Decimals)
	printTable("Leverage", fam.Leverage.ClampYears(from, to), cfg.Output.Decimals)
	printTable("Efficiency", fam.Efficiency.ClampYears(from, to), cfg.Output.Decimals)

	if cfg.Market.Enabled {
		metrics, marketErr := ratio.ComputeMarket(ctx, src, symbol, inc, bal)
		if marketErr != nil {
			// Market data is best-effort: the statement ratios above stand
			// on their own.
			fmt.Printf("\nMarket data unavailable: %v\n", marketErr)
		} else {
			printMarket(metrics, cfg.Output.Decimals)
		}
	}

	if writeCSV {
		path := filepath.Join(cfg.Output.Dir, symbol+"_ratios.csv")
		opts := export.Options{Decimals: cfg.Output.Decimals, BOM: true}
		if err := export.WriteTableFile(path, ratio.Combined(fam).ClampYears(from, to), opts); err != nil {
			return err
		}
		fmt.Printf("\nCSV written: %s\n", path)
	}
	return nil
}

func printTable(name string, table ratio.Table, decimals int) {
	if len(table.Years) == 0 {
		return
	}
	fmt.Printf("\n%s\n", name)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprint(w, "Year")
	for _, col := range table.Columns {
		fmt.Fprintf(w, "\t%s", col.Name)
	}
	fmt.Fprintln(w)

	for i, year := range table.Years {
		fmt.Fprint(w, strconv.Itoa(year))
		for _, col := range table.Columns {
			cell := export.FormatValue(col.Values[i], decimals)
			if cell == "" {
				cell = "-"
			}
			fmt.Fprintf(w, "\t%s", cell)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func printMarket(metrics []ratio.MarketMetric, decimals int) {
	fmt.Printf("\nMarket\n")
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, m := range metrics {
		var cell string
		switch m.Name {
		case "Market Cap":
			cell = export.FormatLargeValue(m.Value)
		case "Dividend Yield":
			cell = export.FormatPercent(m.Value, decimals)
		default:
			cell = export.FormatValue(m.Value, decimals)
		}
		if cell == "" {
			cell = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", m.Name, cell)
	}
	w.Flush()
}
