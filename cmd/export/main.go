package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"ratio-analyzer/internal/datasource"
	"ratio-analyzer/internal/export"
	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/logger"
	"ratio-analyzer/internal/ratio"
	"ratio-analyzer/internal/statement"
	"ratio-analyzer/internal/store"
	"ratio-analyzer/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	outDir := flag.String("out", "", "output directory (defaults to config output.dir)")
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	cfg, err := store.LoadConfig(*configPath)
	must(err)
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	symbols := flag.Args()
	if len(symbols) == 0 {
		symbols = cfg.Universe
	}

	ctx := context.Background()
	var src interfaces.MarketDataSource
	if cfg.Mode == "LIVE" {
		src = datasource.NewLiveDataSource(cfg)
	} else {
		src = datasource.NewMockDataSource()
	}

	opts := export.Options{Decimals: cfg.Output.Decimals, BOM: true}
	failures := 0
	for _, symbol := range symbols {
		if err := exportOne(ctx, cfg, src, symbol, opts); err != nil {
			logger.ErrorWithErr(ctx, "Export failed", err, "symbol", symbol)
			failures++
			continue
		}
	}

	logger.Info(ctx, "Export run finished",
		"symbols", len(symbols), "failures", failures, "dir", cfg.Output.Dir)
	if failures > 0 {
		os.Exit(1)
	}
}

func exportOne(ctx context.Context, cfg *store.Config, src interfaces.MarketDataSource, symbol string, opts export.Options) error {
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

	path := filepath.Join(cfg.Output.Dir, symbol+"_ratios.csv")
	if err := export.WriteTableFile(path, ratio.Combined(fam), opts); err != nil {
		return err
	}
	logger.Info(ctx, "Wrote ratio CSV", "symbol", symbol, "path", path)

	if !cfg.Market.Enabled {
		return nil
	}

	metrics, err := ratio.ComputeMarket(ctx, src, symbol, inc, bal)
	if err != nil {
		// Statement CSVs stand on their own when the quote provider fails.
		logger.Warn(ctx, "Market metrics unavailable", "symbol", symbol, "error", err)
		return nil
	}

	marketPath := filepath.Join(cfg.Output.Dir, symbol+"_market.csv")
	f, err := os.Create(marketPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteMarketMetrics(f, metrics, opts); err != nil {
		return err
	}
	logger.Info(ctx, "Wrote market CSV", "symbol", symbol, "path", marketPath)
	return nil
}
