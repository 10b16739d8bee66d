package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ratio-analyzer/internal/datasource"
	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/logger"
	"ratio-analyzer/internal/store"
	"ratio-analyzer/internal/trace"
	"ratio-analyzer/internal/web"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	var src interfaces.MarketDataSource
	if cfg.Mode == "LIVE" {
		src = datasource.NewLiveDataSource(cfg)
	} else {
		src = datasource.NewMockDataSource()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting ratio analyzer server", "mode", cfg.Mode, "addr", cfg.Server.Addr)
	srv := web.NewServer(cfg, src)
	must(srv.Start(ctx))
}
