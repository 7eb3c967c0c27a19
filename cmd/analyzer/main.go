package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"kabuscore/pkg/core/config"
	"kabuscore/pkg/core/market"
	"kabuscore/pkg/core/pipeline"
	"kabuscore/pkg/core/scrape"
	"kabuscore/pkg/core/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	cfgPath := flag.String("config", "config/kabuscore.yaml", "path to config file")
	timeframe := flag.String("timeframe", market.DefaultTimeframe.Label, "chart timeframe label")
	noPrices := flag.Bool("no-prices", false, "skip price history fetch")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: analyzer [flags] <4-digit security code>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	code := flag.Arg(0)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}
	aliases, err := config.LoadAliases(cfg.AliasFile)
	if err != nil {
		log.Fatalf("Alias config invalid: %v", err)
	}

	history := store.NewFileHistory(filepath.Join(cfg.DataDir, "analysis_history.json"))

	orchestrator := pipeline.NewOrchestrator(history)
	orchestrator.SetAliases(aliases)
	orchestrator.SetFetcher(scrape.NewClientWith(cfg.Scrape.BaseURL, cfg.Scrape.Delay(), cfg.Scrape.Timeout()))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := orchestrator.Analyze(ctx, code)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	pipeline.PrintReport(result)

	if !*noPrices {
		tf := market.TimeframeByLabel(*timeframe)
		bars, err := market.NewClient().FetchHistory(ctx, code, tf)
		if err != nil {
			fmt.Printf("\n[PRICES] Fetch failed: %v\n", err)
		} else {
			stats := market.Stats(bars)
			fmt.Printf("\n--- 株価 (%s) ---\n", tf.Label)
			fmt.Printf("  現在値: %.1f (%+.1f / %+.2f%%)\n", stats.Current, stats.Change, stats.ChangePct)
			fmt.Printf("  期間高値: %.1f / 期間安値: %.1f\n", stats.PeriodHigh, stats.PeriodLow)
		}
	}
}
