package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"kabuscore/pkg/api/analyze"
	"kabuscore/pkg/core/config"
	"kabuscore/pkg/core/market"
	"kabuscore/pkg/core/pipeline"
	"kabuscore/pkg/core/scrape"
	"kabuscore/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfgPath := os.Getenv("KABUSCORE_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/kabuscore.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[WARNING] Config load failed: %v. Using defaults.\n", err)
	}

	aliases, err := config.LoadAliases(cfg.AliasFile)
	if err != nil {
		fmt.Printf("[FATAL] Alias config invalid: %v\n", err)
		os.Exit(1)
	}

	// History backend: Postgres when DATABASE_URL is set, JSON file
	// otherwise.
	var history store.HistoryStore
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[FATAL] Database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		history = store.NewHistoryRepo()
		fmt.Println("[STORE] Using Postgres history backend")
	} else {
		path := filepath.Join(cfg.DataDir, "analysis_history.json")
		history = store.NewFileHistory(path)
		fmt.Printf("[STORE] Using file history backend (%s)\n", path)
	}

	orchestrator := pipeline.NewOrchestrator(history)
	orchestrator.SetAliases(aliases)
	orchestrator.SetFetcher(scrape.NewClientWith(cfg.Scrape.BaseURL, cfg.Scrape.Delay(), cfg.Scrape.Timeout()))

	analyze.InitHandler(orchestrator, history, market.NewClient())

	http.HandleFunc("/api/analyze", analyze.HandleAnalyze)
	http.HandleFunc("/api/history", analyze.HandleHistory)
	http.HandleFunc("/api/ranking", analyze.HandleRanking)
	http.HandleFunc("/api/timeframes", analyze.HandleTimeframes)

	fmt.Printf("API server starting on %s...\n", cfg.ListenAddr)
	fmt.Println("  - POST /api/analyze")
	fmt.Println("  - GET  /api/history")
	fmt.Println("  - GET  /api/ranking")
	fmt.Println("  - GET  /api/timeframes")

	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
