// Package analyze exposes the scoring pipeline over HTTP.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"kabuscore/pkg/core/extract"
	"kabuscore/pkg/core/market"
	"kabuscore/pkg/core/pipeline"
	"kabuscore/pkg/core/store"
)

var orchestrator *pipeline.Orchestrator
var history store.HistoryStore
var marketClient *market.Client

var codePattern = regexp.MustCompile(`^[0-9]{4}$`)

// InitHandler wires the shared pipeline and stores. mkt may be nil to
// disable price enrichment.
func InitHandler(o *pipeline.Orchestrator, h store.HistoryStore, mkt *market.Client) {
	orchestrator = o
	history = h
	marketClient = mkt
}

type AnalyzeRequest struct {
	Code      string `json:"code"`
	Timeframe string `json:"timeframe"`
}

type AnalyzeResponse struct {
	*pipeline.Result
	Prices    *market.PriceStats `json:"prices,omitempty"`
	Timeframe string             `json:"timeframe,omitempty"`
}

func corsPreamble(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleAnalyze runs the full analysis for one security code.
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if corsPreamble(w, r, "POST") {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !codePattern.MatchString(req.Code) {
		http.Error(w, fmt.Sprintf("invalid security code: %q (want 4 digits)", req.Code), http.StatusBadRequest)
		return
	}

	fmt.Printf("[ANALYZE] Request: %s (timeframe: %s)\n", req.Code, req.Timeframe)

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result, err := orchestrator.Analyze(ctx, req.Code)
	if err != nil {
		if errors.Is(err, extract.ErrDataUnavailable) {
			http.Error(w, fmt.Sprintf("no financial data for %s", req.Code), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("analysis failed: %v", err), http.StatusInternalServerError)
		return
	}

	resp := AnalyzeResponse{Result: result}
	if marketClient != nil {
		tf := market.TimeframeByLabel(req.Timeframe)
		bars, err := marketClient.FetchHistory(ctx, req.Code, tf)
		if err != nil {
			// Price data is enrichment; the score stands without it.
			fmt.Printf("[ANALYZE] Warning: price fetch failed for %s: %v\n", req.Code, err)
		} else {
			stats := market.Stats(bars)
			resp.Prices = &stats
			resp.Timeframe = tf.Label
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHistory returns the most recent analyses, newest first.
func HandleHistory(w http.ResponseWriter, r *http.Request) {
	if corsPreamble(w, r, "GET") {
		return
	}

	limit := store.MaxEntries
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, fmt.Sprintf("invalid limit: %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := history.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("history load failed: %v", err), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// HandleRanking returns this month's top-scored companies, one entry
// per code.
func HandleRanking(w http.ResponseWriter, r *http.Request) {
	if corsPreamble(w, r, "GET") {
		return
	}

	top := 10
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, fmt.Sprintf("invalid top: %q", v), http.StatusBadRequest)
			return
		}
		top = n
	}

	entries, err := history.Recent(r.Context(), store.MaxEntries)
	if err != nil {
		http.Error(w, fmt.Sprintf("history load failed: %v", err), http.StatusInternalServerError)
		return
	}

	ranking := store.MonthlyRanking(entries, time.Now(), top)
	if ranking == nil {
		ranking = []store.HistoryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ranking)
}

// HandleTimeframes lists the selectable chart timeframes.
func HandleTimeframes(w http.ResponseWriter, r *http.Request) {
	if corsPreamble(w, r, "GET") {
		return
	}

	labels := make([]string, len(market.Timeframes))
	for i, tf := range market.Timeframes {
		labels[i] = tf.Label
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(labels)
}
