package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kabuscore/pkg/core/extract"
	"kabuscore/pkg/core/scrape"
	"kabuscore/pkg/core/score"
	"kabuscore/pkg/core/store"
	"kabuscore/pkg/core/table"
)

// PageFetcher retrieves the raw IRBank company page HTML.
// Implementations may fetch from:
// - Live irbank.net (rate-limited HTTP client)
// - A recorded fixture, for tests
type PageFetcher interface {
	FetchCompanyPage(ctx context.Context, code string) (string, error)
}

// Result is the outcome of analyzing one company.
type Result struct {
	Code        string                  `json:"code"`
	CompanyName string                  `json:"company_name"`
	Record      *extract.FinancialRecord `json:"record"`
	Total       int                     `json:"total"`
	Breakdown   score.Breakdown         `json:"breakdown"`
	Comment     string                  `json:"comment"`
	AnalyzedAt  time.Time               `json:"analyzed_at"`
}

// Orchestrator manages the end-to-end flow:
// fetch page -> tokenize tables -> assemble record -> score -> persist.
type Orchestrator struct {
	fetcher PageFetcher
	aliases map[extract.Metric][]string
	history store.HistoryStore
	now     func() time.Time
}

// NewOrchestrator creates an orchestrator with the default live fetcher
// and alias table. history may be nil; results are then not persisted.
func NewOrchestrator(history store.HistoryStore) *Orchestrator {
	return &Orchestrator{
		fetcher: scrape.NewClient(),
		aliases: extract.DefaultAliases(),
		history: history,
		now:     time.Now,
	}
}

// SetFetcher allows injecting a custom page source (e.g., for testing).
func (o *Orchestrator) SetFetcher(f PageFetcher) {
	o.fetcher = f
}

// SetAliases replaces the metric alias table (see config.LoadAliases).
func (o *Orchestrator) SetAliases(aliases map[extract.Metric][]string) {
	o.aliases = aliases
}

// SetHistory allows injecting a custom history store (e.g., for testing).
func (o *Orchestrator) SetHistory(h store.HistoryStore) {
	o.history = h
}

// SetClock overrides the time source so tests get stable years and IDs.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// Analyze runs the full pipeline for a single company code.
// A history append failure does not fail the analysis: the result is
// already computed and still useful, so it is logged and returned.
func (o *Orchestrator) Analyze(ctx context.Context, code string) (*Result, error) {
	fmt.Printf("[PIPELINE] Starting analysis for %s...\n", code)
	start := o.now()

	html, err := o.fetcher.FetchCompanyPage(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page for %s: %w", code, err)
	}

	tables, err := scrape.TokenizeTables(html)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize page for %s: %w", code, err)
	}
	fmt.Printf("[PIPELINE] Tokenized %d financial tables for %s\n", len(tables), code)

	name := scrape.ExtractCompanyName(html)
	record, err := extract.AssembleRecord(tables, name, code, start, o.aliases)
	if err != nil {
		return nil, fmt.Errorf("assembly failed for %s: %w", code, err)
	}

	total, breakdown := score.Score(record)
	fmt.Printf("[PIPELINE] %s (%s) scored %d/100\n", record.CompanyName, code, total)

	result := &Result{
		Code:        code,
		CompanyName: record.CompanyName,
		Record:      record,
		Total:       total,
		Breakdown:   breakdown,
		Comment:     score.Comment(total),
		AnalyzedAt:  start,
	}

	if o.history != nil {
		entry := store.HistoryEntry{
			ID:          uuid.NewString(),
			Code:        code,
			CompanyName: record.CompanyName,
			Score:       total,
			Breakdown:   breakdown,
			AnalyzedAt:  start,
		}
		if err := o.history.Append(ctx, entry); err != nil {
			fmt.Printf("[PIPELINE] Warning: failed to record history for %s: %v\n", code, err)
		}
	}

	fmt.Printf("[PIPELINE] Analysis completed for %s in %v\n", code, time.Since(start))
	return result, nil
}

// PrintReport writes a sectioned plain-text report for a result, one
// block per metric series plus the score breakdown.
func PrintReport(r *Result) {
	fmt.Printf("\n===== %s (%s) =====\n", r.CompanyName, r.Code)
	fmt.Printf("Years: %v\n\n", r.Record.Years)

	for _, c := range score.Criteria() {
		series := r.Record.Series(c.Metric)
		fmt.Printf("--- %s ---\n", c.Label)
		fmt.Printf("  values: %s\n", formatSeries(series, r.Record.Years))
		fmt.Printf("  %s: %d/%d\n", c.Condition, r.Breakdown[c.Metric], c.Max)
	}

	fmt.Printf("\nTotal: %d/100\n", r.Total)
	fmt.Printf("%s\n", r.Comment)
}

func formatSeries(s table.Series, years []int) string {
	if len(s) == 0 {
		return "(no data)"
	}
	out := ""
	// Series is right-aligned against the year axis.
	offset := len(years) - len(s)
	for i, v := range s {
		if i > 0 {
			out += "  "
		}
		year := 0
		if offset+i >= 0 && offset+i < len(years) {
			year = years[offset+i]
		}
		if v == nil {
			out += fmt.Sprintf("%d: -", year)
		} else {
			out += fmt.Sprintf("%d: %g", year, *v)
		}
	}
	return out
}
