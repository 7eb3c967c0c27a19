package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"kabuscore/pkg/core/extract"
	"kabuscore/pkg/core/store"
)

// fakeFetcher serves a canned page per code.
type fakeFetcher struct {
	pages map[string]string
	err   error
}

func (f *fakeFetcher) FetchCompanyPage(ctx context.Context, code string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.pages[code], nil
}

// memHistory records appends in order.
type memHistory struct {
	entries []store.HistoryEntry
	err     error
}

func (m *memHistory) Append(ctx context.Context, e store.HistoryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memHistory) Recent(ctx context.Context, n int) ([]store.HistoryEntry, error) {
	out := make([]store.HistoryEntry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

const strongCompanyPage = `<html><body>
<h1>7203 好調工業</h1>
<table class="table_style">
<tr><td>売上高</td><td>100</td><td>110</td><td>120</td></tr>
<tr><td>EPS</td><td>10</td><td>12</td><td>14</td></tr>
<tr><td>営業CF</td><td>5</td><td>6</td><td>7</td></tr>
</table>
<table class="table_style">
<tr><td>ROE</td><td>8%</td><td>9%</td><td>10%</td></tr>
<tr><td>配当性向</td><td>30%</td><td>32%</td><td>35%</td></tr>
</table>
</body></html>`

func newTestOrchestrator(history store.HistoryStore, pages map[string]string) *Orchestrator {
	o := NewOrchestrator(history)
	o.SetFetcher(&fakeFetcher{pages: pages})
	o.SetClock(func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	})
	return o
}

func TestAnalyzeEndToEnd(t *testing.T) {
	hist := &memHistory{}
	o := newTestOrchestrator(hist, map[string]string{"7203": strongCompanyPage})

	result, err := o.Analyze(context.Background(), "7203")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.CompanyName != "好調工業" {
		t.Errorf("CompanyName = %q, want 好調工業", result.CompanyName)
	}
	// revenue 15 + eps 15 + operating CF 10 + ROE 10 + payout 10,
	// plus dividend's 10 for an absent series = 70.
	if result.Total != 70 {
		t.Errorf("Total = %d, want 70", result.Total)
	}
	if result.Breakdown[extract.MetricRevenue] != 15 {
		t.Errorf("revenue points = %d, want 15", result.Breakdown[extract.MetricRevenue])
	}
	if result.Breakdown[extract.MetricTotalAssets] != 0 {
		t.Errorf("total assets points = %d, want 0 (no data)", result.Breakdown[extract.MetricTotalAssets])
	}
	if got := result.Record.Years; len(got) != 3 || got[0] != 2024 || got[2] != 2026 {
		t.Errorf("Years = %v, want [2024 2025 2026]", got)
	}
	if result.Comment == "" {
		t.Error("Comment should not be empty")
	}

	if len(hist.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(hist.entries))
	}
	e := hist.entries[0]
	if e.Code != "7203" || e.Score != 70 || e.ID == "" {
		t.Errorf("unexpected history entry: %+v", e)
	}
	if !e.AnalyzedAt.Equal(result.AnalyzedAt) {
		t.Errorf("history timestamp %v != result timestamp %v", e.AnalyzedAt, result.AnalyzedAt)
	}
}

func TestAnalyzePlaceholderName(t *testing.T) {
	page := `<html><body><table class="table_style">
<tr><td>売上高</td><td>100</td><td>110</td></tr>
</table></body></html>`
	o := newTestOrchestrator(&memHistory{}, map[string]string{"9999": page})

	result, err := o.Analyze(context.Background(), "9999")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.CompanyName != "銘柄9999" {
		t.Errorf("CompanyName = %q, want 銘柄9999", result.CompanyName)
	}
}

func TestAnalyzeNoData(t *testing.T) {
	page := `<html><body><h1>1234 空社</h1><p>no tables here</p></body></html>`
	o := newTestOrchestrator(&memHistory{}, map[string]string{"1234": page})

	_, err := o.Analyze(context.Background(), "1234")
	if !errors.Is(err, extract.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestAnalyzeFetchError(t *testing.T) {
	o := NewOrchestrator(nil)
	fetchErr := errors.New("connection refused")
	o.SetFetcher(&fakeFetcher{err: fetchErr})

	_, err := o.Analyze(context.Background(), "7203")
	if !errors.Is(err, fetchErr) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestAnalyzeHistoryFailureIsNonFatal(t *testing.T) {
	hist := &memHistory{err: errors.New("disk full")}
	o := newTestOrchestrator(hist, map[string]string{"7203": strongCompanyPage})

	result, err := o.Analyze(context.Background(), "7203")
	if err != nil {
		t.Fatalf("Analyze should not fail on history error, got %v", err)
	}
	if result.Total != 70 {
		t.Errorf("Total = %d, want 70", result.Total)
	}
}
