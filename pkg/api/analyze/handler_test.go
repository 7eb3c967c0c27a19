package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kabuscore/pkg/core/pipeline"
	"kabuscore/pkg/core/store"
)

type pageFetcherFunc func(ctx context.Context, code string) (string, error)

func (f pageFetcherFunc) FetchCompanyPage(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}

type memHistory struct {
	entries []store.HistoryEntry
}

func (m *memHistory) Append(ctx context.Context, e store.HistoryEntry) error {
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

const testPage = `<html><body>
<h1>7203 試験商事</h1>
<table class="table_style">
<tr><td>売上高</td><td>100</td><td>110</td><td>120</td></tr>
<tr><td>配当性向</td><td>30%</td><td>32%</td><td>35%</td></tr>
</table>
</body></html>`

func setupHandlers(t *testing.T) *memHistory {
	t.Helper()
	hist := &memHistory{}
	o := pipeline.NewOrchestrator(hist)
	o.SetFetcher(pageFetcherFunc(func(ctx context.Context, code string) (string, error) {
		return testPage, nil
	}))
	InitHandler(o, hist, nil)
	return hist
}

func TestHandleAnalyze(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{"code":"7203"}`))
	rec := httptest.NewRecorder()
	HandleAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if resp.CompanyName != "試験商事" {
		t.Errorf("CompanyName = %q", resp.CompanyName)
	}
	// revenue 15 + payout 10 + dividend vacuous 10.
	if resp.Total != 35 {
		t.Errorf("Total = %d, want 35", resp.Total)
	}
	if resp.Prices != nil {
		t.Error("Prices should be nil when no market client is wired")
	}
}

func TestHandleAnalyzeRejectsBadCode(t *testing.T) {
	setupHandlers(t)

	for _, code := range []string{"", "72", "seven", "72030"} {
		req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{"code":"`+code+`"}`))
		rec := httptest.NewRecorder()
		HandleAnalyze(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code %q: status = %d, want 400", code, rec.Code)
		}
	}
}

func TestHandleAnalyzeCORSPreflight(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest("OPTIONS", "/api/analyze", nil)
	rec := httptest.NewRecorder()
	HandleAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}

func TestHandleHistory(t *testing.T) {
	hist := setupHandlers(t)
	now := time.Now()
	for i, code := range []string{"1111", "2222", "3333"} {
		hist.entries = append(hist.entries, store.HistoryEntry{
			ID: code, Code: code, Score: 50 + i, AnalyzedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}

	req := httptest.NewRequest("GET", "/api/history?limit=2", nil)
	rec := httptest.NewRecorder()
	HandleHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var entries []store.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Code != "3333" {
		t.Errorf("entries = %+v, want newest 2", entries)
	}
}

func TestHandleHistoryEmpty(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest("GET", "/api/history", nil)
	rec := httptest.NewRecorder()
	HandleHistory(rec, req)

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty history body = %q, want []", body)
	}
}

func TestHandleRanking(t *testing.T) {
	hist := setupHandlers(t)
	now := time.Now()
	hist.entries = []store.HistoryEntry{
		{ID: "a", Code: "1111", Score: 40, AnalyzedAt: now.Add(-2 * time.Hour)},
		{ID: "b", Code: "1111", Score: 70, AnalyzedAt: now.Add(-1 * time.Hour)},
		{ID: "c", Code: "2222", Score: 55, AnalyzedAt: now.Add(-30 * time.Minute)},
	}

	req := httptest.NewRequest("GET", "/api/ranking?top=5", nil)
	rec := httptest.NewRecorder()
	HandleRanking(rec, req)

	var ranking []store.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &ranking); err != nil {
		t.Fatal(err)
	}
	if len(ranking) != 2 {
		t.Fatalf("ranking size = %d, want 2 (one per code)", len(ranking))
	}
	if ranking[0].Code != "1111" || ranking[0].Score != 70 {
		t.Errorf("top entry = %+v, want latest 1111 at 70", ranking[0])
	}
}

func TestHandleTimeframes(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/timeframes", nil)
	rec := httptest.NewRecorder()
	HandleTimeframes(rec, req)

	var labels []string
	if err := json.Unmarshal(rec.Body.Bytes(), &labels); err != nil {
		t.Fatal(err)
	}
	if len(labels) != 8 || labels[0] != "5分足" {
		t.Errorf("labels = %v", labels)
	}
}
