package store

import (
	"context"
	"sort"
	"time"

	"kabuscore/pkg/core/score"
)

// MaxEntries is the retention bound of the history log: appends beyond
// it evict the oldest entries.
const MaxEntries = 100

// HistoryEntry is one persisted analysis result.
type HistoryEntry struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	CompanyName string          `json:"company_name"`
	Score       int             `json:"score"`
	Breakdown   score.Breakdown `json:"breakdown"`
	AnalyzedAt  time.Time       `json:"analyzed_at"`
}

// HistoryStore is the contract shared by the Postgres and file
// backends, and by test fakes.
type HistoryStore interface {
	// Append records an entry and trims the log to MaxEntries.
	Append(ctx context.Context, entry HistoryEntry) error
	// Recent returns up to n entries, newest first.
	Recent(ctx context.Context, n int) ([]HistoryEntry, error)
}

// MonthlyRanking builds the ranking view for the month containing ref:
// one entry per security (the most recent analysis), ordered by score
// descending, capped at top.
func MonthlyRanking(entries []HistoryEntry, ref time.Time, top int) []HistoryEntry {
	year, month := ref.Year(), ref.Month()

	latest := make(map[string]HistoryEntry)
	for _, e := range entries {
		if e.AnalyzedAt.Year() != year || e.AnalyzedAt.Month() != month {
			continue
		}
		if prev, ok := latest[e.Code]; !ok || e.AnalyzedAt.After(prev.AnalyzedAt) {
			latest[e.Code] = e
		}
	}

	ranked := make([]HistoryEntry, 0, len(latest))
	for _, e := range latest {
		ranked = append(ranked, e)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].AnalyzedAt.After(ranked[j].AnalyzedAt)
	})

	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}
