package extract

import (
	"errors"
	"fmt"
	"time"

	"kabuscore/pkg/core/table"
)

// ErrDataUnavailable is returned when none of the tracked metrics could
// be extracted. It is the one fatal condition of record assembly:
// partial data degrades individual criterion scores instead.
var ErrDataUnavailable = errors.New("no financial data available")

// FinancialRecord is the assembled per-company data object. It is a
// value object: built once per analysis from a tokenized page snapshot
// and read-only afterwards.
type FinancialRecord struct {
	Code        string                 `json:"code"`
	CompanyName string                 `json:"company_name"`
	Metrics     map[Metric]table.Series `json:"metrics"`
	// Years are derived, not scraped: the trailing fiscal years ending
	// at the current year, aligned to the longest extracted series.
	Years []int `json:"years"`
}

// Series returns the extracted series for a metric (nil when the metric
// was unavailable).
func (r *FinancialRecord) Series(m Metric) table.Series {
	return r.Metrics[m]
}

// AssembleRecord extracts every tracked metric from the tokenized
// tables and aligns fiscal-year labels to the longest series. Ties go
// to the earliest metric in CanonicalOrder. When every metric comes
// back empty the record is not built and ErrDataUnavailable is
// returned, so callers can show a "no data" state instead of a
// misleadingly-scored record.
func AssembleRecord(tables []table.Table, companyName, code string, now time.Time, aliases map[Metric][]string) (*FinancialRecord, error) {
	if aliases == nil {
		aliases = DefaultAliases()
	}

	metrics := make(map[Metric]table.Series, len(CanonicalOrder))
	longest := 0
	for _, m := range CanonicalOrder {
		s := Extract(tables, aliases[m])
		metrics[m] = s
		if len(s) > longest {
			longest = len(s)
		}
	}

	if longest == 0 {
		return nil, fmt.Errorf("code %s: %w", code, ErrDataUnavailable)
	}

	if companyName == "" {
		companyName = PlaceholderName(code)
	}

	years := make([]int, longest)
	currentYear := now.Year()
	for i := range years {
		years[i] = currentYear - longest + 1 + i
	}

	return &FinancialRecord{
		Code:        code,
		CompanyName: companyName,
		Metrics:     metrics,
		Years:       years,
	}, nil
}

// PlaceholderName is the company-name fallback derived from the
// security code, matching the label IRBank users know.
func PlaceholderName(code string) string {
	return "銘柄" + code
}
