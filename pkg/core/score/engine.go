package score

import (
	"kabuscore/pkg/core/extract"
	"kabuscore/pkg/core/table"
)

// Weights is the fixed point allocation per criterion. The nine
// criteria sum to 100; a criterion scores its full weight or zero,
// never partial credit.
var Weights = map[extract.Metric]int{
	extract.MetricRevenue:     15,
	extract.MetricEPS:         15,
	extract.MetricTotalAssets: 10,
	extract.MetricOperatingCF: 10,
	extract.MetricCash:        10,
	extract.MetricROE:         10,
	extract.MetricEquityRatio: 10,
	extract.MetricDividend:    10,
	extract.MetricPayoutRatio: 10,
}

// Pass thresholds.
const (
	minROE         = 7
	minEquityRatio = 50
	maxPayoutRatio = 40
)

// Breakdown maps each criterion to the points it was awarded.
type Breakdown map[extract.Metric]int

// Criterion describes one scored rule for presentation layers.
type Criterion struct {
	Metric    extract.Metric
	Label     string // display name (as printed on the source site)
	Condition string // human-readable pass condition
	Max       int
}

// Criteria lists the nine criteria in canonical order.
func Criteria() []Criterion {
	return []Criterion{
		{extract.MetricRevenue, "売上高", "右肩上がり", Weights[extract.MetricRevenue]},
		{extract.MetricEPS, "EPS", "右肩上がり", Weights[extract.MetricEPS]},
		{extract.MetricTotalAssets, "総資産", "増加傾向", Weights[extract.MetricTotalAssets]},
		{extract.MetricOperatingCF, "営業CF", "プラス&増加", Weights[extract.MetricOperatingCF]},
		{extract.MetricCash, "現金等", "積み上がり", Weights[extract.MetricCash]},
		{extract.MetricROE, "ROE", "7%以上", Weights[extract.MetricROE]},
		{extract.MetricEquityRatio, "自己資本比率", "50%以上", Weights[extract.MetricEquityRatio]},
		{extract.MetricDividend, "1株配当", "非減配", Weights[extract.MetricDividend]},
		{extract.MetricPayoutRatio, "配当性向", "40%以下", Weights[extract.MetricPayoutRatio]},
	}
}

// Score evaluates every criterion against the record and returns the
// total plus the per-criterion breakdown. Pure and deterministic: the
// same record always yields the same result, and criteria do not
// interact.
//
// A criterion whose series is entirely absent scores zero - except
// dividend, which passes vacuously under the NonDecreasing convention.
// That credit-without-evidence outcome is intentional; see DESIGN.md
// before changing it.
func Score(record *extract.FinancialRecord) (int, Breakdown) {
	breakdown := make(Breakdown, len(CanonicalMetrics()))

	for _, m := range CanonicalMetrics() {
		series := record.Series(m)
		if passes(m, series) {
			breakdown[m] = Weights[m]
		} else {
			breakdown[m] = 0
		}
	}

	total := 0
	for _, pts := range breakdown {
		total += pts
	}
	return total, breakdown
}

// CanonicalMetrics exposes the scoring order (the extract package's
// canonical metric order).
func CanonicalMetrics() []extract.Metric {
	return extract.CanonicalOrder
}

func passes(m extract.Metric, s table.Series) bool {
	// Empty series: no evidence. Dividend is the documented exception.
	if len(s.Present()) == 0 {
		return m == extract.MetricDividend
	}

	switch m {
	case extract.MetricRevenue, extract.MetricEPS, extract.MetricTotalAssets, extract.MetricCash:
		return StrictlyIncreasing(s)
	case extract.MetricOperatingCF:
		return AllAbove(s, 0) && StrictlyIncreasing(s)
	case extract.MetricROE:
		return AllAtLeast(s, minROE)
	case extract.MetricEquityRatio:
		return AllAtLeast(s, minEquityRatio)
	case extract.MetricDividend:
		return NonDecreasing(s)
	case extract.MetricPayoutRatio:
		return AllAtMost(s, maxPayoutRatio)
	}
	return false
}

// Comment returns the evaluation band for a total score, matching the
// bands shown to users.
func Comment(total int) string {
	switch {
	case total >= 80:
		return "優良企業。非常に高い投資価値が期待できます。"
	case total >= 60:
		return "良好な財務状態です。"
	case total >= 40:
		return "一部改善の余地があります。"
	default:
		return "慎重な判断が必要です。"
	}
}
