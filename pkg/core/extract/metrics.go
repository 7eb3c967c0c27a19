// Package extract locates named financial metrics inside tokenized
// IRBank tables and assembles them into a per-company record.
package extract

// Metric identifies one tracked financial line item.
type Metric string

const (
	MetricRevenue     Metric = "revenue"
	MetricEPS         Metric = "eps"
	MetricTotalAssets Metric = "total_assets"
	MetricOperatingCF Metric = "operating_cf"
	MetricCash        Metric = "cash"
	MetricROE         Metric = "roe"
	MetricEquityRatio Metric = "equity_ratio"
	MetricDividend    Metric = "dividend"
	MetricPayoutRatio Metric = "payout_ratio"
)

// CanonicalOrder is the fixed metric ordering used for year-alignment
// tie-breaks and report output.
var CanonicalOrder = []Metric{
	MetricRevenue,
	MetricEPS,
	MetricTotalAssets,
	MetricOperatingCF,
	MetricCash,
	MetricROE,
	MetricEquityRatio,
	MetricDividend,
	MetricPayoutRatio,
}

// DefaultAliases maps each metric to the label spellings it has appeared
// under across IRBank page revisions. Matching is substring containment
// against the row label; the order is the lookup preference order.
// These are defaults: callers may pass their own merged alias lists
// (see config.LoadAliases) so the extractor stays free of global state.
func DefaultAliases() map[Metric][]string {
	return map[Metric][]string{
		MetricRevenue:     {"売上高", "経常収益"},
		MetricEPS:         {"EPS"},
		MetricTotalAssets: {"総資産"},
		MetricOperatingCF: {"営業CF", "営業活動によるCF"},
		MetricCash:        {"現金等", "現金及び現金同等物"},
		MetricROE:         {"ROE", "自己資本利益率"},
		MetricEquityRatio: {"自己資本比率"},
		MetricDividend:    {"配当", "1株配当"},
		MetricPayoutRatio: {"配当性向"},
	}
}
