package market

// PriceStats are the summary figures shown above the chart: latest
// close, change against the previous bar, and the period extremes.
type PriceStats struct {
	Current    float64 `json:"current"`
	Change     float64 `json:"change"`
	ChangePct  float64 `json:"change_pct"`
	PeriodHigh float64 `json:"period_high"`
	PeriodLow  float64 `json:"period_low"`
}

// Stats computes PriceStats over a bar series. Returns the zero value
// when the series is empty; change figures need at least two bars.
func Stats(bars []Bar) PriceStats {
	if len(bars) == 0 {
		return PriceStats{}
	}

	stats := PriceStats{
		Current:    bars[len(bars)-1].Close,
		PeriodHigh: bars[0].High,
		PeriodLow:  bars[0].Low,
	}
	for _, b := range bars {
		if b.High > stats.PeriodHigh {
			stats.PeriodHigh = b.High
		}
		if b.Low < stats.PeriodLow {
			stats.PeriodLow = b.Low
		}
	}

	if len(bars) >= 2 {
		prev := bars[len(bars)-2].Close
		stats.Change = stats.Current - prev
		if prev != 0 {
			stats.ChangePct = stats.Change / prev * 100
		}
	}
	return stats
}
