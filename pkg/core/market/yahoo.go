// Package market fetches OHLC price history for the charting and
// summary-statistics layer. The scoring core never reads price data;
// this is a collaborator consumed by presentation only.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
)

const chartAPIBase = "https://query1.finance.yahoo.com/v8/finance/chart"

// Bar is one date-keyed OHLCV sample.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Timeframe pairs a chart interval with its lookback range.
type Timeframe struct {
	Label    string `json:"label"`
	Range    string `json:"range"`
	Interval string `json:"interval"`
}

// Timeframes lists the selectable chart windows, intraday to monthly.
var Timeframes = []Timeframe{
	{"5分足", "5d", "5m"},
	{"15分足", "5d", "15m"},
	{"1時間足", "1mo", "1h"},
	{"日足(1週間)", "7d", "1d"},
	{"日足(1ヶ月)", "1mo", "1d"},
	{"日足(1年)", "1y", "1d"},
	{"週足(5年)", "5y", "1wk"},
	{"月足(MAX)", "max", "1mo"},
}

// DefaultTimeframe is the 5-year weekly view.
var DefaultTimeframe = Timeframes[6]

// TimeframeByLabel resolves a timeframe by its display label, falling
// back to the default for unknown labels.
func TimeframeByLabel(label string) Timeframe {
	for _, tf := range Timeframes {
		if tf.Label == label {
			return tf
		}
	}
	return DefaultTimeframe
}

// Client talks to the Yahoo Finance v8 chart API.
type Client struct {
	rest *resty.Client
}

// NewClient creates a chart API client.
func NewClient() *Client {
	rest := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0")
	return &Client{rest: rest}
}

// chartResponse mirrors the chart API payload. Quote arrays use
// interface{} because the API returns null for holiday slots.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if n, ok := v.(float64); ok {
		return n
	}
	return 0
}

// FetchHistory downloads price bars for a Japanese security code over
// the given timeframe. Domestic codes trade under the .T suffix.
func (c *Client) FetchHistory(ctx context.Context, code string, tf Timeframe) ([]Bar, error) {
	ticker := code + ".T"

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("interval", tf.Interval).
		SetQueryParam("range", tf.Range).
		Get(fmt.Sprintf("%s/%s", chartAPIBase, url.PathEscape(ticker)))
	if err != nil {
		return nil, fmt.Errorf("chart fetch %s: %w", ticker, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("chart fetch %s: HTTP %d", ticker, resp.StatusCode())
	}

	var chart chartResponse
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return nil, fmt.Errorf("chart decode %s: %w", ticker, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api %s: %s", ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart %s: no data returned", ticker)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		o, h, l, cl := toFloat(quote.Open[i]), toFloat(quote.High[i]), toFloat(quote.Low[i]), toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // null bar (holiday)
		}
		var vol float64
		if i < len(quote.Volume) {
			vol = toFloat(quote.Volume[i])
		}
		bars = append(bars, Bar{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: vol,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
