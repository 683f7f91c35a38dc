package models

import (
	"time"
)

// StockPrice represents the current trading price of a ticker
type StockPrice struct {
	CurrentPrice  float64   `json:"current_price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Currency      string    `json:"currency"` // defaults to USD
	LastUpdated   time.Time `json:"last_updated"`
}

// FiftyTwoWeekRange holds the trailing 52-week low/high.
// Both sides are always populated; a range that fails to parse is simply absent.
type FiftyTwoWeekRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// FundamentalMetrics is the fixed set of metrics pulled from a quote page.
// Every field is optional: a scrape miss leaves the field nil rather than
// failing the run. DaysRange and EarningsDate are kept as the raw page text.
type FundamentalMetrics struct {
	PreviousClose   *float64           `json:"previous_close,omitempty"`
	Open            *float64           `json:"open,omitempty"`
	DaysRange       string             `json:"days_range,omitempty"`
	Volume          *float64           `json:"volume,omitempty"`
	AvgVolume       *float64           `json:"avg_volume,omitempty"`
	MarketCap       *float64           `json:"market_cap,omitempty"`
	Beta            *float64           `json:"beta,omitempty"`
	PERatio         *float64           `json:"pe_ratio,omitempty"`
	EPS             *float64           `json:"eps,omitempty"`
	EarningsDate    string             `json:"earnings_date,omitempty"`
	TargetEst       *float64           `json:"target_est,omitempty"`
	DividendYield   *float64           `json:"dividend_yield,omitempty"`
	FiftyTwoWkRange *FiftyTwoWeekRange `json:"fifty_two_week_range,omitempty"`
}

// StockSnapshot is the complete per-ticker dataset assembled by one analysis
// run. Snapshots are immutable once constructed and recreated on each run.
type StockSnapshot struct {
	Ticker        string              `json:"ticker" badgerhold:"key"`
	CompanyName   string              `json:"company_name,omitempty"`
	Price         *StockPrice         `json:"price,omitempty"`
	Fundamentals  *FundamentalMetrics `json:"fundamentals,omitempty"`
	News          []NewsItem          `json:"news,omitempty"`
	NewsSentiment *NewsSentiment      `json:"news_sentiment,omitempty"`
	Sentiment     *SentimentRecord    `json:"sentiment,omitempty"`
	ChartPath     string              `json:"chart_path,omitempty"` // quote page screenshot
	CollectedAt   time.Time           `json:"collected_at"`
}

// IsFresh reports whether the snapshot was collected within the given window
func (s *StockSnapshot) IsFresh(window time.Duration) bool {
	if s == nil || s.CollectedAt.IsZero() || window <= 0 {
		return false
	}
	return time.Since(s.CollectedAt) < window
}

// MarketCapCategory buckets a market cap into the standard size categories
func MarketCapCategory(marketCap float64) string {
	switch {
	case marketCap > 200e9:
		return "Large Cap"
	case marketCap > 10e9:
		return "Mid Cap"
	case marketCap > 2e9:
		return "Small Cap"
	default:
		return "Micro Cap"
	}
}

// FiftyTwoWeekPosition returns the current price's position inside the
// 52-week range as a percentage in [0,100]. Returns 0 when the range is
// degenerate (high equals low) to avoid division by zero.
func FiftyTwoWeekPosition(current float64, r FiftyTwoWeekRange) float64 {
	if r.High == r.Low {
		return 0
	}
	return (current - r.Low) / (r.High - r.Low) * 100
}
