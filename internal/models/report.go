package models

import (
	"time"
)

// AnalysisRequest describes one analysis run: which tickers, which sections
// to collect, and where output goes.
type AnalysisRequest struct {
	RequestID     string    `json:"request_id"`
	Tickers       []string  `json:"tickers" validate:"required,min=1,dive,min=1,max=5"`
	DateRange     string    `json:"date_range,omitempty"` // e.g. "1mo", "3mo"
	Metrics       []string  `json:"metrics,omitempty"`    // metric subset, empty means all
	IncludeNews   bool      `json:"include_news"`
	IncludeSocial bool      `json:"include_social"`
	IncludeCharts bool      `json:"include_charts"`
	OutputDir     string    `json:"output_dir,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AnalysisReport is the canonical report schema: request_id plus
// generated_at, one snapshot per ticker, per-ticker insight text and an
// executive summary. Written as both markdown and JSON.
type AnalysisReport struct {
	RequestID   string                    `json:"request_id"`
	Tickers     []string                  `json:"tickers"`
	Stocks      map[string]*StockSnapshot `json:"stocks_data"`
	Insights    map[string]string         `json:"insights"`
	Summary     string                    `json:"summary"`
	GeneratedAt time.Time                 `json:"generated_at"`
	ReportPath  string                    `json:"report_path,omitempty"`
}

// TickerValue pairs a ticker with one ranked metric value.
type TickerValue struct {
	Ticker string  `json:"ticker"`
	Value  float64 `json:"value"`
}

// StockComparison ranks the report's tickers on the fundamentals they
// share: P/E ascending (cheapest first), market cap and dividend yield
// descending. Only built when a report covers at least two tickers.
type StockComparison struct {
	RankedByPE            []TickerValue `json:"ranked_by_pe,omitempty"`
	RankedByMarketCap     []TickerValue `json:"ranked_by_market_cap,omitempty"`
	RankedByDividendYield []TickerValue `json:"ranked_by_dividend_yield,omitempty"`
	AveragePE             float64       `json:"average_pe,omitempty"`
}

// PortfolioMetrics aggregates simple equal-weight portfolio arithmetic
// across the tickers of one report.
type PortfolioMetrics struct {
	TotalStocks    int                `json:"total_stocks"`
	WeightedReturn float64            `json:"weighted_return"` // weighted average change percent
	AveragePE      float64            `json:"average_pe"`
	Weights        map[string]float64 `json:"weights"`
	Categories     map[string]string  `json:"categories"` // ticker -> market cap category
}
