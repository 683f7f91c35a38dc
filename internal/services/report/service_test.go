package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func testReport() *models.AnalysisReport {
	generated := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	return &models.AnalysisReport{
		RequestID:   "req-123",
		Tickers:     []string{"AAPL"},
		Summary:     "Apple looks steady.",
		GeneratedAt: generated,
		Stocks: map[string]*models.StockSnapshot{
			"AAPL": {
				Ticker:      "AAPL",
				CompanyName: "Apple Inc.",
				Price: &models.StockPrice{
					CurrentPrice:  230.50,
					Change:        2.10,
					ChangePercent: 0.92,
					Currency:      "USD",
					LastUpdated:   generated,
				},
				Fundamentals: &models.FundamentalMetrics{
					PERatio:   floatPtr(35.2),
					EPS:       floatPtr(6.55),
					MarketCap: floatPtr(3.5e12),
					Volume:    floatPtr(52000000),
					FiftyTwoWkRange: &models.FiftyTwoWeekRange{
						Low:  164.08,
						High: 237.49,
					},
				},
				NewsSentiment: &models.NewsSentiment{
					Sentiment:  "positive",
					Confidence: 0.8,
					Reasoning:  "Strong earnings coverage.",
				},
				Sentiment: &models.SentimentRecord{
					Ticker:           "AAPL",
					OverallSentiment: "positive",
					ConfidenceScore:  0.7,
					PostsAnalyzed:    12,
					SentimentSummary: "Retail discussion is upbeat.",
				},
				News: []models.NewsItem{
					{Title: "Apple beats estimates", Source: "Reuters", PublishedDate: generated},
				},
				CollectedAt: generated,
			},
		},
		Insights: map[string]string{
			"AAPL": "Fundamentals remain strong with a premium valuation.",
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	service := NewService(common.ReportsConfig{Dir: t.TempDir()}, arbor.NewLogger())

	markdown, err := service.renderMarkdown(testReport())
	require.NoError(t, err)

	wantContains := []string{
		"# Stock Analysis Report",
		"**Request ID:** req-123",
		"## Executive Summary",
		"Apple looks steady.",
		"### AAPL - Apple Inc.",
		"**Current Price:** $230.50 (+0.92%)",
		"- **P/E Ratio:** 35.20",
		"- **Market Cap:** $3,500,000,000,000 (Large Cap)",
		"- **52-Week Range:** $164.08 - $237.49",
		"Fundamentals remain strong with a premium valuation.",
		"**Sentiment:** Positive (Confidence: 80%)",
		"**Posts Analyzed:** 12",
		"#### Recent News (1 articles)",
		"- **Apple beats estimates** - Reuters (2026-08-15)",
		"## Portfolio Analysis",
		"- **Total Stocks:** 1",
		"*Report generated by Lucrum Stock Analysis*",
	}
	for _, want := range wantContains {
		assert.Contains(t, markdown, want)
	}

	// Comparison rankings need at least two tickers.
	assert.NotContains(t, markdown, "## Stock Comparison")
}

func TestRenderMarkdownComparison(t *testing.T) {
	service := NewService(common.ReportsConfig{Dir: t.TempDir()}, arbor.NewLogger())

	report := testReport()
	report.Tickers = []string{"AAPL", "KO"}
	report.Stocks["KO"] = &models.StockSnapshot{
		Ticker:      "KO",
		CompanyName: "Coca-Cola Co.",
		Fundamentals: &models.FundamentalMetrics{
			PERatio:       floatPtr(24.1),
			MarketCap:     floatPtr(290e9),
			DividendYield: floatPtr(3.1),
		},
		CollectedAt: report.GeneratedAt,
	}

	markdown, err := service.renderMarkdown(report)
	require.NoError(t, err)

	assert.Contains(t, markdown, "## Stock Comparison")
	assert.Contains(t, markdown, "**Ranked by P/E (low to high):**")
	assert.Contains(t, markdown, "- KO: 24.10")
	assert.Contains(t, markdown, "- AAPL: 35.20")
	assert.Contains(t, markdown, "**Ranked by Market Cap:**")
	assert.Contains(t, markdown, "- AAPL: $3,500,000,000,000")
	assert.Contains(t, markdown, "**Ranked by Dividend Yield:**")
	assert.Contains(t, markdown, "- KO: 3.10%")
	// Cheapest stock ranks first.
	assert.Less(t, strings.Index(markdown, "- KO: 24.10"), strings.Index(markdown, "- AAPL: 35.20"))
}

func TestRenderMarkdownMissingData(t *testing.T) {
	service := NewService(common.ReportsConfig{Dir: t.TempDir()}, arbor.NewLogger())

	report := &models.AnalysisReport{
		RequestID:   "req-empty",
		Tickers:     []string{"XYZ"},
		Summary:     "No data collected.",
		GeneratedAt: time.Now(),
		Stocks: map[string]*models.StockSnapshot{
			"XYZ": {Ticker: "XYZ", CollectedAt: time.Now()},
		},
		Insights: map[string]string{},
	}

	markdown, err := service.renderMarkdown(report)
	require.NoError(t, err)
	assert.Contains(t, markdown, "No analysis available.")
	assert.NotContains(t, markdown, "Fundamental Metrics")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	service := NewService(common.ReportsConfig{Dir: dir}, arbor.NewLogger())

	report := testReport()
	path, err := service.Write(report, "")
	require.NoError(t, err)

	wantBase := "stock_analysis_AAPL_20260815_103000"
	assert.Equal(t, wantBase+".md", filepath.Base(path))
	assert.Equal(t, path, report.ReportPath)

	_, err = os.Stat(filepath.Join(dir, wantBase+".json"))
	assert.NoError(t, err, "JSON report not written")

	// HTML is off by default.
	_, err = os.Stat(filepath.Join(dir, wantBase+".html"))
	assert.True(t, os.IsNotExist(err), "HTML report should not be written when disabled")
}

func TestWriteOutputDirOverride(t *testing.T) {
	configured := t.TempDir()
	override := t.TempDir()
	service := NewService(common.ReportsConfig{Dir: configured}, arbor.NewLogger())

	path, err := service.Write(testReport(), override)
	require.NoError(t, err)
	assert.Equal(t, override, filepath.Dir(path))
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	service := NewService(common.ReportsConfig{Dir: dir, WriteHTML: true}, arbor.NewLogger())

	_, err := service.Write(testReport(), "")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "stock_analysis_AAPL_20260815_103000.html"))
	require.NoError(t, err, "HTML report not written")

	html := string(data)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Apple Inc.")
}

func TestFormatComma(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{52000000, "52,000,000"},
		{3.5e12, "3,500,000,000,000"},
		{-1234567, "-1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatComma(tt.in), "formatComma(%v)", tt.in)
	}
}

func TestComputeComparison(t *testing.T) {
	stocks := map[string]*models.StockSnapshot{
		"AAPL": {
			Ticker: "AAPL",
			Fundamentals: &models.FundamentalMetrics{
				PERatio:       floatPtr(35.2),
				MarketCap:     floatPtr(3.5e12),
				DividendYield: floatPtr(0.5),
			},
		},
		"KO": {
			Ticker: "KO",
			Fundamentals: &models.FundamentalMetrics{
				PERatio:       floatPtr(24.1),
				MarketCap:     floatPtr(290e9),
				DividendYield: floatPtr(3.1),
			},
		},
		"PLTR": {
			// No P/E or dividend, only market cap.
			Ticker:       "PLTR",
			Fundamentals: &models.FundamentalMetrics{MarketCap: floatPtr(60e9)},
		},
	}

	comparison := ComputeComparison(stocks)
	require.NotNil(t, comparison)

	// P/E ascending, PLTR skipped.
	require.Len(t, comparison.RankedByPE, 2)
	assert.Equal(t, "KO", comparison.RankedByPE[0].Ticker)
	assert.Equal(t, "AAPL", comparison.RankedByPE[1].Ticker)
	assert.InDelta(t, (35.2+24.1)/2, comparison.AveragePE, 1e-9)

	// Market cap descending includes all three.
	require.Len(t, comparison.RankedByMarketCap, 3)
	assert.Equal(t, "AAPL", comparison.RankedByMarketCap[0].Ticker)
	assert.Equal(t, "KO", comparison.RankedByMarketCap[1].Ticker)
	assert.Equal(t, "PLTR", comparison.RankedByMarketCap[2].Ticker)

	// Dividend yield descending.
	require.Len(t, comparison.RankedByDividendYield, 2)
	assert.Equal(t, "KO", comparison.RankedByDividendYield[0].Ticker)
	assert.InDelta(t, 3.1, comparison.RankedByDividendYield[0].Value, 1e-9)
}

func TestComputeComparisonSingleStock(t *testing.T) {
	stocks := map[string]*models.StockSnapshot{
		"AAPL": {
			Ticker:       "AAPL",
			Fundamentals: &models.FundamentalMetrics{PERatio: floatPtr(35.2)},
		},
	}

	assert.Nil(t, ComputeComparison(stocks), "comparison needs at least two stocks")
	assert.Nil(t, ComputeComparison(nil))
}

func TestComputePortfolio(t *testing.T) {
	stocks := map[string]*models.StockSnapshot{
		"AAPL": {
			Ticker:       "AAPL",
			Price:        &models.StockPrice{ChangePercent: 2.0},
			Fundamentals: &models.FundamentalMetrics{PERatio: floatPtr(30), MarketCap: floatPtr(3e12)},
		},
		"PLTR": {
			Ticker:       "PLTR",
			Price:        &models.StockPrice{ChangePercent: -4.0},
			Fundamentals: &models.FundamentalMetrics{MarketCap: floatPtr(60e9)},
		},
	}

	metrics := ComputePortfolio(stocks)
	require.NotNil(t, metrics)
	assert.Equal(t, 2, metrics.TotalStocks)
	assert.Equal(t, -1.0, metrics.WeightedReturn)
	assert.Equal(t, 30.0, metrics.AveragePE, "only one stock has P/E")
	assert.Equal(t, 0.5, metrics.Weights["AAPL"])
	assert.Equal(t, "Large Cap", metrics.Categories["AAPL"])
	assert.Equal(t, "Mid Cap", metrics.Categories["PLTR"])
}

func TestComputePortfolioEmpty(t *testing.T) {
	assert.Nil(t, ComputePortfolio(nil))
}

func TestLatestReportTime(t *testing.T) {
	tests := []struct {
		name string
		want time.Time
	}{
		{"stock_analysis_AAPL_20260815_103000.md", time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)},
		{"stock_analysis_AAPL_MSFT_20260101_000000.md", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"README.md", time.Time{}},
		{"noseparator", time.Time{}},
	}

	for _, tt := range tests {
		assert.True(t, LatestReportTime(tt.name).Equal(tt.want), "LatestReportTime(%q)", tt.name)
	}
}
