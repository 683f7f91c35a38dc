// -----------------------------------------------------------------------
// Last Modified: Saturday, 1st August 2026 9:47:21 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

// Package report renders analysis results to markdown, JSON and HTML files.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
)

// Service writes analysis reports to disk
type Service struct {
	config common.ReportsConfig
	logger arbor.ILogger
}

// NewService creates a report service
func NewService(config common.ReportsConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// Write renders the report as markdown and JSON, and optionally HTML.
// Files go to outputDir when given, otherwise the configured reports
// directory. Returns the markdown path and sets report.ReportPath to it.
func (s *Service) Write(report *models.AnalysisReport, outputDir string) (string, error) {
	dir := outputDir
	if dir == "" {
		dir = s.config.Dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	timestamp := report.GeneratedAt.Format("20060102_150405")
	tickersStr := strings.Join(report.Tickers, "_")
	base := fmt.Sprintf("stock_analysis_%s_%s", tickersStr, timestamp)

	mdPath := filepath.Join(dir, base+".md")
	markdown, err := s.renderMarkdown(report)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(mdPath, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown report: %w", err)
	}

	jsonPath := filepath.Join(dir, base+".json")
	if err := s.writeJSON(report, jsonPath); err != nil {
		return "", err
	}

	if s.config.WriteHTML {
		htmlPath := filepath.Join(dir, base+".html")
		if err := s.writeHTML(markdown, report, htmlPath); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to write HTML report")
		}
	}

	report.ReportPath = mdPath
	s.logger.Info().
		Str("markdown", mdPath).
		Str("json", jsonPath).
		Msg("Report written")
	return mdPath, nil
}

func (s *Service) writeJSON(report *models.AnalysisReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

const markdownTemplate = `# Stock Analysis Report

**Generated:** {{.GeneratedAt.Format "2006-01-02 15:04:05"}}
**Request ID:** {{.RequestID}}
**Tickers:** {{join .Tickers ", "}}

## Executive Summary

{{.Summary}}

## Individual Stock Analysis
{{range .Tickers}}{{with snapshot . }}
### {{.Ticker}} - {{.CompanyName}}
{{if .Price}}
**Current Price:** ${{printf "%.2f" .Price.CurrentPrice}} ({{printf "%+.2f" .Price.ChangePercent}}%)
**Last Updated:** {{.Price.LastUpdated.Format "2006-01-02 15:04"}}
{{end}}{{if .Fundamentals}}
#### Fundamental Metrics
{{with .Fundamentals}}{{if .PERatio}}- **P/E Ratio:** {{printf "%.2f" (deref .PERatio)}}
{{end}}{{if .EPS}}- **EPS (TTM):** {{printf "%.2f" (deref .EPS)}}
{{end}}{{if .DividendYield}}- **Dividend Yield:** {{printf "%.2f" (deref .DividendYield)}}%
{{end}}{{if .MarketCap}}- **Market Cap:** ${{comma (deref .MarketCap)}} ({{category (deref .MarketCap)}})
{{end}}{{if .Volume}}- **Volume:** {{comma (deref .Volume)}}
{{end}}{{if .AvgVolume}}- **Avg Volume:** {{comma (deref .AvgVolume)}}
{{end}}{{if .Beta}}- **Beta:** {{printf "%.2f" (deref .Beta)}}
{{end}}{{if .DaysRange}}- **Day's Range:** {{.DaysRange}}
{{end}}{{if .FiftyTwoWkRange}}- **52-Week Range:** ${{printf "%.2f" .FiftyTwoWkRange.Low}} - ${{printf "%.2f" .FiftyTwoWkRange.High}}
{{end}}{{if .TargetEst}}- **1y Target Est:** ${{printf "%.2f" (deref .TargetEst)}}
{{end}}{{if .EarningsDate}}- **Earnings Date:** {{.EarningsDate}}
{{end}}{{end}}{{end}}
#### Analysis

{{insight .Ticker}}
{{if .NewsSentiment}}
#### News Sentiment
**Sentiment:** {{title .NewsSentiment.Sentiment}} (Confidence: {{printf "%.0f" (pct .NewsSentiment.Confidence)}}%)
{{if .NewsSentiment.Reasoning}}**Reasoning:** {{.NewsSentiment.Reasoning}}
{{end}}{{end}}{{if .Sentiment}}
#### Social Sentiment Analysis
**Overall Sentiment:** {{title .Sentiment.OverallSentiment}} (Confidence: {{printf "%.1f" (pct .Sentiment.ConfidenceScore)}}%)
**Posts Analyzed:** {{.Sentiment.PostsAnalyzed}}
**Summary:** {{.Sentiment.SentimentSummary}}
{{if .Sentiment.KeyDiscussions}}**Key Discussion Points:** {{join .Sentiment.KeyDiscussions ", "}}
{{end}}{{end}}{{if .News}}
#### Recent News ({{len .News}} articles)
{{range .News}}- **{{.Title}}** - {{.Source}} ({{.PublishedDate.Format "2006-01-02"}})
{{end}}{{end}}
---
{{end}}{{end}}{{if .Comparison}}
## Stock Comparison
{{if .Comparison.RankedByPE}}
**Ranked by P/E (low to high):**
{{range .Comparison.RankedByPE}}- {{.Ticker}}: {{printf "%.2f" .Value}}
{{end}}{{end}}{{if .Comparison.RankedByMarketCap}}
**Ranked by Market Cap:**
{{range .Comparison.RankedByMarketCap}}- {{.Ticker}}: ${{comma .Value}}
{{end}}{{end}}{{if .Comparison.RankedByDividendYield}}
**Ranked by Dividend Yield:**
{{range .Comparison.RankedByDividendYield}}- {{.Ticker}}: {{printf "%.2f" .Value}}%
{{end}}{{end}}{{end}}{{if .Portfolio}}
## Portfolio Analysis

- **Total Stocks:** {{.Portfolio.TotalStocks}}
- **Weighted Daily Return:** {{printf "%.2f" .Portfolio.WeightedReturn}}%
{{if gt .Portfolio.AveragePE 0.0}}- **Average P/E Ratio:** {{printf "%.2f" .Portfolio.AveragePE}}
{{end}}{{end}}
---
*Report generated by Lucrum Stock Analysis*
`

type templateData struct {
	*models.AnalysisReport
	Comparison *models.StockComparison
	Portfolio  *models.PortfolioMetrics
}

func (s *Service) renderMarkdown(report *models.AnalysisReport) (string, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
		"pct": func(f float64) float64 { return f * 100 },
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"comma":    formatComma,
		"category": models.MarketCapCategory,
		"snapshot": func(ticker string) *models.StockSnapshot {
			return report.Stocks[ticker]
		},
		"insight": func(ticker string) string {
			if text, ok := report.Insights[ticker]; ok && text != "" {
				return text
			}
			return "No analysis available."
		},
	}

	tmpl, err := template.New("report").Funcs(funcs).Parse(markdownTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	data := templateData{
		AnalysisReport: report,
		Comparison:     ComputeComparison(report.Stocks),
		Portfolio:      ComputePortfolio(report.Stocks),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return sb.String(), nil
}

// formatComma renders a float with thousands separators and no decimals
func formatComma(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}
	whole := fmt.Sprintf("%.0f", f)

	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)

	result := strings.Join(parts, ",")
	if neg {
		result = "-" + result
	}
	return result
}

// ComputeComparison ranks snapshots on the fundamentals they share, the
// relative analysis shown for multi-ticker reports. Tickers missing a
// metric are left out of that ranking. Returns nil for fewer than two
// tickers.
func ComputeComparison(stocks map[string]*models.StockSnapshot) *models.StockComparison {
	if len(stocks) < 2 {
		return nil
	}

	tickers := make([]string, 0, len(stocks))
	for ticker := range stocks {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	comparison := &models.StockComparison{}
	for _, ticker := range tickers {
		snapshot := stocks[ticker]
		if snapshot == nil || snapshot.Fundamentals == nil {
			continue
		}
		f := snapshot.Fundamentals
		if f.PERatio != nil {
			comparison.RankedByPE = append(comparison.RankedByPE, models.TickerValue{Ticker: ticker, Value: *f.PERatio})
		}
		if f.MarketCap != nil {
			comparison.RankedByMarketCap = append(comparison.RankedByMarketCap, models.TickerValue{Ticker: ticker, Value: *f.MarketCap})
		}
		if f.DividendYield != nil {
			comparison.RankedByDividendYield = append(comparison.RankedByDividendYield, models.TickerValue{Ticker: ticker, Value: *f.DividendYield})
		}
	}

	sort.SliceStable(comparison.RankedByPE, func(i, j int) bool {
		return comparison.RankedByPE[i].Value < comparison.RankedByPE[j].Value
	})
	sort.SliceStable(comparison.RankedByMarketCap, func(i, j int) bool {
		return comparison.RankedByMarketCap[i].Value > comparison.RankedByMarketCap[j].Value
	})
	sort.SliceStable(comparison.RankedByDividendYield, func(i, j int) bool {
		return comparison.RankedByDividendYield[i].Value > comparison.RankedByDividendYield[j].Value
	})

	var peSum float64
	for _, entry := range comparison.RankedByPE {
		peSum += entry.Value
	}
	if n := len(comparison.RankedByPE); n > 0 {
		comparison.AveragePE = peSum / float64(n)
	}
	return comparison
}

// ComputePortfolio derives equal-weight portfolio metrics from the report's
// snapshots. Returns nil for an empty report.
func ComputePortfolio(stocks map[string]*models.StockSnapshot) *models.PortfolioMetrics {
	if len(stocks) == 0 {
		return nil
	}

	tickers := make([]string, 0, len(stocks))
	for ticker := range stocks {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	weight := 1.0 / float64(len(tickers))
	metrics := &models.PortfolioMetrics{
		TotalStocks: len(tickers),
		Weights:     make(map[string]float64, len(tickers)),
		Categories:  make(map[string]string),
	}

	var peSum float64
	var peCount int
	for _, ticker := range tickers {
		metrics.Weights[ticker] = weight

		snapshot := stocks[ticker]
		if snapshot == nil {
			continue
		}
		if snapshot.Price != nil {
			metrics.WeightedReturn += snapshot.Price.ChangePercent * weight
		}
		if f := snapshot.Fundamentals; f != nil {
			if f.PERatio != nil {
				peSum += *f.PERatio
				peCount++
			}
			if f.MarketCap != nil {
				metrics.Categories[ticker] = models.MarketCapCategory(*f.MarketCap)
			}
		}
	}
	if peCount > 0 {
		metrics.AveragePE = peSum / float64(peCount)
	}
	return metrics
}

// LatestReportTime parses the timestamp out of a report filename, used by the
// index page to sort reports newest first.
func LatestReportTime(name string) time.Time {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return time.Time{}
	}
	dateIdx := strings.LastIndex(base[:idx], "_")
	if dateIdx < 0 {
		return time.Time{}
	}
	t, err := time.Parse("20060102_150405", base[dateIdx+1:])
	if err != nil {
		return time.Time{}
	}
	return t
}
