package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/lucrum/internal/app"
	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
)

// runAnalyze runs the full pipeline from the command line and prints the
// report path when done.
func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	var configFiles configPaths
	fs.Var(&configFiles, "config", "Configuration file path")
	fs.Var(&configFiles, "c", "Configuration file path (shorthand)")
	tickersFlag := fs.String("tickers", "", "Comma-separated tickers (e.g. AAPL,MSFT)")
	noNews := fs.Bool("no-news", false, "Skip news collection")
	noReddit := fs.Bool("no-reddit", false, "Skip Reddit sentiment")
	noCharts := fs.Bool("no-charts", false, "Skip chart screenshots")
	metricsFlag := fs.String("metrics", "", "Comma-separated metric subset (empty means all)")
	outputDir := fs.String("output-dir", "", "Report output directory (overrides config)")
	dateRange := fs.String("date-range", "", "Date range hint, e.g. 1mo, 3mo")
	timeout := fs.Duration("timeout", 15*time.Minute, "Overall analysis timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tickers := splitTickers(*tickersFlag)
	if len(tickers) == 0 && fs.NArg() > 0 {
		tickers = splitTickers(strings.Join(fs.Args(), ","))
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers given: use -tickers AAPL,MSFT or list them as arguments")
	}

	config, logger, err := bootstrap(configFiles, 0, "", "")
	if err != nil {
		return err
	}

	application, err := app.New(config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	req := newAnalysisRequest(tickers, *metricsFlag, *dateRange, *outputDir, *noNews, *noReddit, *noCharts)

	result, err := application.Analysis.Analyze(ctx, req, func(event models.ProgressEvent) {
		fmt.Printf("[%3.0f%%] %-24s %-10s %s\n", event.Progress*100, event.Step, event.Status, event.Message)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nReport written to %s\n", result.ReportPath)
	return nil
}

// newAnalysisRequest builds the request from parsed flags. The skip flags
// invert into the request's include fields.
func newAnalysisRequest(tickers []string, metricsFlag, dateRange, outputDir string, noNews, noReddit, noCharts bool) *models.AnalysisRequest {
	var metrics []string
	for _, m := range strings.Split(metricsFlag, ",") {
		if m = strings.TrimSpace(m); m != "" {
			metrics = append(metrics, m)
		}
	}

	return &models.AnalysisRequest{
		RequestID:     common.NewRequestID(),
		Tickers:       tickers,
		Metrics:       metrics,
		DateRange:     dateRange,
		IncludeNews:   !noNews,
		IncludeSocial: !noReddit,
		IncludeCharts: !noCharts,
		OutputDir:     outputDir,
		CreatedAt:     time.Now(),
	}
}

func splitTickers(s string) []string {
	var tickers []string
	for _, part := range strings.Split(s, ",") {
		ticker := common.NormalizeTicker(part)
		if ticker != "" {
			tickers = append(tickers, ticker)
		}
	}
	return tickers
}
