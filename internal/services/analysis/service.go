// -----------------------------------------------------------------------
// Last Modified: Sunday, 2nd August 2026 1:29:54 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

// Package analysis orchestrates the full per-ticker pipeline: scrape,
// sentiment, narrative analysis and report generation.
package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/browser"
	"github.com/ternarybob/lucrum/internal/services/llm"
	"github.com/ternarybob/lucrum/internal/services/report"
	"github.com/ternarybob/lucrum/internal/services/scraper"
	"github.com/ternarybob/lucrum/internal/services/social"
	badgerstore "github.com/ternarybob/lucrum/internal/storage/badger"
)

// ProgressFunc receives pipeline progress events. May be nil.
type ProgressFunc func(event models.ProgressEvent)

// Service runs analysis requests end to end
type Service struct {
	config    *common.Config
	pool      *browser.Pool
	limiter   *rate.Limiter
	scraper   *scraper.Service
	social    *social.Service
	insights  *llm.InsightService
	sentiment *llm.SentimentAnalyzer
	snapshots *badgerstore.SnapshotStorage
	reports   *report.Service
	logger    arbor.ILogger
}

// NewService creates the analysis orchestrator
func NewService(
	config *common.Config,
	pool *browser.Pool,
	limiter *rate.Limiter,
	scraperSvc *scraper.Service,
	socialSvc *social.Service,
	insights *llm.InsightService,
	sentiment *llm.SentimentAnalyzer,
	snapshots *badgerstore.SnapshotStorage,
	reports *report.Service,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:    config,
		pool:      pool,
		limiter:   limiter,
		scraper:   scraperSvc,
		social:    socialSvc,
		insights:  insights,
		sentiment: sentiment,
		snapshots: snapshots,
		reports:   reports,
		logger:    logger,
	}
}

// Analyze runs the full pipeline for the request's tickers. Individual ticker
// failures are reported on the progress stream and skipped; the run fails only
// when no ticker produces a snapshot.
func (s *Service) Analyze(ctx context.Context, req *models.AnalysisRequest, progress ProgressFunc) (*models.AnalysisReport, error) {
	emit := func(step, status, message string, value float64, data interface{}) {
		if progress != nil {
			progress(models.ProgressEvent{
				Step:     step,
				Status:   status,
				Message:  message,
				Progress: value,
				Data:     data,
			})
		}
	}

	if req.RequestID == "" {
		req.RequestID = common.NewRequestID()
	}
	for i, ticker := range req.Tickers {
		req.Tickers[i] = common.NormalizeTicker(ticker)
	}

	s.logger.Info().
		Str("request_id", req.RequestID).
		Strs("tickers", req.Tickers).
		Msg("Analysis started")

	emit(models.StepTickerExtraction, models.StatusProcessing, "Resolving tickers", 0.1, nil)
	for _, ticker := range req.Tickers {
		if !common.IsValidTicker(ticker) {
			emit(models.StepTickerExtraction, models.StatusError, fmt.Sprintf("Invalid ticker: %s", ticker), 0.1, nil)
			return nil, fmt.Errorf("invalid ticker: %q", ticker)
		}
	}
	emit(models.StepTickerExtraction, models.StatusCompleted, "Tickers resolved", 0.2, map[string]interface{}{"tickers": req.Tickers})

	emit(models.StepBrowserInit, models.StatusProcessing, "Initializing browser", 0.25, nil)
	if !s.pool.IsInitialized() {
		if err := s.pool.Init(); err != nil {
			emit(models.StepBrowserInit, models.StatusError, "Browser initialization failed", 0.25, nil)
			return nil, fmt.Errorf("browser initialization failed: %w", err)
		}
	}
	emit(models.StepBrowserInit, models.StatusCompleted, "Browser ready", 0.3, nil)

	stocks := make(map[string]*models.StockSnapshot, len(req.Tickers))
	for _, ticker := range req.Tickers {
		snapshot, err := s.collectTicker(ctx, req, ticker, emit)
		if err != nil {
			s.logger.Error().Err(err).Str("ticker", ticker).Msg("Ticker analysis failed")
			emit(models.StepFundamentals, models.StatusError, fmt.Sprintf("%s: %v", ticker, err), 0.5, nil)
			continue
		}
		stocks[ticker] = snapshot
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("analysis produced no data for any of %v", req.Tickers)
	}

	emit(models.StepLLMAnalysis, models.StatusProcessing, "Generating analysis", 0.85, nil)
	insights := make(map[string]string, len(stocks))
	for ticker, snapshot := range stocks {
		if req.IncludeNews && len(snapshot.News) > 0 && snapshot.NewsSentiment == nil {
			snapshot.NewsSentiment = s.sentiment.AnalyzeNews(ctx, ticker, snapshot.News)
		}
		insights[ticker] = s.insights.GenerateInsight(ctx, snapshot)
	}
	summary := s.insights.GenerateSummary(ctx, stocks)
	emit(models.StepLLMAnalysis, models.StatusCompleted, "Analysis generated", 0.95, nil)

	result := &models.AnalysisReport{
		RequestID:   req.RequestID,
		Tickers:     req.Tickers,
		Stocks:      stocks,
		Insights:    insights,
		Summary:     summary,
		GeneratedAt: time.Now(),
	}

	emit(models.StepReportGeneration, models.StatusProcessing, "Writing report", 0.95, nil)
	path, err := s.reports.Write(result, req.OutputDir)
	if err != nil {
		emit(models.StepReportGeneration, models.StatusError, "Report generation failed", 0.95, nil)
		return nil, fmt.Errorf("report generation failed: %w", err)
	}
	emit(models.StepReportGeneration, models.StatusCompleted, "Report written", 1.0, map[string]interface{}{"report_path": path})

	s.logger.Info().
		Str("request_id", req.RequestID).
		Str("report", path).
		Int("stocks", len(stocks)).
		Msg("Analysis completed")
	return result, nil
}

// collectTicker gathers one ticker's snapshot, serving from the cache when a
// fresh snapshot exists. A browser session is held for the duration of the
// ticker's scraping and released before the next ticker starts.
func (s *Service) collectTicker(ctx context.Context, req *models.AnalysisRequest, ticker string, emit func(string, string, string, float64, interface{})) (*models.StockSnapshot, error) {
	window := time.Duration(s.config.Storage.CacheHours) * time.Hour
	if s.snapshots != nil && window > 0 {
		cached, err := s.snapshots.GetFresh(ctx, ticker, window)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Cache lookup failed")
		} else if cached != nil {
			s.logger.Info().Str("ticker", ticker).Str("collected_at", cached.CollectedAt.Format(time.RFC3339)).Msg("Serving cached snapshot")
			emit(models.StepFundamentals, models.StatusCompleted, fmt.Sprintf("%s: cached data", ticker), 0.5, nil)
			emit(models.StepNewsExtraction, models.StatusCompleted, fmt.Sprintf("%s: cached data", ticker), 0.7, nil)
			emit(models.StepSocialSentiment, models.StatusCompleted, fmt.Sprintf("%s: cached data", ticker), 0.8, nil)
			return cached, nil
		}
	}

	session, err := browser.NewSession(s.pool, s.limiter, s.config.Browser, s.logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	emit(models.StepFundamentals, models.StatusProcessing, fmt.Sprintf("%s: extracting fundamentals", ticker), 0.35, nil)
	companyName, price, fundamentals, err := s.scraper.CollectQuote(ctx, session, ticker, req.Metrics)
	if err != nil {
		return nil, err
	}
	snapshot := &models.StockSnapshot{
		Ticker:       ticker,
		CompanyName:  companyName,
		Price:        price,
		Fundamentals: fundamentals,
		CollectedAt:  time.Now(),
	}
	emit(models.StepFundamentals, models.StatusCompleted, fmt.Sprintf("%s: fundamentals extracted", ticker), 0.5, fundamentals)

	if req.IncludeCharts {
		if path, err := s.captureChart(ctx, session, ticker, snapshot.CollectedAt); err != nil {
			s.logger.Debug().Err(err).Str("ticker", ticker).Msg("Chart capture failed")
		} else {
			snapshot.ChartPath = path
		}
	}

	if req.IncludeNews {
		emit(models.StepNewsExtraction, models.StatusProcessing, fmt.Sprintf("%s: collecting news", ticker), 0.55, nil)
		news, err := s.scraper.CollectNews(ctx, session, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("News collection failed")
			emit(models.StepNewsExtraction, models.StatusError, fmt.Sprintf("%s: news unavailable", ticker), 0.7, nil)
		} else {
			snapshot.News = news
			emit(models.StepNewsExtraction, models.StatusCompleted, fmt.Sprintf("%s: %d news items", ticker, len(news)), 0.7, nil)
		}
	}

	if req.IncludeSocial {
		emit(models.StepSocialSentiment, models.StatusProcessing, fmt.Sprintf("%s: analyzing social sentiment", ticker), 0.75, nil)
		if record := s.social.CollectSentiment(ctx, session, ticker); record != nil {
			snapshot.Sentiment = record
			emit(models.StepSocialSentiment, models.StatusCompleted, fmt.Sprintf("%s: sentiment %s", ticker, record.OverallSentiment), 0.8, nil)
		} else {
			emit(models.StepSocialSentiment, models.StatusCompleted, fmt.Sprintf("%s: social sentiment unavailable", ticker), 0.8, nil)
		}
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache snapshot")
		}
	}
	return snapshot, nil
}

// captureChart screenshots the quote page the session is currently on and
// writes it to the temp directory as the ticker's price chart.
func (s *Service) captureChart(ctx context.Context, session *browser.Session, ticker string, capturedAt time.Time) (string, error) {
	shot, err := session.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	dir := s.config.Reports.TempDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("chart_%s_%s.png", ticker, capturedAt.Format("20060102_150405")))
	if err := os.WriteFile(path, shot, 0644); err != nil {
		return "", fmt.Errorf("failed to write chart: %w", err)
	}
	return path, nil
}

// Quick collects price and fundamentals only, skipping news, social and LLM
// stages. Used by the quick CLI command and the monitor.
func (s *Service) Quick(ctx context.Context, ticker string) (*models.StockSnapshot, error) {
	ticker = common.NormalizeTicker(ticker)
	if !common.IsValidTicker(ticker) {
		return nil, fmt.Errorf("invalid ticker: %q", ticker)
	}

	if !s.pool.IsInitialized() {
		if err := s.pool.Init(); err != nil {
			return nil, fmt.Errorf("browser initialization failed: %w", err)
		}
	}

	session, err := browser.NewSession(s.pool, s.limiter, s.config.Browser, s.logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	companyName, price, fundamentals, err := s.scraper.CollectQuote(ctx, session, ticker, nil)
	if err != nil {
		return nil, err
	}
	return &models.StockSnapshot{
		Ticker:       ticker,
		CompanyName:  companyName,
		Price:        price,
		Fundamentals: fundamentals,
		CollectedAt:  time.Now(),
	}, nil
}
