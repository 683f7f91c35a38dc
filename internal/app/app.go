// -----------------------------------------------------------------------
// Last Modified: Tuesday, 4th August 2026 7:52:18 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/handlers"
	"github.com/ternarybob/lucrum/internal/services/analysis"
	"github.com/ternarybob/lucrum/internal/services/browser"
	"github.com/ternarybob/lucrum/internal/services/llm"
	"github.com/ternarybob/lucrum/internal/services/monitor"
	"github.com/ternarybob/lucrum/internal/services/report"
	"github.com/ternarybob/lucrum/internal/services/scraper"
	"github.com/ternarybob/lucrum/internal/services/social"
	badgerstore "github.com/ternarybob/lucrum/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Storage *badgerstore.Manager
	Pool    *browser.Pool

	// Services
	LLM      *llm.ProviderFactory
	Scraper  *scraper.Service
	Social   *social.Service
	Analysis *analysis.Service
	Reports  *report.Service
	Monitor  *monitor.Service

	// Handlers
	APIHandler      *handlers.APIHandler
	AnalysisHandler *handlers.AnalysisHandler
	ReportsHandler  *handlers.ReportsHandler
}

// New wires the application from config. The browser pool is created but not
// started; it initializes lazily on the first analysis (or eagerly when
// startup_probe_on_boot is set).
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	if err := config.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	storage, err := badgerstore.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	pool := browser.NewPool(config.Browser, logger)

	// One navigation per request-delay interval keeps scraping polite
	limiter := rate.NewLimiter(rate.Every(config.Scraper.RequestDelay), 1)

	factory := llm.NewProviderFactory(
		&config.Gemini,
		&config.Claude,
		&config.LLM,
		storage.KeyValueStorage(),
		logger,
	)

	insights := llm.NewInsightService(factory, logger)
	sentiment := llm.NewSentimentAnalyzer(factory, logger)
	tickers := llm.NewTickerExtractor(factory, logger)

	scraperSvc := scraper.NewService(config.Scraper, logger)
	socialSvc := social.NewService(config, sentiment, logger)
	reportSvc := report.NewService(config.Reports, logger)

	analysisSvc := analysis.NewService(
		config,
		pool,
		limiter,
		scraperSvc,
		socialSvc,
		insights,
		sentiment,
		storage.SnapshotStorage(),
		reportSvc,
		logger,
	)

	monitorSvc := monitor.NewService(config.Monitor, analysisSvc, logger)

	app := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storage,
		Pool:            pool,
		LLM:             factory,
		Scraper:         scraperSvc,
		Social:          socialSvc,
		Analysis:        analysisSvc,
		Reports:         reportSvc,
		Monitor:         monitorSvc,
		APIHandler:      handlers.NewAPIHandler(pool),
		AnalysisHandler: handlers.NewAnalysisHandler(config, analysisSvc, tickers),
		ReportsHandler:  handlers.NewReportsHandler(reportSvc),
	}

	if config.Browser.StartupProbeOnBoot {
		if err := pool.Init(); err != nil {
			app.Close()
			return nil, fmt.Errorf("browser startup probe failed: %w", err)
		}
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("llm_provider", string(config.LLM.DefaultProvider)).
		Msg("Application initialized")

	return app, nil
}

// Close shuts down application components in reverse dependency order
func (a *App) Close() {
	if a.Pool != nil {
		if err := a.Pool.Shutdown(); err != nil {
			a.Logger.Warn().Err(err).Msg("Browser pool shutdown failed")
		}
	}
	if a.LLM != nil {
		if err := a.LLM.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("LLM provider close failed")
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
	a.Logger.Info().Msg("Application closed")
}
