// Package monitor polls watchlist tickers on a schedule and flags price moves
// beyond a configured threshold.
package monitor

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/analysis"
)

// Alert describes one threshold breach
type Alert struct {
	Ticker        string  `json:"ticker"`
	CurrentPrice  float64 `json:"current_price"`
	ChangePercent float64 `json:"change_percent"`
	Threshold     float64 `json:"threshold"`
}

// AlertFunc receives threshold breaches as they are detected
type AlertFunc func(alert Alert)

// Service schedules repeated quick scans over a watchlist
type Service struct {
	config   common.MonitorConfig
	analysis *analysis.Service
	logger   arbor.ILogger
	cron     *cron.Cron
}

// NewService creates a price monitor
func NewService(config common.MonitorConfig, analysisSvc *analysis.Service, logger arbor.ILogger) *Service {
	return &Service{
		config:   config,
		analysis: analysisSvc,
		logger:   logger,
	}
}

// LoadWatchlist reads and validates a YAML watchlist file. File-level settings
// override the configured defaults.
func (s *Service) LoadWatchlist(path string) (*models.Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}

	var watchlist models.Watchlist
	if err := yaml.Unmarshal(data, &watchlist); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist: %w", err)
	}
	if len(watchlist.Tickers) == 0 {
		return nil, fmt.Errorf("watchlist contains no tickers")
	}
	for i, ticker := range watchlist.Tickers {
		normalized := common.NormalizeTicker(ticker)
		if !common.IsValidTicker(normalized) {
			return nil, fmt.Errorf("invalid ticker in watchlist: %q", ticker)
		}
		watchlist.Tickers[i] = normalized
	}

	if watchlist.ThresholdPercent <= 0 {
		watchlist.ThresholdPercent = s.config.ThresholdPercent
	}
	if watchlist.IntervalMinutes <= 0 {
		watchlist.IntervalMinutes = s.config.IntervalMinutes
	}
	return &watchlist, nil
}

// Start begins scheduled scans of the watchlist. Blocks until ctx is
// cancelled. The first scan runs immediately rather than waiting a full
// interval.
func (s *Service) Start(ctx context.Context, watchlist *models.Watchlist, onAlert AlertFunc) error {
	s.logger.Info().
		Strs("tickers", watchlist.Tickers).
		Float64("threshold_percent", watchlist.ThresholdPercent).
		Int("interval_minutes", watchlist.IntervalMinutes).
		Msg("Price monitor started")

	s.Scan(ctx, watchlist, onAlert)

	s.cron = cron.New()
	spec := fmt.Sprintf("@every %dm", watchlist.IntervalMinutes)
	_, err := s.cron.AddFunc(spec, func() {
		s.Scan(ctx, watchlist, onAlert)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule monitor: %w", err)
	}
	s.cron.Start()

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("Price monitor stopped")
	return nil
}

// Scan runs one pass over the watchlist. Per-ticker failures are logged and
// skipped so one bad scrape never stops the monitor.
func (s *Service) Scan(ctx context.Context, watchlist *models.Watchlist, onAlert AlertFunc) {
	for _, ticker := range watchlist.Tickers {
		if ctx.Err() != nil {
			return
		}

		snapshot, err := s.analysis.Quick(ctx, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Monitor scan failed for ticker")
			continue
		}
		if snapshot.Price == nil {
			s.logger.Warn().Str("ticker", ticker).Msg("No price data in scan")
			continue
		}

		change := snapshot.Price.ChangePercent
		s.logger.Info().
			Str("ticker", ticker).
			Float64("price", snapshot.Price.CurrentPrice).
			Float64("change_percent", change).
			Msg("Monitor scan")

		if math.Abs(change) >= watchlist.ThresholdPercent && onAlert != nil {
			onAlert(Alert{
				Ticker:        ticker,
				CurrentPrice:  snapshot.Price.CurrentPrice,
				ChangePercent: change,
				Threshold:     watchlist.ThresholdPercent,
			})
		}
	}
}
