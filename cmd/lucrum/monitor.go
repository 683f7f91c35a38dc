package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/lucrum/internal/app"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/monitor"
)

// runMonitor watches a ticker list and prints alerts on threshold breaches
func runMonitor(args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	var configFiles configPaths
	fs.Var(&configFiles, "config", "Configuration file path")
	fs.Var(&configFiles, "c", "Configuration file path (shorthand)")
	watchlistPath := fs.String("watchlist", "", "YAML watchlist file (overrides config)")
	tickersFlag := fs.String("tickers", "", "Comma-separated tickers to watch (alternative to -watchlist)")
	threshold := fs.Float64("threshold", 0, "Alert threshold in percent (overrides config)")
	interval := fs.Int("interval", 0, "Scan interval in minutes (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
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

	path := *watchlistPath
	if path == "" {
		path = config.Monitor.WatchlistFile
	}

	var watchlist *models.Watchlist
	if tickers := splitTickers(*tickersFlag); len(tickers) > 0 {
		watchlist = &models.Watchlist{
			Tickers:          tickers,
			ThresholdPercent: config.Monitor.ThresholdPercent,
			IntervalMinutes:  config.Monitor.IntervalMinutes,
		}
	} else if path != "" {
		watchlist, err = application.Monitor.LoadWatchlist(path)
		if err != nil {
			return err
		}
	} else {
		return fmt.Errorf("no watchlist: use -watchlist <file> or -tickers AAPL,MSFT")
	}

	if *threshold > 0 {
		watchlist.ThresholdPercent = *threshold
	}
	if *interval > 0 {
		watchlist.IntervalMinutes = *interval
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("Interrupt signal received")
		cancel()
	}()

	return application.Monitor.Start(ctx, watchlist, func(alert monitor.Alert) {
		fmt.Printf("ALERT: %s moved %+.2f%% to $%.2f (threshold %.1f%%)\n",
			alert.Ticker, alert.ChangePercent, alert.CurrentPrice, alert.Threshold)
	})
}
