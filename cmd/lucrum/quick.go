package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/ternarybob/lucrum/internal/app"
	"github.com/ternarybob/lucrum/internal/models"
)

// runQuick scrapes price and fundamentals for a single ticker and prints them
func runQuick(args []string) error {
	fs := flag.NewFlagSet("quick", flag.ExitOnError)
	var configFiles configPaths
	fs.Var(&configFiles, "config", "Configuration file path")
	fs.Var(&configFiles, "c", "Configuration file path (shorthand)")
	timeout := fs.Duration("timeout", 3*time.Minute, "Scrape timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: lucrum quick <ticker>")
	}
	ticker := fs.Arg(0)

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

	snapshot, err := application.Analysis.Quick(ctx, ticker)
	if err != nil {
		return err
	}

	printSnapshot(snapshot)
	return nil
}

func printSnapshot(s *models.StockSnapshot) {
	fmt.Printf("\n%s - %s\n", s.Ticker, s.CompanyName)
	if s.Price != nil {
		fmt.Printf("  Price:          $%.2f (%+.2f, %+.2f%%)\n", s.Price.CurrentPrice, s.Price.Change, s.Price.ChangePercent)
	}
	f := s.Fundamentals
	if f == nil {
		return
	}
	printMetric := func(label string, v *float64, format string) {
		if v != nil {
			fmt.Printf("  %-15s "+format+"\n", label+":", *v)
		}
	}
	printMetric("Previous Close", f.PreviousClose, "$%.2f")
	printMetric("Open", f.Open, "$%.2f")
	if f.DaysRange != "" {
		fmt.Printf("  %-15s %s\n", "Day's Range:", f.DaysRange)
	}
	printMetric("Volume", f.Volume, "%.0f")
	printMetric("Avg Volume", f.AvgVolume, "%.0f")
	if f.MarketCap != nil {
		fmt.Printf("  %-15s $%.0f (%s)\n", "Market Cap:", *f.MarketCap, models.MarketCapCategory(*f.MarketCap))
	}
	printMetric("Beta", f.Beta, "%.2f")
	printMetric("P/E Ratio", f.PERatio, "%.2f")
	printMetric("EPS", f.EPS, "%.2f")
	if f.EarningsDate != "" {
		fmt.Printf("  %-15s %s\n", "Earnings Date:", f.EarningsDate)
	}
	printMetric("1y Target Est", f.TargetEst, "$%.2f")
	if f.FiftyTwoWkRange != nil {
		fmt.Printf("  %-15s $%.2f - $%.2f\n", "52wk Range:", f.FiftyTwoWkRange.Low, f.FiftyTwoWkRange.High)
		if s.Price != nil {
			fmt.Printf("  %-15s %.1f%%\n", "52wk Position:", models.FiftyTwoWeekPosition(s.Price.CurrentPrice, *f.FiftyTwoWkRange))
		}
	}
}
