// -----------------------------------------------------------------------
// Last Modified: Wednesday, 22nd July 2026 4:41:18 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/browser"
)

// Service drives one browser session per ticker through the quote and news
// pages and assembles the extracted pieces into a snapshot.
type Service struct {
	config common.ScraperConfig
	logger arbor.ILogger
}

// NewService creates a scraper service
func NewService(config common.ScraperConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// QuoteURL returns the quote page URL for a ticker
func (s *Service) QuoteURL(ticker string) string {
	return fmt.Sprintf("%s/quote/%s", strings.TrimSuffix(s.config.BaseURL, "/"), ticker)
}

// NewsURL returns the news listing URL for a ticker
func (s *Service) NewsURL(ticker string) string {
	return fmt.Sprintf("%s/quote/%s/news/", strings.TrimSuffix(s.config.BaseURL, "/"), ticker)
}

// CollectQuote navigates to the ticker's quote page and extracts company
// name, price and the requested fundamentals. Individual metric misses are
// logged and tolerated; only navigation failure is an error.
func (s *Service) CollectQuote(ctx context.Context, session *browser.Session, ticker string, metrics []string) (string, *models.StockPrice, *models.FundamentalMetrics, error) {
	url := s.QuoteURL(ticker)
	if err := session.Navigate(ctx, url); err != nil {
		return "", nil, nil, err
	}

	doc, err := s.captureDocument(ctx, session)
	if err != nil {
		return "", nil, nil, err
	}

	companyName := ExtractCompanyName(doc, ticker)
	price := ExtractPrice(doc, time.Now())
	fundamentals, strategyUsed := ExtractFundamentals(doc, metrics)

	for _, spec := range selectedSpecs(metrics) {
		if strategy, ok := strategyUsed[string(spec.metric)]; ok {
			s.logger.Debug().
				Str("ticker", ticker).
				Str("metric", string(spec.metric)).
				Str("strategy", strategy).
				Msg("Metric extracted")
		} else {
			s.logger.Warn().
				Str("ticker", ticker).
				Str("metric", string(spec.metric)).
				Msg("Could not extract metric")
		}
	}

	s.logger.Info().
		Str("ticker", ticker).
		Str("company", companyName).
		Float64("price", price.CurrentPrice).
		Int("metrics_extracted", len(strategyUsed)).
		Msg("Quote page collected")

	return companyName, price, fundamentals, nil
}

// CollectNews navigates to the ticker's news listing and extracts up to the
// configured item count, performing one scroll-and-retry pass when the first
// parse comes up short. Items de-duplicate by exact title across both passes.
func (s *Service) CollectNews(ctx context.Context, session *browser.Session, ticker string) ([]models.NewsItem, error) {
	url := s.NewsURL(ticker)
	if err := session.Navigate(ctx, url); err != nil {
		return nil, err
	}

	doc, err := s.captureDocument(ctx, session)
	if err != nil {
		return nil, err
	}

	target := s.config.MaxNewsItems
	items := ParseNews(doc, s.config.BaseURL, target, nil, time.Now())

	if len(items) < target {
		s.logger.Debug().
			Str("ticker", ticker).
			Int("found", len(items)).
			Int("target", target).
			Msg("Scrolling for more news items")

		if err := session.ScrollToBottom(ctx); err == nil {
			if doc, err := s.captureDocument(ctx, session); err == nil {
				more := ParseNews(doc, s.config.BaseURL, target-len(items), items, time.Now())
				items = append(items, more...)
			}
		}
	}

	s.logger.Info().
		Str("ticker", ticker).
		Int("news_items", len(items)).
		Msg("News collected")

	return items, nil
}

// captureDocument snapshots the current page into a goquery document
func (s *Service) captureDocument(ctx context.Context, session *browser.Session) (*goquery.Document, error) {
	html, err := session.CaptureHTML(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return doc, nil
}
