// -----------------------------------------------------------------------
// Last Modified: Thursday, 30th July 2026 4:18:09 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

// Package social collects discussion sentiment from public social pages.
package social

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/browser"
	"github.com/ternarybob/lucrum/internal/services/llm"
)

// Service scrapes Reddit search results for a ticker and classifies the
// discussion sentiment. Social analysis is best-effort: any failure returns
// nil so the main pipeline continues without it.
type Service struct {
	config   *common.Config
	analyzer *llm.SentimentAnalyzer
	logger   arbor.ILogger
}

// NewService creates a social sentiment service
func NewService(config *common.Config, analyzer *llm.SentimentAnalyzer, logger arbor.ILogger) *Service {
	return &Service{
		config:   config,
		analyzer: analyzer,
		logger:   logger,
	}
}

// SearchURL builds the Reddit search URL for a ticker
func (s *Service) SearchURL(ticker string) string {
	base := strings.TrimRight(s.config.Social.RedditBaseURL, "/")
	return fmt.Sprintf("%s/search/?q=%s", base, url.QueryEscape("$"+ticker))
}

// CollectSentiment navigates the Reddit search page for ticker, captures a
// screenshot and the page text, and classifies the sentiment. Returns nil
// when social analysis is disabled or any step fails.
func (s *Service) CollectSentiment(ctx context.Context, session *browser.Session, ticker string) *models.SentimentRecord {
	if !s.config.Social.Enabled {
		return nil
	}

	searchURL := s.SearchURL(ticker)
	if err := session.Navigate(ctx, searchURL); err != nil {
		s.logger.Warn().
			Err(err).
			Str("ticker", ticker).
			Msg("Reddit navigation failed, skipping social sentiment")
		return nil
	}

	if err := session.ScrollToBottom(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("Scroll failed on Reddit page")
	}

	capturedAt := time.Now()
	if shot, err := session.Screenshot(ctx); err != nil {
		s.logger.Debug().Err(err).Str("ticker", ticker).Msg("Reddit screenshot failed")
	} else if path, err := s.saveScreenshot(ticker, capturedAt, shot); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to save screenshot")
	} else {
		s.logger.Debug().Str("path", path).Msg("Screenshot saved")
	}

	html, err := session.CaptureHTML(ctx)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("ticker", ticker).
			Msg("Failed to capture Reddit page, skipping social sentiment")
		return nil
	}

	text := PageContext(searchURL, html)
	if text == "" {
		s.logger.Warn().Str("ticker", ticker).Msg("No discussion text found on Reddit page")
		return nil
	}
	if len(text) > s.config.Social.MaxTextChars {
		text = text[:s.config.Social.MaxTextChars]
	}

	record := s.analyzer.AnalyzeText(ctx, ticker, text)
	if record == nil {
		return nil
	}
	record.ExtractedText = text
	record.ScreenshotTimestamp = capturedAt

	s.logger.Info().
		Str("ticker", ticker).
		Str("sentiment", record.OverallSentiment).
		Float64("confidence", record.ConfidenceScore).
		Int("posts", record.PostsAnalyzed).
		Msg("Social sentiment collected")
	return record
}

func (s *Service) saveScreenshot(ticker string, capturedAt time.Time, data []byte) (string, error) {
	dir := s.config.Reports.TempDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	name := fmt.Sprintf("reddit_%s_%s.png", ticker, capturedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// PageContext renders a captured page as markdown context for the
// sentiment prompt, resolving relative links against pageURL. Markdown
// keeps post titles and links legible to the model; plain DOM text is
// the fallback when conversion yields nothing.
func PageContext(pageURL, html string) string {
	converter := md.NewConverter(pageURL, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil || strings.TrimSpace(markdown) == "" {
		return ExtractPageText(html)
	}
	return strings.TrimSpace(markdown)
}

// ExtractPageText pulls readable post text out of a Reddit search page,
// dropping scripts, styles and blank lines.
func ExtractPageText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}

	var lines []string
	for _, raw := range strings.Split(body.Text(), "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
