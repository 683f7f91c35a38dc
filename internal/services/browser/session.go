package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/lucrum/internal/common"
)

// Session wraps a borrowed browser context for one sequential analysis run.
// Every navigation passes through a shared rate limiter so repeated scrapes
// stay polite to the target host.
type Session struct {
	ctx     context.Context
	release func()
	limiter *rate.Limiter
	config  common.BrowserConfig
	logger  arbor.ILogger
}

// NewSession borrows a browser from the pool. Callers must Close the session
// in a deferred block regardless of success or failure.
func NewSession(pool *Pool, limiter *rate.Limiter, config common.BrowserConfig, logger arbor.ILogger) (*Session, error) {
	ctx, release, err := pool.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire browser: %w", err)
	}
	return &Session{
		ctx:     ctx,
		release: release,
		limiter: limiter,
		config:  config,
		logger:  logger,
	}, nil
}

// Close releases the browser back to the pool
func (s *Session) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Navigate loads url, bounded by the configured navigation timeout, then
// waits the content settle window so dynamic sections render.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	navCtx, cancel := context.WithTimeout(s.ctx, s.config.NavigationTimeout)
	defer cancel()

	start := time.Now()
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(s.config.ContentWaitTime),
	)
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	s.logger.Debug().
		Str("url", url).
		Dur("duration", time.Since(start)).
		Msg("Page loaded")
	return nil
}

// ScrollToBottom scrolls the page to reveal lazily loaded content and waits
// the scroll settle window.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	scrollCtx, cancel := context.WithTimeout(s.ctx, s.config.NavigationTimeout)
	defer cancel()

	return chromedp.Run(scrollCtx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(s.config.ScrollWaitTime),
	)
}

// CaptureHTML returns the current page's outer HTML
func (s *Session) CaptureHTML(ctx context.Context) (string, error) {
	captureCtx, cancel := context.WithTimeout(s.ctx, s.config.NavigationTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(captureCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to capture page HTML: %w", err)
	}
	return html, nil
}

// Screenshot captures a full-page PNG screenshot
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	shotCtx, cancel := context.WithTimeout(s.ctx, s.config.NavigationTimeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(shotCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithCaptureBeyondViewport(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}
