package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
)

// Pool manages a small set of headless Chrome contexts with round-robin
// allocation. One analysis run borrows a single browser and uses it strictly
// sequentially.
type Pool struct {
	browsers         []context.Context
	browserCancels   []context.CancelFunc
	allocatorCancels []context.CancelFunc
	mu               sync.Mutex
	size             int
	currentIndex     int
	config           common.BrowserConfig
	logger           arbor.ILogger
	initialized      bool
}

// NewPool creates an uninitialized browser pool
func NewPool(config common.BrowserConfig, logger arbor.ILogger) *Pool {
	return &Pool{
		size:   config.PoolSize,
		config: config,
		logger: logger,
	}
}

// Init starts the Chrome instances. Failure to start any instance is fatal:
// without a browser there is nothing to scrape.
func (p *Pool) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return fmt.Errorf("browser pool already initialized")
	}
	if p.size <= 0 {
		p.size = 1
	}

	p.browsers = make([]context.Context, 0, p.size)
	p.browserCancels = make([]context.CancelFunc, 0, p.size)
	p.allocatorCancels = make([]context.CancelFunc, 0, p.size)
	p.currentIndex = 0

	p.logger.Info().
		Int("pool_size", p.size).
		Bool("headless", p.config.Headless).
		Msg("Initializing browser pool")

	successCount := 0
	var lastErr error
	for i := 0; i < p.size; i++ {
		if err := p.createInstance(i); err != nil {
			lastErr = err
			p.logger.Warn().
				Err(err).
				Int("browser_index", i).
				Msg("Failed to create browser instance")

			if successCount == 0 {
				p.cleanupInstances()
				return fmt.Errorf("failed to create any browser instances, last error: %w", err)
			}
			continue
		}
		successCount++
	}

	if successCount < p.size {
		p.logger.Warn().
			Int("requested", p.size).
			Int("created", successCount).
			Err(lastErr).
			Msg("Created fewer browser instances than requested")
		p.size = successCount
	}

	p.initialized = true
	p.logger.Info().
		Int("browsers_created", len(p.browsers)).
		Msg("Browser pool initialized")

	return nil
}

// createInstance starts one Chrome instance and verifies it responds
func (p *Pool) createInstance(index int) error {
	startTime := time.Now()

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", p.config.Headless),
		chromedp.Flag("disable-gpu", p.config.DisableGPU),
		chromedp.Flag("no-sandbox", p.config.DisableSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(p.config.WindowWidth, p.config.WindowHeight),
		chromedp.UserAgent(p.config.UserAgent),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(
		context.Background(),
		allocatorOpts...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	if p.config.StartupProbeOnBoot {
		testTimeout := 30 * time.Second
		if p.config.NavigationTimeout > 0 {
			testTimeout = p.config.NavigationTimeout
		}

		testCtx, testCancel := context.WithTimeout(browserCtx, testTimeout)
		defer testCancel()

		if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
			browserCancel()
			allocatorCancel()
			return fmt.Errorf("browser instance failed startup test: %w", err)
		}

		var title string
		if err := chromedp.Run(testCtx, chromedp.Title(&title)); err != nil {
			browserCancel()
			allocatorCancel()
			return fmt.Errorf("browser instance failed responsiveness test: %w", err)
		}
	}

	p.browsers = append(p.browsers, browserCtx)
	p.browserCancels = append(p.browserCancels, browserCancel)
	p.allocatorCancels = append(p.allocatorCancels, allocatorCancel)

	p.logger.Debug().
		Int("browser_index", index).
		Dur("startup_time", time.Since(startTime)).
		Msg("Browser instance created")

	return nil
}

// Get returns a browser context using round-robin allocation along with a
// release function that must be called when the caller is done.
func (p *Pool) Get() (context.Context, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil, nil, fmt.Errorf("browser pool not initialized")
	}
	if len(p.browsers) == 0 {
		return nil, nil, fmt.Errorf("no browser instances available")
	}

	index := p.currentIndex % len(p.browsers)
	p.currentIndex = (p.currentIndex + 1) % len(p.browsers)

	release := func() {
		p.logger.Debug().
			Int("browser_index", index).
			Msg("Browser context released")
	}

	return p.browsers[index], release, nil
}

// Shutdown cancels all browser instances, bounded by a 30s timeout
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}

	browserCount := len(p.browsers)
	p.logger.Info().
		Int("browser_count", browserCount).
		Msg("Shutting down browser pool")

	done := make(chan struct{})
	go func() {
		p.cleanupInstances()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		p.logger.Warn().
			Int("browser_count", browserCount).
			Msg("Browser pool shutdown timed out, forcing cleanup")
		p.cleanupInstances()
	}

	p.initialized = false
	return nil
}

// cleanupInstances must be called with the mutex held
func (p *Pool) cleanupInstances() {
	for _, cancel := range p.browserCancels {
		if cancel != nil {
			cancel()
		}
	}
	for _, cancel := range p.allocatorCancels {
		if cancel != nil {
			cancel()
		}
	}
	p.browsers = nil
	p.browserCancels = nil
	p.allocatorCancels = nil
	p.currentIndex = 0
}

// IsInitialized reports whether Init has completed successfully
func (p *Pool) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}
