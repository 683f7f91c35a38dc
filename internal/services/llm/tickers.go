package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/interfaces"
)

const tickerSystemPrompt = `You extract stock ticker symbols from user queries.
Given a natural language query about a stock or company, respond with ONLY the ticker symbol in uppercase (e.g. AAPL, TSLA, MSFT).
If the query mentions a company by name, respond with that company's primary US-listed ticker.
If no stock or company can be identified, respond with exactly: UNKNOWN`

// TickerExtractor resolves free-text queries to ticker symbols. Explicit
// $TICKER references win without a model call.
type TickerExtractor struct {
	generator Generator
	logger    arbor.ILogger
}

// NewTickerExtractor creates a ticker extractor
func NewTickerExtractor(generator Generator, logger arbor.ILogger) *TickerExtractor {
	return &TickerExtractor{
		generator: generator,
		logger:    logger,
	}
}

// Extract returns the ticker referenced by the query, or an error when none
// can be identified.
func (e *TickerExtractor) Extract(ctx context.Context, query string) (string, error) {
	if ticker := common.ExtractDollarTicker(query); ticker != "" {
		e.logger.Debug().Str("ticker", ticker).Msg("Ticker extracted from $ reference")
		return ticker, nil
	}

	resp, err := e.generator.GenerateContent(ctx, &ContentRequest{
		Messages: []interfaces.Message{
			{Role: "system", Content: tickerSystemPrompt},
			{Role: "user", Content: query},
		},
		Temperature: 0.0,
		MaxTokens:   20,
	})
	if err != nil {
		return "", fmt.Errorf("ticker extraction failed: %w", err)
	}

	answer := strings.ToUpper(strings.TrimSpace(resp.Text))
	if answer == "UNKNOWN" || answer == "" {
		return "", fmt.Errorf("no ticker found in query: %q", query)
	}

	// The model occasionally wraps the answer in prose
	ticker := common.ExtractBareTicker(answer)
	if ticker == "" || !common.IsValidTicker(ticker) {
		return "", fmt.Errorf("no valid ticker in response: %q", answer)
	}

	e.logger.Debug().
		Str("query", query).
		Str("ticker", ticker).
		Msg("Ticker extracted via model")
	return ticker, nil
}

// ExtractAll resolves a comma or space separated list of queries to tickers.
// Queries that resolve to nothing are skipped.
func (e *TickerExtractor) ExtractAll(ctx context.Context, query string) []string {
	seen := make(map[string]struct{})
	var tickers []string

	add := func(t string) {
		t = common.NormalizeTicker(t)
		if !common.IsValidTicker(t) {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		tickers = append(tickers, t)
	}

	// Collect every explicit $TICKER first
	for _, part := range strings.Fields(strings.ToUpper(query)) {
		if strings.HasPrefix(part, "$") {
			add(strings.Trim(part, "$,."))
		}
	}
	if len(tickers) > 0 {
		return tickers
	}

	// Comma-separated bare symbols ("AAPL, MSFT")
	allBare := true
	parts := strings.Split(query, ",")
	for _, part := range parts {
		if !common.IsValidTicker(strings.TrimSpace(part)) {
			allBare = false
			break
		}
	}
	if allBare && len(parts) > 0 {
		for _, part := range parts {
			add(part)
		}
		return tickers
	}

	if ticker, err := e.Extract(ctx, query); err == nil {
		add(ticker)
	}
	return tickers
}
