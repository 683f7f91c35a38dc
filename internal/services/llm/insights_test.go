package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/models"
)

func testSnapshot() *models.StockSnapshot {
	pe := 28.5
	marketCap := 2.7e12
	return &models.StockSnapshot{
		Ticker:      "AAPL",
		CompanyName: "Apple Inc.",
		Price: &models.StockPrice{
			CurrentPrice:  173.50,
			Change:        1.20,
			ChangePercent: 0.70,
			Currency:      "USD",
			LastUpdated:   time.Now(),
		},
		Fundamentals: &models.FundamentalMetrics{
			PERatio:   &pe,
			MarketCap: &marketCap,
			DaysRange: "171.96 - 174.30",
			FiftyTwoWkRange: &models.FiftyTwoWeekRange{
				Low:  124.17,
				High: 199.62,
			},
		},
		News: []models.NewsItem{
			{Title: "Apple beats estimates", Source: "Reuters", URL: "https://example.com/1", PublishedDate: time.Now()},
		},
		CollectedAt: time.Now(),
	}
}

func TestFormatFundamentals(t *testing.T) {
	text := FormatFundamentals(testSnapshot())

	for _, want := range []string{
		"Ticker: AAPL",
		"Company: Apple Inc.",
		"Current Price: $173.50",
		"P/E Ratio: 28.50",
		"Day's Range: 171.96 - 174.30",
		"52-Week Range: $124.17 - $199.62",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("formatted fundamentals missing %q:\n%s", want, text)
		}
	}

	// Absent metrics stay out of the prompt entirely
	if strings.Contains(text, "Beta") || strings.Contains(text, "Earnings Date") {
		t.Errorf("formatted fundamentals includes absent metrics:\n%s", text)
	}
}

func TestFormatNewsEmpty(t *testing.T) {
	if got := FormatNews(nil); got != "No recent news available" {
		t.Errorf("FormatNews(nil) = %q", got)
	}
}

func TestFormatSentimentNil(t *testing.T) {
	if got := FormatSentiment(nil); got != "No social sentiment data available" {
		t.Errorf("FormatSentiment(nil) = %q", got)
	}
}

func TestGenerateInsightIncludesTaggedSections(t *testing.T) {
	gen := &fakeGenerator{response: "# Report\nLooks healthy."}
	service := NewInsightService(gen, arbor.NewLogger())

	insight := service.GenerateInsight(context.Background(), testSnapshot())
	if insight != "# Report\nLooks healthy." {
		t.Errorf("insight = %q", insight)
	}

	if len(gen.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(gen.requests))
	}
	prompt := gen.requests[0].Messages[len(gen.requests[0].Messages)-1].Content
	for _, tag := range []string{"<fundamentals>", "</fundamentals>", "<news>", "</news>", "<social_sentiment>", "</social_sentiment>"} {
		if !strings.Contains(prompt, tag) {
			t.Errorf("prompt missing %q section", tag)
		}
	}
}

func TestGenerateInsightFallback(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	service := NewInsightService(gen, arbor.NewLogger())

	if got := service.GenerateInsight(context.Background(), testSnapshot()); got != FallbackInsight {
		t.Errorf("insight = %q, want fallback", got)
	}
}

func TestGenerateSummaryFallback(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	service := NewInsightService(gen, arbor.NewLogger())

	summary := service.GenerateSummary(context.Background(), map[string]*models.StockSnapshot{
		"AAPL": testSnapshot(),
	})
	if !strings.Contains(summary, "AAPL") {
		t.Errorf("fallback summary should name the tickers: %q", summary)
	}
}

func TestGenerateSummaryEmpty(t *testing.T) {
	service := NewInsightService(&fakeGenerator{}, arbor.NewLogger())
	if got := service.GenerateSummary(context.Background(), nil); got != "No stocks were analyzed." {
		t.Errorf("summary = %q", got)
	}
}
