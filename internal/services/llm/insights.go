// -----------------------------------------------------------------------
// Last Modified: Monday, 27th July 2026 11:03:42 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/models"
)

// FallbackInsight is returned when the provider call fails. A report is
// always generated, even without narrative analysis.
const FallbackInsight = "Unable to generate analysis."

const insightSystemPrompt = `You are a financial analysis assistant.
Your role is to take structured data about a stock (fundamentals, news, social sentiment) and generate a detailed, professional financial report.

Rules:
1. Always respond in Markdown (.md) format, with proper headings, bullet points, and tables where relevant.
2. Organize the report into sections:
   - Fundamentals Overview: key metrics in a table.
   - Latest News Summary: bullet points summarizing the top news items.
   - Social Sentiment Analysis: key insights from discussions.
   - Overall Market Outlook: concise summary at the end.
3. Do not invent data. Only use the provided inputs in <fundamentals>, <news>, and <social_sentiment>.
4. Use a professional and neutral tone. Avoid speculation.
5. Provide a final summary at the end.
6. Output only the Markdown content, with no extra explanations or text outside of the report.`

// InsightService turns collected snapshots into narrative analysis text
type InsightService struct {
	generator Generator
	logger    arbor.ILogger
}

// NewInsightService creates an insight service
func NewInsightService(generator Generator, logger arbor.ILogger) *InsightService {
	return &InsightService{
		generator: generator,
		logger:    logger,
	}
}

// GenerateInsight produces a markdown analysis for one snapshot. Provider
// failures degrade to FallbackInsight rather than failing the run.
func (s *InsightService) GenerateInsight(ctx context.Context, snapshot *models.StockSnapshot) string {
	userPrompt := fmt.Sprintf(`Create a detailed financial report and send me the response in a Markdown format.

<fundamentals>
%s
</fundamentals>

<news>
%s
</news>

<social_sentiment>
%s
</social_sentiment>`,
		FormatFundamentals(snapshot),
		FormatNews(snapshot.News),
		FormatSentiment(snapshot.Sentiment),
	)

	resp, err := s.generator.GenerateContent(ctx, &ContentRequest{
		Messages: []interfaces.Message{
			{Role: "system", Content: insightSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("ticker", snapshot.Ticker).
			Msg("Failed to generate insight")
		return FallbackInsight
	}

	return strings.TrimSpace(resp.Text)
}

// GenerateSummary produces a short executive summary across all analyzed
// tickers. Returns a deterministic one-liner on provider failure.
func (s *InsightService) GenerateSummary(ctx context.Context, snapshots map[string]*models.StockSnapshot) string {
	if len(snapshots) == 0 {
		return "No stocks were analyzed."
	}

	var sb strings.Builder
	for ticker, snapshot := range snapshots {
		sb.WriteString(fmt.Sprintf("- %s", ticker))
		if snapshot.Price != nil {
			sb.WriteString(fmt.Sprintf(": $%.2f (%+.2f%%)", snapshot.Price.CurrentPrice, snapshot.Price.ChangePercent))
		}
		sb.WriteString("\n")
	}

	userPrompt := fmt.Sprintf(`Write a concise executive summary (3-5 sentences) of this stock analysis run. Mention notable movers and the overall tone. Plain text only.

Stocks analyzed:
%s`, sb.String())

	resp, err := s.generator.GenerateContent(ctx, &ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to generate executive summary")
		tickers := make([]string, 0, len(snapshots))
		for ticker := range snapshots {
			tickers = append(tickers, ticker)
		}
		return fmt.Sprintf("Analysis completed for %s.", strings.Join(tickers, ", "))
	}

	return strings.TrimSpace(resp.Text)
}

// FormatFundamentals renders a snapshot's price and fundamentals as the
// line-per-metric block fed to the model. Absent metrics are omitted.
func FormatFundamentals(snapshot *models.StockSnapshot) string {
	parts := []string{
		fmt.Sprintf("Ticker: %s", snapshot.Ticker),
		fmt.Sprintf("Company: %s", snapshot.CompanyName),
	}

	if price := snapshot.Price; price != nil {
		parts = append(parts,
			fmt.Sprintf("Current Price: $%.2f", price.CurrentPrice),
			fmt.Sprintf("Change: %+.2f (%+.2f%%)", price.Change, price.ChangePercent),
		)
	}

	f := snapshot.Fundamentals
	if f == nil {
		return strings.Join(parts, "\n")
	}

	if f.PERatio != nil {
		parts = append(parts, fmt.Sprintf("P/E Ratio: %.2f", *f.PERatio))
	}
	if f.MarketCap != nil {
		parts = append(parts, fmt.Sprintf("Market Cap: $%.0f", *f.MarketCap))
	}
	if f.Volume != nil {
		parts = append(parts, fmt.Sprintf("Volume: %.0f", *f.Volume))
	}
	if f.AvgVolume != nil {
		parts = append(parts, fmt.Sprintf("Avg Volume: %.0f", *f.AvgVolume))
	}
	if f.Beta != nil {
		parts = append(parts, fmt.Sprintf("Beta: %.2f", *f.Beta))
	}
	if f.PreviousClose != nil {
		parts = append(parts, fmt.Sprintf("Previous Close: $%.2f", *f.PreviousClose))
	}
	if f.Open != nil {
		parts = append(parts, fmt.Sprintf("Open: $%.2f", *f.Open))
	}
	if f.DaysRange != "" {
		parts = append(parts, fmt.Sprintf("Day's Range: %s", f.DaysRange))
	}
	if f.FiftyTwoWkRange != nil {
		parts = append(parts, fmt.Sprintf("52-Week Range: $%.2f - $%.2f", f.FiftyTwoWkRange.Low, f.FiftyTwoWkRange.High))
	}
	if f.TargetEst != nil {
		parts = append(parts, fmt.Sprintf("1y Target Est: $%.2f", *f.TargetEst))
	}
	if f.EarningsDate != "" {
		parts = append(parts, fmt.Sprintf("Earnings Date: %s", f.EarningsDate))
	}

	return strings.Join(parts, "\n")
}

// FormatNews renders the collected headlines for the model
func FormatNews(news []models.NewsItem) string {
	if len(news) == 0 {
		return "No recent news available"
	}

	var sb strings.Builder
	for i, item := range news {
		if i >= 5 {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. Title: %s\n", i+1, item.Title))
		sb.WriteString(fmt.Sprintf("   Source: %s\n", item.Source))
		sb.WriteString(fmt.Sprintf("   Date: %s\n", item.PublishedDate.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("   URL: %s\n\n", item.URL))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatSentiment renders a sentiment record for the model
func FormatSentiment(sentiment *models.SentimentRecord) string {
	if sentiment == nil {
		return "No social sentiment data available"
	}

	parts := []string{
		fmt.Sprintf("Overall Sentiment: %s", capitalize(sentiment.OverallSentiment)),
		fmt.Sprintf("Confidence Score: %.2f/1.0", sentiment.ConfidenceScore),
		fmt.Sprintf("Posts Analyzed: %d", sentiment.PostsAnalyzed),
		fmt.Sprintf("Summary: %s", sentiment.SentimentSummary),
	}

	if len(sentiment.KeyDiscussions) > 0 {
		parts = append(parts, "Key Discussion Points:")
		for i, point := range sentiment.KeyDiscussions {
			if i >= 5 {
				break
			}
			parts = append(parts, fmt.Sprintf("  %d. %s", i+1, point))
		}
	}

	parts = append(parts, fmt.Sprintf("Analysis Timestamp: %s", sentiment.ScreenshotTimestamp.Format("2006-01-02 15:04:05")))
	return strings.Join(parts, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
