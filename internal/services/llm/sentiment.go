package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/models"
)

const newsSentimentSystemPrompt = `You are a financial news sentiment analyzer.
Given a set of news headlines about a stock, classify the overall sentiment.

Respond with ONLY a JSON object in this exact format:
{
  "sentiment": "positive" | "negative" | "neutral",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation",
  "key_factors": ["factor1", "factor2"]
}`

var (
	positiveKeywords = []string{"bullish", "buy", "positive", "good", "great", "strong", "up", "moon", "rocket"}
	negativeKeywords = []string{"bearish", "sell", "negative", "bad", "weak", "down", "crash", "dump"}
)

// SentimentAnalyzer classifies news and raw discussion text
type SentimentAnalyzer struct {
	generator Generator
	logger    arbor.ILogger
}

// NewSentimentAnalyzer creates a sentiment analyzer
func NewSentimentAnalyzer(generator Generator, logger arbor.ILogger) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		generator: generator,
		logger:    logger,
	}
}

// AnalyzeNews classifies the sentiment of a set of headlines. Returns a
// neutral 0.5-confidence result when the provider response cannot be parsed.
func (a *SentimentAnalyzer) AnalyzeNews(ctx context.Context, ticker string, news []models.NewsItem) *models.NewsSentiment {
	if len(news) == 0 {
		return &models.NewsSentiment{
			Sentiment:  models.SentimentNeutral,
			Confidence: 0.5,
			Reasoning:  "No news available to analyze",
		}
	}

	var sb strings.Builder
	for i, item := range news {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, item.Title, item.Source))
	}

	userPrompt := fmt.Sprintf("Analyze the sentiment of these news headlines for %s:\n\n%s", ticker, sb.String())

	resp, err := a.generator.GenerateContent(ctx, &ContentRequest{
		Messages: []interfaces.Message{
			{Role: "system", Content: newsSentimentSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"sentiment":  map[string]interface{}{"type": "string"},
				"confidence": map[string]interface{}{"type": "number"},
				"reasoning":  map[string]interface{}{"type": "string"},
				"key_factors": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
			"required": []string{"sentiment", "confidence"},
		},
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("ticker", ticker).Msg("News sentiment generation failed")
		return &models.NewsSentiment{Sentiment: models.SentimentNeutral, Confidence: 0.5}
	}

	result, err := parseSentimentJSON(resp.Text)
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("ticker", ticker).
			Msg("Failed to parse sentiment response, defaulting to neutral")
		return &models.NewsSentiment{Sentiment: models.SentimentNeutral, Confidence: 0.5}
	}
	return result
}

// AnalyzeText classifies free-form discussion text. Used for social pages
// where the model sees extracted page text rather than headlines. Falls back
// to keyword scoring when the provider is unavailable.
func (a *SentimentAnalyzer) AnalyzeText(ctx context.Context, ticker, text string) *models.SentimentRecord {
	userPrompt := fmt.Sprintf(`Analyze the sentiment of these social media discussions about %s.

Respond with ONLY a JSON object:
{
  "sentiment": "positive" | "negative" | "neutral",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation",
  "key_factors": ["factor1", "factor2"]
}

Discussions:
%s`, ticker, text)

	resp, err := a.generator.GenerateContent(ctx, &ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"sentiment":  map[string]interface{}{"type": "string"},
				"confidence": map[string]interface{}{"type": "number"},
				"reasoning":  map[string]interface{}{"type": "string"},
				"key_factors": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
			"required": []string{"sentiment", "confidence"},
		},
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("ticker", ticker).Msg("Text sentiment generation failed, using keyword fallback")
		return KeywordSentiment(ticker, text)
	}

	parsed, err := parseSentimentJSON(resp.Text)
	if err != nil {
		a.logger.Warn().Err(err).Str("ticker", ticker).Msg("Unparseable sentiment response, using keyword fallback")
		return KeywordSentiment(ticker, text)
	}

	return &models.SentimentRecord{
		Ticker:           ticker,
		OverallSentiment: parsed.Sentiment,
		ConfidenceScore:  parsed.Confidence,
		PostsAnalyzed:    estimatePostCount(text),
		KeyDiscussions:   parsed.KeyFactors,
		SentimentSummary: parsed.Reasoning,
	}
}

// parseSentimentJSON decodes the model's JSON, repairing malformed output
// (markdown fences, trailing commas) before giving up.
func parseSentimentJSON(content string) (*models.NewsSentiment, error) {
	content = strings.TrimSpace(content)

	var result models.NewsSentiment
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return nil, fmt.Errorf("failed to repair sentiment JSON: %w", repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &result); err != nil {
			return nil, fmt.Errorf("failed to parse sentiment JSON: %w", err)
		}
	}

	result.Sentiment = strings.ToLower(strings.TrimSpace(result.Sentiment))
	if !models.IsValidSentiment(result.Sentiment) {
		return nil, fmt.Errorf("invalid sentiment value: %q", result.Sentiment)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		result.Confidence = 0.5
	}
	return &result, nil
}

// KeywordSentiment scores text by counting which sentiment keywords appear.
// Each distinct keyword counts once regardless of repetition.
func KeywordSentiment(ticker, text string) *models.SentimentRecord {
	lower := strings.ToLower(text)

	positive := 0
	for _, word := range positiveKeywords {
		if strings.Contains(lower, word) {
			positive++
		}
	}
	negative := 0
	for _, word := range negativeKeywords {
		if strings.Contains(lower, word) {
			negative++
		}
	}

	sentiment := models.SentimentNeutral
	if positive > negative {
		sentiment = models.SentimentPositive
	} else if negative > positive {
		sentiment = models.SentimentNegative
	}

	diff := positive - negative
	if diff < 0 {
		diff = -diff
	}
	confidence := 0.5 + 0.1*float64(diff)
	if confidence > 0.8 {
		confidence = 0.8
	}

	return &models.SentimentRecord{
		Ticker:           ticker,
		OverallSentiment: sentiment,
		ConfidenceScore:  confidence,
		PostsAnalyzed:    estimatePostCount(text),
		SentimentSummary: fmt.Sprintf("Keyword analysis: %d positive, %d negative signals", positive, negative),
	}
}

// estimatePostCount approximates how many posts the extracted text covers.
// Page text averages about three lines per post.
func estimatePostCount(text string) int {
	return strings.Count(text, "\n") / 3
}
