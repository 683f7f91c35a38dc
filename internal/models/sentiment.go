package models

import (
	"time"
)

// Sentiment labels used across news and social scoring
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentRecord captures an LLM (or keyword-fallback) sentiment read for a
// ticker, typically sourced from social discussion.
type SentimentRecord struct {
	Ticker              string    `json:"ticker"`
	OverallSentiment    string    `json:"overall_sentiment"` // positive, negative, neutral
	ConfidenceScore     float64   `json:"confidence_score"`  // [0,1]
	PostsAnalyzed       int       `json:"posts_analyzed"`
	KeyDiscussions      []string  `json:"key_discussions,omitempty"`
	SentimentSummary    string    `json:"sentiment_summary,omitempty"`
	ExtractedText       string    `json:"extracted_text,omitempty"` // truncated raw text
	ScreenshotTimestamp time.Time `json:"screenshot_timestamp"`
}

// NewsSentiment is the per-article sentiment classification returned by the
// news analyzer.
type NewsSentiment struct {
	Sentiment  string   `json:"sentiment"` // positive, negative, neutral
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning,omitempty"`
	KeyFactors []string `json:"key_factors,omitempty"`
}

// IsValidSentiment reports whether label is one of the fixed sentiment values
func IsValidSentiment(label string) bool {
	switch label {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}
