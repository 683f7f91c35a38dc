package models

// Analysis step names emitted on the progress stream, in pipeline order
const (
	StepTickerExtraction = "ticker_extraction"
	StepBrowserInit      = "browser_initialization"
	StepFundamentals     = "fundamentals_extraction"
	StepNewsExtraction   = "news_extraction"
	StepSocialSentiment  = "reddit_sentiment"
	StepLLMAnalysis      = "llm_analysis"
	StepReportGeneration = "report_generation"
)

// Step statuses
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// ProgressEvent is one frame of the analysis progress stream. Progress is a
// float in [0,1]; Data carries optional step-specific payload (extracted
// ticker, fundamentals, report path).
type ProgressEvent struct {
	Step     string      `json:"step"`
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Progress float64     `json:"progress"`
	Data     interface{} `json:"data,omitempty"`
}
