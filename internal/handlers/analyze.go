// -----------------------------------------------------------------------
// Last Modified: Monday, 3rd August 2026 10:12:33 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/analysis"
	"github.com/ternarybob/lucrum/internal/services/llm"
)

// analyzeRequest is the POST /analyze request body. Either an explicit ticker
// list or a natural language query must be supplied.
type analyzeRequest struct {
	Query         string   `json:"query,omitempty"`
	Tickers       []string `json:"tickers,omitempty"`
	Metrics       []string `json:"metrics,omitempty"`
	DateRange     string   `json:"date_range,omitempty"`
	IncludeNews   *bool    `json:"include_news,omitempty"`
	IncludeSocial *bool    `json:"include_social,omitempty"`
	IncludeCharts *bool    `json:"include_charts,omitempty"`
}

// AnalysisHandler exposes the analysis pipeline over HTTP
type AnalysisHandler struct {
	config   *common.Config
	analysis *analysis.Service
	tickers  *llm.TickerExtractor
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewAnalysisHandler creates an analysis handler
func NewAnalysisHandler(config *common.Config, analysisSvc *analysis.Service, tickers *llm.TickerExtractor) *AnalysisHandler {
	return &AnalysisHandler{
		config:   config,
		analysis: analysisSvc,
		tickers:  tickers,
		validate: validator.New(),
		logger:   common.GetLogger(),
	}
}

// buildRequest resolves the HTTP body into a validated analysis request
func (h *AnalysisHandler) buildRequest(r *http.Request) (*models.AnalysisRequest, error) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	tickers := body.Tickers
	if len(tickers) == 0 && body.Query != "" {
		tickers = h.tickers.ExtractAll(r.Context(), body.Query)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers found in request")
	}

	includeNews := true
	if body.IncludeNews != nil {
		includeNews = *body.IncludeNews
	}
	includeSocial := h.config.Social.Enabled
	if body.IncludeSocial != nil {
		includeSocial = *body.IncludeSocial
	}
	includeCharts := true
	if body.IncludeCharts != nil {
		includeCharts = *body.IncludeCharts
	}

	req := &models.AnalysisRequest{
		RequestID:     common.NewRequestID(),
		Tickers:       tickers,
		Metrics:       body.Metrics,
		DateRange:     body.DateRange,
		IncludeNews:   includeNews,
		IncludeSocial: includeSocial,
		IncludeCharts: includeCharts,
		CreatedAt:     time.Now(),
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid analysis request: %w", err)
	}
	return req, nil
}

// AnalyzeHandler runs the pipeline and streams progress events over SSE.
// Each pipeline step produces "progress" events; the run ends with either a
// "result" event carrying the full report or an "error" event.
func (h *AnalysisHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, err := h.buildRequest(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Info().
		Str("request_id", req.RequestID).
		Strs("tickers", req.Tickers).
		Msg("SSE analysis started")

	// Progress events come from the same goroutine running the pipeline,
	// so writes to the stream need no locking.
	report, err := h.analysis.Analyze(r.Context(), req, func(event models.ProgressEvent) {
		h.sendEvent(w, flusher, "progress", event)
	})
	if err != nil {
		h.sendEvent(w, flusher, "error", map[string]string{
			"request_id": req.RequestID,
			"error":      err.Error(),
		})
		return
	}

	h.sendEvent(w, flusher, "result", report)
}

// AnalyzeSimpleHandler runs the pipeline synchronously and returns the full
// report as a single JSON response, without streaming.
func (h *AnalysisHandler) AnalyzeSimpleHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, err := h.buildRequest(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.analysis.Analyze(r.Context(), req, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", req.RequestID).Msg("Analysis failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// TestTickerExtractionHandler resolves a query string to tickers without
// running the pipeline. Useful for checking extraction behavior.
func (h *AnalysisHandler) TestTickerExtractionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	tickers := h.tickers.ExtractAll(r.Context(), query)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"tickers": tickers,
	})
}

// sendEvent writes an SSE event to the response
func (h *AnalysisHandler) sendEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal SSE event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}
