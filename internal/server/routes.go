package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Report index page
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			s.app.APIHandler.NotFoundHandler(w, r)
			return
		}
		s.app.ReportsHandler.IndexHandler(w, r)
	})

	// Analysis
	mux.HandleFunc("/analyze", s.app.AnalysisHandler.AnalyzeHandler)              // POST - SSE progress stream
	mux.HandleFunc("/analyze-simple", s.app.AnalysisHandler.AnalyzeSimpleHandler) // POST - single JSON response
	mux.HandleFunc("/test-ticker-extraction", s.app.AnalysisHandler.TestTickerExtractionHandler)

	// System
	mux.HandleFunc("/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	return mux
}
