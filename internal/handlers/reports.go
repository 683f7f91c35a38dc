package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/services/report"
)

// ReportsHandler serves the generated-reports index page
type ReportsHandler struct {
	reports *report.Service
	logger  arbor.ILogger
}

// NewReportsHandler creates a reports handler
func NewReportsHandler(reports *report.Service) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
		logger:  common.GetLogger(),
	}
}

// IndexHandler renders the report index at the web root
func (h *ReportsHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	page, err := h.reports.RenderIndexHTML()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render report index")
		WriteError(w, http.StatusInternalServerError, "Failed to render report index")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}
