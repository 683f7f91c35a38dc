package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireMethod(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/analyze", nil)
	assert.True(t, RequireMethod(w, r, "POST"), "matching method should pass")

	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/analyze", nil)
	assert.False(t, RequireMethod(w, r, "POST"), "mismatched method should fail")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteError(w, http.StatusBadRequest, "no tickers"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "no tickers", body["error"])
}

func TestNotFoundHandler(t *testing.T) {
	h := NewAPIHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/missing", nil)

	h.NotFoundHandler(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/missing", body["path"])
}

func TestHealthHandlerWithoutBrowser(t *testing.T) {
	h := NewAPIHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	h.HealthHandler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "not_initialized", body["browser"])
}
