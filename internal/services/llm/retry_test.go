package llm

import (
	"errors"
	"testing"
	"time"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), true},
		{errors.New("quota exceeded for model"), true},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("connection refused"), false},
		{errors.New("invalid request"), false},
	}
	for _, tt := range tests {
		if got := IsRateLimitError(tt.err); got != tt.want {
			t.Errorf("IsRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		err  error
		want time.Duration
	}{
		{nil, 0},
		{errors.New("rate limited. Please retry in 30s"), 30 * time.Second},
		{errors.New("RESOURCE_EXHAUSTED retryDelay: 12.5s"), 12500 * time.Millisecond},
		{errors.New("no delay here"), 0},
	}
	for _, tt := range tests {
		if got := ExtractRetryDelay(tt.err); got != tt.want {
			t.Errorf("ExtractRetryDelay(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestCalculateBackoff(t *testing.T) {
	config := NewDefaultRetryConfig()

	// Attempt 0 uses the initial backoff
	if got := config.CalculateBackoff(0, 0); got != config.InitialBackoff {
		t.Errorf("attempt 0 backoff = %v, want %v", got, config.InitialBackoff)
	}

	// Backoff grows but never exceeds the cap
	prev := time.Duration(0)
	for attempt := 0; attempt < 6; attempt++ {
		got := config.CalculateBackoff(attempt, 0)
		if got < prev {
			t.Errorf("backoff shrank at attempt %d: %v < %v", attempt, got, prev)
		}
		if got > config.MaxBackoff {
			t.Errorf("backoff %v exceeds cap %v", got, config.MaxBackoff)
		}
		prev = got
	}

	// API-provided delay takes precedence, padded by a small buffer
	got := config.CalculateBackoff(0, 20*time.Second)
	if got != 25*time.Second {
		t.Errorf("api delay backoff = %v, want 25s", got)
	}
}
