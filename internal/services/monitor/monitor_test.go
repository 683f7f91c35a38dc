package monitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	config := common.MonitorConfig{
		ThresholdPercent: 5.0,
		IntervalMinutes:  5,
	}
	return NewService(config, nil, arbor.NewLogger())
}

func writeWatchlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write watchlist: %v", err)
	}
	return path
}

func TestLoadWatchlist(t *testing.T) {
	service := newTestService(t)

	path := writeWatchlist(t, `
tickers:
  - aapl
  - " msft "
  - tsla
threshold_percent: 3.5
interval_minutes: 10
`)

	watchlist, err := service.LoadWatchlist(path)
	if err != nil {
		t.Fatalf("LoadWatchlist failed: %v", err)
	}

	wantTickers := []string{"AAPL", "MSFT", "TSLA"}
	if len(watchlist.Tickers) != len(wantTickers) {
		t.Fatalf("got %d tickers, want %d", len(watchlist.Tickers), len(wantTickers))
	}
	for i, want := range wantTickers {
		if watchlist.Tickers[i] != want {
			t.Errorf("tickers[%d] = %q, want %q", i, watchlist.Tickers[i], want)
		}
	}
	if watchlist.ThresholdPercent != 3.5 {
		t.Errorf("threshold = %v, want 3.5 from file", watchlist.ThresholdPercent)
	}
	if watchlist.IntervalMinutes != 10 {
		t.Errorf("interval = %d, want 10 from file", watchlist.IntervalMinutes)
	}
}

func TestLoadWatchlistDefaults(t *testing.T) {
	service := newTestService(t)

	path := writeWatchlist(t, `
tickers:
  - AAPL
`)

	watchlist, err := service.LoadWatchlist(path)
	if err != nil {
		t.Fatalf("LoadWatchlist failed: %v", err)
	}
	if watchlist.ThresholdPercent != 5.0 {
		t.Errorf("threshold = %v, want configured default 5.0", watchlist.ThresholdPercent)
	}
	if watchlist.IntervalMinutes != 5 {
		t.Errorf("interval = %d, want configured default 5", watchlist.IntervalMinutes)
	}
}

func TestLoadWatchlistErrors(t *testing.T) {
	service := newTestService(t)

	tests := []struct {
		name    string
		content string
	}{
		{"empty tickers", "tickers: []\n"},
		{"invalid ticker", "tickers:\n  - TOOLONGNAME\n"},
		{"malformed yaml", "tickers: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWatchlist(t, tt.content)
			if _, err := service.LoadWatchlist(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := service.LoadWatchlist("/nonexistent/watchlist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
