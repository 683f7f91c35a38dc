package models

import (
	"testing"
	"time"
)

func TestMarketCapCategory(t *testing.T) {
	tests := []struct {
		name      string
		marketCap float64
		want      string
	}{
		{"mega cap", 3.2e12, "Large Cap"},
		{"just above large threshold", 200.1e9, "Large Cap"},
		{"exactly 200B is mid", 200e9, "Mid Cap"},
		{"mid cap", 50e9, "Mid Cap"},
		{"exactly 10B is small", 10e9, "Small Cap"},
		{"small cap", 5e9, "Small Cap"},
		{"exactly 2B is micro", 2e9, "Micro Cap"},
		{"micro cap", 500e6, "Micro Cap"},
		{"zero", 0, "Micro Cap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarketCapCategory(tt.marketCap); got != tt.want {
				t.Errorf("MarketCapCategory(%v) = %q, want %q", tt.marketCap, got, tt.want)
			}
		})
	}
}

func TestFiftyTwoWeekPosition(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		r       FiftyTwoWeekRange
		want    float64
	}{
		{"at low", 100, FiftyTwoWeekRange{Low: 100, High: 200}, 0},
		{"at high", 200, FiftyTwoWeekRange{Low: 100, High: 200}, 100},
		{"midpoint", 150, FiftyTwoWeekRange{Low: 100, High: 200}, 50},
		{"quarter", 125, FiftyTwoWeekRange{Low: 100, High: 200}, 25},
		{"degenerate range", 150, FiftyTwoWeekRange{Low: 150, High: 150}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FiftyTwoWeekPosition(tt.current, tt.r)
			if got != tt.want {
				t.Errorf("FiftyTwoWeekPosition(%v, %+v) = %v, want %v", tt.current, tt.r, got, tt.want)
			}
		})
	}
}

func TestSnapshotIsFresh(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		snapshot *StockSnapshot
		window   time.Duration
		want     bool
	}{
		{"recent within window", &StockSnapshot{CollectedAt: now.Add(-time.Hour)}, 4 * time.Hour, true},
		{"outside window", &StockSnapshot{CollectedAt: now.Add(-5 * time.Hour)}, 4 * time.Hour, false},
		{"zero window disables caching", &StockSnapshot{CollectedAt: now}, 0, false},
		{"zero collected time", &StockSnapshot{}, 4 * time.Hour, false},
		{"nil snapshot", nil, 4 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snapshot.IsFresh(tt.window); got != tt.want {
				t.Errorf("IsFresh(%v) = %v, want %v", tt.window, got, tt.want)
			}
		})
	}
}
