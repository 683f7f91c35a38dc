package common

import (
	"testing"
)

func TestExtractDollarTicker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"what about $AAPL today", "AAPL"},
		{"$tsla to the moon", "TSLA"},
		{"compare $MSFT and $GOOG", "MSFT"}, // first reference wins
		{"no ticker here", ""},
		{"price is $100", ""}, // digits are not tickers
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractDollarTicker(tt.input); got != tt.want {
			t.Errorf("ExtractDollarTicker(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractBareTicker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AAPL", "AAPL"},
		{"Ticker: MSFT", "MSFT"},
		{"THE AND FOR", ""}, // all excluded words
		{"NOT NOW BUT NVDA", "NVDA"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractBareTicker(tt.input); got != tt.want {
			t.Errorf("ExtractBareTicker(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsValidTicker(t *testing.T) {
	valid := []string{"A", "AAPL", "GOOGL", "msft", " tsla "}
	for _, s := range valid {
		if !IsValidTicker(s) {
			t.Errorf("IsValidTicker(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "TOOLONG", "BRK.B", "12AB", "AA PL"}
	for _, s := range invalid {
		if IsValidTicker(s) {
			t.Errorf("IsValidTicker(%q) = true, want false", s)
		}
	}
}

func TestNormalizeTicker(t *testing.T) {
	if got := NormalizeTicker("  aapl "); got != "AAPL" {
		t.Errorf("NormalizeTicker = %q, want AAPL", got)
	}
}
