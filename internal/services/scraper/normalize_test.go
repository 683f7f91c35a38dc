package scraper

import (
	"testing"
	"time"
)

func TestIsPlaceholder(t *testing.T) {
	for _, text := range []string{"", "--", "N/A", "None", "  --  "} {
		if !IsPlaceholder(text) {
			t.Errorf("IsPlaceholder(%q) = false, want true", text)
		}
	}
	for _, text := range []string{"0", "1.5", "N/A extra", "none"} {
		if IsPlaceholder(text) {
			t.Errorf("IsPlaceholder(%q) = true, want false", text)
		}
	}
}

func TestParseFinancialValue(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		// Placeholders
		{"", 0, false},
		{"--", 0, false},
		{"N/A", 0, false},
		{"None", 0, false},

		// Plain numbers
		{"18.40", 18.40, true},
		{"1,234.56", 1234.56, true},
		{"$173.50", 173.50, true},
		{"0.51%", 0.51, true},

		// Dual-format dividend field prefers the parenthesized percent
		{"1.04 (0.51%)", 0.51, true},
		{"0.96 (0.44%)", 0.44, true},

		// Magnitude suffixes
		{"750K", 750_000, true},
		{"$2.5B", 2.5e9, true},
		{"64.2M", 64.2e6, true},
		{"1.2T", 1.2e12, true},
		{"$3.45T", 3.45e12, true},

		// No numeric content
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseFinancialValue(tt.input)
		if ok != tt.wantOK {
			t.Errorf("ParseFinancialValue(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseFinancialValue(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"173.50", 173.50, true},
		{"+1.20", 1.20, true},
		{"-0.85", -0.85, true},
		{"(0.70%)", 0.70, true},
		{"1,024.00", 1024, true},
		{"", 0, false},
		{"--", 0, false},
	}
	for _, tt := range tests {
		got, ok := SafeFloat(tt.input)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("SafeFloat(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseRange(t *testing.T) {
	low, high, ok := ParseRange("124.17 - 199.62")
	if !ok || low != 124.17 || high != 199.62 {
		t.Fatalf("ParseRange = (%v, %v, %v), want (124.17, 199.62, true)", low, high, ok)
	}

	// Both sides must parse
	for _, input := range []string{"124.17", "-- - 199.62", "124.17 - N/A", ""} {
		if _, _, ok := ParseRange(input); ok {
			t.Errorf("ParseRange(%q) ok = true, want false", input)
		}
	}
}

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"3 hours ago", now.Add(-3 * time.Hour)},
		{"1 hour ago", now.Add(-time.Hour)},
		{"45 minutes ago", now.Add(-45 * time.Minute)},
		{"2 days ago", now.AddDate(0, 0, -2)},
		{"yesterday", now.AddDate(0, 0, -1)},
		{"Yesterday", now.AddDate(0, 0, -1)},
		{"some publisher", now},
	}
	for _, tt := range tests {
		if got := ParseRelativeDate(tt.input, now); !got.Equal(tt.want) {
			t.Errorf("ParseRelativeDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
