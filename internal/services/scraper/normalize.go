package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// placeholders are the tokens financial pages render for missing values
var placeholders = map[string]struct{}{
	"":     {},
	"--":   {},
	"N/A":  {},
	"None": {},
}

var (
	parenPercentPattern = regexp.MustCompile(`\(([0-9]+\.?[0-9]*)\%\)`)
	// NOTE: does not capture a leading minus sign, so suffix-magnitude
	// values that are negative parse as positive. Kept as-is to match the
	// page formats observed so far.
	numericPattern = regexp.MustCompile(`([0-9]+\.?[0-9]*)`)

	hoursAgoPattern   = regexp.MustCompile(`(\d+)\s*hours?\s*ago`)
	minutesAgoPattern = regexp.MustCompile(`(\d+)\s*minutes?\s*ago`)
	daysAgoPattern    = regexp.MustCompile(`(\d+)\s*days?\s*ago`)
)

// IsPlaceholder reports whether the trimmed text is a known missing-value token
func IsPlaceholder(text string) bool {
	_, ok := placeholders[strings.TrimSpace(text)]
	return ok
}

// ParseFinancialValue converts raw page text into a float.
// Handles dual-format dividend fields ("1.04 (0.51%)" -> 0.51), currency and
// percent symbols, thousands separators, and K/M/B/T magnitude suffixes.
// Returns (0, false) for placeholders and text with no numeric content.
func ParseFinancialValue(text string) (float64, bool) {
	if IsPlaceholder(text) {
		return 0, false
	}

	// Dividend yield style: prefer the parenthesized percentage
	if strings.Contains(text, "(") && strings.Contains(text, "%") {
		if match := parenPercentPattern.FindStringSubmatch(text); match != nil {
			if v, err := strconv.ParseFloat(match[1], 64); err == nil {
				return v, true
			}
		}
	}

	cleaned := strings.NewReplacer(",", "", "$", "", "%", "").Replace(text)
	cleaned = strings.TrimSpace(cleaned)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "B"):
		multiplier = 1e9
		cleaned = strings.TrimSuffix(cleaned, "B")
	case strings.HasSuffix(cleaned, "M"):
		multiplier = 1e6
		cleaned = strings.TrimSuffix(cleaned, "M")
	case strings.HasSuffix(cleaned, "K"):
		multiplier = 1e3
		cleaned = strings.TrimSuffix(cleaned, "K")
	case strings.HasSuffix(cleaned, "T"):
		multiplier = 1e12
		cleaned = strings.TrimSuffix(cleaned, "T")
	}

	match := numericPattern.FindStringSubmatch(cleaned)
	if match == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return v * multiplier, true
}

// SafeFloat parses signed decimal text, tolerating leading +/- and
// surrounding noise. Returns (0, false) when no parse is possible.
func SafeFloat(text string) (float64, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.NewReplacer("+", "", ",", "", "$", "", "%", "", "(", "", ")", "").Replace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseRange splits an "X - Y" string on the first hyphen and normalizes
// both sides. Both sides must parse for a range to be returned.
func ParseRange(text string) (low, high float64, ok bool) {
	idx := strings.Index(text, "-")
	if idx < 0 {
		return 0, 0, false
	}

	low, lowOK := ParseFinancialValue(text[:idx])
	high, highOK := ParseFinancialValue(text[idx+1:])
	if !lowOK || !highOK {
		return 0, 0, false
	}
	return low, high, true
}

// ParseRelativeDate resolves relative date text ("3 hours ago", "yesterday")
// against now. Unknown formats fall back to now.
func ParseRelativeDate(text string, now time.Time) time.Time {
	text = strings.ToLower(strings.TrimSpace(text))

	if match := hoursAgoPattern.FindStringSubmatch(text); match != nil {
		if h, err := strconv.Atoi(match[1]); err == nil {
			return now.Add(-time.Duration(h) * time.Hour)
		}
	}
	if match := minutesAgoPattern.FindStringSubmatch(text); match != nil {
		if m, err := strconv.Atoi(match[1]); err == nil {
			return now.Add(-time.Duration(m) * time.Minute)
		}
	}
	if match := daysAgoPattern.FindStringSubmatch(text); match != nil {
		if d, err := strconv.Atoi(match[1]); err == nil {
			return now.AddDate(0, 0, -d)
		}
	}
	if text == "yesterday" {
		return now.AddDate(0, 0, -1)
	}

	return now
}
