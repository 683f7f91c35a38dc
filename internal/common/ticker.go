// Package common provides shared utilities across the application.
package common

import (
	"regexp"
	"strings"
)

// dollarTickerPattern matches $TICKER references (e.g., "$AAPL") in free text.
var dollarTickerPattern = regexp.MustCompile(`\$([A-Z]{1,5})`)

// bareTickerPattern matches standalone 2-5 letter uppercase words.
var bareTickerPattern = regexp.MustCompile(`\b([A-Z]{2,5})\b`)

// excludedTickerWords are common English words that match the bare ticker
// pattern but are never ticker symbols.
var excludedTickerWords = map[string]struct{}{
	"THE": {}, "AND": {}, "FOR": {}, "YOU": {}, "ARE": {}, "CAN": {},
	"NOT": {}, "BUT": {}, "FROM": {}, "THIS": {}, "THAT": {}, "WITH": {},
	"HAVE": {}, "WILL": {}, "YOUR": {}, "THEY": {}, "BEEN": {}, "THEIR": {},
	"SAID": {}, "EACH": {}, "WHICH": {}, "THERE": {}, "WAS": {}, "ONE": {},
	"OUR": {}, "OUT": {}, "DAY": {}, "GET": {}, "USE": {}, "MAN": {},
	"NEW": {}, "NOW": {}, "WAY": {}, "MAY": {}, "SAY": {},
}

// ExtractDollarTicker returns the first $TICKER reference in the query,
// without the dollar sign, or "" when the query contains none.
func ExtractDollarTicker(query string) string {
	match := dollarTickerPattern.FindStringSubmatch(strings.ToUpper(query))
	if match == nil {
		return ""
	}
	return match[1]
}

// ExtractBareTicker scans text for the first standalone uppercase word that
// looks like a ticker symbol, skipping common English words.
func ExtractBareTicker(text string) string {
	for _, match := range bareTickerPattern.FindAllStringSubmatch(text, -1) {
		candidate := match[1]
		if _, excluded := excludedTickerWords[candidate]; excluded {
			continue
		}
		if len(candidate) >= 2 {
			return candidate
		}
	}
	return ""
}

// IsValidTicker reports whether s is a plausible ticker symbol:
// 1-5 characters, letters only, after uppercasing.
func IsValidTicker(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 1 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// NormalizeTicker uppercases and trims a ticker symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
