package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/lucrum/internal/models"
)

// extractionStrategy is one way of locating a metric's value on the page.
// Strategies are tried strictly in declared order; the first non-empty,
// non-placeholder hit wins and the strategy name is recorded for
// observability.
type extractionStrategy struct {
	name string
	find func(doc *goquery.Document) string
}

// strategiesFor builds the ordered strategy list for a metric spec
func strategiesFor(spec metricSpec) []extractionStrategy {
	titleLabel := titleCase(strings.ReplaceAll(string(spec.metric), "_", " "))

	return []extractionStrategy{
		{
			name: "quote-statistics",
			find: func(doc *goquery.Document) string {
				return statsSectionValue(doc, spec.statsLabel)
			},
		},
		{
			name: "fin-streamer",
			find: func(doc *goquery.Document) string {
				sel := doc.Find(fmt.Sprintf(`fin-streamer[data-field=%q]`, spec.streamerField)).First()
				if text := strings.TrimSpace(sel.Text()); text != "" {
					return text
				}
				value, _ := sel.Attr("value")
				return strings.TrimSpace(value)
			},
		},
		{
			name: "data-test",
			find: func(doc *goquery.Document) string {
				return strings.TrimSpace(doc.Find(fmt.Sprintf(`[data-test=%q]`, spec.dataTestID)).First().Text())
			},
		},
		{
			name: "attribute-scan",
			find: func(doc *goquery.Document) string {
				selectors := []string{
					fmt.Sprintf(`[data-testid*=%q]`, string(spec.metric)),
					fmt.Sprintf(`[data-test*=%q]`, strings.ToUpper(string(spec.metric))),
					fmt.Sprintf(`[data-field*=%q]`, string(spec.metric)),
					fmt.Sprintf(`td[title*=%q]`, titleLabel),
					fmt.Sprintf(`span[title*=%q]`, titleLabel),
				}
				for _, selector := range selectors {
					if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" && !IsPlaceholder(text) {
						return text
					}
				}
				return ""
			},
		},
	}
}

// statsSectionValue finds a row in the quote-statistics section whose first
// cell matches label and returns the adjacent cell's text.
func statsSectionValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find(`div[data-testid="quote-statistics"] td`).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if strings.TrimSpace(cell.Text()) != label {
			return true
		}
		value = strings.TrimSpace(cell.Next().Text())
		return false
	})
	return value
}

// extractMetric runs a metric's strategy chain and returns the raw text of
// the first valid hit along with the strategy that produced it.
func extractMetric(doc *goquery.Document, spec metricSpec) (text, strategy string, ok bool) {
	for _, strat := range strategiesFor(spec) {
		candidate := strings.TrimSpace(strat.find(doc))
		if candidate == "" || IsPlaceholder(candidate) {
			continue
		}
		return candidate, strat.name, true
	}
	return "", "", false
}

// rangeSelectors locate the 52-week range cell, in priority order
var rangeStatsLabels = []string{"52 Week Range", "52-Week Range"}

// extractFiftyTwoWeekRange pulls and parses the 52-week range. The range is
// only constructed when both sides parse.
func extractFiftyTwoWeekRange(doc *goquery.Document) *models.FiftyTwoWeekRange {
	var rawRange string
	for _, label := range rangeStatsLabels {
		if text := statsSectionValue(doc, label); text != "" {
			rawRange = text
			break
		}
	}
	if rawRange == "" {
		rawRange = strings.TrimSpace(doc.Find(`[data-test="FIFTY_TWO_WK_RANGE-value"]`).First().Text())
	}
	if rawRange == "" || !strings.Contains(rawRange, "-") {
		return nil
	}

	low, high, ok := ParseRange(rawRange)
	if !ok {
		return nil
	}
	return &models.FiftyTwoWeekRange{Low: low, High: high}
}

// ExtractFundamentals pulls the requested metric subset (empty means all)
// from a captured quote page. Returns the populated metrics record and a map
// of metric name to the strategy that extracted it; missing metrics are
// simply absent from both.
func ExtractFundamentals(doc *goquery.Document, subset []string) (*models.FundamentalMetrics, map[string]string) {
	fundamentals := &models.FundamentalMetrics{}
	strategyUsed := make(map[string]string)

	specs := selectedSpecs(subset)
	var missing []metricSpec

	for _, spec := range specs {
		text, strategy, ok := extractMetric(doc, spec)
		if !ok {
			missing = append(missing, spec)
			continue
		}
		if assignMetric(fundamentals, spec.metric, text) {
			strategyUsed[string(spec.metric)] = strategy
		} else {
			missing = append(missing, spec)
		}
	}

	// Last resort: scan table-like rows for label matches
	if len(missing) > 0 {
		for metric, text := range scanTables(doc, missing) {
			if assignMetric(fundamentals, metric, text) {
				strategyUsed[string(metric)] = "table-scan"
			}
		}
	}

	fundamentals.FiftyTwoWkRange = extractFiftyTwoWeekRange(doc)

	return fundamentals, strategyUsed
}

// assignMetric normalizes (unless the metric is raw-valued) and stores one
// metric on the record. Returns false when normalization fails.
func assignMetric(f *models.FundamentalMetrics, metric Metric, text string) bool {
	if metric.IsRaw() {
		switch metric {
		case MetricDaysRange:
			f.DaysRange = text
		case MetricEarningsDate:
			f.EarningsDate = text
		}
		return true
	}

	value, ok := ParseFinancialValue(text)
	if !ok {
		return false
	}

	switch metric {
	case MetricPreviousClose:
		f.PreviousClose = &value
	case MetricOpen:
		f.Open = &value
	case MetricVolume:
		f.Volume = &value
	case MetricAvgVolume:
		f.AvgVolume = &value
	case MetricMarketCap:
		f.MarketCap = &value
	case MetricBeta:
		f.Beta = &value
	case MetricPERatio:
		f.PERatio = &value
	case MetricTargetEst:
		f.TargetEst = &value
	default:
		return false
	}
	return true
}

// ExtractPrice pulls the current price, change and change percent from a
// captured quote page. Missing pieces default to zero so a price record is
// always produced.
func ExtractPrice(doc *goquery.Document, now time.Time) *models.StockPrice {
	price := &models.StockPrice{Currency: "USD", LastUpdated: now}

	priceText := firstText(doc,
		`fin-streamer[data-field="regularMarketPrice"]`,
		`[data-testid="qsp-price"]`,
	)
	if v, ok := SafeFloat(priceText); ok {
		price.CurrentPrice = v
	}

	changeText := firstText(doc,
		`fin-streamer[data-field="regularMarketChange"]`,
		`[data-testid="qsp-price-change"]`,
	)
	if v, ok := SafeFloat(changeText); ok {
		price.Change = v
	}

	changePercentText := firstText(doc,
		`fin-streamer[data-field="regularMarketChangePercent"]`,
		`[data-testid="qsp-price-change-percent"]`,
	)
	if v, ok := SafeFloat(changePercentText); ok {
		price.ChangePercent = v
	}

	return price
}

// ExtractCompanyName reads the page heading, stripping the "(TICKER)" suffix.
// Falls back to the ticker itself.
func ExtractCompanyName(doc *goquery.Document, ticker string) string {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return ticker
	}
	if idx := strings.Index(title, "("); idx > 0 {
		title = strings.TrimSpace(title[:idx])
	}
	if title == "" {
		return ticker
	}
	return title
}

// firstText returns the first selector's non-empty trimmed text
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
		if value, ok := sel.Attr("value"); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// titleCase uppercases the first letter of each space-separated word
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
