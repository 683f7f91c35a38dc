package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// scanTables is the final fallback for metrics that survived the selector
// chain unresolved. It walks every two-or-more-cell row, lower-cases the
// first cell, and matches it against each missing metric's label variants.
// First matching row wins per metric. Linear scan, pages only have tens of
// rows.
func scanTables(doc *goquery.Document, missing []metricSpec) map[Metric]string {
	found := make(map[Metric]string)

	rows := doc.Find(`div[data-testid="quote-statistics"] tr`)
	if rows.Length() == 0 {
		rows = doc.Find("table tr, div tr")
	}

	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return true
		}

		label := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		value := strings.TrimSpace(cells.Eq(1).Text())
		if label == "" || value == "" || IsPlaceholder(value) {
			return true
		}

		for _, spec := range missing {
			if _, done := found[spec.metric]; done {
				continue
			}
			for _, variant := range labelVariants(spec) {
				if strings.Contains(label, variant) {
					found[spec.metric] = value
					break
				}
			}
		}

		return len(found) < len(missing)
	})

	return found
}

// labelVariants returns the lowercase label synonyms to match a metric's
// table row: the generic snake_case-derived forms plus the hand-curated
// variants carried on the metric definition.
func labelVariants(spec metricSpec) []string {
	name := string(spec.metric)
	variants := []string{
		strings.ReplaceAll(name, "_", " "),
		strings.ReplaceAll(name, "_", "-"),
	}
	variants = append(variants, spec.variants...)
	return variants
}
