package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/lucrum/internal/models"
)

// articleSelectors locate news list items, in priority order. The first
// selector that yields a non-empty set wins.
var articleSelectors = []string{
	`div[data-testid="news-stream"] li.stream-item`,
	`li.js-stream-content`,
	`li[data-test-locator="StreamItem"]`,
	`div[data-testid="ContentStream"] li`,
	`ul[data-testid="news-stream"] li`,
	`section[data-testid="news"] li`,
}

// linkSelectors locate the headline link within one article item
var linkSelectors = []string{
	`a.subtle-link`,
	`h3 a`,
	`a[data-test-locator="StreamItemTitle"]`,
	`a[href*="/news/"]`,
	`a`,
}

// findArticles returns the first non-empty article set on the page along
// with the selector that matched it.
func findArticles(doc *goquery.Document) (*goquery.Selection, string) {
	for _, selector := range articleSelectors {
		articles := doc.Find(selector)
		if articles.Length() > 0 {
			return articles, selector
		}
	}
	return nil, ""
}

// ParseNews extracts up to max news items from a captured news listing.
// Relative hrefs are resolved against baseURL and items de-duplicate by
// exact title against seen.
func ParseNews(doc *goquery.Document, baseURL string, max int, seen []models.NewsItem, now time.Time) []models.NewsItem {
	articles, _ := findArticles(doc)
	if articles == nil {
		return nil
	}

	items := make([]models.NewsItem, 0, max)
	titles := make(map[string]bool, len(seen)+max)
	for _, item := range seen {
		titles[item.Title] = true
	}

	articles.EachWithBreak(func(_ int, article *goquery.Selection) bool {
		if len(items) >= max {
			return false
		}

		link := findLink(article)
		if link == nil {
			return true
		}

		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" || titles[title] {
			return true
		}

		url := href
		if !strings.HasPrefix(href, "http") {
			url = strings.TrimSuffix(baseURL, "/") + href
		}

		published := now
		source := "Yahoo Finance"
		if meta := strings.TrimSpace(article.Find("time, .publishing").First().Text()); meta != "" {
			// listings show "Source • 3 hours ago" style text
			dateText := meta
			if idx := strings.LastIndex(meta, "•"); idx >= 0 {
				if s := strings.TrimSpace(meta[:idx]); s != "" {
					source = s
				}
				dateText = meta[idx+len("•"):]
			}
			published = ParseRelativeDate(dateText, now)
		}

		titles[title] = true
		items = append(items, models.NewsItem{
			Title:         title,
			URL:           url,
			Source:        source,
			PublishedDate: published,
		})
		return true
	})

	return items
}

// findLink returns the first matching headline link inside one article item
func findLink(article *goquery.Selection) *goquery.Selection {
	for _, selector := range linkSelectors {
		link := article.Find(selector).First()
		if link.Length() > 0 {
			return link
		}
	}
	return nil
}
