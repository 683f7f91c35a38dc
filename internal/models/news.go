package models

import (
	"time"
)

// NewsItem is a single headline collected from a ticker's news listing.
// PublishedDate is best effort: when the source page only shows a relative
// date ("3 hours ago") it is resolved against the extraction time.
type NewsItem struct {
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Source        string    `json:"source,omitempty"`
	PublishedDate time.Time `json:"published_date"`
}
