package social

import (
	"strings"
	"testing"

	"github.com/ternarybob/lucrum/internal/common"
)

func TestSearchURL(t *testing.T) {
	config := common.NewDefaultConfig()
	service := &Service{config: config}

	got := service.SearchURL("TSLA")
	want := "https://www.reddit.com/search/?q=%24TSLA"
	if got != want {
		t.Errorf("SearchURL(TSLA) = %q, want %q", got, want)
	}

	// Trailing slash on the base URL must not double up.
	config.Social.RedditBaseURL = "https://old.reddit.com/"
	got = service.SearchURL("AAPL")
	want = "https://old.reddit.com/search/?q=%24AAPL"
	if got != want {
		t.Errorf("SearchURL(AAPL) = %q, want %q", got, want)
	}
}

func TestPageContext(t *testing.T) {
	html := `<html><body>
<p><strong>TSLA</strong> earnings beat expectations</p>
<p><a href="/r/stocks/comments/1">discussion thread</a></p>
</body></html>`

	got := PageContext("https://www.reddit.com/search/?q=%24TSLA", html)
	if !strings.Contains(got, "**TSLA**") {
		t.Errorf("PageContext = %q, want markdown emphasis preserved", got)
	}
	if !strings.Contains(got, "earnings beat expectations") {
		t.Errorf("PageContext = %q, want post text preserved", got)
	}
	if !strings.Contains(got, "discussion thread") {
		t.Errorf("PageContext = %q, want link text preserved", got)
	}
}

func TestPageContextEmptyPage(t *testing.T) {
	got := PageContext("https://www.reddit.com", "<html><body><script>x()</script></body></html>")
	if got != "" {
		t.Errorf("PageContext = %q, want empty for script-only page", got)
	}
}

func TestExtractPageText(t *testing.T) {
	html := `<html><head>
<style>body { color: red; }</style>
<script>var tracking = true;</script>
</head><body>
<div>TSLA to the moon</div>

<p>  Earnings look strong  </p>
<noscript>enable javascript</noscript>
<script>more.js()</script>
</body></html>`

	got := ExtractPageText(html)
	want := "TSLA to the moon\nEarnings look strong"
	if got != want {
		t.Errorf("ExtractPageText = %q, want %q", got, want)
	}
}

func TestExtractPageTextEmpty(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no body", "<html><head></head></html>"},
		{"scripts only", "<html><body><script>x()</script></body></html>"},
		{"blank body", "<html><body>   \n\n  </body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPageText(tt.html); got != "" {
				t.Errorf("ExtractPageText = %q, want empty", got)
			}
		})
	}
}
