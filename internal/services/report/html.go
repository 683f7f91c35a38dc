package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ternarybob/lucrum/internal/models"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
table { border-collapse: collapse; } td, th { border: 1px solid #ccc; padding: 4px 10px; }
code, pre { background: #f4f4f4; }
hr { border: none; border-top: 1px solid #ddd; margin: 2rem 0; }
</style>
</head>
<body>
%s
</body>
</html>
`

// writeHTML renders the markdown report to a standalone HTML page
func (s *Service) writeHTML(markdown string, report *models.AnalysisReport, path string) error {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(markdown), &buf); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	title := "Stock Analysis - " + strings.Join(report.Tickers, ", ")
	page := fmt.Sprintf(htmlShell, title, buf.String())
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	return nil
}

// RenderIndexHTML builds a simple HTML index of the reports directory,
// newest report first. Served at the web root.
func (s *Service) RenderIndexHTML() (string, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			entries = nil
		} else {
			return "", fmt.Errorf("failed to read reports directory: %w", err)
		}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".md" {
			names = append(names, entry.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return LatestReportTime(names[i]).After(LatestReportTime(names[j]))
	})

	var md strings.Builder
	md.WriteString("# Lucrum Reports\n\n")
	if len(names) == 0 {
		md.WriteString("No reports generated yet. POST to `/analyze` to create one.\n")
	} else {
		for _, name := range names {
			ts := LatestReportTime(name)
			if ts.IsZero() {
				md.WriteString(fmt.Sprintf("- %s\n", name))
			} else {
				md.WriteString(fmt.Sprintf("- %s (%s)\n", name, ts.Format("2006-01-02 15:04")))
			}
		}
	}

	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md.String()), &buf); err != nil {
		return "", fmt.Errorf("failed to render index: %w", err)
	}
	return fmt.Sprintf(htmlShell, "Lucrum Reports", buf.String()), nil
}
