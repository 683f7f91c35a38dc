package main

import (
	"reflect"
	"testing"
)

func TestSplitTickers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"AAPL,MSFT", []string{"AAPL", "MSFT"}},
		{" aapl , msft ", []string{"AAPL", "MSFT"}},
		{"", nil},
		{",,", nil},
	}

	for _, tt := range tests {
		if got := splitTickers(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitTickers(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewAnalysisRequestDefaults(t *testing.T) {
	req := newAnalysisRequest([]string{"AAPL"}, "", "", "", false, false, false)

	if !req.IncludeNews || !req.IncludeSocial || !req.IncludeCharts {
		t.Errorf("all stages should be on by default: news=%v social=%v charts=%v",
			req.IncludeNews, req.IncludeSocial, req.IncludeCharts)
	}
	if req.RequestID == "" {
		t.Error("request ID should be assigned")
	}
	if len(req.Metrics) != 0 {
		t.Errorf("metrics = %v, want none", req.Metrics)
	}
}

func TestNewAnalysisRequestSkipFlags(t *testing.T) {
	req := newAnalysisRequest([]string{"AAPL"}, " pe_ratio , eps ", "1mo", "/tmp/out", true, true, true)

	if req.IncludeNews || req.IncludeSocial || req.IncludeCharts {
		t.Errorf("skip flags should turn stages off: news=%v social=%v charts=%v",
			req.IncludeNews, req.IncludeSocial, req.IncludeCharts)
	}
	if !reflect.DeepEqual(req.Metrics, []string{"pe_ratio", "eps"}) {
		t.Errorf("metrics = %v", req.Metrics)
	}
	if req.DateRange != "1mo" || req.OutputDir != "/tmp/out" {
		t.Errorf("date range / output dir not carried: %q %q", req.DateRange, req.OutputDir)
	}
}
