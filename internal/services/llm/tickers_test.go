package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"
)

func TestExtractDollarReferenceSkipsModel(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("should not be called")}
	extractor := NewTickerExtractor(gen, arbor.NewLogger())

	ticker, err := extractor.Extract(context.Background(), "what do you think about $AAPL today?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticker != "AAPL" {
		t.Errorf("ticker = %q, want AAPL", ticker)
	}
	if len(gen.requests) != 0 {
		t.Error("model was called for an explicit $TICKER reference")
	}
}

func TestExtractViaModel(t *testing.T) {
	gen := &fakeGenerator{response: "TSLA"}
	extractor := NewTickerExtractor(gen, arbor.NewLogger())

	ticker, err := extractor.Extract(context.Background(), "how is tesla doing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticker != "TSLA" {
		t.Errorf("ticker = %q, want TSLA", ticker)
	}
}

func TestExtractModelWrapsAnswerInProse(t *testing.T) {
	gen := &fakeGenerator{response: "Ticker: MSFT"}
	extractor := NewTickerExtractor(gen, arbor.NewLogger())

	ticker, err := extractor.Extract(context.Background(), "microsoft stock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticker != "MSFT" {
		t.Errorf("ticker = %q, want MSFT", ticker)
	}
}

func TestExtractUnknown(t *testing.T) {
	gen := &fakeGenerator{response: "UNKNOWN"}
	extractor := NewTickerExtractor(gen, arbor.NewLogger())

	if _, err := extractor.Extract(context.Background(), "what is the meaning of life"); err == nil {
		t.Fatal("expected error for UNKNOWN response")
	}
}

func TestExtractAllDollarReferences(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("should not be called")}
	extractor := NewTickerExtractor(gen, arbor.NewLogger())

	tickers := extractor.ExtractAll(context.Background(), "compare $AAPL and $MSFT and $AAPL again")
	if len(tickers) != 2 || tickers[0] != "AAPL" || tickers[1] != "MSFT" {
		t.Fatalf("tickers = %v, want [AAPL MSFT]", tickers)
	}
}

func TestExtractAllBareCommaList(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("should not be called")}
	extractor := NewTickerExtractor(gen, arbor.NewLogger())

	tickers := extractor.ExtractAll(context.Background(), "AAPL, MSFT, GOOG")
	if len(tickers) != 3 {
		t.Fatalf("tickers = %v, want 3 entries", tickers)
	}
}

func TestExtractAllFreeTextFallsBackToModel(t *testing.T) {
	gen := &fakeGenerator{response: "NVDA"}
	extractor := NewTickerExtractor(gen, arbor.NewLogger())

	tickers := extractor.ExtractAll(context.Background(), "how is nvidia doing this quarter")
	if len(tickers) != 1 || tickers[0] != "NVDA" {
		t.Fatalf("tickers = %v, want [NVDA]", tickers)
	}
}
