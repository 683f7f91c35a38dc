package scraper

// Metric identifies one of the fixed fundamental metrics pulled from a
// quote page.
type Metric string

const (
	MetricPreviousClose Metric = "previous_close"
	MetricOpen          Metric = "open"
	MetricDaysRange     Metric = "days_range"
	MetricVolume        Metric = "volume"
	MetricAvgVolume     Metric = "avg_volume"
	MetricMarketCap     Metric = "market_cap"
	MetricBeta          Metric = "beta"
	MetricPERatio       Metric = "pe_ratio"
	MetricEarningsDate  Metric = "earnings_date"
	MetricTargetEst     Metric = "target_est"
)

// AllMetrics lists every metric in extraction order
var AllMetrics = []Metric{
	MetricPreviousClose,
	MetricOpen,
	MetricDaysRange,
	MetricVolume,
	MetricAvgVolume,
	MetricMarketCap,
	MetricBeta,
	MetricPERatio,
	MetricEarningsDate,
	MetricTargetEst,
}

// rawMetrics are preserved as page text instead of being normalized
var rawMetrics = map[Metric]bool{
	MetricDaysRange:    true,
	MetricEarningsDate: true,
}

// IsRaw reports whether the metric's value is kept as the raw page string
func (m Metric) IsRaw() bool {
	return rawMetrics[m]
}

// metricSpec binds a metric to its ordered extraction strategies:
// the statistics-section label first, then the streamer data-field
// attribute, then the legacy data-test id. Order encodes priority.
type metricSpec struct {
	metric        Metric
	statsLabel    string   // row label inside the quote-statistics section
	streamerField string   // fin-streamer data-field attribute
	dataTestID    string   // legacy [data-test="..."] id
	variants      []string // lowercase label synonyms for the table fallback
}

// metricSpecs is the full extraction table. The variants lists extend the
// generic snake_case-derived forms computed in the table scanner.
var metricSpecs = []metricSpec{
	{
		metric:        MetricPreviousClose,
		statsLabel:    "Previous Close",
		streamerField: "regularMarketPreviousClose",
		dataTestID:    "PREV_CLOSE-value",
		variants:      []string{"previous close", "prev close"},
	},
	{
		metric:        MetricOpen,
		statsLabel:    "Open",
		streamerField: "regularMarketOpen",
		dataTestID:    "OPEN-value",
		variants:      []string{"open"},
	},
	{
		metric:        MetricDaysRange,
		statsLabel:    "Day's Range",
		streamerField: "regularMarketDayRange",
		dataTestID:    "DAYS_RANGE-value",
		variants:      []string{"day's range", "days range"},
	},
	{
		metric:        MetricVolume,
		statsLabel:    "Volume",
		streamerField: "regularMarketVolume",
		dataTestID:    "TD_VOLUME-value",
		variants:      []string{"volume"},
	},
	{
		metric:        MetricAvgVolume,
		statsLabel:    "Avg. Volume",
		streamerField: "averageVolume",
		dataTestID:    "AVERAGE_VOLUME_3MONTH-value",
		variants:      []string{"avg. volume", "average volume"},
	},
	{
		metric:        MetricMarketCap,
		statsLabel:    "Market Cap",
		streamerField: "marketCap",
		dataTestID:    "MARKET_CAP-value",
		variants:      []string{"market cap", "market cap (intraday)"},
	},
	{
		metric:        MetricBeta,
		statsLabel:    "Beta",
		streamerField: "beta",
		dataTestID:    "BETA_5Y-value",
		variants:      []string{"beta (5y monthly)", "beta"},
	},
	{
		metric:        MetricPERatio,
		statsLabel:    "PE Ratio",
		streamerField: "trailingPE",
		dataTestID:    "PE_RATIO-value",
		variants:      []string{"pe ratio (ttm)", "p/e ratio", "pe ratio"},
	},
	{
		metric:        MetricEarningsDate,
		statsLabel:    "Earnings Date",
		streamerField: "earningsDate",
		dataTestID:    "EARNINGS_DATE-value",
		variants:      []string{"earnings date"},
	},
	{
		metric:        MetricTargetEst,
		statsLabel:    "1y Target Est",
		streamerField: "targetMeanPrice",
		dataTestID:    "ONE_YEAR_TARGET_PRICE-value",
		variants:      []string{"1y target est", "target price"},
	},
}

// specFor returns the extraction spec for a metric
func specFor(metric Metric) (metricSpec, bool) {
	for _, spec := range metricSpecs {
		if spec.metric == metric {
			return spec, true
		}
	}
	return metricSpec{}, false
}

// selectedSpecs filters metricSpecs down to the requested metric names.
// An empty subset means all metrics.
func selectedSpecs(subset []string) []metricSpec {
	if len(subset) == 0 {
		return metricSpecs
	}
	requested := make(map[Metric]bool, len(subset))
	for _, name := range subset {
		requested[Metric(name)] = true
	}
	specs := make([]metricSpec, 0, len(subset))
	for _, spec := range metricSpecs {
		if requested[spec.metric] {
			specs = append(specs, spec)
		}
	}
	return specs
}
