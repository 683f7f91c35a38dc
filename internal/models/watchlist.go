package models

// Watchlist is the YAML file format accepted by the monitor command
type Watchlist struct {
	Tickers          []string `yaml:"tickers"`
	ThresholdPercent float64  `yaml:"threshold_percent,omitempty"`
	IntervalMinutes  int      `yaml:"interval_minutes,omitempty"`
}
