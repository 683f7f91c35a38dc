package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/lucrum/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Browser     BrowserConfig `toml:"browser"`
	Scraper     ScraperConfig `toml:"scraper"`
	Reports     ReportsConfig `toml:"reports"`
	Monitor     MonitorConfig `toml:"monitor"`
	Social      SocialConfig  `toml:"social"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	LLM         LLMConfig     `toml:"llm"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
	// Snapshot cache freshness window in hours. A cached snapshot younger
	// than this is served without re-scraping. Zero disables caching.
	CacheHours int `toml:"cache_hours" validate:"gte=0"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// BrowserConfig contains headless browser settings
type BrowserConfig struct {
	UserAgent          string        `toml:"user_agent"`
	Headless           bool          `toml:"headless"`
	PoolSize           int           `toml:"pool_size" validate:"gte=1,lte=8"`
	NavigationTimeout  time.Duration `toml:"navigation_timeout"`
	ContentWaitTime    time.Duration `toml:"content_wait_time"` // settle time after navigation before extraction
	ScrollWaitTime     time.Duration `toml:"scroll_wait_time"`  // settle time after a scroll-to-reveal pass
	DisableSandbox     bool          `toml:"disable_sandbox"`
	DisableGPU         bool          `toml:"disable_gpu"`
	WindowWidth        int           `toml:"window_width"`
	WindowHeight       int           `toml:"window_height"`
	StartupProbeOnBoot bool          `toml:"startup_probe_on_boot"` // navigate about:blank at pool init to verify Chrome works
}

// ScraperConfig contains financial-page extraction settings
type ScraperConfig struct {
	BaseURL      string        `toml:"base_url" validate:"url"` // quote page origin, relative news links resolve against this
	MaxNewsItems int           `toml:"max_news_items" validate:"gte=1"`
	RequestDelay time.Duration `toml:"request_delay"` // minimum spacing between navigations to the same host
}

// ReportsConfig contains report output settings
type ReportsConfig struct {
	Dir       string `toml:"dir"`        // reports output directory, created on startup
	TempDir   string `toml:"temp_dir"`   // screenshots and scratch files
	WriteHTML bool   `toml:"write_html"` // additionally render the markdown report to HTML
}

// MonitorConfig contains price-monitor defaults for the monitor command
type MonitorConfig struct {
	ThresholdPercent float64 `toml:"threshold_percent" validate:"gte=0"` // alert when |change%| exceeds this
	IntervalMinutes  int     `toml:"interval_minutes" validate:"gte=1"`
	WatchlistFile    string  `toml:"watchlist_file"` // optional YAML watchlist
}

// SocialConfig contains social-sentiment collection settings
type SocialConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedditBaseURL string `toml:"reddit_base_url"`
	MaxTextChars  int    `toml:"max_text_chars"` // extracted text truncation for sentiment records
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`     // operation timeout as duration string
	RateLimit   string  `toml:"rate_limit"`  // minimum spacing between requests
	Temperature float32 `toml:"temperature"`
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
	RateLimit   string  `toml:"rate_limit"`
	Temperature float32 `toml:"temperature"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude"
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in lucrum.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
			CacheHours: 4,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Browser: BrowserConfig{
			UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Headless:           true,
			PoolSize:           1,
			NavigationTimeout:  30 * time.Second,
			ContentWaitTime:    3 * time.Second,
			ScrollWaitTime:     2 * time.Second,
			DisableSandbox:     true,
			DisableGPU:         true,
			WindowWidth:        1920,
			WindowHeight:       1080,
			StartupProbeOnBoot: true,
		},
		Scraper: ScraperConfig{
			BaseURL:      "https://finance.yahoo.com",
			MaxNewsItems: 5,
			RequestDelay: 1 * time.Second,
		},
		Reports: ReportsConfig{
			Dir:       "./reports",
			TempDir:   "./temp",
			WriteHTML: false,
		},
		Monitor: MonitorConfig{
			ThresholdPercent: 5.0,
			IntervalMinutes:  5,
		},
		Social: SocialConfig{
			Enabled:       true,
			RedditBaseURL: "https://www.reddit.com",
			MaxTextChars:  1000,
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (no fallback)
			Model:       "gemini-3-flash-preview",
			Timeout:     "5m",
			RateLimit:   "4s", // 15 RPM free tier
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "5m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
// kvStorage can be nil (API key replacement is skipped)
func LoadFromFile(kvStorage interfaces.KeyValueStorage, path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles(kvStorage)
	}
	return LoadFromFiles(kvStorage, path)
}

// LoadFromFiles loads configuration from multiple files, later files override
// earlier files. Priority: CLI flags > env > last file > ... > first file > defaults.
func LoadFromFiles(kvStorage interfaces.KeyValueStorage, paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural constraints on the loaded configuration
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch c.LLM.DefaultProvider {
	case LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("invalid configuration: unknown llm provider %q", c.LLM.DefaultProvider)
	}
	return nil
}

// EnsureDirectories creates the directories the application writes to
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Reports.Dir, c.Reports.TempDir, c.Storage.Badger.Path, "logs"}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: LUCRUM_ENV, fallback: GO_ENV)
	if env := os.Getenv("LUCRUM_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("LUCRUM_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LUCRUM_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("LUCRUM_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if cacheHours := os.Getenv("LUCRUM_CACHE_HOURS"); cacheHours != "" {
		if h, err := strconv.Atoi(cacheHours); err == nil {
			config.Storage.CacheHours = h
		}
	}

	// Logging configuration
	if level := os.Getenv("LUCRUM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LUCRUM_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("LUCRUM_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Browser configuration
	if userAgent := os.Getenv("LUCRUM_BROWSER_USER_AGENT"); userAgent != "" {
		config.Browser.UserAgent = userAgent
	}
	if headless := os.Getenv("LUCRUM_BROWSER_HEADLESS"); headless != "" {
		if h, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = h
		}
	}
	if poolSize := os.Getenv("LUCRUM_BROWSER_POOL_SIZE"); poolSize != "" {
		if ps, err := strconv.Atoi(poolSize); err == nil {
			config.Browser.PoolSize = ps
		}
	}
	if navTimeout := os.Getenv("LUCRUM_BROWSER_NAVIGATION_TIMEOUT"); navTimeout != "" {
		if nt, err := time.ParseDuration(navTimeout); err == nil {
			config.Browser.NavigationTimeout = nt
		}
	}
	if contentWait := os.Getenv("LUCRUM_BROWSER_CONTENT_WAIT_TIME"); contentWait != "" {
		if cw, err := time.ParseDuration(contentWait); err == nil {
			config.Browser.ContentWaitTime = cw
		}
	}

	// Scraper configuration
	if baseURL := os.Getenv("LUCRUM_SCRAPER_BASE_URL"); baseURL != "" {
		config.Scraper.BaseURL = baseURL
	}
	if maxNews := os.Getenv("LUCRUM_SCRAPER_MAX_NEWS_ITEMS"); maxNews != "" {
		if mn, err := strconv.Atoi(maxNews); err == nil {
			config.Scraper.MaxNewsItems = mn
		}
	}
	if requestDelay := os.Getenv("LUCRUM_SCRAPER_REQUEST_DELAY"); requestDelay != "" {
		if rd, err := time.ParseDuration(requestDelay); err == nil {
			config.Scraper.RequestDelay = rd
		}
	}

	// Reports configuration
	if reportsDir := os.Getenv("LUCRUM_REPORTS_DIR"); reportsDir != "" {
		config.Reports.Dir = reportsDir
	}
	if tempDir := os.Getenv("LUCRUM_TEMP_DIR"); tempDir != "" {
		config.Reports.TempDir = tempDir
	}
	if writeHTML := os.Getenv("LUCRUM_REPORTS_WRITE_HTML"); writeHTML != "" {
		if wh, err := strconv.ParseBool(writeHTML); err == nil {
			config.Reports.WriteHTML = wh
		}
	}

	// Monitor configuration
	if threshold := os.Getenv("LUCRUM_MONITOR_THRESHOLD_PERCENT"); threshold != "" {
		if t, err := strconv.ParseFloat(threshold, 64); err == nil {
			config.Monitor.ThresholdPercent = t
		}
	}
	if interval := os.Getenv("LUCRUM_MONITOR_INTERVAL_MINUTES"); interval != "" {
		if i, err := strconv.Atoi(interval); err == nil {
			config.Monitor.IntervalMinutes = i
		}
	}
	if watchlist := os.Getenv("LUCRUM_MONITOR_WATCHLIST_FILE"); watchlist != "" {
		config.Monitor.WatchlistFile = watchlist
	}

	// Social configuration
	if enabled := os.Getenv("LUCRUM_SOCIAL_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Social.Enabled = e
		}
	}
	if redditBase := os.Getenv("LUCRUM_SOCIAL_REDDIT_BASE_URL"); redditBase != "" {
		config.Social.RedditBaseURL = redditBase
	}

	// Gemini configuration
	if apiKey := os.Getenv("LUCRUM_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("LUCRUM_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if timeout := os.Getenv("LUCRUM_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if rateLimit := os.Getenv("LUCRUM_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}
	if temperature := os.Getenv("LUCRUM_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("LUCRUM_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // LUCRUM_ prefix takes priority
	}
	if model := os.Getenv("LUCRUM_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("LUCRUM_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("LUCRUM_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}
	if rateLimit := os.Getenv("LUCRUM_CLAUDE_RATE_LIMIT"); rateLimit != "" {
		config.Claude.RateLimit = rateLimit
	}
	if temperature := os.Getenv("LUCRUM_CLAUDE_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Claude.Temperature = float32(t)
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("LUCRUM_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string, logLevel string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables -> KV store -> config fallback -> error.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"LUCRUM_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"google_api_key":    {"LUCRUM_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"LUCRUM_CLAUDE_API_KEY"},
		"claude_api_key":    {"LUCRUM_CLAUDE_API_KEY"},
	}

	// For Claude, also check the standard ANTHROPIC_API_KEY env var
	if name == "anthropic_api_key" || name == "claude_api_key" {
		if envValue := os.Getenv("ANTHROPIC_API_KEY"); envValue != "" {
			return envValue, nil
		}
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
