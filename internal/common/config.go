package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Scoring     ScoringConfig    `toml:"scoring"`
	Prediction  PredictionConfig `toml:"prediction"`
	Optimizer   OptimizerConfig  `toml:"optimizer"`
	Extractor   ExtractorConfig  `toml:"extractor"`
	Webhook     WebhookConfig    `toml:"webhook"`
	Reports     ReportsConfig    `toml:"reports"`
	Keywords    KeywordsConfig   `toml:"keywords"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// ScoringConfig holds the weighted-heuristic parameters for smile prediction.
// Every value is overridable from the config file; defaults match the tuned
// production weights.
type ScoringConfig struct {
	MarketCycleWeight     float64 `toml:"market_cycle_weight" validate:"gte=0"`
	TrendWeight           float64 `toml:"trend_weight" validate:"gte=0"`
	RiskLevelWeight       float64 `toml:"risk_level_weight" validate:"gte=0"`
	SuggestionWeight      float64 `toml:"suggestion_weight" validate:"gte=0"`
	ConfidenceBonus       float64 `toml:"confidence_bonus" validate:"gte=0"`
	BuyThreshold          float64 `toml:"buy_threshold" validate:"gt=0"`
	SellThreshold         float64 `toml:"sell_threshold" validate:"gt=0"`
	StrongSignalThreshold float64 `toml:"strong_signal_threshold" validate:"gt=0"`
}

// PredictionConfig controls the prediction store behavior
type PredictionConfig struct {
	LookbackDays int `toml:"lookback_days" validate:"gt=0"` // Active-prediction window for duplicate detection and pending queries
}

// OptimizerConfig holds the sample-count gates for performance snapshots and
// classifier retraining. Kept as named settings so boundary values are testable.
type OptimizerConfig struct {
	SnapshotMinSamples int     `toml:"snapshot_min_samples" validate:"gt=0"` // Verified samples required before writing a performance snapshot
	RetrainMinSamples  int     `toml:"retrain_min_samples" validate:"gt=0"`  // Labeled samples required before classifier retraining
	ForestSize         int     `toml:"forest_size" validate:"gt=0"`          // Random forest tree count
	ForestFeatures     int     `toml:"forest_features" validate:"gt=0"`      // Features sampled per split
	TestFraction       float64 `toml:"test_fraction" validate:"gt=0,lt=1"`   // Holdout fraction for evaluation
}

// ExtractorConfig selects and configures the LLM provider used to turn post
// text into a structured signal record
type ExtractorConfig struct {
	Provider string       `toml:"provider" validate:"oneof=claude gemini"` // "claude" or "gemini"
	Claude   ClaudeConfig `toml:"claude"`
	Gemini   GeminiConfig `toml:"gemini"`
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (ANTHROPIC_API_KEY or config)
	Model       string  `toml:"model"`       // Model for extraction (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 2048)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.3)
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for extraction (default: "gemini-3-flash-preview")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "4s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.3)
}

// WebhookConfig contains the chat webhook push configuration
type WebhookConfig struct {
	URL       string `toml:"url"`        // Webhook endpoint; empty disables pushes
	Timeout   string `toml:"timeout"`    // HTTP request timeout as duration string (default: "10s")
	RateLimit string `toml:"rate_limit"` // Minimum interval between pushes (default: "3s")
}

// ReportsConfig contains the cron schedules for report generation
type ReportsConfig struct {
	DailySchedule  string `toml:"daily_schedule"`  // Cron expression for the daily report
	WeeklySchedule string `toml:"weekly_schedule"` // Cron expression for the weekly report
}

// KeywordsConfig points at an optional YAML file overriding the built-in
// action keyword table
type KeywordsConfig struct {
	File string `toml:"file"`
}

// NewDefaultConfig creates a configuration with default values.
// Scoring weights and optimizer gates are the hand-tuned production numbers;
// only user-facing settings should normally be changed in smilewatch.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Scoring: ScoringConfig{
			MarketCycleWeight:     3,
			TrendWeight:           2,
			RiskLevelWeight:       1,
			SuggestionWeight:      1,
			ConfidenceBonus:       1,
			BuyThreshold:          4,
			SellThreshold:         4,
			StrongSignalThreshold: 6,
		},
		Prediction: PredictionConfig{
			LookbackDays: 30,
		},
		Optimizer: OptimizerConfig{
			SnapshotMinSamples: 10,
			RetrainMinSamples:  50,
			ForestSize:         100,
			ForestFeatures:     4,
			TestFraction:       0.2,
		},
		Extractor: ExtractorConfig{
			Provider: "claude",
			Claude: ClaudeConfig{
				Model:       "claude-haiku-3-5-20241022",
				MaxTokens:   2048,
				Timeout:     "2m",
				RateLimit:   "1s",
				Temperature: 0.3,
			},
			Gemini: GeminiConfig{
				Model:       "gemini-3-flash-preview",
				Timeout:     "2m",
				RateLimit:   "4s", // Free-tier 15 RPM
				Temperature: 0.3,
			},
		},
		Webhook: WebhookConfig{
			Timeout:   "10s",
			RateLimit: "3s",
		},
		Reports: ReportsConfig{
			DailySchedule:  "0 9 * * *", // Every day 09:00
			WeeklySchedule: "0 9 * * 1", // Monday 09:00
		},
		Keywords: KeywordsConfig{},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
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

// Validate checks the configuration against struct validation rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SMILEWATCH_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if badgerPath := os.Getenv("SMILEWATCH_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("SMILEWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if lookback := os.Getenv("SMILEWATCH_LOOKBACK_DAYS"); lookback != "" {
		if d, err := strconv.Atoi(lookback); err == nil {
			config.Prediction.LookbackDays = d
		}
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" && config.Extractor.Claude.APIKey == "" {
		config.Extractor.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("SMILEWATCH_CLAUDE_API_KEY"); apiKey != "" {
		config.Extractor.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" && config.Extractor.Gemini.APIKey == "" {
		config.Extractor.Gemini.APIKey = apiKey
	}

	if url := os.Getenv("SMILEWATCH_WEBHOOK_URL"); url != "" {
		config.Webhook.URL = url
	}
}

// LookbackWindow returns the duplicate-detection window as a duration
func (c *PredictionConfig) LookbackWindow() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}
