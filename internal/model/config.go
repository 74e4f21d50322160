package model

import "time"

// Config holds the complete rollcall configuration.
type Config struct {
	Extract     ExtractConfig     `yaml:"extract" json:"extract" mapstructure:"extract"`
	LLM         LLMConfig         `yaml:"llm" json:"llm" mapstructure:"llm"`
	Store       StoreConfig       `yaml:"store" json:"store" mapstructure:"store"`
	Output      OutputConfig      `yaml:"output" json:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" json:"rate_limit" mapstructure:"rate_limit"`
}

// ExtractConfig tunes the row-classification and grouping heuristics.
type ExtractConfig struct {
	// JobTitleMinLen: relationship strings longer than this are read as job
	// titles. Empirically tuned; a known source of misclassification on
	// files with verbose relationship values.
	JobTitleMinLen int `yaml:"job_title_min_len" json:"job_title_min_len" mapstructure:"job_title_min_len"`

	// ProximityWindow is the max row distance between a dependent and its
	// employee when linking families.
	ProximityWindow int `yaml:"proximity_window" json:"proximity_window" mapstructure:"proximity_window"`
}

// LLMConfig configures the mapping producer.
type LLMConfig struct {
	// Provider name: "openai" or "" (disabled). BaseURL covers any
	// OpenAI-compatible endpoint (Groq, Ollama, vLLM).
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" json:"model" mapstructure:"model"`
	APIKey   string `yaml:"api_key" json:"-" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Timeout for API requests, in seconds.
	Timeout   int `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
	MaxTokens int `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`

	HTTPProxy  string `yaml:"http_proxy" json:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" json:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" json:"no_proxy" mapstructure:"no_proxy"`
}

// StoreConfig configures the mapping learning store.
type StoreConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`

	// Path to the JSON mapping history file.
	Path string `yaml:"path" json:"path" mapstructure:"path"`

	// MemoryTTL bounds the in-memory layer in front of the history file.
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl" mapstructure:"memory_ttl"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose" mapstructure:"verbose"`

	// Format of the rendered table: "csv" or "xlsx".
	Format string `yaml:"format" json:"format" mapstructure:"format"`

	IncludeStats bool `yaml:"include_stats" json:"include_stats" mapstructure:"include_stats"`
}

// ConcurrencyConfig configures batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`
}

// RateLimitConfig gates mapping-producer API calls.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst" mapstructure:"burst"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			JobTitleMinLen:  15,
			ProximityWindow: 5,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 1500,
		},
		Store: StoreConfig{
			Enabled:   true,
			Path:      "mapping_history.json",
			MemoryTTL: 30 * time.Minute,
		},
		Output: OutputConfig{
			Format:       "csv",
			IncludeStats: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
		},
	}
}
