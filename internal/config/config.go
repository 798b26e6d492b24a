// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import "time"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// TopK bounds the integrated ranking length.
	TopK int `koanf:"top_k"`

	// JobWeight and PolicyWeight set the composite score weighting. They are
	// normalized to sum to 1 at use.
	JobWeight    float64 `koanf:"job_weight"`
	PolicyWeight float64 `koanf:"policy_weight"`

	// JobDisplayCount, PolicyDisplayCount, and ListingDisplayCount cap the
	// per-block sizes in the region-detail response.
	JobDisplayCount     int `koanf:"job_display_count"`
	PolicyDisplayCount  int `koanf:"policy_display_count"`
	ListingDisplayCount int `koanf:"listing_display_count"`

	// FetchTimeout bounds each upstream source call.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// Upstream source endpoints and credentials.
	JobAPIURL        string `koanf:"job_api_url"`
	JobAPIKey        string `koanf:"job_api_key"`
	PolicyAPIURL     string `koanf:"policy_api_url"`
	PolicyAPIKey     string `koanf:"policy_api_key"`
	RealEstateAPIURL string `koanf:"realestate_api_url"`
	RealEstateAPIKey string `koanf:"realestate_api_key"`

	// DealYmd overrides the real-estate contract month (yyyymm). Empty means
	// the previous calendar month.
	DealYmd string `koanf:"deal_ymd"`

	// OpenAI credentials and model selection.
	OpenAIAPIKey   string `koanf:"openai_api_key"`
	ChatModel      string `koanf:"chat_model"`
	EmbeddingModel string `koanf:"embedding_model"`

	// EmbeddingRPS rate-limits embedding calls per second.
	EmbeddingRPS float64 `koanf:"embedding_rps"`

	// EmbeddingCacheSize bounds the embedding vector cache.
	EmbeddingCacheSize int `koanf:"embedding_cache_size"`

	// PlaceholderHouseCount is reported per region in the ranking response
	// until per-region listing counts are fetched during ranking.
	PlaceholderHouseCount int `koanf:"placeholder_house_count"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8000",
		TopK:                  6,
		JobWeight:             0.5,
		PolicyWeight:          0.5,
		JobDisplayCount:       15,
		PolicyDisplayCount:    15,
		ListingDisplayCount:   20,
		FetchTimeout:          10 * time.Second,
		JobAPIURL:             "https://apis.data.go.kr/1051000/recruitment/list",
		PolicyAPIURL:          "https://www.youthcenter.go.kr/go/ythip/getPlcy",
		RealEstateAPIURL:      "https://apis.data.go.kr/1613000/RTMSDataSvcAptRent/getRTMSDataSvcAptRent",
		ChatModel:             "gpt-4o-mini",
		EmbeddingModel:        "text-embedding-3-small",
		EmbeddingRPS:          5,
		EmbeddingCacheSize:    10_000,
		PlaceholderHouseCount: 10,
	}
}
