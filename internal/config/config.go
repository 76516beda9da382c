// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "context"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath and QuestionsPath locate the two JSON data feeds.
	CatalogPath   string `koanf:"catalog_path"`
	QuestionsPath string `koanf:"questions_path"`

	// TopK is the number of ranked items returned by default.
	TopK int `koanf:"top_k"`

	// MaxRecommendLimit caps GET /sessions/{id}/recommendations?limit.
	MaxRecommendLimit int `koanf:"max_recommend_limit"`

	// FocusCount is the number of profile attributes the strength and
	// weakness match modes concentrate on.
	FocusCount int `koanf:"focus_count"`

	// EffectScale multiplies every answer effect delta before application.
	EffectScale float64 `koanf:"effect_scale"`

	// StyleHybridThreshold is the maximum score gap for a hybrid style result.
	StyleHybridThreshold float64 `koanf:"style_hybrid_threshold"`

	// StyleDisplayRange is the half-width of the symmetric display scale
	// style intensities are reported on.
	StyleDisplayRange float64 `koanf:"style_display_range"`

	// SessionCapacity bounds the number of live sessions kept in memory.
	SessionCapacity int `koanf:"session_capacity"`

	// SessionShardCount configures the number of shards in the session store.
	SessionShardCount int `koanf:"session_shard_count"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8080",
		CatalogPath:          "data/rackets.json",
		QuestionsPath:        "data/questions.json",
		TopK:                 3,
		MaxRecommendLimit:    10,
		FocusCount:           3,
		EffectScale:          1.0,
		StyleHybridThreshold: 3,
		StyleDisplayRange:    16,
		SessionCapacity:      10_000,
		SessionShardCount:    8,
	}
}
