package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if ADVISOR_CONFIG is set
//  3. env (prefix ADVISOR_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("ADVISOR_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ADVISOR_ADDR, ADVISOR_TOP_K, ...
	// Map env keys like ADVISOR_TOP_K -> top_k, preserving underscores to
	// match the koanf tags on the struct.
	envProvider := env.Provider("ADVISOR_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "advisor_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.CatalogPath == "":
		return fmt.Errorf("%w: catalog_path must not be empty", ErrInvalidConfig)
	case cfg.QuestionsPath == "":
		return fmt.Errorf("%w: questions_path must not be empty", ErrInvalidConfig)
	case cfg.TopK < 1:
		return fmt.Errorf("%w: top_k must be positive", ErrInvalidConfig)
	case cfg.MaxRecommendLimit < cfg.TopK:
		return fmt.Errorf("%w: max_recommend_limit must be >= top_k", ErrInvalidConfig)
	case cfg.FocusCount < 1:
		return fmt.Errorf("%w: focus_count must be positive", ErrInvalidConfig)
	case cfg.StyleHybridThreshold < 0:
		return fmt.Errorf("%w: style_hybrid_threshold must not be negative", ErrInvalidConfig)
	case cfg.StyleDisplayRange <= 0:
		return fmt.Errorf("%w: style_display_range must be positive", ErrInvalidConfig)
	case cfg.SessionCapacity < 1:
		return fmt.Errorf("%w: session_capacity must be positive", ErrInvalidConfig)
	case cfg.SessionShardCount < 1:
		return fmt.Errorf("%w: session_shard_count must be positive", ErrInvalidConfig)
	}
	return nil
}
