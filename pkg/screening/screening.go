// Package screening provides the optional AI safety screen applied to
// submitted prompt text. Screening is advisory: its result is stored for
// moderators to consult and never gates a moderation transition.
package screening

import (
	"context"
	"fmt"
)

// Result is the outcome of a screening pass.
type Result struct {
	// Flagged is true when the provider considers the text unsafe.
	Flagged bool
	// Categories lists the flagged policy categories (empty when not flagged).
	Categories []string
}

// Screener evaluates submitted prompt text against a safety policy.
type Screener interface {
	Screen(ctx context.Context, text string) (*Result, error)
}

// Config selects and configures a screening provider.
type Config struct {
	Provider string // "openai" or "anthropic"
	Model    string // optional provider-specific override
	APIKey   string
}

// New creates a Screener for the configured provider.
func New(cfg *Config) (Screener, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("screening provider %q requires an API key", cfg.Provider)
	}

	switch cfg.Provider {
	case "openai":
		return newOpenAIScreener(cfg.APIKey, cfg.Model), nil
	case "anthropic":
		return newAnthropicScreener(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown screening provider: %q", cfg.Provider)
	}
}
