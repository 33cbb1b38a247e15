package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for promptvault-engine.
// Values come from config.yaml with environment variable overrides; secrets
// (passwords, API keys) must only come from environment variables.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time from the build, not from config

	Auth      AuthConfig      `yaml:"auth"`
	SSO       SSOConfig       `yaml:"sso"`
	Database  DatabaseConfig  `yaml:"database"`
	Screening ScreeningConfig `yaml:"screening"`

	// MigrationsPath is the directory containing golang-migrate SQL files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// CatalogPath is the YAML file holding the predefined category list.
	CatalogPath string `yaml:"catalog_path" env:"CATALOG_PATH" env-default:"categories.yaml"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT signatures are validated
	// against the JWKS endpoints. Set to false for local development
	// without an identity provider.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr.
	JWKSEndpoints map[string]string `yaml:"-"`
}

// SSOConfig holds the company SSO entry-point configuration. When
// AuthorizeURL is empty the SSO endpoint returns an empty URL, which the
// frontend treats as "SSO not offered".
type SSOConfig struct {
	AuthorizeURL  string `yaml:"authorize_url" env:"SSO_AUTHORIZE_URL" env-default:""`
	ClientID      string `yaml:"client_id" env:"SSO_CLIENT_ID" env-default:"promptvault"`
	RedirectURL   string `yaml:"redirect_url" env:"SSO_REDIRECT_URL" env-default:""`
	SessionSecret string `yaml:"-" env:"SSO_SESSION_SECRET"` // Secret - not in YAML
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"promptvault"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"promptvault"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ScreeningConfig holds the optional AI submission-screening settings.
// Provider is "openai", "anthropic" or empty (screening disabled).
type ScreeningConfig struct {
	Provider string `yaml:"provider" env:"SCREENING_PROVIDER" env-default:""`
	Model    string `yaml:"model" env:"SCREENING_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"SCREENING_API_KEY"` // Secret - not in YAML
}

// Enabled reports whether a screening provider is configured.
func (c *ScreeningConfig) Enabled() bool {
	return c.Provider != ""
}

// URL returns the PostgreSQL connection string.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// Load reads configuration from config.yaml with environment variable
// overrides. If config.yaml does not exist, the environment alone is used.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	if cfg.Auth.EnableVerification && len(cfg.Auth.JWKSEndpoints) == 0 {
		return nil, fmt.Errorf("JWKS_ENDPOINTS must be set when auth verification is enabled")
	}

	return cfg, nil
}

// parseJWKSEndpoints parses "issuer1=url1,issuer2=url2" into a map.
// Malformed pairs are skipped.
func parseJWKSEndpoints(s string) map[string]string {
	endpoints := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		issuer, url, ok := strings.Cut(pair, "=")
		if !ok || issuer == "" || url == "" {
			continue
		}
		endpoints[strings.TrimSpace(issuer)] = strings.TrimSpace(url)
	}
	return endpoints
}
