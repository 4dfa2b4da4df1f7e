package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	AuthIssuer     string `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL    string `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience   string `mapstructure:"AUTH_AUDIENCE"`
	AdminJWTSecret string `mapstructure:"ADMIN_JWT_SECRET"`

	SeedRandomSeed      int64 `mapstructure:"SEED_RANDOM_SEED"`
	SeedClaimCount      int   `mapstructure:"SEED_CLAIM_COUNT"`
	SeedLookbackDays    int   `mapstructure:"SEED_LOOKBACK_DAYS"`
	SeedProvidersPerReg int   `mapstructure:"SEED_PROVIDERS_PER_REGION"`
	SeedCodesPerSystem  int   `mapstructure:"SEED_CODES_PER_SYSTEM"`
	SeedInjuryTypes     int   `mapstructure:"SEED_INJURY_TYPES"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SEED_RANDOM_SEED", 42)
	v.SetDefault("SEED_CLAIM_COUNT", 1200)
	v.SetDefault("SEED_LOOKBACK_DAYS", 1095)
	v.SetDefault("SEED_PROVIDERS_PER_REGION", 3)
	v.SetDefault("SEED_CODES_PER_SYSTEM", 21)
	v.SetDefault("SEED_INJURY_TYPES", 16)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("ADMIN_JWT_SECRET")
	v.BindEnv("SEED_RANDOM_SEED")
	v.BindEnv("SEED_CLAIM_COUNT")
	v.BindEnv("SEED_LOOKBACK_DAYS")
	v.BindEnv("SEED_PROVIDERS_PER_REGION")
	v.BindEnv("SEED_CODES_PER_SYSTEM")
	v.BindEnv("SEED_INJURY_TYPES")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() && c.AdminJWTSecret == "" && c.AuthJWKSURL == "" {
		return fmt.Errorf("production requires ADMIN_JWT_SECRET or AUTH_JWKS_URL")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
