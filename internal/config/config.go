package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppName        string   `mapstructure:"APP_NAME"`
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret      string   `mapstructure:"JWT_SECRET"`
	AccessTokenTTL int      `mapstructure:"ACCESS_TOKEN_TTL_MINUTES"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	UploadDir      string   `mapstructure:"UPLOAD_DIR"`
	MaxUploadMB    int      `mapstructure:"MAX_UPLOAD_MB"`
	LLMEndpoint    string   `mapstructure:"LLM_ENDPOINT"`
	LLMAPIKey      string   `mapstructure:"LLM_API_KEY"`
	LLMModel       string   `mapstructure:"LLM_MODEL"`
	LLMMaxTokens   int      `mapstructure:"LLM_MAX_TOKENS"`
	LLMTemperature float64  `mapstructure:"LLM_TEMPERATURE"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_NAME", "mediclinic-api")
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("ACCESS_TOKEN_TTL_MINUTES", 30)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MAX_UPLOAD_MB", 50)
	v.SetDefault("LLM_MODEL", "llama-3.2-11b")
	v.SetDefault("LLM_MAX_TOKENS", 512)
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("APP_NAME")
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("ACCESS_TOKEN_TTL_MINUTES")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("UPLOAD_DIR")
	v.BindEnv("MAX_UPLOAD_MB")
	v.BindEnv("LLM_ENDPOINT")
	v.BindEnv("LLM_API_KEY")
	v.BindEnv("LLM_MODEL")
	v.BindEnv("LLM_MAX_TOKENS")
	v.BindEnv("LLM_TEMPERATURE")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() && cfg.DatabaseURL == "" {
		log.Println("WARNING: DATABASE_URL not set - using in-memory demo storage.")
		log.Println("WARNING: All patient data is lost on restart.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DemoMode reports whether the server runs against the in-memory demo store
// instead of Postgres.
func (c *Config) DemoMode() bool {
	return c.DatabaseURL == ""
}

// LLMEnabled reports whether an external language model endpoint is
// configured. When false, explanation endpoints fall back to canned text.
func (c *Config) LLMEnabled() bool {
	return c.LLMEndpoint != "" && c.LLMAPIKey != ""
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT secret and a real database are required.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when ENV=%q", c.Env)
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when ENV=%q (in-memory demo storage is development only)", c.Env)
		}
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL_MINUTES must be positive, got %d", c.AccessTokenTTL)
	}
	return nil
}
