package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Binance     Binance     `mapstructure:"binance"`
	Whale       Whale       `mapstructure:"whale"`
	Market      Market      `mapstructure:"market"`
	Sentiment   Sentiment   `mapstructure:"sentiment"`
	Suggestions Suggestions `mapstructure:"suggestions"`
	Auth        Auth        `mapstructure:"auth"`
	Logger      Logger      `mapstructure:"logger"`
	Server      Server      `mapstructure:"server"`
	Database    Database    `mapstructure:"database"`
}

// Binance holds the configuration for the exchange REST API.
type Binance struct {
	BaseURL        string        `mapstructure:"base_url"`
	Testnet        bool          `mapstructure:"testnet"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	MaxRetries     int           `mapstructure:"max_retries"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Whale holds the configuration for whale-trade ingestion.
type Whale struct {
	// Threshold is the minimum notional value, in quote currency, of a whale trade.
	Threshold  float64       `mapstructure:"threshold"`
	MaxPairs   int           `mapstructure:"max_pairs"`
	TradeLimit int           `mapstructure:"trade_limit"`
	QuoteAsset string        `mapstructure:"quote_asset"`
	Interval   time.Duration `mapstructure:"interval"`
	UserID     string        `mapstructure:"user_id"`
}

// Market holds the configuration for the volatile pair listing.
type Market struct {
	QuoteAsset     string  `mapstructure:"quote_asset"`
	MinQuoteVolume float64 `mapstructure:"min_quote_volume"`
	Limit          int     `mapstructure:"limit"`
}

// Sentiment holds the keyword lists used to classify comments.
type Sentiment struct {
	BuyKeywords  []string `mapstructure:"buy_keywords"`
	SellKeywords []string `mapstructure:"sell_keywords"`
}

type Suggestions struct {
	Strategy string `mapstructure:"strategy"`
}

// Auth holds the configuration for bearer token verification.
type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Audience  string `mapstructure:"audience"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Database holds the configuration for the database.
type Database struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var supportedDrivers = map[string]bool{"sqlite": true, "postgres": true, "mysql": true}

// LoadConfig reads configuration from .env, the config file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	// A missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("binance.base_url", "")
	v.SetDefault("binance.testnet", false)
	v.SetDefault("binance.rate_limit", 20)      // requests per second
	v.SetDefault("binance.rate_limit_burst", 5) // burst size
	v.SetDefault("binance.max_retries", 3)
	v.SetDefault("binance.timeout", 10*time.Second)

	v.SetDefault("whale.threshold", 100000)
	v.SetDefault("whale.max_pairs", 10)
	v.SetDefault("whale.trade_limit", 500)
	v.SetDefault("whale.quote_asset", "USDT")
	v.SetDefault("whale.interval", 0)
	v.SetDefault("whale.user_id", "")

	v.SetDefault("market.quote_asset", "USDT")
	v.SetDefault("market.min_quote_volume", 1000000)
	v.SetDefault("market.limit", 20)

	v.SetDefault("suggestions.strategy", "score")

	// Registered so AUTH_JWT_SECRET and friends are picked up from the environment.
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.audience", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "dashboard.db")
	v.SetDefault("database.max_open_conns", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
}

// Validate checks the values that would otherwise fail later at runtime.
// Token verification settings are only checked by binaries serving requests, see Auth.Validate.
func (c Config) Validate() error {
	if c.Whale.Threshold <= 0 {
		return fmt.Errorf("whale.threshold must be positive, got %v", c.Whale.Threshold)
	}
	if c.Whale.MaxPairs < 1 {
		return fmt.Errorf("whale.max_pairs must be at least 1, got %d", c.Whale.MaxPairs)
	}
	if c.Whale.TradeLimit < 1 || c.Whale.TradeLimit > 1000 {
		return fmt.Errorf("whale.trade_limit must be within 1..1000, got %d", c.Whale.TradeLimit)
	}
	if !supportedDrivers[c.Database.Driver] {
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}

// Validate reports whether bearer tokens can be verified.
func (a Auth) Validate() error {
	if a.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	return nil
}
