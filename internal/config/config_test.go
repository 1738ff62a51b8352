package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, "auth:\n  jwt_secret: s3cret\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 100000.0, cfg.Whale.Threshold)
	assert.Equal(t, 10, cfg.Whale.MaxPairs)
	assert.Equal(t, 500, cfg.Whale.TradeLimit)
	assert.Equal(t, "USDT", cfg.Whale.QuoteAsset)
	assert.Equal(t, 20.0, cfg.Binance.RateLimit)
	assert.Equal(t, 5, cfg.Binance.RateLimitBurst)
	assert.Equal(t, 10*time.Second, cfg.Binance.Timeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "score", cfg.Suggestions.Strategy)
}

func TestLoadConfig_FileValues(t *testing.T) {
	dir := writeConfig(t, `
auth:
  jwt_secret: s3cret
whale:
  threshold: 250000
  max_pairs: 3
  interval: 90s
sentiment:
  buy_keywords: [long]
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 250000.0, cfg.Whale.Threshold)
	assert.Equal(t, 3, cfg.Whale.MaxPairs)
	assert.Equal(t, 90*time.Second, cfg.Whale.Interval)
	assert.Equal(t, []string{"long"}, cfg.Sentiment.BuyKeywords)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "whale:\n  max_pairs: 3\n")
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("WHALE_MAX_PAIRS", "7")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 7, cfg.Whale.MaxPairs)
}

func TestLoadConfig_SecretOnlyNeededToServe(t *testing.T) {
	dir := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)

	assert.ErrorContains(t, cfg.Auth.Validate(), "jwt_secret")
	assert.NoError(t, Auth{JWTSecret: "s3cret"}.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Whale:    Whale{Threshold: 1, MaxPairs: 1, TradeLimit: 1},
			Database: Database{Driver: "postgres"},
		}
	}

	testCases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero threshold", mutate: func(c *Config) { c.Whale.Threshold = 0 }, errMsg: "threshold"},
		{name: "no pairs", mutate: func(c *Config) { c.Whale.MaxPairs = 0 }, errMsg: "max_pairs"},
		{name: "trade limit too high", mutate: func(c *Config) { c.Whale.TradeLimit = 1001 }, errMsg: "trade_limit"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, errMsg: "database.driver"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.errMsg)
			}
		})
	}
}
