package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crypto-sentiment-dashboard/internal/config"
	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	baseURL        = "https://api.binance.com/api/v3"
	testnetBaseURL = "https://testnet.binance.vision/api/v3"
	recvWindow     = "5000" // How long a signed request is valid in milliseconds
	apiKeyHeader   = "X-MBX-APIKEY"

	defaultMaxRetries = 3
)

// ErrMissingCredentials is returned by signed endpoints when the client has no key pair.
var ErrMissingCredentials = errors.New("binance: api key and secret are required")

// Credentials is a user's exchange API key pair.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// RestClientInterface defines the exchange calls the dashboard needs.
type RestClientInterface interface {
	GetServerTime(ctx context.Context) (int64, error)
	GetExchangeInfo(ctx context.Context) (*ExchangeInfoResponse, error)
	GetRecentTrades(ctx context.Context, symbol string, limit int) ([]RecentTrade, error)
	Get24hTickers(ctx context.Context) ([]Ticker24h, error)
	GetAccount(ctx context.Context) (*AccountResponse, error)
}

// RestClient is a client for the Binance REST API.
// It implements the RestClientInterface.
type RestClient struct {
	client     *resty.Client
	creds      Credentials
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// ensure RestClient implements the interface
var _ RestClientInterface = (*RestClient)(nil)

// NewRestClient creates a new Binance REST API client acting with the given credentials.
// Public endpoints work with empty credentials.
func NewRestClient(cfg *config.Binance, creds Credentials, logger *zap.Logger) *RestClient {
	url := cfg.BaseURL
	switch {
	case url != "":
		logger.Info("Using custom Binance endpoint", zap.String("url", url))
	case cfg.Testnet:
		url = testnetBaseURL
		logger.Warn("Using Binance Testnet")
	default:
		url = baseURL
		logger.Debug("Using Binance Production API")
	}

	client := resty.New().
		SetBaseURL(url).
		SetHeader("Accept", "application/json").
		SetJSONUnmarshaler(json.Unmarshal)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if creds.APIKey != "" {
		client.SetHeader(apiKeyHeader, creds.APIKey)
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}

	return &RestClient{
		client:     client,
		creds:      creds,
		logger:     logger,
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

// APIError is an error response returned by the exchange.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance api error: status %d, code %d: %s", e.StatusCode, e.Code, e.Message)
}

func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = resp.String()
	}
	return apiErr
}

// sign creates a HMAC-SHA256 signature for the request.
func (c *RestClient) sign(data string) string {
	h := hmac.New(sha256.New, []byte(c.creds.SecretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// signedQuery adds timestamp, recvWindow and signature to params.
func (c *RestClient) signedQuery(params url.Values) (string, error) {
	if c.creds.APIKey == "" || c.creds.SecretKey == "" {
		return "", ErrMissingCredentials
	}
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("recvWindow", recvWindow)

	queryString := params.Encode()
	return queryString + "&signature=" + c.sign(queryString), nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	req.SetContext(ctx)

	for i := 0; i < c.maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if err != nil {
			// Network or other client-side errors
			shouldRetry = true
		} else {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests || statusCode == http.StatusTeapot {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
			err = newAPIError(resp)
		}

		if !shouldRetry {
			return nil, err
		}
		if i == c.maxRetries-1 {
			break
		}

		if retryAfter == 0 {
			// Exponential backoff: 1x, 2x, 4x the base delay
			retryAfter = time.Duration(math.Pow(2, float64(i))) * c.backoff
		}

		c.logger.Warn("Request failed, retrying...",
			zap.String("url", url),
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, err)
}

// GetServerTime fetches the current server time from Binance.
// This is a good endpoint to test connectivity.
func (c *RestClient) GetServerTime(ctx context.Context) (int64, error) {
	var result struct {
		ServerTime int64 `json:"serverTime"`
	}

	req := c.client.R().SetResult(&result)
	if _, err := c.doRequest(ctx, http.MethodGet, "/time", req); err != nil {
		return 0, fmt.Errorf("failed to get server time: %w", err)
	}
	return result.ServerTime, nil
}

// GetExchangeInfo fetches exchange trading rules and symbol information.
func (c *RestClient) GetExchangeInfo(ctx context.Context) (*ExchangeInfoResponse, error) {
	var exchangeInfo ExchangeInfoResponse

	req := c.client.R().SetResult(&exchangeInfo)
	if _, err := c.doRequest(ctx, http.MethodGet, "/exchangeInfo", req); err != nil {
		return nil, fmt.Errorf("failed to get exchange info: %w", err)
	}
	return &exchangeInfo, nil
}

// GetRecentTrades fetches up to limit of the most recent trades for symbol.
func (c *RestClient) GetRecentTrades(ctx context.Context, symbol string, limit int) ([]RecentTrade, error) {
	var trades []RecentTrade

	req := c.client.R().
		SetQueryParam("symbol", symbol).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&trades)
	if _, err := c.doRequest(ctx, http.MethodGet, "/trades", req); err != nil {
		return nil, fmt.Errorf("failed to get recent trades for %s: %w", symbol, err)
	}
	return trades, nil
}

// Get24hTickers fetches the rolling 24 hour statistics of every symbol.
func (c *RestClient) Get24hTickers(ctx context.Context) ([]Ticker24h, error) {
	var tickers []Ticker24h

	req := c.client.R().SetResult(&tickers)
	if _, err := c.doRequest(ctx, http.MethodGet, "/ticker/24hr", req); err != nil {
		return nil, fmt.Errorf("failed to get 24h tickers: %w", err)
	}
	return tickers, nil
}

// GetAccount fetches the balances of the account owning the client's credentials.
func (c *RestClient) GetAccount(ctx context.Context) (*AccountResponse, error) {
	query, err := c.signedQuery(url.Values{"omitZeroBalances": {"true"}})
	if err != nil {
		return nil, err
	}

	var account AccountResponse
	req := c.client.R().
		SetQueryString(query).
		SetResult(&account)
	if _, err := c.doRequest(ctx, http.MethodGet, "/account", req); err != nil {
		c.logger.Error("Failed to get account", zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
