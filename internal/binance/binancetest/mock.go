// Package binancetest provides a testify mock of the exchange REST client.
package binancetest

import (
	"context"

	"crypto-sentiment-dashboard/internal/binance"
	"github.com/stretchr/testify/mock"
)

// MockRestClient is a mock implementation of the RestClientInterface.
type MockRestClient struct {
	mock.Mock
}

var _ binance.RestClientInterface = (*MockRestClient)(nil)

func (m *MockRestClient) GetServerTime(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRestClient) GetExchangeInfo(ctx context.Context) (*binance.ExchangeInfoResponse, error) {
	args := m.Called(ctx)
	info, _ := args.Get(0).(*binance.ExchangeInfoResponse)
	return info, args.Error(1)
}

func (m *MockRestClient) GetRecentTrades(ctx context.Context, symbol string, limit int) ([]binance.RecentTrade, error) {
	args := m.Called(ctx, symbol, limit)
	trades, _ := args.Get(0).([]binance.RecentTrade)
	return trades, args.Error(1)
}

func (m *MockRestClient) Get24hTickers(ctx context.Context) ([]binance.Ticker24h, error) {
	args := m.Called(ctx)
	tickers, _ := args.Get(0).([]binance.Ticker24h)
	return tickers, args.Error(1)
}

func (m *MockRestClient) GetAccount(ctx context.Context) (*binance.AccountResponse, error) {
	args := m.Called(ctx)
	account, _ := args.Get(0).(*binance.AccountResponse)
	return account, args.Error(1)
}
