// Package models defines the rows persisted by the dashboard backend.
package models

// All lists every row type, in migration order.
func All() []interface{} {
	return []interface{}{
		&TradeView{},
		&CoinIndicator{},
		&WhaleTrade{},
		&Asset{},
		&PredictionTrade{},
		&ExchangeCredential{},
	}
}
