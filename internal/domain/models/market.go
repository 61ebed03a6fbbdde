package models

import "time"

// HolderInfo is one entry from a token's top-holder list.
type HolderInfo struct {
	Owner      string
	Amount     float64
	Percentage float64
}

// TradeSide is the direction of a swap.
type TradeSide string

const (
	TradeBuy  TradeSide = "buy"
	TradeSell TradeSide = "sell"
)

// TradeInfo is one recent swap against a token's pool.
type TradeInfo struct {
	Side     TradeSide
	PriceUSD float64
	Amount   float64
	Time     time.Time
}
