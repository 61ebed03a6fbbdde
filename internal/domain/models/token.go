package models

import "time"

// Chain identifies the network a token lives on.
type Chain string

const (
	ChainUnknown Chain = ""
	ChainETH     Chain = "eth"
	ChainSOL     Chain = "sol"
	ChainBSC     Chain = "bsc"
)

// ParseChain maps common user/provider spellings to a Chain.
func ParseChain(s string) Chain {
	switch s {
	case "eth", "ETH", "ethereum", "Ethereum":
		return ChainETH
	case "sol", "SOL", "solana", "Solana":
		return ChainSOL
	case "bsc", "BSC", "bnb", "binance-smart-chain":
		return ChainBSC
	default:
		return ChainUnknown
	}
}

// TokenQuery is one user lookup request. Built per command, never persisted.
type TokenQuery struct {
	Raw       string
	ChainHint Chain
}

// ATH is the highest recorded price and when it happened.
type ATH struct {
	PriceUSD float64
	Date     time.Time
}

// TokenInfo is the normalized market snapshot produced by the resolver.
// Optional numerics are pointers: a nil field means the provider had no data,
// never a zero placeholder.
type TokenInfo struct {
	Symbol            string
	Name              string
	Chain             Chain
	ContractAddress   string
	PriceUSD          *float64
	MarketCapUSD      *float64
	Volume24hUSD      *float64
	PriceChange24hPct *float64
	LiquidityUSD      *float64
	ATH               *ATH
	FirstScanner      string
	PairCreatedAt     *time.Time
	SocialLinks       map[string]string
	TradingLinks      map[string]string
}

// ChartAnalysisResult is the verbatim text returned by the vision model.
type ChartAnalysisResult struct {
	NarrativeText string
}

// Float64 returns a pointer to v. Convenience for building TokenInfo values.
func Float64(v float64) *float64 { return &v }
