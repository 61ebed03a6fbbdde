package repository

import (
	"context"

	"memewatch/internal/domain/models"
)

// TokenProvider is one upstream market-data API. Lookup and search return
// typed errors: not_found when the provider answered cleanly with no match,
// provider_unavailable on transport/HTTP failure.
type TokenProvider interface {
	Name() string
	// LookupByAddress fetches token data directly by contract address.
	LookupByAddress(ctx context.Context, chain models.Chain, address string) (*models.TokenInfo, error)
	// SearchSymbol returns candidate matches for a free-form symbol/name,
	// in the provider's relevance order. Ranking is the caller's concern.
	SearchSymbol(ctx context.Context, chain models.Chain, symbol string) ([]*models.TokenInfo, error)
}

// SecurityAuditor checks a contract for honeypot/rug-pull indicators.
type SecurityAuditor interface {
	Audit(ctx context.Context, chain models.Chain, address string) (*models.SecurityReport, error)
}

// MarketActivity serves on-chain holder and trade detail for a token.
type MarketActivity interface {
	TopHolders(ctx context.Context, address string, limit int) ([]models.HolderInfo, error)
	RecentTrades(ctx context.Context, address string, limit int) ([]models.TradeInfo, error)
}

// ChartVision is a vision-capable completion service.
type ChartVision interface {
	// Complete sends an instruction plus one image and returns the text
	// completion verbatim.
	Complete(ctx context.Context, instruction, mediaType string, image []byte) (string, error)
}

// Metrics records operational counters for the bot.
type Metrics interface {
	RecordCommand(command, status string)
	RecordProviderRequest(provider, status string)
	RecordProviderLatency(provider string, seconds float64)
	RecordGatewayLatency(seconds float64)
}
