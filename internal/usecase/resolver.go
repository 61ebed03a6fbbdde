package usecase

import (
	"context"
	"time"

	"memewatch/internal/chain"
	"memewatch/internal/domain/models"
	"memewatch/internal/domain/repository"
	"memewatch/internal/scanerr"
	"memewatch/pkg/logger"
)

// anyChain keys the provider order used for symbol searches with no chain
// hint, where the match itself decides the chain.
const anyChain = "any"

// Resolver turns raw user input into a normalized TokenInfo by walking the
// configured provider order for the inferred chain. One pass, no retries:
// the fallback hop is the next provider in the list.
type Resolver struct {
	providers map[string]repository.TokenProvider
	priority  map[string][]string
	metrics   repository.Metrics
	log       *logger.Logger
}

func NewResolver(
	providers []repository.TokenProvider,
	priority map[string][]string,
	metrics repository.Metrics,
	log *logger.Logger,
) *Resolver {
	byName := make(map[string]repository.TokenProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Resolver{
		providers: byName,
		priority:  priority,
		metrics:   metrics,
		log:       log,
	}
}

// Resolve implements the token-resolution workflow. Input classification
// happens before any network call: malformed input never reaches a provider.
func (r *Resolver) Resolve(ctx context.Context, q models.TokenQuery) (*models.TokenInfo, error) {
	kind := chain.Detect(q.Raw)

	if kind == chain.KindNone && !chain.ValidSymbol(q.Raw) {
		return nil, scanerr.New(scanerr.CodeInvalidInput, "empty or malformed token query")
	}

	ch := chain.Infer(kind, q.ChainHint)

	if kind != chain.KindNone {
		address := q.Raw
		if kind == chain.KindEVM {
			address = chain.NormalizeEVM(address)
		}
		return r.byAddress(ctx, ch, address)
	}
	return r.bySymbol(ctx, ch, q.Raw)
}

func (r *Resolver) byAddress(ctx context.Context, ch models.Chain, address string) (*models.TokenInfo, error) {
	var cleanMiss, unavailable bool

	for _, p := range r.providersFor(ch) {
		info, err := r.lookup(ctx, p, ch, address)
		if err == nil {
			return info, nil
		}
		switch scanerr.CodeOf(err) {
		case scanerr.CodeNotFound:
			cleanMiss = true
		default:
			unavailable = true
			r.log.Warn("provider lookup failed",
				logger.String("provider", p.Name()),
				logger.String("address", address),
				logger.Error(err))
		}
	}
	return nil, r.exhausted(cleanMiss, unavailable)
}

func (r *Resolver) bySymbol(ctx context.Context, ch models.Chain, symbol string) (*models.TokenInfo, error) {
	var cleanMiss, unavailable bool

	for _, p := range r.providersFor(ch) {
		candidates, err := r.search(ctx, p, ch, symbol)
		if err == nil {
			if len(candidates) > 0 {
				return pickBest(candidates), nil
			}
			cleanMiss = true
			continue
		}
		switch scanerr.CodeOf(err) {
		case scanerr.CodeNotFound:
			cleanMiss = true
		default:
			unavailable = true
			r.log.Warn("provider search failed",
				logger.String("provider", p.Name()),
				logger.String("symbol", symbol),
				logger.Error(err))
		}
	}
	return nil, r.exhausted(cleanMiss, unavailable)
}

func (r *Resolver) lookup(ctx context.Context, p repository.TokenProvider, ch models.Chain, address string) (*models.TokenInfo, error) {
	start := time.Now()
	info, err := p.LookupByAddress(ctx, ch, address)
	r.record(p.Name(), start, err)
	return info, err
}

func (r *Resolver) search(ctx context.Context, p repository.TokenProvider, ch models.Chain, symbol string) ([]*models.TokenInfo, error) {
	start := time.Now()
	candidates, err := p.SearchSymbol(ctx, ch, symbol)
	r.record(p.Name(), start, err)
	return candidates, err
}

func (r *Resolver) record(provider string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = scanerr.CodeOf(err).String()
	}
	r.metrics.RecordProviderRequest(provider, status)
	r.metrics.RecordProviderLatency(provider, time.Since(start).Seconds())
}

// providersFor maps the configured name list for a chain onto live clients.
// Providers without a configured key are absent from the map and skipped.
func (r *Resolver) providersFor(ch models.Chain) []repository.TokenProvider {
	key := string(ch)
	if ch == models.ChainUnknown {
		key = anyChain
	}
	names := r.priority[key]
	out := make([]repository.TokenProvider, 0, len(names))
	for _, name := range names {
		if p, ok := r.providers[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *Resolver) exhausted(cleanMiss, unavailable bool) error {
	if cleanMiss {
		return scanerr.New(scanerr.CodeNotFound, "no provider returned a match")
	}
	if unavailable {
		return scanerr.New(scanerr.CodeProviderUnavailable, "all providers failed")
	}
	return scanerr.New(scanerr.CodeProviderUnavailable, "no provider configured for chain")
}

// pickBest prefers the deepest liquidity, then the largest market cap.
// Strictly-greater comparison keeps the provider's first result on ties,
// since providers return relevance-ranked lists.
func pickBest(candidates []*models.TokenInfo) *models.TokenInfo {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if rank(c) > rank(best) {
			best = c
		}
	}
	return best
}

func rank(info *models.TokenInfo) float64 {
	if info.LiquidityUSD != nil {
		return *info.LiquidityUSD
	}
	if info.MarketCapUSD != nil {
		return *info.MarketCapUSD
	}
	return -1
}
