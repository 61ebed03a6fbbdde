package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memewatch/internal/domain/models"
	"memewatch/internal/domain/repository"
	"memewatch/internal/scanerr"
	"memewatch/pkg/logger"
)

type fakeProvider struct {
	name     string
	lookupFn func(chain models.Chain, address string) (*models.TokenInfo, error)
	searchFn func(chain models.Chain, symbol string) ([]*models.TokenInfo, error)
	lookups  int
	searches int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) LookupByAddress(_ context.Context, chain models.Chain, address string) (*models.TokenInfo, error) {
	f.lookups++
	if f.lookupFn == nil {
		return nil, scanerr.New(scanerr.CodeNotFound, f.name+": no match")
	}
	return f.lookupFn(chain, address)
}

func (f *fakeProvider) SearchSymbol(_ context.Context, chain models.Chain, symbol string) ([]*models.TokenInfo, error) {
	f.searches++
	if f.searchFn == nil {
		return nil, scanerr.New(scanerr.CodeNotFound, f.name+": no match")
	}
	return f.searchFn(chain, symbol)
}

type nopMetrics struct{}

func (nopMetrics) RecordCommand(string, string)          {}
func (nopMetrics) RecordProviderRequest(string, string)  {}
func (nopMetrics) RecordProviderLatency(string, float64) {}
func (nopMetrics) RecordGatewayLatency(float64)          {}

func solPriority() map[string][]string {
	return map[string][]string{
		"sol": {"primary", "fallback"},
		"eth": {"primary"},
		"any": {"primary", "fallback"},
	}
}

func providers(fakes ...*fakeProvider) []repository.TokenProvider {
	out := make([]repository.TokenProvider, 0, len(fakes))
	for _, f := range fakes {
		out = append(out, f)
	}
	return out
}

func TestResolveInvalidInputMakesNoNetworkCall(t *testing.T) {
	primary := &fakeProvider{name: "primary"}
	r := NewResolver(providers(primary), solPriority(), nopMetrics{}, logger.Nop())

	for _, raw := range []string{"", "   ", "a\x00b"} {
		_, err := r.Resolve(context.Background(), models.TokenQuery{Raw: raw})
		assert.True(t, scanerr.Is(err, scanerr.CodeInvalidInput), "input %q", raw)
	}
	assert.Zero(t, primary.lookups)
	assert.Zero(t, primary.searches)
}

func TestResolveFallbackProviderWins(t *testing.T) {
	bonk := &models.TokenInfo{Symbol: "BONK", Chain: models.ChainSOL}
	primary := &fakeProvider{
		name: "primary",
		lookupFn: func(models.Chain, string) (*models.TokenInfo, error) {
			return nil, scanerr.New(scanerr.CodeProviderUnavailable, "primary down")
		},
	}
	fallback := &fakeProvider{
		name: "fallback",
		lookupFn: func(models.Chain, string) (*models.TokenInfo, error) {
			return bonk, nil
		},
	}
	r := NewResolver(providers(primary, fallback), solPriority(), nopMetrics{}, logger.Nop())

	got, err := r.Resolve(context.Background(), models.TokenQuery{
		Raw: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
	})
	require.NoError(t, err)
	assert.Same(t, bonk, got)
	assert.Equal(t, 1, primary.lookups)
	assert.Equal(t, 1, fallback.lookups)
}

func TestResolveAllProvidersDown(t *testing.T) {
	down := func(models.Chain, string) (*models.TokenInfo, error) {
		return nil, scanerr.New(scanerr.CodeProviderUnavailable, "down")
	}
	primary := &fakeProvider{name: "primary", lookupFn: down}
	fallback := &fakeProvider{name: "fallback", lookupFn: down}
	r := NewResolver(providers(primary, fallback), solPriority(), nopMetrics{}, logger.Nop())

	_, err := r.Resolve(context.Background(), models.TokenQuery{
		Raw: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
	})
	assert.True(t, scanerr.Is(err, scanerr.CodeProviderUnavailable))
}

func TestResolveCleanMissIsNotFound(t *testing.T) {
	primary := &fakeProvider{name: "primary"} // clean not-found
	fallback := &fakeProvider{
		name: "fallback",
		lookupFn: func(models.Chain, string) (*models.TokenInfo, error) {
			return nil, scanerr.New(scanerr.CodeProviderUnavailable, "down")
		},
	}
	r := NewResolver(providers(primary, fallback), solPriority(), nopMetrics{}, logger.Nop())

	_, err := r.Resolve(context.Background(), models.TokenQuery{
		Raw: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
	})
	assert.True(t, scanerr.Is(err, scanerr.CodeNotFound))
}

func TestResolveEVMShapeInfersETH(t *testing.T) {
	var gotChain models.Chain
	primary := &fakeProvider{
		name: "primary",
		lookupFn: func(chain models.Chain, address string) (*models.TokenInfo, error) {
			gotChain = chain
			return nil, scanerr.New(scanerr.CodeNotFound, "no match")
		},
	}
	r := NewResolver(providers(primary), solPriority(), nopMetrics{}, logger.Nop())

	_, err := r.Resolve(context.Background(), models.TokenQuery{
		Raw: "0xdAC17F958D2ee523a2206206994597C13D831ec7",
	})
	assert.True(t, scanerr.Is(err, scanerr.CodeNotFound))
	assert.Equal(t, models.ChainETH, gotChain)
}

func TestResolveChainHintBeatsShape(t *testing.T) {
	var gotChain models.Chain
	primary := &fakeProvider{
		name: "primary",
		lookupFn: func(chain models.Chain, address string) (*models.TokenInfo, error) {
			gotChain = chain
			return &models.TokenInfo{Symbol: "CAKE"}, nil
		},
	}
	priority := map[string][]string{"bsc": {"primary"}}
	r := NewResolver(providers(primary), priority, nopMetrics{}, logger.Nop())

	_, err := r.Resolve(context.Background(), models.TokenQuery{
		Raw:       "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		ChainHint: models.ChainBSC,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ChainBSC, gotChain)
}

func TestResolveSymbolPicksHighestLiquidity(t *testing.T) {
	primary := &fakeProvider{
		name: "primary",
		searchFn: func(models.Chain, string) ([]*models.TokenInfo, error) {
			return []*models.TokenInfo{
				{Symbol: "BONK", ContractAddress: "first", LiquidityUSD: models.Float64(500)},
				{Symbol: "BONK", ContractAddress: "deep", LiquidityUSD: models.Float64(900_000)},
				{Symbol: "BONK", ContractAddress: "tied", LiquidityUSD: models.Float64(900_000)},
			}, nil
		},
	}
	r := NewResolver(providers(primary), solPriority(), nopMetrics{}, logger.Nop())

	got, err := r.Resolve(context.Background(), models.TokenQuery{Raw: "bonk"})
	require.NoError(t, err)
	// highest liquidity wins; first of the tie is kept
	assert.Equal(t, "deep", got.ContractAddress)
}

func TestResolveSymbolFallsBackOnEmptyPrimary(t *testing.T) {
	wif := &models.TokenInfo{Symbol: "WIF"}
	primary := &fakeProvider{name: "primary"} // clean not-found
	fallback := &fakeProvider{
		name: "fallback",
		searchFn: func(models.Chain, string) ([]*models.TokenInfo, error) {
			return []*models.TokenInfo{wif}, nil
		},
	}
	r := NewResolver(providers(primary, fallback), solPriority(), nopMetrics{}, logger.Nop())

	got, err := r.Resolve(context.Background(), models.TokenQuery{Raw: "wif", ChainHint: models.ChainSOL})
	require.NoError(t, err)
	assert.Same(t, wif, got)
	assert.Equal(t, 1, primary.searches)
}

func TestResolveNoProvidersConfigured(t *testing.T) {
	r := NewResolver(nil, map[string][]string{}, nopMetrics{}, logger.Nop())
	_, err := r.Resolve(context.Background(), models.TokenQuery{Raw: "bonk"})
	assert.True(t, scanerr.Is(err, scanerr.CodeProviderUnavailable))
}
