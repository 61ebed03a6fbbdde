package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memewatch/internal/domain/models"
	"memewatch/internal/scanerr"
	xhttp "memewatch/pkg/http"
)

const bonkPairs = `{
	"schemaVersion": "1.0.0",
	"pairs": [
		{
			"chainId": "solana",
			"url": "https://dexscreener.com/solana/bonkpool",
			"baseToken": {"address": "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", "name": "Bonk", "symbol": "BONK"},
			"priceUsd": "0.0000123",
			"volume": {"h24": 12345678},
			"priceChange": {"h24": 5.2},
			"liquidity": {"usd": 900000},
			"marketCap": 800000000,
			"pairCreatedAt": 1672444800000,
			"info": {
				"websites": [{"url": "https://bonk.example"}],
				"socials": [{"type": "twitter", "url": "https://x.com/bonk"}]
			}
		},
		{
			"chainId": "solana",
			"url": "https://dexscreener.com/solana/shallow",
			"baseToken": {"address": "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", "name": "Bonk", "symbol": "BONK"},
			"priceUsd": "0.0000124",
			"liquidity": {"usd": 1000}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(xhttp.NewClient(xhttp.WithTimeout(2*time.Second)), srv.URL)
}

func TestLookupByAddressPicksDeepestPool(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/tokens/DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", r.URL.Path)
		_, _ = w.Write([]byte(bonkPairs))
	})

	info, err := c.LookupByAddress(context.Background(), models.ChainSOL, "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
	require.NoError(t, err)

	assert.Equal(t, "BONK", info.Symbol)
	assert.Equal(t, models.ChainSOL, info.Chain)
	require.NotNil(t, info.PriceUSD)
	assert.InDelta(t, 0.0000123, *info.PriceUSD, 1e-12)
	require.NotNil(t, info.MarketCapUSD)
	assert.Equal(t, float64(800000000), *info.MarketCapUSD)
	require.NotNil(t, info.LiquidityUSD)
	assert.Equal(t, float64(900000), *info.LiquidityUSD)
	assert.Equal(t, "https://x.com/bonk", info.SocialLinks["twitter"])
	assert.Equal(t, "https://bonk.example", info.SocialLinks["website"])
	assert.Equal(t, "https://dexscreener.com/solana/bonkpool", info.TradingLinks["dexscreener"])
	require.NotNil(t, info.PairCreatedAt)
}

func TestLookupByAddressFiltersChain(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bonkPairs))
	})

	_, err := c.LookupByAddress(context.Background(), models.ChainETH, "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
	assert.True(t, scanerr.Is(err, scanerr.CodeNotFound))
}

func TestLookupByAddressMissingFieldsStayNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pairs":[{"chainId":"solana","baseToken":{"address":"m","symbol":"X"}}]}`))
	})

	info, err := c.LookupByAddress(context.Background(), models.ChainSOL, "m")
	require.NoError(t, err)
	assert.Nil(t, info.PriceUSD)
	assert.Nil(t, info.MarketCapUSD)
	assert.Nil(t, info.Volume24hUSD)
	assert.Nil(t, info.PriceChange24hPct)
	assert.Nil(t, info.ATH)
}

func TestSearchSymbolReturnsChainCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/search", r.URL.Path)
		assert.Equal(t, "bonk", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(bonkPairs))
	})

	got, err := c.SearchSymbol(context.Background(), models.ChainSOL, "bonk")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BONK", got[0].Symbol)
}

func TestSearchSymbolNoMatches(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pairs":[]}`))
	})

	_, err := c.SearchSymbol(context.Background(), models.ChainSOL, "nope")
	assert.True(t, scanerr.Is(err, scanerr.CodeNotFound))
}

func TestServerErrorIsProviderUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.LookupByAddress(context.Background(), models.ChainSOL, "m")
	assert.True(t, scanerr.Is(err, scanerr.CodeProviderUnavailable))
}
