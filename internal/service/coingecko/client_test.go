package coingecko

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

const pepeDetail = `{
	"id": "pepe",
	"symbol": "pepe",
	"name": "Pepe",
	"asset_platform_id": "ethereum",
	"contract_address": "0x6982508145454ce325ddbe47a25d4ec3d2311933",
	"links": {
		"homepage": ["https://pepe.example"],
		"twitter_screen_name": "pepecoineth"
	},
	"market_data": {
		"current_price": {"usd": 0.0000012},
		"market_cap": {"usd": 500000000},
		"total_volume": {"usd": 90000000},
		"price_change_percentage_24h": 4.2,
		"ath": {"usd": 0.0000043},
		"ath_date": {"usd": "2024-05-27T09:05:00.000Z"}
	}
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(xhttp.NewClient(xhttp.WithTimeout(2*time.Second)), srv.URL, "demo-key")
}

func TestLookupByAddressParsesContractEndpoint(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/ethereum/contract/0x6982508145454ce325ddbe47a25d4ec3d2311933", r.URL.Path)
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(pepeDetail))
	}))

	info, err := c.LookupByAddress(context.Background(), models.ChainETH, "0x6982508145454CE325DdBE47a25d4ec3d2311933")
	require.NoError(t, err)

	assert.Equal(t, "PEPE", info.Symbol)
	assert.Equal(t, models.ChainETH, info.Chain)
	require.NotNil(t, info.ATH)
	assert.InDelta(t, 0.0000043, info.ATH.PriceUSD, 1e-12)
	assert.Equal(t, 2024, info.ATH.Date.Year())
	assert.Equal(t, "https://x.com/pepecoineth", info.SocialLinks["twitter"])
	assert.Equal(t, "https://pepe.example", info.SocialLinks["website"])
}

func TestLookupByAddress404IsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
	}))

	_, err := c.LookupByAddress(context.Background(), models.ChainETH, "0x0000000000000000000000000000000000000001")
	assert.True(t, scanerr.Is(err, scanerr.CodeNotFound))
}

func TestSearchSymbolFetchesTopHit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pepe", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"coins": [{"id": "pepe", "symbol": "pepe", "name": "Pepe"}]}`))
	})
	mux.HandleFunc("/coins/pepe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pepeDetail))
	})
	c := newTestClient(t, mux)

	got, err := c.SearchSymbol(context.Background(), models.ChainETH, "pepe")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PEPE", got[0].Symbol)
	require.NotNil(t, got[0].PriceUSD)
}

func TestSearchSymbolWrongChainIsNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"coins": [{"id": "pepe", "symbol": "pepe", "name": "Pepe"}]}`))
	})
	mux.HandleFunc("/coins/pepe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pepeDetail))
	})
	c := newTestClient(t, mux)

	_, err := c.SearchSymbol(context.Background(), models.ChainSOL, "pepe")
	assert.True(t, scanerr.Is(err, scanerr.CodeNotFound))
}

func TestSearchSymbolEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"coins": []}`))
	}))

	_, err := c.SearchSymbol(context.Background(), models.ChainUnknown, "nope")
	assert.True(t, scanerr.Is(err, scanerr.CodeNotFound))
}

func TestServerErrorIsProviderUnavailable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.LookupByAddress(context.Background(), models.ChainETH, "0x0000000000000000000000000000000000000001")
	assert.True(t, scanerr.Is(err, scanerr.CodeProviderUnavailable))
}
