package dexscreener

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"memewatch/internal/domain/models"
	"memewatch/internal/scanerr"
	xhttp "memewatch/pkg/http"
	"memewatch/pkg/util"
)

const providerName = "dexscreener"

// Client resolves tokens through the DexScreener pair API. No API key.
type Client struct {
	http    *xhttp.Client
	baseURL string
}

func New(httpClient *xhttp.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) Name() string { return providerName }

func chainID(chain models.Chain) string {
	switch chain {
	case models.ChainETH:
		return "ethereum"
	case models.ChainSOL:
		return "solana"
	case models.ChainBSC:
		return "bsc"
	default:
		return ""
	}
}

// pair mirrors the DexScreener pair object. Most numeric fields arrive as
// JSON numbers but priceUsd is a string; everything is optional.
type pair struct {
	ChainID   string `json:"chainId"`
	URL       string `json:"url"`
	BaseToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD    string             `json:"priceUsd"`
	Volume      map[string]float64 `json:"volume"`
	PriceChange map[string]float64 `json:"priceChange"`
	Liquidity   *struct {
		USD *float64 `json:"usd"`
	} `json:"liquidity"`
	MarketCap     *float64 `json:"marketCap"`
	FDV           *float64 `json:"fdv"`
	PairCreatedAt int64    `json:"pairCreatedAt"`
	Info          *struct {
		Websites []struct {
			URL string `json:"url"`
		} `json:"websites"`
		Socials []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"socials"`
	} `json:"info"`
}

type pairsResponse struct {
	Pairs []pair `json:"pairs"`
}

// LookupByAddress resolves a token by contract address on one chain.
func (c *Client) LookupByAddress(ctx context.Context, chain models.Chain, address string) (*models.TokenInfo, error) {
	var resp pairsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/latest/dex/tokens/" + address,
	}, &resp)
	if err != nil {
		return nil, classify(err)
	}

	best := bestPair(resp.Pairs, chain)
	if best == nil {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no pairs for %s", providerName, address)
	}
	return toTokenInfo(best), nil
}

// SearchSymbol returns candidates for a free-form symbol, provider order.
func (c *Client) SearchSymbol(ctx context.Context, chain models.Chain, symbol string) ([]*models.TokenInfo, error) {
	var resp pairsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/latest/dex/search",
		QueryParams: map[string]string{"q": symbol},
	}, &resp)
	if err != nil {
		return nil, classify(err)
	}

	wantChain := chainID(chain)
	out := make([]*models.TokenInfo, 0, len(resp.Pairs))
	for i := range resp.Pairs {
		p := &resp.Pairs[i]
		if wantChain != "" && p.ChainID != wantChain {
			continue
		}
		if models.ParseChain(p.ChainID) == models.ChainUnknown {
			continue
		}
		out = append(out, toTokenInfo(p))
	}
	if len(out) == 0 {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no matches for %q", providerName, symbol)
	}
	return out, nil
}

// bestPair picks the deepest pool on the wanted chain.
func bestPair(pairs []pair, chain models.Chain) *pair {
	wantChain := chainID(chain)
	var best *pair
	var bestLiq float64
	for i := range pairs {
		p := &pairs[i]
		if wantChain != "" && p.ChainID != wantChain {
			continue
		}
		liq := 0.0
		if p.Liquidity != nil && p.Liquidity.USD != nil {
			liq = *p.Liquidity.USD
		}
		if best == nil || liq > bestLiq {
			best = p
			bestLiq = liq
		}
	}
	return best
}

func toTokenInfo(p *pair) *models.TokenInfo {
	info := &models.TokenInfo{
		Symbol:          p.BaseToken.Symbol,
		Name:            p.BaseToken.Name,
		Chain:           models.ParseChain(p.ChainID),
		ContractAddress: p.BaseToken.Address,
	}

	if v, err := strconv.ParseFloat(p.PriceUSD, 64); err == nil {
		info.PriceUSD = models.Float64(v)
	}
	if v, ok := p.Volume["h24"]; ok {
		info.Volume24hUSD = models.Float64(v)
	}
	if v, ok := p.PriceChange["h24"]; ok {
		info.PriceChange24hPct = models.Float64(v)
	}
	if p.Liquidity != nil && p.Liquidity.USD != nil {
		info.LiquidityUSD = models.Float64(*p.Liquidity.USD)
	}
	switch {
	case p.MarketCap != nil:
		info.MarketCapUSD = models.Float64(*p.MarketCap)
	case p.FDV != nil:
		info.MarketCapUSD = models.Float64(*p.FDV)
	}
	if p.PairCreatedAt > 0 {
		t := util.FromUnix(p.PairCreatedAt)
		info.PairCreatedAt = &t
	}

	if p.Info != nil {
		socials := map[string]string{}
		for _, s := range p.Info.Socials {
			if s.URL != "" {
				socials[strings.ToLower(s.Type)] = s.URL
			}
		}
		if len(p.Info.Websites) > 0 && p.Info.Websites[0].URL != "" {
			socials["website"] = p.Info.Websites[0].URL
		}
		if len(socials) > 0 {
			info.SocialLinks = socials
		}
	}
	if p.URL != "" {
		info.TradingLinks = map[string]string{providerName: p.URL}
	}

	return info
}

func classify(err error) error {
	var se *xhttp.StatusError
	if errors.As(err, &se) && se.StatusCode == 404 {
		return scanerr.Wrap(scanerr.CodeNotFound, providerName+": not found", err)
	}
	return scanerr.Wrap(scanerr.CodeProviderUnavailable, providerName+" request failed", err)
}
