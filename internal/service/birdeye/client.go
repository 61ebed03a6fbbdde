package birdeye

import (
	"context"
	"errors"
	"strings"

	"memewatch/internal/domain/models"
	"memewatch/internal/scanerr"
	xhttp "memewatch/pkg/http"
	"memewatch/pkg/util"
)

const providerName = "birdeye"

// Client talks to the Birdeye API. Solana only; requires an API key.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
}

func New(httpClient *xhttp.Client, baseURL, apiKey string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *Client) Name() string { return providerName }

func (c *Client) headers() map[string]string {
	return map[string]string{
		"X-API-KEY": c.apiKey,
		"x-chain":   "solana",
	}
}

type overviewResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Address               string   `json:"address"`
		Symbol                string   `json:"symbol"`
		Name                  string   `json:"name"`
		Price                 *float64 `json:"price"`
		MarketCap             *float64 `json:"mc"`
		Volume24hUSD          *float64 `json:"v24hUSD"`
		PriceChange24hPercent *float64 `json:"priceChange24hPercent"`
		Liquidity             *float64 `json:"liquidity"`
		Extensions            *struct {
			Twitter  string `json:"twitter"`
			Telegram string `json:"telegram"`
			Discord  string `json:"discord"`
			Website  string `json:"website"`
		} `json:"extensions"`
	} `json:"data"`
}

// LookupByAddress fetches the token overview for a Solana mint.
func (c *Client) LookupByAddress(ctx context.Context, chain models.Chain, address string) (*models.TokenInfo, error) {
	if chain != models.ChainSOL {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: unsupported chain %q", providerName, chain)
	}

	var resp overviewResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/defi/token_overview",
		Headers:     c.headers(),
		QueryParams: map[string]string{"address": address},
	}, &resp)
	if err != nil {
		return nil, classify(err)
	}
	if !resp.Success || resp.Data.Symbol == "" {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no data for %s", providerName, address)
	}

	d := resp.Data
	info := &models.TokenInfo{
		Symbol:            d.Symbol,
		Name:              d.Name,
		Chain:             models.ChainSOL,
		ContractAddress:   firstNonEmpty(d.Address, address),
		PriceUSD:          d.Price,
		MarketCapUSD:      d.MarketCap,
		Volume24hUSD:      d.Volume24hUSD,
		PriceChange24hPct: d.PriceChange24hPercent,
		LiquidityUSD:      d.Liquidity,
	}
	if ext := d.Extensions; ext != nil {
		socials := map[string]string{}
		setIf(socials, "twitter", ext.Twitter)
		setIf(socials, "telegram", ext.Telegram)
		setIf(socials, "discord", ext.Discord)
		setIf(socials, "website", ext.Website)
		if len(socials) > 0 {
			info.SocialLinks = socials
		}
	}
	info.TradingLinks = map[string]string{
		providerName: "https://birdeye.so/token/" + info.ContractAddress + "?chain=solana",
	}
	return info, nil
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Items []struct {
			Type   string `json:"type"`
			Result []struct {
				Address               string   `json:"address"`
				Symbol                string   `json:"symbol"`
				Name                  string   `json:"name"`
				Price                 *float64 `json:"price"`
				MarketCap             *float64 `json:"market_cap"`
				Liquidity             *float64 `json:"liquidity"`
				Volume24hUSD          *float64 `json:"volume_24h_usd"`
				PriceChange24hPercent *float64 `json:"price_change_24h_percent"`
			} `json:"result"`
		} `json:"items"`
	} `json:"data"`
}

// SearchSymbol looks a symbol up in Birdeye's token search.
func (c *Client) SearchSymbol(ctx context.Context, chain models.Chain, symbol string) ([]*models.TokenInfo, error) {
	if chain != models.ChainSOL && chain != models.ChainUnknown {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: unsupported chain %q", providerName, chain)
	}

	var resp searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + "/defi/v3/search",
		Headers: c.headers(),
		QueryParams: map[string]string{
			"keyword": symbol,
			"chain":   "solana",
			"target":  "token",
		},
	}, &resp)
	if err != nil {
		return nil, classify(err)
	}

	var out []*models.TokenInfo
	for _, item := range resp.Data.Items {
		if item.Type != "token" {
			continue
		}
		for _, r := range item.Result {
			if r.Symbol == "" {
				continue
			}
			out = append(out, &models.TokenInfo{
				Symbol:            r.Symbol,
				Name:              r.Name,
				Chain:             models.ChainSOL,
				ContractAddress:   r.Address,
				PriceUSD:          r.Price,
				MarketCapUSD:      r.MarketCap,
				LiquidityUSD:      r.Liquidity,
				Volume24hUSD:      r.Volume24hUSD,
				PriceChange24hPct: r.PriceChange24hPercent,
			})
		}
	}
	if len(out) == 0 {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no matches for %q", providerName, symbol)
	}
	return out, nil
}

type holdersResponse struct {
	Data struct {
		Items []struct {
			Owner      string  `json:"owner"`
			Amount     float64 `json:"amount"`
			Percentage float64 `json:"percentage"`
		} `json:"items"`
	} `json:"data"`
}

// TopHolders returns the largest holders of a mint.
func (c *Client) TopHolders(ctx context.Context, address string, limit int) ([]models.HolderInfo, error) {
	var resp holdersResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/public/token_holders",
		Headers:     c.headers(),
		QueryParams: map[string]string{"address": address},
	}, &resp)
	if err != nil {
		return nil, classify(err)
	}

	items := resp.Data.Items
	if len(items) == 0 {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no holders for %s", providerName, address)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.HolderInfo, 0, len(items))
	for _, it := range items {
		out = append(out, models.HolderInfo{
			Owner:      it.Owner,
			Amount:     it.Amount,
			Percentage: it.Percentage,
		})
	}
	return out, nil
}

type tradesResponse struct {
	Data []struct {
		Side   string  `json:"side"`
		Price  float64 `json:"price"`
		Amount float64 `json:"amount"`
		Time   int64   `json:"time"`
	} `json:"data"`
}

// RecentTrades returns the latest swaps against a mint.
func (c *Client) RecentTrades(ctx context.Context, address string, limit int) ([]models.TradeInfo, error) {
	var resp tradesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/public/trade_history",
		Headers:     c.headers(),
		QueryParams: map[string]string{"address": address},
	}, &resp)
	if err != nil {
		return nil, classify(err)
	}

	items := resp.Data
	if len(items) == 0 {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no trades for %s", providerName, address)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.TradeInfo, 0, len(items))
	for _, it := range items {
		side := models.TradeSell
		if it.Side == "buy" {
			side = models.TradeBuy
		}
		out = append(out, models.TradeInfo{
			Side:     side,
			PriceUSD: it.Price,
			Amount:   it.Amount,
			Time:     util.FromUnix(it.Time),
		})
	}
	return out, nil
}

func setIf(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func classify(err error) error {
	var se *xhttp.StatusError
	if errors.As(err, &se) && se.StatusCode == 404 {
		return scanerr.Wrap(scanerr.CodeNotFound, providerName+": not found", err)
	}
	return scanerr.Wrap(scanerr.CodeProviderUnavailable, providerName+" request failed", err)
}
