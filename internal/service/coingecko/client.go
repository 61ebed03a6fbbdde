package coingecko

import (
	"context"
	"errors"
	"strings"

	"memewatch/internal/domain/models"
	"memewatch/internal/scanerr"
	xhttp "memewatch/pkg/http"
	"memewatch/pkg/util"
)

const providerName = "coingecko"

// Client talks to the CoinGecko API using a demo key header.
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
	h := map[string]string{}
	if c.apiKey != "" {
		h["x-cg-demo-api-key"] = c.apiKey
	}
	return h
}

func platformID(chain models.Chain) string {
	switch chain {
	case models.ChainETH:
		return "ethereum"
	case models.ChainBSC:
		return "binance-smart-chain"
	case models.ChainSOL:
		return "solana"
	default:
		return ""
	}
}

// coinDetail mirrors the /coins responses. All market fields optional.
type coinDetail struct {
	ID              string `json:"id"`
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	AssetPlatformID string `json:"asset_platform_id"`
	ContractAddress string `json:"contract_address"`
	Links           *struct {
		Homepage                  []string `json:"homepage"`
		TwitterScreenName         string   `json:"twitter_screen_name"`
		TelegramChannelIdentifier string   `json:"telegram_channel_identifier"`
	} `json:"links"`
	MarketData *struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		MarketCap                map[string]float64 `json:"market_cap"`
		TotalVolume              map[string]float64 `json:"total_volume"`
		PriceChangePercentage24h *float64           `json:"price_change_percentage_24h"`
		ATH                      map[string]float64 `json:"ath"`
		ATHDate                  map[string]string  `json:"ath_date"`
	} `json:"market_data"`
}

// LookupByAddress resolves a token through the per-platform contract endpoint.
func (c *Client) LookupByAddress(ctx context.Context, chain models.Chain, address string) (*models.TokenInfo, error) {
	platform := platformID(chain)
	if platform == "" {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: unsupported chain %q", providerName, chain)
	}

	var detail coinDetail
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + "/coins/" + platform + "/contract/" + strings.ToLower(address),
		Headers: c.headers(),
	}, &detail)
	if err != nil {
		return nil, classify(err)
	}
	if detail.Symbol == "" {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no data for %s", providerName, address)
	}
	return c.toTokenInfo(&detail, chain, address), nil
}

type searchResponse struct {
	Coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"coins"`
}

// SearchSymbol resolves a symbol via /search, then fetches full market data
// for the top hit. CoinGecko orders results by relevance, which the resolver
// uses as the tie-break.
func (c *Client) SearchSymbol(ctx context.Context, chain models.Chain, symbol string) ([]*models.TokenInfo, error) {
	var resp searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/search",
		Headers:     c.headers(),
		QueryParams: map[string]string{"query": symbol},
	}, &resp)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Coins) == 0 {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no matches for %q", providerName, symbol)
	}

	var detail coinDetail
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + "/coins/" + resp.Coins[0].ID,
		Headers: c.headers(),
		QueryParams: map[string]string{
			"localization":   "false",
			"tickers":        "false",
			"community_data": "false",
			"developer_data": "false",
		},
	}, &detail)
	if err != nil {
		return nil, classify(err)
	}
	if detail.Symbol == "" {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no matches for %q", providerName, symbol)
	}

	info := c.toTokenInfo(&detail, models.ParseChain(detail.AssetPlatformID), detail.ContractAddress)
	if chain != models.ChainUnknown && info.Chain != models.ChainUnknown && info.Chain != chain {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: top match %q not on chain %q", providerName, detail.ID, chain)
	}
	return []*models.TokenInfo{info}, nil
}

func (c *Client) toTokenInfo(d *coinDetail, chain models.Chain, address string) *models.TokenInfo {
	info := &models.TokenInfo{
		Symbol:          strings.ToUpper(d.Symbol),
		Name:            d.Name,
		Chain:           chain,
		ContractAddress: firstNonEmpty(d.ContractAddress, address),
	}

	if md := d.MarketData; md != nil {
		if v, ok := md.CurrentPrice["usd"]; ok {
			info.PriceUSD = models.Float64(v)
		}
		if v, ok := md.MarketCap["usd"]; ok && v > 0 {
			info.MarketCapUSD = models.Float64(v)
		}
		if v, ok := md.TotalVolume["usd"]; ok {
			info.Volume24hUSD = models.Float64(v)
		}
		info.PriceChange24hPct = md.PriceChangePercentage24h
		if v, ok := md.ATH["usd"]; ok {
			ath := &models.ATH{PriceUSD: v}
			if raw, ok := md.ATHDate["usd"]; ok {
				ath.Date = util.ParseTimeDefault(raw, ath.Date)
			}
			info.ATH = ath
		}
	}

	if l := d.Links; l != nil {
		socials := map[string]string{}
		if l.TwitterScreenName != "" {
			socials["twitter"] = "https://x.com/" + l.TwitterScreenName
		}
		if l.TelegramChannelIdentifier != "" {
			socials["telegram"] = "https://t.me/" + l.TelegramChannelIdentifier
		}
		if len(l.Homepage) > 0 && l.Homepage[0] != "" {
			socials["website"] = l.Homepage[0]
		}
		if len(socials) > 0 {
			info.SocialLinks = socials
		}
	}

	return info
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
