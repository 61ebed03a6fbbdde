package goplus

import (
	"context"
	"strconv"
	"strings"
	"time"

	"memewatch/internal/domain/models"
	"memewatch/internal/scanerr"
	xhttp "memewatch/pkg/http"
	"memewatch/pkg/util"
)

const providerName = "goplus"

// Client checks EVM token contracts against the GoPlus security API. No key.
type Client struct {
	http    *xhttp.Client
	baseURL string
}

func New(httpClient *xhttp.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

func goPlusChainID(chain models.Chain) string {
	switch chain {
	case models.ChainETH:
		return "1"
	case models.ChainBSC:
		return "56"
	default:
		return ""
	}
}

// tokenSecurity mirrors the GoPlus result entry. GoPlus encodes booleans as
// "0"/"1" strings and omits fields it has no data for.
type tokenSecurity struct {
	IsHoneypot      string `json:"is_honeypot"`
	OwnerAddress    string `json:"owner_address"`
	IsMintable      string `json:"is_mintable"`
	IsProxy         string `json:"is_proxy"`
	TradingCooldown string `json:"trading_cooldown"`
	LPHolders       []struct {
		IsLocked     int    `json:"is_locked"`
		Percent      string `json:"percent"`
		LockedDetail []struct {
			EndTime string `json:"end_time"`
		} `json:"locked_detail"`
	} `json:"lp_holders"`
}

type securityResponse struct {
	Code    int                      `json:"code"`
	Message string                   `json:"message"`
	Result  map[string]tokenSecurity `json:"result"`
}

// Audit fetches the security profile of an EVM contract.
func (c *Client) Audit(ctx context.Context, chain models.Chain, address string) (*models.SecurityReport, error) {
	chainID := goPlusChainID(chain)
	if chainID == "" {
		return nil, scanerr.Newf(scanerr.CodeInvalidInput, "%s: audits cover EVM chains only", providerName)
	}

	var resp securityResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/token_security/" + chainID,
		QueryParams: map[string]string{"contract_addresses": address},
	}, &resp)
	if err != nil {
		return nil, scanerr.Wrap(scanerr.CodeProviderUnavailable, providerName+" request failed", err)
	}

	sec, ok := resp.Result[strings.ToLower(address)]
	if !ok {
		return nil, scanerr.Newf(scanerr.CodeNotFound, "%s: no security data for %s", providerName, address)
	}

	report := &models.SecurityReport{
		ContractAddress: address,
		Chain:           chain,
	}

	if sec.IsHoneypot != "" {
		report.HoneypotKnown = true
		report.Honeypot = sec.IsHoneypot == "1"
	}

	if len(sec.LPHolders) > 0 {
		lp := sec.LPHolders[0]
		lock := &models.LiquidityLock{Locked: lp.IsLocked == 1}
		if v, err := strconv.ParseFloat(lp.Percent, 64); err == nil {
			lock.LockedPercent = v * 100
		}
		if len(lp.LockedDetail) > 0 {
			if end, ok := util.ParseTime(lp.LockedDetail[0].EndTime); ok {
				if days := int64(time.Until(end).Hours() / 24); days > 0 {
					lock.LockTimeDays = days
				}
			}
		}
		report.LiquidityLock = lock
	}

	switch {
	case sec.OwnerAddress == "" || isBurnAddress(sec.OwnerAddress):
		report.Risks.Low = append(report.Risks.Low, "Contract ownership renounced")
	default:
		report.Risks.Medium = append(report.Risks.Medium, "Contract has an owner")
	}
	if sec.IsMintable == "1" {
		report.Risks.High = append(report.Risks.High, "Contract can mint new tokens")
	}
	if sec.IsProxy == "1" {
		report.Risks.High = append(report.Risks.High, "Contract is a proxy and can be modified")
	}
	if sec.TradingCooldown == "1" {
		report.Risks.Medium = append(report.Risks.Medium, "Trading cooldown enabled")
	}

	return report, nil
}

func isBurnAddress(addr string) bool {
	a := strings.ToLower(addr)
	return a == "0x0000000000000000000000000000000000000000" ||
		a == "0x000000000000000000000000000000000000dead"
}
