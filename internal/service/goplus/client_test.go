package goplus

import (
	"context"
	"fmt"
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

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(xhttp.NewClient(xhttp.WithTimeout(2*time.Second)), srv.URL)
}

func TestAuditMapsRiskFactors(t *testing.T) {
	addr := "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token_security/1", r.URL.Path)
		assert.Equal(t, addr, r.URL.Query().Get("contract_addresses"))
		_, _ = w.Write([]byte(`{
			"code": 1,
			"message": "ok",
			"result": {
				"0xdac17f958d2ee523a2206206994597c13d831ec7": {
					"is_honeypot": "0",
					"owner_address": "0x1234000000000000000000000000000000000000",
					"is_mintable": "1",
					"is_proxy": "1",
					"trading_cooldown": "0",
					"lp_holders": [{"is_locked": 1, "percent": "0.955"}]
				}
			}
		}`))
	})

	report, err := c.Audit(context.Background(), models.ChainETH, addr)
	require.NoError(t, err)

	assert.True(t, report.HoneypotKnown)
	assert.False(t, report.Honeypot)
	require.NotNil(t, report.LiquidityLock)
	assert.True(t, report.LiquidityLock.Locked)
	assert.InDelta(t, 95.5, report.LiquidityLock.LockedPercent, 0.01)
	assert.Contains(t, report.Risks.Medium, "Contract has an owner")
	assert.Contains(t, report.Risks.High, "Contract can mint new tokens")
	assert.Contains(t, report.Risks.High, "Contract is a proxy and can be modified")
	assert.Empty(t, report.Risks.Low)
}

func TestAuditLockTimeFromLockedDetail(t *testing.T) {
	end := time.Now().Add(100*24*time.Hour + time.Hour).UTC().Format(time.RFC3339)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fmt.Sprintf(`{
			"code": 1,
			"result": {
				"0xabc0000000000000000000000000000000000000": {
					"lp_holders": [{"is_locked": 1, "percent": "0.80", "locked_detail": [{"end_time": %q}]}]
				}
			}
		}`, end)))
	})

	report, err := c.Audit(context.Background(), models.ChainETH, "0xAbC0000000000000000000000000000000000000")
	require.NoError(t, err)
	require.NotNil(t, report.LiquidityLock)
	assert.True(t, report.LiquidityLock.Locked)
	assert.Equal(t, int64(100), report.LiquidityLock.LockTimeDays)
}

func TestAuditRenouncedOwner(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"code": 1,
			"result": {"0xabc0000000000000000000000000000000000000": {"owner_address": "0x000000000000000000000000000000000000dEaD"}}
		}`))
	})

	report, err := c.Audit(context.Background(), models.ChainETH, "0xAbC0000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Contains(t, report.Risks.Low, "Contract ownership renounced")
	assert.False(t, report.HoneypotKnown)
	assert.Nil(t, report.LiquidityLock)
}

func TestAuditRejectsSolana(t *testing.T) {
	c := New(xhttp.NewClient(), "http://unused.invalid")
	_, err := c.Audit(context.Background(), models.ChainSOL, "mint1")
	assert.True(t, scanerr.Is(err, scanerr.CodeInvalidInput))
}

func TestAuditNoResultIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": 1, "result": {}}`))
	})
	_, err := c.Audit(context.Background(), models.ChainETH, "0xAbC0000000000000000000000000000000000000")
	assert.True(t, scanerr.Is(err, scanerr.CodeNotFound))
}

func TestAuditTransportErrorIsProviderUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Audit(context.Background(), models.ChainETH, "0xAbC0000000000000000000000000000000000000")
	assert.True(t, scanerr.Is(err, scanerr.CodeProviderUnavailable))
}
