package format

import (
	"fmt"
	"strings"
	"time"

	"memewatch/internal/domain/models"
)

// SecurityReport renders a contract audit as chat markdown.
func SecurityReport(r *models.SecurityReport) string {
	var b strings.Builder

	b.WriteString("🔒 **Security Audit**\n")
	b.WriteString("`" + r.ContractAddress + "`\n")

	switch {
	case !r.HoneypotKnown:
		b.WriteString("🍯 Honeypot: " + NA + "\n")
	case r.Honeypot:
		b.WriteString("🍯 Honeypot: ⚠️ High risk, potential honeypot\n")
	default:
		b.WriteString("🍯 Honeypot: ✅ Not detected\n")
	}

	if lock := r.LiquidityLock; lock != nil {
		if lock.Locked {
			b.WriteString(fmt.Sprintf("🔐 Liquidity: ✅ Locked (%.1f%%", lock.LockedPercent))
			if lock.LockTimeDays > 0 {
				b.WriteString(fmt.Sprintf(", %dd", lock.LockTimeDays))
			}
			b.WriteString(")\n")
		} else {
			b.WriteString("🔐 Liquidity: ⚠️ Not locked\n")
		}
	} else {
		b.WriteString("🔐 Liquidity: " + NA + "\n")
	}

	writeRisks(&b, "⚠️ High risk", r.Risks.High)
	writeRisks(&b, "⚡ Medium risk", r.Risks.Medium)
	writeRisks(&b, "✅ Low risk", r.Risks.Low)

	if len(r.Risks.High) == 0 && len(r.Risks.Medium) == 0 && len(r.Risks.Low) == 0 {
		b.WriteString("No significant risks detected\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeRisks(b *strings.Builder, label string, risks []string) {
	if len(risks) == 0 {
		return
	}
	b.WriteString("**" + label + "**\n")
	for _, r := range risks {
		b.WriteString("• " + r + "\n")
	}
}

// Holders renders a top-holder list.
func Holders(address string, holders []models.HolderInfo) string {
	var b strings.Builder
	b.WriteString("👥 **Top Holders**\n")
	b.WriteString("`" + address + "`\n")
	for _, h := range holders {
		b.WriteString(fmt.Sprintf("🏦 %s • %s (%.2f%%)\n",
			shortAddress(h.Owner), Number(h.Amount), h.Percentage))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Trades renders recent swap activity.
func Trades(address string, trades []models.TradeInfo, now time.Time) string {
	var b strings.Builder
	b.WriteString("📊 **Recent Trades**\n")
	b.WriteString("`" + address + "`\n")
	for _, tr := range trades {
		side := "🔴 Sell"
		if tr.Side == models.TradeBuy {
			side = "🟢 Buy"
		}
		b.WriteString(fmt.Sprintf("%s • %s ago • %s × %s = $%s\n",
			side, TimeAgo(tr.Time, now), price(tr.PriceUSD), Number(tr.Amount),
			Number(tr.PriceUSD*tr.Amount)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-4:]
}
