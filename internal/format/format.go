package format

import (
	"fmt"
	"strings"
	"time"

	"memewatch/internal/domain/models"
)

// NA is rendered wherever a provider omitted a numeric field.
const NA = "N/A"

// Fixed render order for link sections.
var (
	socialOrder  = []string{"twitter", "telegram", "discord", "website"}
	tradingOrder = []string{"dexscreener", "birdeye", "dextools", "jupiter"}
)

// Token renders a resolved token as chat markdown. It never fails: absent
// optional fields come out as N/A, absent links are skipped.
func Token(info *models.TokenInfo) string {
	var b strings.Builder

	header := "**" + info.Symbol + "**"
	if info.Name != "" && !strings.EqualFold(info.Name, info.Symbol) {
		header += " • " + info.Name
	}
	if info.Chain != models.ChainUnknown {
		header += " (" + strings.ToUpper(string(info.Chain)) + ")"
	}
	b.WriteString(header + "\n")

	if info.ContractAddress != "" {
		b.WriteString("`" + info.ContractAddress + "`\n")
	}

	b.WriteString("💰 Price: " + Price(info.PriceUSD) + "\n")
	b.WriteString("📈 24h: " + Change(info.PriceChange24hPct) + "\n")
	b.WriteString("🏦 MC: " + Amount(info.MarketCapUSD) + "\n")
	b.WriteString("📊 Vol 24h: " + Amount(info.Volume24hUSD) + "\n")
	b.WriteString("💧 Liquidity: " + Amount(info.LiquidityUSD) + "\n")

	if info.ATH != nil {
		b.WriteString("🚀 ATH: " + price(info.ATH.PriceUSD))
		if !info.ATH.Date.IsZero() {
			b.WriteString(" (" + TimeAgo(info.ATH.Date, time.Now()) + " ago)")
		}
		b.WriteString("\n")
	} else {
		b.WriteString("🚀 ATH: " + NA + "\n")
	}

	if info.PairCreatedAt != nil {
		b.WriteString("⏳ Age: " + TimeAgo(*info.PairCreatedAt, time.Now()) + "\n")
	}
	if info.FirstScanner != "" {
		b.WriteString("👀 First scanned by " + info.FirstScanner + "\n")
	}

	if links := linkLine(info.SocialLinks, socialOrder); links != "" {
		b.WriteString("🔗 " + links + "\n")
	}
	if links := linkLine(info.TradingLinks, tradingOrder); links != "" {
		b.WriteString("📈 Trade: " + links + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// Analysis renders chart-analysis text as a reply.
func Analysis(res *models.ChartAnalysisResult) string {
	return "📉 **Chart Analysis**\n" + strings.TrimSpace(res.NarrativeText)
}

func linkLine(links map[string]string, order []string) string {
	if len(links) == 0 {
		return ""
	}
	parts := make([]string, 0, len(order))
	for _, platform := range order {
		url, ok := links[platform]
		if !ok || url == "" {
			continue
		}
		parts = append(parts, "["+title(platform)+"]("+url+")")
	}
	return strings.Join(parts, " | ")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Price formats an optional USD price, N/A when absent.
func Price(p *float64) string {
	if p == nil {
		return NA
	}
	return price(*p)
}

// price picks decimal places by magnitude so sub-cent prices stay non-zero.
func price(p float64) string {
	switch {
	case p < 0.0001:
		return fmt.Sprintf("$%.10f", p)
	case p < 0.01:
		return fmt.Sprintf("$%.6f", p)
	case p < 1:
		return fmt.Sprintf("$%.4f", p)
	default:
		return fmt.Sprintf("$%.2f", p)
	}
}

// Amount formats an optional USD amount with K/M/B/T suffixes, N/A when absent.
func Amount(v *float64) string {
	if v == nil {
		return NA
	}
	return "$" + Number(*v)
}

// Number abbreviates large values with K/M/B/T suffixes.
func Number(num float64) string {
	switch {
	case num >= 1_000_000_000_000:
		return fmt.Sprintf("%.2fT", num/1_000_000_000_000)
	case num >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", num/1_000_000_000)
	case num >= 1_000_000:
		return fmt.Sprintf("%.2fM", num/1_000_000)
	case num >= 1_000:
		return fmt.Sprintf("%.2fK", num/1_000)
	default:
		return fmt.Sprintf("%.2f", num)
	}
}

// Change formats an optional 24h percentage with sign and direction marker.
func Change(v *float64) string {
	if v == nil {
		return NA
	}
	if *v >= 0 {
		return fmt.Sprintf("▲ +%.1f%%", *v)
	}
	return fmt.Sprintf("▼ %.1f%%", *v)
}

// Percent formats a percentage with explicit sign.
func Percent(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// TimeAgo renders the distance between then and now in coarse units.
func TimeAgo(then, now time.Time) string {
	if then.IsZero() || then.After(now) {
		return "just now"
	}
	d := now.Sub(then)
	days := int(d.Hours() / 24)
	switch {
	case days > 365:
		return fmt.Sprintf("%dy", days/365)
	case days > 30:
		return fmt.Sprintf("%dmo", days/30)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
