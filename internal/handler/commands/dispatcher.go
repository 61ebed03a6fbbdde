package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"memewatch/internal/chain"
	"memewatch/internal/domain/models"
	"memewatch/internal/domain/repository"
	"memewatch/internal/format"
	"memewatch/internal/scanerr"
	"memewatch/internal/usecase"
	"memewatch/pkg/logger"
)

const (
	replyNotFound       = "❌ Token not found. Check the symbol or contract address."
	replyInvalidInput   = "❌ That doesn't look like a token symbol or contract address."
	replyProvidersDown  = "⚠️ Market data providers are unavailable right now. Try again in a minute."
	replyAnalysisDown   = "⚠️ Chart analysis is unavailable right now. Try again in a minute."
	replyInvalidImage   = "❌ That attachment is not a chart image I can read (PNG, JPEG or GIF)."
	replyInternal       = "⚠️ Something went wrong handling that command."
	replyNoAnalyzer     = "⚠️ Chart analysis is not configured on this bot."
	replyNoMarketDetail = "⚠️ Holder and trade data is not configured on this bot."
	replyUnknown        = "❓ Unknown command. Try %shelp."

	usageScan    = "Usage: %sscan <symbol|address> [eth|sol|bsc]"
	usageQuant   = "Usage: %squant with a chart image attached."
	usageAudit   = "Usage: %saudit <contract address> [eth|bsc]"
	usageHolders = "Usage: %sholders <solana address>"
	usageTrades  = "Usage: %strades <solana address>"
)

const marketDetailLimit = 5

// Dispatcher routes parsed commands to the use cases and renders every
// outcome, success or failure, as a user-facing reply string. It never
// returns an error: the gateway adapter just posts whatever comes back.
type Dispatcher struct {
	resolver *usecase.Resolver
	analyzer *usecase.Analyzer
	auditor  repository.SecurityAuditor
	market   repository.MarketActivity
	metrics  repository.Metrics
	log      *logger.Logger
	prefix   string
	now      func() time.Time
}

// NewDispatcher wires the command surface. analyzer and market may be nil
// when their upstream API keys are absent; the affected commands degrade to
// a "not configured" reply instead of failing at startup.
func NewDispatcher(
	resolver *usecase.Resolver,
	analyzer *usecase.Analyzer,
	auditor repository.SecurityAuditor,
	market repository.MarketActivity,
	metrics repository.Metrics,
	log *logger.Logger,
	prefix string,
) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		analyzer: analyzer,
		auditor:  auditor,
		market:   market,
		metrics:  metrics,
		log:      log,
		prefix:   prefix,
		now:      time.Now,
	}
}

// Dispatch handles one invocation and returns the reply to post. A panic in
// any handler is contained here so a single bad message cannot take down the
// gateway loop.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (reply string) {
	cmd := ParseCommand(req.Keyword)

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("command handler panic",
				logger.String("command", cmd.String()),
				logger.String("panic", fmt.Sprint(r)),
			)
			d.metrics.RecordCommand(cmd.String(), "panic")
			reply = replyInternal
		}
	}()

	var err error
	switch cmd {
	case CmdScan:
		reply, err = d.scan(ctx, req.Args)
	case CmdQuant:
		reply, err = d.quant(ctx, req)
	case CmdPing:
		reply = fmt.Sprintf("🏓 Pong! Latency: %dms", req.LatencyMS)
	case CmdHelp:
		reply = d.help()
	case CmdAudit:
		reply, err = d.audit(ctx, req.Args)
	case CmdHolders:
		reply, err = d.holders(ctx, req.Args)
	case CmdTrades:
		reply, err = d.trades(ctx, req.Args)
	default:
		// A bare "$bonk" or "$<address>" is sugar for scan. Anything that
		// could not plausibly be a token gets the unknown-command reply.
		if chain.Detect(req.Keyword) != chain.KindNone || chain.ValidSymbol(req.Keyword) {
			cmd = CmdScan
			reply, err = d.scan(ctx, strings.TrimSpace(req.Keyword+" "+req.Args))
		} else {
			reply = fmt.Sprintf(replyUnknown, d.prefix)
		}
	}

	if err != nil {
		d.metrics.RecordCommand(cmd.String(), scanerr.CodeOf(err).String())
		d.log.Warn("command failed",
			logger.String("command", cmd.String()),
			logger.String("author", req.Author),
			logger.Error(err),
		)
		return d.replyFor(cmd, err)
	}
	d.metrics.RecordCommand(cmd.String(), "ok")
	return reply
}

func (d *Dispatcher) scan(ctx context.Context, args string) (string, error) {
	token, hint := splitTokenArgs(args)
	if token == "" {
		return "", scanerr.New(scanerr.CodeMissingArgument, "scan needs a token")
	}
	info, err := d.resolver.Resolve(ctx, models.TokenQuery{Raw: token, ChainHint: hint})
	if err != nil {
		return "", err
	}
	return format.Token(info), nil
}

func (d *Dispatcher) quant(ctx context.Context, req Request) (string, error) {
	if d.analyzer == nil {
		return replyNoAnalyzer, nil
	}
	if len(req.Attachment) == 0 {
		return "", scanerr.New(scanerr.CodeMissingArgument, "quant needs an attached chart image")
	}
	res, err := d.analyzer.Analyze(ctx, req.Attachment)
	if err != nil {
		return "", err
	}
	return format.Analysis(res), nil
}

func (d *Dispatcher) audit(ctx context.Context, args string) (string, error) {
	address, hint := splitTokenArgs(args)
	if address == "" {
		return "", scanerr.New(scanerr.CodeMissingArgument, "audit needs a contract address")
	}
	kind := chain.Detect(address)
	if kind != chain.KindEVM {
		return "", scanerr.New(scanerr.CodeInvalidInput, "audit works on EVM contract addresses")
	}
	ch := chain.Infer(kind, hint)
	report, err := d.auditor.Audit(ctx, ch, chain.NormalizeEVM(address))
	if err != nil {
		return "", err
	}
	return format.SecurityReport(report), nil
}

func (d *Dispatcher) holders(ctx context.Context, args string) (string, error) {
	address, err := d.solanaAddress(args, "holders needs a solana token address")
	if err != nil {
		return "", err
	}
	if d.market == nil {
		return replyNoMarketDetail, nil
	}
	holders, err := d.market.TopHolders(ctx, address, marketDetailLimit)
	if err != nil {
		return "", err
	}
	return format.Holders(address, holders), nil
}

func (d *Dispatcher) trades(ctx context.Context, args string) (string, error) {
	address, err := d.solanaAddress(args, "trades needs a solana token address")
	if err != nil {
		return "", err
	}
	if d.market == nil {
		return replyNoMarketDetail, nil
	}
	trades, err := d.market.RecentTrades(ctx, address, marketDetailLimit)
	if err != nil {
		return "", err
	}
	return format.Trades(address, trades, d.now()), nil
}

func (d *Dispatcher) solanaAddress(args, missing string) (string, error) {
	address, _ := splitTokenArgs(args)
	if address == "" {
		return "", scanerr.New(scanerr.CodeMissingArgument, missing)
	}
	if chain.Detect(address) != chain.KindSolana {
		return "", scanerr.New(scanerr.CodeInvalidInput, "expected a solana token address")
	}
	return address, nil
}

func (d *Dispatcher) help() string {
	p := d.prefix
	var b strings.Builder
	b.WriteString("**MemeWatch commands**\n")
	fmt.Fprintf(&b, "`%s<token>` or `%sscan <token> [chain]` • price, market cap, liquidity\n", p, p)
	fmt.Fprintf(&b, "`%squant` + chart image • AI technical analysis\n", p)
	fmt.Fprintf(&b, "`%saudit <address> [eth|bsc]` • honeypot and rug-pull checks\n", p)
	fmt.Fprintf(&b, "`%sholders <address>` • top solana holders\n", p)
	fmt.Fprintf(&b, "`%strades <address>` • recent solana trades\n", p)
	fmt.Fprintf(&b, "`%sping` • bot latency", p)
	return b.String()
}

// replyFor maps a failure to the message the user sees. Internal detail
// stays in the logs.
func (d *Dispatcher) replyFor(cmd Command, err error) string {
	switch scanerr.CodeOf(err) {
	case scanerr.CodeNotFound:
		return replyNotFound
	case scanerr.CodeInvalidInput:
		return replyInvalidInput
	case scanerr.CodeProviderUnavailable:
		return replyProvidersDown
	case scanerr.CodeInvalidImage:
		return replyInvalidImage
	case scanerr.CodeEmptyResponse, scanerr.CodeServiceUnavailable:
		return replyAnalysisDown
	case scanerr.CodeMissingArgument:
		return d.usage(cmd)
	default:
		return replyInternal
	}
}

func (d *Dispatcher) usage(cmd Command) string {
	switch cmd {
	case CmdQuant:
		return fmt.Sprintf(usageQuant, d.prefix)
	case CmdAudit:
		return fmt.Sprintf(usageAudit, d.prefix)
	case CmdHolders:
		return fmt.Sprintf(usageHolders, d.prefix)
	case CmdTrades:
		return fmt.Sprintf(usageTrades, d.prefix)
	default:
		return fmt.Sprintf(usageScan, d.prefix)
	}
}

// splitTokenArgs separates "<token> [chain]" into the token and an optional
// chain hint. A second word that is not a recognized chain is ignored.
func splitTokenArgs(args string) (string, models.Chain) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", models.ChainUnknown
	}
	hint := models.ChainUnknown
	if len(fields) > 1 {
		hint = models.ParseChain(fields[1])
	}
	return fields[0], hint
}
