package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"

	"memewatch/internal/domain/repository"
	"memewatch/internal/handler/commands"
	"memewatch/internal/scanerr"
	pkghttp "memewatch/pkg/http"
	"memewatch/pkg/logger"
)

const (
	// maxAttachmentBytes caps chart downloads. Discord's own upload limit
	// for non-nitro users is 25MB; charts are far smaller.
	maxAttachmentBytes = 25 << 20

	// commandTimeout bounds one command end to end, including provider
	// fallback hops and the vision call.
	commandTimeout = 60 * time.Second

	connectMaxElapsed = 2 * time.Minute
)

// Config holds the gateway settings.
type Config struct {
	Token    string
	Prefix   string
	Presence string
}

// Gateway owns the Discord session. It strips the command prefix, pulls the
// first attachment when present, and hands everything else to the dispatcher.
type Gateway struct {
	session    *discordgo.Session
	dispatcher *commands.Dispatcher
	downloader *pkghttp.Client
	metrics    repository.Metrics
	log        *logger.Logger
	prefix     string
	presence   string
}

func NewGateway(
	cfg Config,
	dispatcher *commands.Dispatcher,
	downloader *pkghttp.Client,
	metrics repository.Metrics,
	log *logger.Logger,
) (*Gateway, error) {
	if cfg.Token == "" {
		return nil, scanerr.New(scanerr.CodeInvalidInput, "discord token is required")
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, scanerr.Wrap(scanerr.CodeInternal, "create discord session", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	g := &Gateway{
		session:    session,
		dispatcher: dispatcher,
		downloader: downloader,
		metrics:    metrics,
		log:        log,
		prefix:     cfg.Prefix,
		presence:   cfg.Presence,
	}
	session.AddHandler(g.onReady)
	session.AddHandler(g.onMessageCreate)
	return g, nil
}

// Start opens the gateway connection, retrying with exponential backoff
// until it succeeds or ctx is done. Discord's gateway drops are routine at
// startup, so a cold failure is not immediately fatal.
func (g *Gateway) Start(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = connectMaxElapsed

	open := func() error {
		if err := g.session.Open(); err != nil {
			g.log.Warn("gateway connect failed, retrying", logger.Error(err))
			return err
		}
		return nil
	}
	if err := backoff.Retry(open, backoff.WithContext(policy, ctx)); err != nil {
		return scanerr.Wrap(scanerr.CodeServiceUnavailable, "open discord gateway", err)
	}
	g.log.Info("gateway connected")
	return nil
}

// Stop closes the gateway connection.
func (g *Gateway) Stop() error {
	return g.session.Close()
}

func (g *Gateway) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	if g.presence != "" {
		if err := s.UpdateGameStatus(0, g.presence); err != nil {
			g.log.Warn("set presence failed", logger.Error(err))
		}
	}
	g.log.Info("gateway ready", logger.String("presence", g.presence))
}

func (g *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, g.prefix) {
		return
	}
	body := strings.TrimSpace(strings.TrimPrefix(content, g.prefix))
	if body == "" {
		return
	}

	latency := s.HeartbeatLatency()
	g.metrics.RecordGatewayLatency(latency.Seconds())

	// Handlers must not block the event loop: one slow provider chain
	// would stall every other message.
	go g.handle(s, m, body, latency)
}

func (g *Gateway) handle(s *discordgo.Session, m *discordgo.MessageCreate, body string, latency time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	keyword, args := splitCommand(body)
	req := commands.Request{
		Keyword:   keyword,
		Args:      args,
		Author:    m.Author.Username,
		LatencyMS: latency.Milliseconds(),
	}
	if len(m.Attachments) > 0 {
		req.Attachment = g.fetchAttachment(ctx, m.Attachments[0])
	}

	reply := g.dispatcher.Dispatch(ctx, req)
	if reply == "" {
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		g.log.Error("send reply failed",
			logger.String("channel", m.ChannelID),
			logger.Error(err),
		)
	}
}

// fetchAttachment downloads the attachment body. A failed download is
// treated as no attachment; the dispatcher's usage reply covers it.
func (g *Gateway) fetchAttachment(ctx context.Context, att *discordgo.MessageAttachment) []byte {
	if att == nil || att.URL == "" {
		return nil
	}
	data, err := g.downloader.Download(ctx, att.URL, maxAttachmentBytes)
	if err != nil {
		g.log.Warn("attachment download failed",
			logger.String("url", att.URL),
			logger.Error(err),
		)
		return nil
	}
	return data
}

func splitCommand(body string) (string, string) {
	keyword, args, found := strings.Cut(body, " ")
	if !found {
		return keyword, ""
	}
	return keyword, strings.TrimSpace(args)
}
