package di

import (
	"fmt"

	"memewatch/internal/domain/repository"
	"memewatch/internal/handler/commands"
	"memewatch/internal/service/birdeye"
	"memewatch/internal/service/claude"
	"memewatch/internal/service/coingecko"
	"memewatch/internal/service/dexscreener"
	"memewatch/internal/service/discord"
	"memewatch/internal/service/goplus"
	"memewatch/internal/usecase"
	"memewatch/pkg/config"
	xhttp "memewatch/pkg/http"
	"memewatch/pkg/logger"
	"memewatch/pkg/metrics"
	"memewatch/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the shared client for provider API calls.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.Timeout))
}

// ProvideBirdeye creates the shared Birdeye client, nil when the key is
// absent. It backs both token resolution and the holders/trades commands.
func ProvideBirdeye(cfg *config.Config, client *xhttp.Client, log *logger.Logger) *birdeye.Client {
	if cfg.Providers.Birdeye.APIKey == "" {
		log.Warn("birdeye disabled, no api key")
		return nil
	}
	return birdeye.New(client, cfg.Providers.Birdeye.BaseURL, cfg.Providers.Birdeye.APIKey)
}

// ProvideTokenProviders builds the available market-data providers. Keyed
// providers without a key are left out; the resolver skips names it cannot
// find, so a missing key narrows the fallback chain instead of breaking it.
func ProvideTokenProviders(cfg *config.Config, client *xhttp.Client, bird *birdeye.Client, log *logger.Logger) []repository.TokenProvider {
	providers := []repository.TokenProvider{
		dexscreener.New(client, cfg.Providers.DexScreener.BaseURL),
	}
	if bird != nil {
		providers = append(providers, bird)
	}
	if cfg.Providers.CoinGecko.APIKey != "" {
		providers = append(providers, coingecko.New(client, cfg.Providers.CoinGecko.BaseURL, cfg.Providers.CoinGecko.APIKey))
	} else {
		log.Warn("coingecko disabled, no api key")
	}
	return providers
}

// ProvideAuditor creates the contract security auditor. GoPlus is keyless.
func ProvideAuditor(cfg *config.Config, client *xhttp.Client) repository.SecurityAuditor {
	return goplus.New(client, cfg.Providers.GoPlus.BaseURL)
}

// ProvideMarketActivity serves holders and trades from the shared Birdeye
// client, nil when the key is absent.
func ProvideMarketActivity(bird *birdeye.Client) repository.MarketActivity {
	if bird == nil {
		return nil
	}
	return bird
}

// ProvideVisionAnalyzer creates the chart analyzer, nil when the Claude key
// is absent. The vision call gets its own client with the longer timeout.
func ProvideVisionAnalyzer(cfg *config.Config, log *logger.Logger) *usecase.Analyzer {
	if cfg.Claude.APIKey == "" {
		log.Warn("chart analysis disabled, no claude api key")
		return nil
	}
	visionClient := xhttp.NewClient(xhttp.WithTimeout(cfg.Claude.Timeout))
	vision := claude.New(visionClient, cfg.Claude.BaseURL, cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.MaxTokens)
	return usecase.NewAnalyzer(vision, log)
}

// ProvideResolver creates the token resolver.
func ProvideResolver(
	providers []repository.TokenProvider,
	cfg *config.Config,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Resolver {
	return usecase.NewResolver(providers, cfg.Providers.Priority, m, log)
}

// ProvideDispatcher creates the command dispatcher.
func ProvideDispatcher(
	resolver *usecase.Resolver,
	analyzer *usecase.Analyzer,
	auditor repository.SecurityAuditor,
	market repository.MarketActivity,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *commands.Dispatcher {
	return commands.NewDispatcher(resolver, analyzer, auditor, market, m, log, cfg.Discord.Prefix)
}

// ProvideGateway creates the Discord gateway.
func ProvideGateway(
	cfg *config.Config,
	dispatcher *commands.Dispatcher,
	client *xhttp.Client,
	m repository.Metrics,
	log *logger.Logger,
) (*discord.Gateway, error) {
	return discord.NewGateway(discord.Config{
		Token:    cfg.Discord.Token,
		Prefix:   cfg.Discord.Prefix,
		Presence: cfg.Discord.Presence,
	}, dispatcher, client, m, log)
}

// ProvideOpsServer creates the health/metrics HTTP server.
func ProvideOpsServer(cfg *config.Config, log *logger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(cfg.Metrics.Path))
	}
	return xhttp.NewServer(nil, log, opts...)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, gateway *discord.Gateway, ops *xhttp.Server, log *logger.Logger) *server.App {
	return server.NewApp(cfg, gateway, ops, log)
}
