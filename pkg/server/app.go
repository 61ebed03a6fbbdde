package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"memewatch/internal/service/discord"
	"memewatch/pkg/config"
	xhttp "memewatch/pkg/http"
	"memewatch/pkg/logger"
)

// App ties the gateway and the ops HTTP server into one lifecycle.
type App struct {
	cfg     *config.Config
	gateway *discord.Gateway
	ops     *xhttp.Server
	log     *logger.Logger
}

func NewApp(cfg *config.Config, gateway *discord.Gateway, ops *xhttp.Server, log *logger.Logger) *App {
	return &App{cfg: cfg, gateway: gateway, ops: ops, log: log}
}

// Run starts everything and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.gateway.Start(ctx); err != nil {
		return err
	}
	if err := a.ops.Start(); err != nil {
		return err
	}
	a.log.Info("bot running",
		logger.String("environment", a.cfg.Environment),
		logger.Int("ops_port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	if err := a.gateway.Stop(); err != nil {
		a.log.Warn("gateway close error", logger.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.ops.Shutdown(ctx); err != nil {
		a.log.Error("ops server shutdown error", logger.Error(err))
		return err
	}

	a.log.Info("shutdown complete")
	return nil
}
