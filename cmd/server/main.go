package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hearthfield/internal/bootstrap"
	"hearthfield/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("HEARTH_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("build game: %v", err)
	}
	defer a.Close()

	go a.RunTicker(ctx)

	s := newServer(a, cfg.HTTP.Addr)
	logger.Info("hearthfield server listening", "addr", cfg.HTTP.Addr, "session_id", a.Game.SessionID)
	s.Spin()
}

func newServer(a *bootstrap.App, addr string) *server.Hertz {
	s := server.Default(server.WithHostPorts(addr))
	a.Handler().RegisterRoutes(s)
	return s
}
