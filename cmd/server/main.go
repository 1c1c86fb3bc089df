package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/fluxo/pkg/config"
	"github.com/yurifrl/fluxo/pkg/server"
	"github.com/yurifrl/fluxo/pkg/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "fluxo",
	})

	var (
		cfgFile = pflag.StringP("config", "c", "", "Config file (default is config.yaml)")
		_       = pflag.String("port", "3000", "Server port")
		_       = pflag.String("log-level", "info", "Log level")
	)
	pflag.Parse()

	cfg, err := config.Build(*cfgFile, pflag.CommandLine)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := service.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start", "err", err)
	}
	defer svc.Close()

	// Warm the cache before accepting requests.
	if l, err := svc.Load(ctx); err != nil {
		logger.Warn("initial load failed", "err", err)
	} else if l.Empty() {
		logger.Warn("no cash-flow sheets found", "folder", cfg.Folder)
	}

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	logger.Info("starting server", "addr", addr, "backend", cfg.Backend)
	if err := server.New(svc.Ledger, logger).Start(ctx, addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
