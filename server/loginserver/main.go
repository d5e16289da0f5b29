// Command loginserver checks scrapper accounts and hands out zone tokens.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/btrahan1/Scrapper3000/internal/auth"
	"github.com/btrahan1/Scrapper3000/internal/config"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	register := flag.String("register", "", "create this account and exit; the password is read from SCRAP_NEW_PASSWORD")
	flag.Parse()

	cfg, cfgErr := config.Load(*configPath)
	logger := config.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("config partially ignored", "error", cfgErr)
	}

	accounts, err := auth.LoadAccounts(cfg.AccountsPath)
	if err != nil {
		logger.Error("loading accounts", "path", cfg.AccountsPath, "error", err)
		os.Exit(1)
	}

	if *register != "" {
		if err := accounts.Register(*register, os.Getenv("SCRAP_NEW_PASSWORD")); err != nil {
			logger.Error("registering account", "user", *register, "error", err)
			os.Exit(1)
		}
		fmt.Printf("account %s created\n", *register)
		return
	}

	if err := run(cfg, logger, accounts); err != nil {
		logger.Error("login server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, accounts *auth.Accounts) error {
	tokens, err := auth.NewTokens(cfg.AuthSecret, cfg.TokenTTL(), auth.IsProduction(cfg.Env))
	if err != nil {
		return err
	}
	if accounts.Len() == 0 {
		logger.Warn("no accounts configured; create one with -register", "path", cfg.AccountsPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.LoginListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.LoginListenAddr, err)
	}
	logger.Info("login server listening", "addr", ln.Addr().String(), "accounts", accounts.Len())

	g, gctx := errgroup.WithContext(ctx)
	srv := newLoginServer(logger, accounts, tokens)
	g.Go(func() error {
		return srv.serve(gctx, ln)
	})
	return g.Wait()
}
