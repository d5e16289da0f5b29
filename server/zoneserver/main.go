// Command zoneserver hosts Scrapper3000 junkyard sessions over websockets.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/btrahan1/Scrapper3000/internal/auth"
	"github.com/btrahan1/Scrapper3000/internal/catalog"
	"github.com/btrahan1/Scrapper3000/internal/combat"
	"github.com/btrahan1/Scrapper3000/internal/config"
	"github.com/btrahan1/Scrapper3000/internal/savegame"
	"github.com/btrahan1/Scrapper3000/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.json", "path to the zone config file")
	flag.Parse()

	cfg, cfgErr := config.Load(*configPath)
	logger := config.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("config partially ignored", "error", cfgErr)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("zone server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	tokens, err := auth.NewTokens(cfg.AuthSecret, cfg.TokenTTL(), auth.IsProduction(cfg.Env))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing save store", "error", err)
		}
	}()

	profiles, err := combat.LoadProfiles(cfg.MobDataDir)
	if err != nil {
		logger.Warn("some mob descriptions were skipped", "dir", cfg.MobDataDir, "error", err)
	}

	cat := catalog.Default()
	codec := savegame.NewCodec(cat, logger)
	saves := savegame.NewAutosaver(store, codec, logger)

	g, gctx := errgroup.WithContext(ctx)
	z := newZoneServer(gctx, zoneDeps{
		Logger:   logger,
		Catalog:  cat,
		Profiles: profiles,
		Tokens:   tokens,
		Saves:    saves,
		TickRate: cfg.TickRate(),
	})
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           z.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Saves outlive the sessions so their last writes are flushed.
	saveCtx, stopSaves := context.WithCancel(context.WithoutCancel(ctx))
	defer stopSaves()
	g.Go(func() error {
		return saves.Run(saveCtx)
	})

	g.Go(func() error {
		logger.Info("zone server listening",
			"name", cfg.ServerName,
			"addr", cfg.ListenAddr,
			"tick", cfg.TickRate(),
			"persistence", cfg.PersistenceMode,
			"mob_kinds", len(profiles),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("zone server shutting down", "sessions", z.sessions.len())
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		z.wait()
		stopSaves()
		return err
	})

	return g.Wait()
}
