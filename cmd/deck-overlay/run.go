package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/codyseavey/deck-overlay/internal/api"
	"github.com/codyseavey/deck-overlay/internal/api/handlers"
	"github.com/codyseavey/deck-overlay/internal/card"
	"github.com/codyseavey/deck-overlay/internal/database"
	"github.com/codyseavey/deck-overlay/internal/game"
	"github.com/codyseavey/deck-overlay/internal/metacache"
	"github.com/codyseavey/deck-overlay/internal/metrics"
	"github.com/codyseavey/deck-overlay/internal/middleware"
	"github.com/codyseavey/deck-overlay/internal/monitor"
	"github.com/codyseavey/deck-overlay/internal/overlay"
	"github.com/codyseavey/deck-overlay/internal/probe"
	"github.com/codyseavey/deck-overlay/internal/services"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the lifecycle monitor and overlay server",
		RunE:  runOverlay,
	}
}

func runOverlay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(cfg.Storage.DatabasePath, log, cfg.Logging.Debug)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	metrics.UpdateCardDatabaseMetrics(db, log)

	cardDB := services.NewCardDatabaseService(db, log)
	art := services.NewArtStorageService(cfg.Storage.ArtDir, log)
	resolver := card.NewResolver(cardDB, card.LanguagesFrom(cfg.Display), log)

	state := game.NewState(resolver)
	tiles := metacache.New[overlay.Tile]()
	broadcaster := overlay.NewBroadcaster()

	resets := monitor.NewResetCoordinator(broadcaster, cfg.Monitor.QuiesceInterval, log)
	resets.Register("game", state)
	resets.Register("metadata", tiles)

	mon := monitor.New(probe.NewProcess(cfg.Monitor.ProcessName), broadcaster, resets, cfg.Monitor.PollInterval, log)
	mon.OnTransition(func(from, to monitor.State) {
		log.Debug("monitor transition", "from", from.String(), "to", to.String())
	})

	router := api.NewRouter(api.RouterConfig{
		StatusHandler:  handlers.NewStatusHandler(mon, resets, broadcaster, cardDB),
		CardHandler:    handlers.NewCardHandler(cardDB, resolver, art),
		OverlayHandler: handlers.NewOverlayHandler(state, tiles, cfg.Display, broadcaster, mon, log),
		Auth:           middleware.NewAdminAuth(cfg.Server.AdminKey),
	})

	log.Info("starting deck overlay",
		"process", cfg.Monitor.ProcessName,
		"poll_interval", cfg.Monitor.PollInterval.String(),
		"language", cfg.Display.Language,
		"admin_auth", cfg.Server.AdminKey != "",
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mon.Start(gctx)
		<-mon.Done()
		return nil
	})
	g.Go(func() error {
		return api.Run(gctx, cfg.Server.Addr, router, log)
	})

	err = g.Wait()
	mon.Stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("deck overlay stopped", "can_shutdown", mon.CanShutdown())
	return nil
}
