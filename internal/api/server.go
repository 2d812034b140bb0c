// Package api serves overlay status, card data and overlay tiles over HTTP
// for renderers and tooling running next to the game.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/deck-overlay/internal/api/handlers"
	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/metrics"
	"github.com/codyseavey/deck-overlay/internal/middleware"
)

type RouterConfig struct {
	StatusHandler  *handlers.StatusHandler
	CardHandler    *handlers.CardHandler
	OverlayHandler *handlers.OverlayHandler
	Auth           *middleware.AdminAuth
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.HTTPMetrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", cfg.StatusHandler.Health)
		api.GET("/status", cfg.StatusHandler.GetStatus)
		api.GET("/auth/status", cfg.Auth.Status)
		api.POST("/auth/verify", cfg.Auth.Verify)

		api.GET("/cards", cfg.CardHandler.SearchCards)
		api.GET("/cards/:id", cfg.CardHandler.GetCard)
		api.GET("/cards/:id/art", cfg.CardHandler.GetCardArt)

		api.GET("/overlay/events", cfg.OverlayHandler.Events)
		api.GET("/overlay/:side", cfg.OverlayHandler.GetTiles)
	}

	admin := api.Group("")
	admin.Use(cfg.Auth.Require())
	{
		admin.PUT("/cards/:id/art", cfg.CardHandler.PutCardArt)
		admin.POST("/game/:side/cards", cfg.OverlayHandler.TrackCard)
		admin.POST("/game/:side/cards/:id/discard", cfg.OverlayHandler.DiscardCard)
		admin.POST("/game/:side/cards/:id/move", cfg.OverlayHandler.MoveCard)
		admin.POST("/reset", cfg.StatusHandler.Reset)
	}

	return router
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	// Request contexts derive from ctx so event streams end with it.
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("status server listening", "addr", addr)
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("status server shutdown", "error", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
