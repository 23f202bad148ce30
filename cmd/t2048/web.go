package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/web"
)

var (
	flagWebAddr    string
	flagSessionTTL time.Duration
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP API, websocket feed and MCP endpoint",
	Long: `Serve 2048 over HTTP.

Endpoints:
  POST   /api/sessions              - Start a game
  GET    /api/sessions              - List games
  GET    /api/sessions/{id}         - Game state
  DELETE /api/sessions/{id}         - End a game
  POST   /api/sessions/{id}/move    - {"direction":"left"}
  POST   /api/sessions/{id}/reset   - Restart a game
  GET    /api/sessions/{id}/hint    - Suggested direction
  GET    /api/scores?mode=&limit=   - High scores
  GET    /ws?session={id}           - Websocket state feed
  POST   /mcp                       - MCP JSON-RPC
  GET    /                          - Browser page

Examples:
  t2048 web
  t2048 web --addr 127.0.0.1:9000 --log-level debug
  t2048 web --session-ttl 30m`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().DurationVar(&flagSessionTTL, "session-ttl", 24*time.Hour, "Drop games idle for this long (0 keeps them forever)")
	mcpCmd.Flags().DurationVar(&flagSessionTTL, "session-ttl", 24*time.Hour, "Drop games idle for this long (0 keeps them forever)")
}

// expireSessions drops idle sessions until ctx is done. hub may be nil.
func expireSessions(ctx context.Context, sessions *web.Manager, hub *web.Hub, ttl time.Duration, logger *log.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(max(min(ttl/2, time.Hour), time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range sessions.CleanupExpiredSessions(ttl) {
				logger.Debug("session expired", "id", id)
				if hub != nil {
					hub.Publish(id, web.EventDeleted, nil)
				}
			}
		}
	}
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := newLogger("t2048")

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("cannot load config", "err", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := web.NewHub(logger)
	go hub.Run(ctx)

	sessions := web.NewManager(cfg.Rules, flagSeed, store, logger.WithPrefix("sessions"))
	go expireSessions(ctx, sessions, hub, flagSessionTTL, logger)

	httpServer := &http.Server{
		Addr:         flagWebAddr,
		Handler:      web.NewServer(sessions, hub, store, logger.WithPrefix("http")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "address", flagWebAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "err", err)
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
