package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/web"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools over stdio",
	Long: `Run an MCP server on stdin/stdout so an agent can play.

Tools: new_game, game_state, move, reset_game, hint.
Logs go to stderr; finished games are recorded in the scores database.

Example client entry:
  {"command": "t2048", "args": ["mcp"]}`,
	Run: runMCP,
}

func runMCP(_ *cobra.Command, _ []string) {
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

	sessions := web.NewManager(cfg.Rules, flagSeed, store, logger.WithPrefix("sessions"))
	go expireSessions(ctx, sessions, nil, flagSessionTTL, logger)
	stdio := server.NewStdioServer(web.NewMCPServer(sessions, nil))

	logger.Info("serving MCP over stdio")
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error("mcp server stopped", "err", err)
	}
}
