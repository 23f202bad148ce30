package web

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

const mcpInstructions = `2048 - MCP Interface

Slide the tiles of a 4x4 grid. Equal neighbours merge into their sum once per
move, and a new 2 or 4 appears after every move that changes the grid. The game
ends when no move can change the grid.

TOOLS:
- new_game: start a game and get its session_id
- game_state: show the grid and score of a session
- move: slide the grid up, down, left or right
- reset_game: restart a session
- hint: suggest a direction that changes the grid`

type publishFunc func(id, event string, data any)

type mcpTools struct {
	sessions *Manager
	publish  publishFunc
}

// NewMCPServer exposes the session manager as MCP tools. publish receives the
// same events as the REST handlers and may be nil.
func NewMCPServer(sessions *Manager, publish publishFunc) *server.MCPServer {
	if publish == nil {
		publish = func(string, string, any) {}
	}
	t := &mcpTools{sessions: sessions, publish: publish}

	s := server.NewMCPServer(
		"2048",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(mcpInstructions),
	)
	t.register(s)
	return s
}

func sessionSchema(extra map[string]any, required ...string) mcp.ToolInputSchema {
	props := map[string]any{
		"session_id": map[string]any{
			"type":        "string",
			"description": "Session ID returned by new_game",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

func (t *mcpTools) register(s *server.MCPServer) {
	s.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new 2048 game and return its session ID and grid",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, t.handleNewGame)

	s.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the grid, score and state of a game",
		InputSchema: sessionSchema(nil),
	}, t.handleGameState)

	s.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide every tile in one direction. A move that changes nothing does not spawn a tile",
		InputSchema: sessionSchema(map[string]any{
			"direction": map[string]any{
				"type":        "string",
				"description": "Direction to slide",
				"enum":        []string{"up", "down", "left", "right"},
			},
		}, "direction"),
	}, t.handleMove)

	s.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Restart a game with a fresh grid",
		InputSchema: sessionSchema(nil),
	}, t.handleReset)

	s.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Suggest a direction that changes the grid",
		InputSchema: sessionSchema(nil),
	}, t.handleHint)
}

func (t *mcpTools) handleNewGame(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := t.sessions.Create()
	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n\n%s", st.ID, formatState(st))), nil
}

func (t *mcpTools) handleGameState(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := t.sessions.State(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(st)), nil
}

func (t *mcpTools) handleMove(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := engine.ParseDirection(req.GetString("direction", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := t.sessions.Move(id, dir)
	if errors.Is(err, engine.ErrGameOver) {
		return mcp.NewToolResultError("game over: reset_game to play again\n\n" + formatState(res.SessionState)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.publish(id, EventState, res.SessionState)
	if res.Over {
		t.publish(id, EventOver, res.SessionState)
	}

	var b strings.Builder
	switch {
	case !res.Changed:
		fmt.Fprintf(&b, "Moved %s: nothing changed.\n", dir)
	case res.Gained > 0:
		fmt.Fprintf(&b, "Moved %s: merged for +%d.\n", dir, res.Gained)
	default:
		fmt.Fprintf(&b, "Moved %s.\n", dir)
	}
	b.WriteString("\n")
	b.WriteString(formatState(res.SessionState))
	return mcp.NewToolResultText(b.String()), nil
}

func (t *mcpTools) handleReset(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := t.sessions.Reset(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.publish(id, EventState, st)
	return mcp.NewToolResultText("Game reset.\n\n" + formatState(st)), nil
}

func (t *mcpTools) handleHint(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, ok, err := t.sessions.Hint(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultText("No move changes the grid: the game is over."), nil
	}
	return mcp.NewToolResultText("Try " + dir.String()), nil
}

// formatState renders a session as a fixed-width text grid.
func formatState(st SessionState) string {
	var b strings.Builder
	for _, row := range st.Board {
		for c, v := range row {
			if c > 0 {
				b.WriteString(" ")
			}
			if v == 0 {
				fmt.Fprintf(&b, "%5s", ".")
			} else {
				fmt.Fprintf(&b, "%5d", v)
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nScore: %d  Moves: %d  Max tile: %d  State: %s\n", st.Score, st.Moves, st.MaxTile, st.State)
	return b.String()
}
