package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestMCPGameFlow(t *testing.T) {
	env := newTestEnv(t)
	var events []string
	tools := &mcpTools{
		sessions: env.mgr,
		publish:  func(_, event string, _ any) { events = append(events, event) },
	}
	ctx := context.Background()

	res, err := tools.handleNewGame(ctx, callTool(nil))
	if err != nil || res.IsError {
		t.Fatalf("new_game failed: %v %s", err, resultText(t, res))
	}
	list := env.mgr.List()
	if len(list) != 1 || !strings.Contains(resultText(t, res), list[0].ID) {
		t.Fatalf("new_game text does not name the session: %s", resultText(t, res))
	}
	id := list[0].ID
	env.restore(t, id, engine.Grid{{2, 2, 0, 0}}, 0)

	res, _ = tools.handleMove(ctx, callTool(map[string]any{"session_id": id, "direction": "left"}))
	if res.IsError {
		t.Fatalf("move failed: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, "+4") || !strings.Contains(text, "Score: 4") {
		t.Errorf("move text = %q", text)
	}
	if len(events) != 1 || events[0] != EventState {
		t.Errorf("events = %v, want one state update", events)
	}

	res, _ = tools.handleGameState(ctx, callTool(map[string]any{"session_id": id}))
	if res.IsError || !strings.Contains(resultText(t, res), "State: playing") {
		t.Errorf("game_state text = %q", resultText(t, res))
	}

	res, _ = tools.handleHint(ctx, callTool(map[string]any{"session_id": id}))
	if res.IsError || !strings.HasPrefix(resultText(t, res), "Try ") {
		t.Errorf("hint text = %q", resultText(t, res))
	}

	res, _ = tools.handleReset(ctx, callTool(map[string]any{"session_id": id}))
	if res.IsError || !strings.Contains(resultText(t, res), "Score: 0") {
		t.Errorf("reset_game text = %q", resultText(t, res))
	}
}

func TestMCPErrors(t *testing.T) {
	env := newTestEnv(t)
	tools := &mcpTools{sessions: env.mgr, publish: func(string, string, any) {}}
	ctx := context.Background()

	st := env.mgr.Create()
	env.restore(t, st.ID, terminalGrid, 0)

	tests := []struct {
		name string
		call func() (*mcp.CallToolResult, error)
		want string
	}{
		{"missing session", func() (*mcp.CallToolResult, error) {
			return tools.handleGameState(ctx, callTool(map[string]any{}))
		}, "session_id"},
		{"unknown session", func() (*mcp.CallToolResult, error) {
			return tools.handleMove(ctx, callTool(map[string]any{"session_id": "nope", "direction": "up"}))
		}, "not found"},
		{"bad direction", func() (*mcp.CallToolResult, error) {
			return tools.handleMove(ctx, callTool(map[string]any{"session_id": st.ID, "direction": "diagonal"}))
		}, "invalid direction"},
		{"game over", func() (*mcp.CallToolResult, error) {
			return tools.handleMove(ctx, callTool(map[string]any{"session_id": st.ID, "direction": "up"}))
		}, "game over"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.call()
			if err != nil {
				t.Fatalf("handler returned a Go error: %v", err)
			}
			if !res.IsError {
				t.Fatalf("expected a tool error, got %q", resultText(t, res))
			}
			if text := resultText(t, res); !strings.Contains(text, tc.want) {
				t.Errorf("error text %q does not mention %q", text, tc.want)
			}
		})
	}
}

func TestFormatState(t *testing.T) {
	st := SessionState{
		Board:   engine.Grid{{2, 0, 0, 1024}}.Rows(),
		Score:   12,
		MaxTile: 1024,
		State:   engine.Playing,
	}
	lines := strings.Split(formatState(st), "\n")
	if lines[0] != "    2     .     .  1024" {
		t.Errorf("first row = %q", lines[0])
	}
	if !strings.Contains(formatState(st), "Score: 12") {
		t.Error("score missing from state text")
	}
}

func TestMCPOverHTTPListsTools(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"new_game", "game_state", "move", "reset_game", "hint"} {
		if !strings.Contains(body, `"`+name+`"`) {
			t.Errorf("tools/list response lacks %s", name)
		}
	}
}

func TestMCPNotificationOverHTTPIsAccepted(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}
