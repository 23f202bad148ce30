package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// ErrNoSavedGame is returned by LoadGame when nothing is saved for the player and mode.
var ErrNoSavedGame = errors.New("storage: no saved game")

// SavedGame is an in-progress game that can be resumed.
type SavedGame struct {
	Player    string      `json:"player"`
	GameID    string      `json:"game_id"`
	Level     int         `json:"level"`
	Score     int         `json:"score"`
	Grid      engine.Grid `json:"grid"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// SaveGame stores the game, replacing any earlier save for the same player and mode.
func (s *Store) SaveGame(g SavedGame) error {
	grid, err := json.Marshal(g.Grid.Rows())
	if err != nil {
		return fmt.Errorf("storage: cannot encode grid: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO saved_games (player, game_id, level, score, grid, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player, game_id) DO UPDATE SET
		   level = excluded.level,
		   score = excluded.score,
		   grid = excluded.grid,
		   updated_at = excluded.updated_at`,
		g.Player, g.GameID, g.Level, g.Score, string(grid),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	return nil
}

// LoadGame returns the saved game for a player and mode.
// The stored grid is validated, so a corrupted row is reported instead of resumed.
func (s *Store) LoadGame(player, gameID string) (SavedGame, error) {
	g := SavedGame{Player: player, GameID: gameID}
	var gridJSON string
	var updatedAt any

	err := s.db.QueryRow(
		`SELECT level, score, grid, updated_at
		 FROM saved_games
		 WHERE player = ? AND game_id = ?`,
		player, gameID,
	).Scan(&g.Level, &g.Score, &gridJSON, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedGame{}, ErrNoSavedGame
	}
	if err != nil {
		return SavedGame{}, fmt.Errorf("storage: cannot load game: %w", err)
	}

	var rows [][]int
	if err := json.Unmarshal([]byte(gridJSON), &rows); err != nil {
		return SavedGame{}, fmt.Errorf("storage: cannot decode grid: %w", err)
	}
	g.Grid, err = engine.FromRows(rows)
	if err != nil {
		return SavedGame{}, fmt.Errorf("storage: saved grid: %w", err)
	}
	g.UpdatedAt = parseTime(updatedAt)

	return g, nil
}

// DeleteGame removes a saved game. Deleting a missing save is not an error.
func (s *Store) DeleteGame(player, gameID string) error {
	if _, err := s.db.Exec("DELETE FROM saved_games WHERE player = ? AND game_id = ?", player, gameID); err != nil {
		return fmt.Errorf("storage: cannot delete game: %w", err)
	}
	return nil
}
