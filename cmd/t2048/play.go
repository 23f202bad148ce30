package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagLevel  int
	flagResume bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play 2048",
	Long: `Start playing. Without a mode the mode menu opens first.

Modes:
  2048          - Campaign: reach each level's target tile
  2048_endless  - Endless: play until no move is left

Controls:
  Arrows/WASD/HJKL - Slide tiles
  ?                - Show a hint
  P                - Pause
  R                - Restart
  B/Esc            - Pause, then back to the menu
  Q/Ctrl+C         - Save and quit

Difficulty options (endless spawn-4 pressure):
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression

Examples:
  t2048 play
  t2048 play 2048 --level 3
  t2048 play 2048_endless --difficulty hard
  t2048 play 2048 --resume
  t2048 play 2048 --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start at (1-based)")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue the saved game for this mode")
}

func runPlay(_ *cobra.Command, args []string) {
	mustLoadConfig()
	cfg := runtimeConfig()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if len(args) == 0 {
		if err := tui.RunSession(store, cfg, playerName()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 't2048 list' to see available modes.")
		os.Exit(1)
	}

	if flagLevel != 0 {
		if gameID != t2048.IDCampaign {
			fmt.Fprintln(os.Stderr, "Error: --level only applies to the campaign")
			os.Exit(1)
		}
		if flagLevel < 1 || flagLevel > t2048.LevelCount() {
			fmt.Fprintf(os.Stderr, "Error: --level must be between 1 and %d\n", t2048.LevelCount())
			os.Exit(1)
		}
		t2048.SetStartLevel(flagLevel)
	}

	var resume *storage.SavedGame
	if flagResume {
		saved, err := tui.LoadResume(store, playerName(), gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load saved game: %v\n", err)
		} else if saved == nil {
			fmt.Fprintln(os.Stderr, "No saved game, starting fresh.")
		}
		resume = saved
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(game, store, cfg, playerName(), resume); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
