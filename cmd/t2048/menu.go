package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the mode menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select. When a game ends or you
back out of it, the menu returns. Continue appears when a saved game exists.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter        - Select
  Tab          - High scores
  Q            - Quit

Examples:
  t2048 menu
  t2048 menu --fps 30
  t2048 menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	mustLoadConfig()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.RunSession(store, runtimeConfig(), playerName()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
