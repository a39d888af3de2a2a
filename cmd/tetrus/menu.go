package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrus/internal/games/tetris"
	"github.com/vovakirdan/tetrus/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start tetrus with a variant picker menu",
	Long: `Start tetrus in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a variant.
Tab opens the saved games browser, where Enter resumes a save.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select variant
  Tab          - Saved games
  Q            - Quit

Examples:
  tetrus menu
  tetrus menu --fps 30
  tetrus menu --db ./saves.db`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runMenu(_ *cobra.Command, _ []string) error {
	tetris.SetConfigPath(flagConfig)
	tetris.SetDifficultyPreset(flagDifficulty)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsSaves {
			savesResult, err := tui.RunSaves(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if savesResult.Selected == nil {
				if savesResult.GoBack {
					continue // Back to menu
				}
				return nil // User quit from saves browser
			}

			save := savesResult.Selected
			if err := playGame(save.GameID, store, cfg, save); err != nil {
				logger.Error("cannot resume save", "id", save.ID, "error", err)
			}
			continue
		}

		if menuResult.GameID == "" {
			return nil
		}

		// Update seed for each game unless it was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := playGame(menuResult.GameID, store, cfg, nil); err != nil {
			logger.Error("game failed", "game", menuResult.GameID, "error", err)
		}

		// Loop back to menu
	}
}
