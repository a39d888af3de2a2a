package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tetrus/internal/core"
	"github.com/vovakirdan/tetrus/internal/games/tetris"
	"github.com/vovakirdan/tetrus/internal/platform/tui"
	"github.com/vovakirdan/tetrus/internal/registry"
	"github.com/vovakirdan/tetrus/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagResume     string
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start playing the specified variant (default: tetris).

Controls:
  Left/Right/A/D  - Shift piece
  Up/W/X          - Rotate
  Down/S          - Soft drop
  Space           - Hard drop
  P               - Pause
  R               - Restart (while paused or after game over)
  Ctrl+S          - Save game
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Slow gravity, speeds up with cleared lines
  normal - Starts at 30% speed-up, progresses to max
  hard   - Fast gravity, starts at 70% speed-up
  fixed  - No speed-up, gravity stays at the configured rate

Examples:
  tetrus play
  tetrus play tetris_classic
  tetrus play --difficulty hard
  tetrus play --config ./my-tetris.yaml
  tetrus play --resume latest
  tetrus play --resume 12`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagResume, "resume", "", "Resume a saved game by ID, or 'latest'")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := tetris.Standard.ID
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 'tetrus list' to see available variants", gameID)
	}

	tetris.SetConfigPath(flagConfig)
	tetris.SetDifficultyPreset(flagDifficulty)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var save *storage.SavedGame
	if flagResume != "" {
		if store == nil {
			return fmt.Errorf("cannot resume without a saves database")
		}
		var err error
		if save, err = findSave(store, flagResume, gameID, len(args) == 1); err != nil {
			return err
		}
		gameID = save.GameID
	}

	return playGame(gameID, store, runtimeConfig(), save)
}

// playGame runs one game in the terminal, optionally resumed from save.
func playGame(gameID string, store *storage.Store, cfg core.RuntimeConfig, save *storage.SavedGame) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	m := tui.NewModel(game, store, cfg, tui.WithLogger(logger))
	if save != nil {
		if err := m.Resume(save.State); err != nil {
			return err
		}
		logger.Info("resuming save", "id", save.ID, "game", save.GameID, "score", save.Score)
	}

	return tui.Run(m)
}

// findSave resolves a save reference: a numeric ID, or "latest" for the
// newest save of gameID (of any game unless strict).
func findSave(store *storage.Store, ref, gameID string, strict bool) (*storage.SavedGame, error) {
	if ref == "latest" {
		if !strict {
			gameID = ""
		}
		if gameID == "" {
			saves, err := store.ListSaves("", 1)
			if err != nil {
				return nil, err
			}
			if len(saves) == 0 {
				return nil, fmt.Errorf("%w: no saved games", storage.ErrNotFound)
			}
			return store.LoadGame(saves[0].ID)
		}
		return store.LatestSave(gameID)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid save reference %q: want an ID or 'latest'", ref)
	}
	save, err := store.LoadGame(id)
	if err != nil {
		return nil, err
	}
	if strict && save.GameID != gameID {
		return nil, fmt.Errorf("save %d belongs to %s, not %s", id, save.GameID, gameID)
	}
	return save, nil
}

// openStore opens the saves database, logging and returning nil on failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Continue without storage - game still works
		logger.Warn("could not open saves database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// runtimeConfig builds the runtime config from flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
