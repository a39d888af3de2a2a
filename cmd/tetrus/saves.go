package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrus/internal/games/tetris"
	"github.com/vovakirdan/tetrus/internal/registry"
	"github.com/vovakirdan/tetrus/internal/storage"
)

var (
	flagSavesLimit int
	flagExportOut  string
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Manage saved games",
	Long: `List, inspect, export and delete saved games.

Games are saved with Ctrl+S while playing and resumed with
'tetrus play --resume <id>' or from the menu's saves browser.

Examples:
  tetrus saves list
  tetrus saves list tetris_classic
  tetrus saves show 3
  tetrus saves export 3 --out save.yaml
  tetrus saves delete 3
  tetrus saves clear tetris`,
}

var savesListCmd = &cobra.Command{
	Use:   "list [variant]",
	Short: "List saved games, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		gameID := ""
		if len(args) == 1 {
			gameID = args[0]
		}
		return withStore(func(store *storage.Store) error {
			saves, err := store.ListSaves(gameID, flagSavesLimit)
			if err != nil {
				return err
			}
			if len(saves) == 0 {
				fmt.Println("No saved games.")
				fmt.Println()
				fmt.Println("Press Ctrl+S during a game to save it.")
				return nil
			}

			fmt.Printf("  %-5s  %-15s  %-8s  %-6s  %s\n", "ID", "Variant", "Score", "Lines", "Saved")
			fmt.Printf("  %-5s  %-15s  %-8s  %-6s  %s\n", "--", "-------", "-----", "-----", "-----")
			for _, s := range saves {
				fmt.Printf("  %-5d  %-15s  %-8d  %-6d  %s\n",
					s.ID, s.GameID, s.Score, s.Lines, s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var savesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the board of a saved game",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withSave(args[0], func(save *storage.SavedGame) error {
			snap, err := tetris.UnmarshalSnapshot(save.State)
			if err != nil {
				return err
			}

			fmt.Printf("Save #%d - %s (%s)\n", save.ID, save.GameID, save.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Printf("Score %d, lines %d, pieces %d\n", snap.Score, snap.Lines, snap.Locked)
			if snap.Terminal {
				fmt.Println("Game over")
			}
			fmt.Println()
			for y := range snap.Height {
				row := make([]rune, snap.Width)
				for x := range snap.Width {
					row[x] = tetris.EmptyChar
					if snap.Occupied(x, y) {
						row[x] = tetris.BlockChar
					}
				}
				for _, b := range snap.Current.Blocks {
					if b.Y == y && b.X >= 0 && b.X < snap.Width {
						row[b.X] = 'o'
					}
				}
				fmt.Printf("  %s\n", string(row))
			}
			fmt.Printf("\nNext: %s\n", snap.Next.Shape)
			return nil
		})
	},
}

var savesExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a saved game's snapshot as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withSave(args[0], func(save *storage.SavedGame) error {
			if flagExportOut == "" || flagExportOut == "-" {
				_, err := os.Stdout.Write(save.State)
				return err
			}
			if err := os.WriteFile(flagExportOut, save.State, 0o600); err != nil {
				return err
			}
			logger.Info("save exported", "id", save.ID, "path", flagExportOut)
			return nil
		})
	},
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved game",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseSaveID(args[0])
		if err != nil {
			return err
		}
		return withStore(func(store *storage.Store) error {
			if err := store.DeleteSave(id); err != nil {
				return err
			}
			fmt.Printf("Deleted save %d.\n", id)
			return nil
		})
	},
}

var savesClearCmd = &cobra.Command{
	Use:   "clear <variant>",
	Short: "Delete every saved game of a variant",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if !registry.Exists(args[0]) {
			return fmt.Errorf("unknown variant %q", args[0])
		}
		return withStore(func(store *storage.Store) error {
			if err := store.ClearSaves(args[0]); err != nil {
				return err
			}
			fmt.Printf("Cleared saves for %s.\n", args[0])
			return nil
		})
	},
}

func init() {
	savesListCmd.Flags().IntVar(&flagSavesLimit, "limit", 20, "Maximum number of saves to list")
	savesExportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default: stdout)")

	savesCmd.AddCommand(savesListCmd, savesShowCmd, savesExportCmd, savesDeleteCmd, savesClearCmd)
}

func parseSaveID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid save ID %q", s)
	}
	return id, nil
}

// withStore opens the saves database for the duration of fn.
func withStore(fn func(*storage.Store) error) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withSave loads the save with the given ID, including its state.
func withSave(ref string, fn func(*storage.SavedGame) error) error {
	id, err := parseSaveID(ref)
	if err != nil {
		return err
	}
	return withStore(func(store *storage.Store) error {
		save, err := store.LoadGame(id)
		if err != nil {
			return err
		}
		return fn(save)
	})
}
