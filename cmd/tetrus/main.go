// tetrus is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	tetrus list               - List available variants
//	tetrus play [variant]     - Play a variant
//	tetrus menu               - Start menu to pick a variant interactively
//	tetrus serve              - Start SSH server for remote play
//	tetrus saves              - List, export and delete saved games
//	tetrus simulate [variant] - Run random-agent episodes headlessly
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.tetrus/saves.db)
//	--log-level <level>   - Set log level: debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/tetrus/internal/games/tetris"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "tetrus",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetrus",
	Short: "Tetrus - falling blocks in your terminal",
	Long: `Tetrus is a terminal falling-block puzzle game with saved games,
an SSH server and a headless environment for agents.

Available commands:
  list      - Show all available variants
  play      - Play a variant directly
  menu      - Interactive variant picker menu
  serve     - Start SSH server for remote play
  saves     - Manage saved games
  simulate  - Run headless random-agent episodes

Examples:
  tetrus list
  tetrus play
  tetrus play tetris_classic --difficulty hard
  tetrus play --resume latest
  tetrus serve --ssh :2222
  tetrus simulate --episodes 10`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tetrus/saves.db", "Path to saved games database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(simulateCmd)
}
