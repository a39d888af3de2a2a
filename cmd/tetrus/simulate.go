package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrus/internal/config"
	"github.com/vovakirdan/tetrus/internal/env"
	"github.com/vovakirdan/tetrus/internal/games/tetris"
)

var (
	flagEpisodes int
	flagMaxSteps int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [variant]",
	Short: "Run headless random-agent episodes",
	Long: `Play episodes without a terminal using a uniformly random agent over
the five engine actions (none, left, right, rotate, soft drop).

Each episode runs until the stack tops out or --max-steps is reached.
Episode i uses seed --seed+i, so runs with a fixed seed are reproducible.

Examples:
  tetrus simulate
  tetrus simulate tetris_classic --episodes 100
  tetrus simulate --seed 7 --max-steps 5000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagEpisodes, "episodes", 10, "Number of episodes to run")
	simulateCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "Step limit per episode (0 = until game over)")
	simulateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	variant := tetris.Standard
	if len(args) == 1 {
		v, ok := tetris.VariantByID(args[0])
		if !ok {
			return fmt.Errorf("unknown variant %q, run 'tetrus list' to see available variants", args[0])
		}
		variant = v
	}

	cfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		return err
	}
	rules, err := variant.Rules(cfg)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var total, lines, steps, best int
	for i := range flagEpisodes {
		ep, err := simulateEpisode(ctx, rules, seed+int64(i))
		if err != nil {
			return err
		}
		logger.Info("episode finished",
			"episode", i+1,
			"seed", seed+int64(i),
			"steps", ep.Steps,
			"reward", ep.Reward,
			"lines", ep.Lines,
			"terminal", ep.Terminal,
		)
		total += ep.Reward
		lines += ep.Lines
		steps += ep.Steps
		best = max(best, ep.Reward)
	}

	if flagEpisodes > 0 {
		n := float64(flagEpisodes)
		fmt.Printf("%s: %d episodes, mean reward %.1f, best %d, mean lines %.2f, mean steps %.0f\n",
			variant.Title, flagEpisodes, float64(total)/n, best, float64(lines)/n, float64(steps)/n)
	}
	return nil
}

func simulateEpisode(ctx context.Context, rules tetris.Rules, seed int64) (env.Episode, error) {
	e, err := env.New(rules, seed)
	if err != nil {
		return env.Episode{}, err
	}
	return env.Run(ctx, e, env.NewRandomPolicy(seed), flagMaxSteps)
}
