package env

import (
	"context"
	"math/rand/v2"

	"github.com/vovakirdan/tetrus/internal/games/tetris"
)

// Policy chooses an action for an observation.
type Policy interface {
	Act(obs tetris.Observation) int
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(obs tetris.Observation) int

// Act calls f.
func (f PolicyFunc) Act(obs tetris.Observation) int { return f(obs) }

// RandomPolicy picks actions uniformly.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy creates a seeded uniform policy.
func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewPCG(uint64(seed), 1))} //#nosec G115 G404 -- deterministic agent
}

// Act returns a random action.
func (p *RandomPolicy) Act(tetris.Observation) int {
	return p.rng.IntN(ActionSpace)
}

// Episode summarizes one run.
type Episode struct {
	Steps    int
	Reward   int
	Lines    int
	Terminal bool // false when the run hit maxSteps or was cancelled
}

// Run plays one episode from a fresh Reset until it ends, maxSteps actions
// have been applied (0 means no limit), or ctx is cancelled.
func Run(ctx context.Context, e *Env, p Policy, maxSteps int) (Episode, error) {
	obs := e.Reset()
	for maxSteps <= 0 || e.Steps() < maxSteps {
		if err := ctx.Err(); err != nil {
			return e.episode(), err
		}
		var done bool
		var err error
		obs, _, done, err = e.Step(p.Act(obs))
		if err != nil {
			return e.episode(), err
		}
		if done {
			break
		}
	}
	return e.episode(), nil
}

func (e *Env) episode() Episode {
	return Episode{
		Steps:    e.steps,
		Reward:   e.total,
		Lines:    e.engine.Lines(),
		Terminal: e.done,
	}
}
