// Package env exposes the tetris engine as a step/reset environment for
// agents: integer actions in, occupancy observations and rewards out.
package env

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tetrus/internal/games/tetris"
)

// ActionSpace is the number of discrete actions accepted by Step.
const ActionSpace = tetris.ActionCount

// ErrInvalidAction is returned by Step for actions outside 0..ActionSpace-1.
var ErrInvalidAction = errors.New("env: invalid action")

// ErrDone is returned by Step after the episode has ended.
var ErrDone = errors.New("env: episode is over, call Reset")

// Env is one episode at a time over a tetris engine.
type Env struct {
	engine *tetris.Engine
	steps  int
	total  int
	done   bool
}

// New creates an environment with the given rules and random seed.
func New(rules tetris.Rules, seed int64) (*Env, error) {
	return NewWithSource(rules, tetris.NewRandomSource(seed))
}

// NewWithSource creates an environment with an explicit piece source.
func NewWithSource(rules tetris.Rules, src tetris.Source) (*Env, error) {
	engine, err := tetris.NewEngine(rules, src)
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	return &Env{engine: engine}, nil
}

// Reset starts a new episode and returns the first observation.
func (e *Env) Reset() tetris.Observation {
	e.engine.Reset()
	e.steps = 0
	e.total = 0
	e.done = false
	return e.engine.Observe()
}

// Step applies one action and one gravity tick.
func (e *Env) Step(action int) (tetris.Observation, int, bool, error) {
	a := tetris.Action(action)
	if !a.Valid() {
		return tetris.Observation{}, 0, e.done, fmt.Errorf("%w: %d", ErrInvalidAction, action)
	}
	if e.done {
		return e.engine.Observe(), 0, true, ErrDone
	}

	reward, done := e.engine.Apply(a)
	e.steps++
	e.total += reward
	e.done = done
	return e.engine.Observe(), reward, done, nil
}

// Steps returns the number of actions applied this episode.
func (e *Env) Steps() int { return e.steps }

// TotalReward returns the reward accumulated this episode.
func (e *Env) TotalReward() int { return e.total }

// Done reports whether the episode has ended.
func (e *Env) Done() bool { return e.done }

// Engine returns the underlying engine.
func (e *Env) Engine() *tetris.Engine { return e.engine }
