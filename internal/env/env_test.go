package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetrus/internal/games/tetris"
)

func TestActionSpace(t *testing.T) {
	assert.Equal(t, 5, ActionSpace)
}

func TestResetObservation(t *testing.T) {
	e, err := New(tetris.ClassicRules(), 7)
	require.NoError(t, err)

	obs := e.Reset()
	c, h, w := obs.Shape()
	assert.Equal(t, [3]int{2, 20, 10}, [3]int{c, h, w})
	assert.Zero(t, obs.Sum(tetris.ChannelLocked))
	assert.Equal(t, 4, obs.Sum(tetris.ChannelCurrent))
	assert.False(t, e.Done())
}

func TestStepRejectsInvalidAction(t *testing.T) {
	e, err := New(tetris.ClassicRules(), 7)
	require.NoError(t, err)
	e.Reset()

	for _, a := range []int{-1, 5, 100} {
		_, _, _, err := e.Step(a)
		assert.ErrorIs(t, err, ErrInvalidAction, "action %d", a)
	}
	assert.Zero(t, e.Steps())
}

func TestStepRewardAndDone(t *testing.T) {
	rules := tetris.ClassicRules()
	rules.Layout = []string{"LLLL..LLLL"}
	e, err := NewWithSource(rules, tetris.NewSequenceSource(tetris.TagO))
	require.NoError(t, err)
	e.Reset()

	total := 0
	for range 19 {
		_, reward, done, err := e.Step(int(tetris.ActionNone))
		require.NoError(t, err)
		require.False(t, done)
		total += reward
	}
	assert.Equal(t, 40, total)
	assert.Equal(t, 40, e.TotalReward())
	assert.Equal(t, 19, e.Steps())
}

func TestStepAfterDone(t *testing.T) {
	rules := tetris.ClassicRules()
	rules.Layout = make([]string, 20)
	for i := range rules.Layout {
		rules.Layout[i] = ".........."
	}
	rules.Layout[1] = "...LLLL..."
	e, err := NewWithSource(rules, tetris.NewSequenceSource(tetris.TagO))
	require.NoError(t, err)
	e.Reset()

	_, _, done, err := e.Step(int(tetris.ActionNone))
	require.NoError(t, err)
	require.True(t, done)

	_, reward, done, err := e.Step(int(tetris.ActionLeft))
	assert.ErrorIs(t, err, ErrDone)
	assert.Zero(t, reward)
	assert.True(t, done)

	e.Reset()
	assert.False(t, e.Done())
}

func TestNewRejectsBadRules(t *testing.T) {
	rules := tetris.ClassicRules()
	rules.Width = 0
	_, err := New(rules, 1)
	assert.ErrorIs(t, err, tetris.ErrInvalidRules)
}

func TestRunRandomEpisode(t *testing.T) {
	e, err := New(tetris.ClassicRules(), 3)
	require.NoError(t, err)

	ep, err := Run(context.Background(), e, NewRandomPolicy(3), 0)
	require.NoError(t, err)
	assert.True(t, ep.Terminal, "random play must eventually top out")
	assert.Positive(t, ep.Steps)
	assert.Equal(t, e.TotalReward(), ep.Reward)

	// Same seeds, same episode
	e2, err := New(tetris.ClassicRules(), 3)
	require.NoError(t, err)
	ep2, err := Run(context.Background(), e2, NewRandomPolicy(3), 0)
	require.NoError(t, err)
	assert.Equal(t, ep, ep2)
}

func TestRunStepLimitAndCancel(t *testing.T) {
	e, err := New(tetris.DefaultRules(), 11)
	require.NoError(t, err)

	ep, err := Run(context.Background(), e, PolicyFunc(func(tetris.Observation) int { return 0 }), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, ep.Steps)
	assert.False(t, ep.Terminal)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, e, NewRandomPolicy(1), 0)
	assert.ErrorIs(t, err, context.Canceled)
}
