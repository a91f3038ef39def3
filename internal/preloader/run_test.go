package preloader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fastTimeline() Timeline {
	return Timeline{
		TextInterval:    7 * time.Millisecond,
		Tick:            2 * time.Millisecond,
		Increment:       25,
		StepInterval:    5 * time.Millisecond,
		CompletionDelay: 10 * time.Millisecond,
		Glyphs:          3,
		Steps:           4,
	}
}

func TestRunCompletesOnce(t *testing.T) {
	tl := fastTimeline()

	var frames []Frame
	completions := 0
	err := Run(context.Background(), tl,
		func(f Frame) { frames = append(frames, f) },
		func() { completions++ },
	)
	require.NoError(t, err)
	assert.Equal(t, 1, completions)

	require.NotEmpty(t, frames)
	assert.Equal(t, 0.0, frames[0].Progress)
	last := frames[len(frames)-1]
	assert.Equal(t, 100.0, last.Progress)
	assert.True(t, last.Complete)

	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i].Progress, frames[i-1].Progress)
		assert.GreaterOrEqual(t, frames[i].Step, frames[i-1].Step)
		assert.Less(t, frames[i].Step, tl.Steps)
		assert.Less(t, frames[i].Glyph, tl.Glyphs)
	}
}

func TestRunWaitsForCompletionDelay(t *testing.T) {
	tl := fastTimeline()
	tl.CompletionDelay = 40 * time.Millisecond

	start := time.Now()
	var completedAt time.Duration
	require.NoError(t, Run(context.Background(), tl, nil, func() {
		completedAt = time.Since(start)
	}))
	assert.GreaterOrEqual(t, completedAt, tl.Duration())
}

func TestRunSlowConsumerKeepsDuration(t *testing.T) {
	tl := Timeline{
		TextInterval:    time.Hour,
		Tick:            10 * time.Millisecond,
		Increment:       10,
		StepInterval:    time.Hour,
		CompletionDelay: 20 * time.Millisecond,
		Glyphs:          1,
		Steps:           1,
	}
	require.Equal(t, 120*time.Millisecond, tl.Duration())

	start := time.Now()
	var frames []Frame
	var completedAt time.Duration
	require.NoError(t, Run(context.Background(), tl,
		func(f Frame) {
			frames = append(frames, f)
			time.Sleep(25 * time.Millisecond)
		},
		func() { completedAt = time.Since(start) },
	))

	assert.GreaterOrEqual(t, completedAt, tl.Duration())
	assert.Less(t, completedAt, tl.Duration()+100*time.Millisecond)

	require.NotEmpty(t, frames)
	assert.True(t, frames[len(frames)-1].Complete)
	for _, f := range frames {
		if f.Elapsed > 0 && f.Elapsed < tl.Duration() {
			assert.Equal(t, tl.At(f.Elapsed), f, "frame at %s", f.Elapsed)
		}
	}
}

func TestRunSingleStepHasNoDuplicateFrames(t *testing.T) {
	tl := fastTimeline()
	tl.Steps = 1
	tl.Glyphs = 1

	var frames []Frame
	require.NoError(t, Run(context.Background(), tl,
		func(f Frame) { frames = append(frames, f) },
		nil,
	))

	require.NotEmpty(t, frames)
	assert.True(t, frames[len(frames)-1].Complete)
	for i, f := range frames {
		assert.Equal(t, 0, f.Step)
		if i > 0 {
			assert.False(t, sameState(frames[i-1], f), "frame %d repeats the previous state", i)
			assert.Greater(t, f.Percent, frames[i-1].Percent)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	tl := fastTimeline()
	tl.CompletionDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	completed := false
	err := Run(ctx, tl, func(f Frame) {
		if f.Complete {
			cancel()
		}
	}, func() { completed = true })

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, completed)
}

func TestRunRejectsInvalidTimeline(t *testing.T) {
	tl := fastTimeline()
	tl.Tick = 0

	called := false
	err := Run(context.Background(), tl, func(Frame) { called = true }, nil)
	require.Error(t, err)
	assert.False(t, called)
}
