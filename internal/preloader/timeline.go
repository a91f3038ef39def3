// Package preloader sequences the intro animation shown before the page
// content fades in. Three counters advance on their own intervals: the
// rotating glyph, the progress bar and the step caption. Progress reaching
// 100 starts a completion delay, after which a single callback fires.
package preloader

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

const maxProgress = 100.0

// Timeline holds the intervals that drive the preloader.
type Timeline struct {
	TextInterval    time.Duration
	Tick            time.Duration
	Increment       float64
	StepInterval    time.Duration
	CompletionDelay time.Duration
	Glyphs          int
	Steps           int
}

// Frame is the visible state of the preloader at a point in time.
type Frame struct {
	Elapsed  time.Duration
	Progress float64
	Percent  int
	Glyph    int
	Step     int
	Complete bool
}

// DefaultTimeline returns the production pacing: 1.5% every 60ms, a new
// glyph every 1.2s, a new caption every 1.8s and a 1.5s hold at 100%.
func DefaultTimeline() Timeline {
	return Timeline{
		TextInterval:    1200 * time.Millisecond,
		Tick:            60 * time.Millisecond,
		Increment:       1.5,
		StepInterval:    1800 * time.Millisecond,
		CompletionDelay: 1500 * time.Millisecond,
		Glyphs:          3,
		Steps:           4,
	}
}

func (t Timeline) Validate() error {
	var errs []error
	if t.TextInterval <= 0 {
		errs = append(errs, errors.New("text interval must be positive"))
	}
	if t.Tick <= 0 {
		errs = append(errs, errors.New("tick must be positive"))
	}
	if t.StepInterval <= 0 {
		errs = append(errs, errors.New("step interval must be positive"))
	}
	if t.CompletionDelay < 0 {
		errs = append(errs, errors.New("completion delay must not be negative"))
	}
	if t.Increment <= 0 || math.IsNaN(t.Increment) || math.IsInf(t.Increment, 0) {
		errs = append(errs, fmt.Errorf("increment %v must be a positive number", t.Increment))
	}
	if t.Glyphs <= 0 {
		errs = append(errs, errors.New("glyph count must be positive"))
	}
	if t.Steps <= 0 {
		errs = append(errs, errors.New("step count must be positive"))
	}
	return errors.Join(errs...)
}

// ticksToComplete is the number of progress ticks after which progress
// is pinned at 100.
func (t Timeline) ticksToComplete() int {
	return int(math.Ceil(maxProgress / t.Increment))
}

// CompletesAt is the elapsed time at which progress first reaches 100.
func (t Timeline) CompletesAt() time.Duration {
	return time.Duration(t.ticksToComplete()) * t.Tick
}

// Duration is the elapsed time at which the completion callback fires.
func (t Timeline) Duration() time.Duration {
	return t.CompletesAt() + t.CompletionDelay
}

// At returns the frame shown after elapsed has passed. Negative elapsed
// values are treated as zero.
func (t Timeline) At(elapsed time.Duration) Frame {
	if elapsed < 0 {
		elapsed = 0
	}
	return t.frame(elapsed,
		int(elapsed/t.TextInterval),
		int(elapsed/t.Tick),
		int(elapsed/t.StepInterval),
	)
}

func (t Timeline) frame(elapsed time.Duration, textTicks, progressTicks, stepTicks int) Frame {
	f := Frame{
		Elapsed: elapsed,
		Glyph:   textTicks % t.Glyphs,
		Step:    min(stepTicks, t.Steps-1),
	}
	if progressTicks >= t.ticksToComplete() {
		f.Progress = maxProgress
		f.Complete = true
	} else {
		f.Progress = t.Increment * float64(progressTicks)
	}
	f.Percent = int(math.Round(f.Progress))
	return f
}

// Keyframes lists every frame at which something visible changes, from
// zero up to and including the moment the completion callback fires.
func (t Timeline) Keyframes() []Frame {
	end := t.Duration()
	seen := map[time.Duration]struct{}{0: {}, end: {}}
	for _, interval := range []time.Duration{t.Tick, t.TextInterval, t.StepInterval} {
		for at := interval; at < end; at += interval {
			seen[at] = struct{}{}
		}
	}
	times := make([]time.Duration, 0, len(seen))
	for at := range seen {
		times = append(times, at)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	frames := make([]Frame, 0, len(times))
	for i, at := range times {
		f := t.At(at)
		if i > 0 && i < len(times)-1 && sameState(frames[len(frames)-1], f) {
			continue
		}
		frames = append(frames, f)
	}
	return frames
}

func sameState(a, b Frame) bool {
	return a.Progress == b.Progress && a.Glyph == b.Glyph && a.Step == b.Step && a.Complete == b.Complete
}

func (t Timeline) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TextInterval    int64   `json:"text_interval_ms"`
		Tick            int64   `json:"tick_ms"`
		Increment       float64 `json:"increment"`
		StepInterval    int64   `json:"step_interval_ms"`
		CompletionDelay int64   `json:"completion_delay_ms"`
		CompletesAt     int64   `json:"completes_at_ms"`
		Duration        int64   `json:"duration_ms"`
		Glyphs          int     `json:"glyphs"`
		Steps           int     `json:"steps"`
	}{
		TextInterval:    t.TextInterval.Milliseconds(),
		Tick:            t.Tick.Milliseconds(),
		Increment:       t.Increment,
		StepInterval:    t.StepInterval.Milliseconds(),
		CompletionDelay: t.CompletionDelay.Milliseconds(),
		CompletesAt:     t.CompletesAt().Milliseconds(),
		Duration:        t.Duration().Milliseconds(),
		Glyphs:          t.Glyphs,
		Steps:           t.Steps,
	})
}

func (f Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Elapsed  int64   `json:"elapsed_ms"`
		Progress float64 `json:"progress"`
		Percent  int     `json:"percent"`
		Glyph    int     `json:"glyph"`
		Step     int     `json:"step"`
		Complete bool    `json:"complete"`
	}{f.Elapsed.Milliseconds(), f.Progress, f.Percent, f.Glyph, f.Step, f.Complete})
}
