package preloader

import (
	"context"
	"time"
)

// Run plays the timeline in real time. onFrame is called whenever the
// visible state changes, with the frame At the current elapsed time;
// onComplete is called once, Duration after Run started. Run blocks until
// the callback has fired or ctx is done. A cancelled run returns ctx.Err()
// and never calls onComplete.
//
// The tickers only wake the loop. A slow onFrame drops intermediate
// frames but does not move the completion time.
//
// Both callbacks run on the caller's goroutine.
func Run(ctx context.Context, t Timeline, onFrame func(Frame), onComplete func()) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if onFrame == nil {
		onFrame = func(Frame) {}
	}

	start := time.Now()

	done := time.NewTimer(t.Duration())
	defer done.Stop()
	textTicker := time.NewTicker(t.TextInterval)
	defer textTicker.Stop()
	progressTicker := time.NewTicker(t.Tick)
	defer progressTicker.Stop()
	stepTicker := time.NewTicker(t.StepInterval)
	defer stepTicker.Stop()

	// Nil channels block forever, which retires a counter from the select.
	progressC := progressTicker.C
	var stepC <-chan time.Time
	if t.Steps > 1 {
		stepC = stepTicker.C
	} else {
		stepTicker.Stop()
	}

	last := t.At(0)
	onFrame(last)

	emit := func() {
		f := t.At(time.Since(start))
		if sameState(last, f) {
			return
		}
		last = f
		onFrame(f)
		if f.Complete && progressC != nil {
			progressTicker.Stop()
			progressC = nil
		}
		if f.Step >= t.Steps-1 && stepC != nil {
			stepTicker.Stop()
			stepC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-textTicker.C:
			emit()

		case <-progressC:
			emit()

		case <-stepC:
			emit()

		case <-done.C:
			// A cancellation that raced the timer wins.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !last.Complete {
				last = t.At(t.Duration())
				onFrame(last)
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
			if onComplete != nil {
				onComplete()
			}
			return nil
		}
	}
}
