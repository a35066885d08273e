package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// Terminal is the router result that stops execution.
const Terminal = ""

// State is the contract every pipeline state must satisfy. A state carries
// an error slot; once set it is never overwritten and no further stage runs.
type State interface {
	// Failed reports whether the error slot is set.
	Failed() bool

	// Fail sets the error slot. The first error wins; later calls are no-ops.
	Fail(err error)

	// Failure returns the error slot, or nil.
	Failure() error
}

// Fault is the canonical State implementation, embedded by pipeline states.
type Fault struct {
	err error
}

var _ State = (*Fault)(nil)

// Failed reports whether an error has been recorded.
func (f *Fault) Failed() bool {
	return f.err != nil
}

// Fail records err if no error has been recorded yet.
func (f *Fault) Fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// Failure returns the recorded error, or nil.
func (f *Fault) Failure() error {
	return f.err
}

// Stage applies one step to the state. Stages mutate the state in place and
// must only populate fields, never clear them: the router's field-presence
// checks are the engine's only notion of progress.
type Stage[S State] func(ctx context.Context, state S) error

// Router chooses the next step from the current state alone, or returns
// Terminal. It must be a pure function of the state, with no hidden counters.
type Router[S State] func(state S) string

// Run drives the state machine to completion: while the state carries no
// error and the router names a step, the step runs and the loop repeats on
// the updated state.
//
// If the router names the same step twice in a row, the first repeat is
// allowed as a controlled retry; a second repeat means the stage failed to
// populate the field the router inspects, and the run fails with
// ErrNonProgress rather than loop forever. An absolute step cap of
// 2*(len(stages)+1) backs this up for routers that cycle between steps.
//
// A stage that returns an error or panics has the failure recorded on the
// state, which terminates the run on the next router check. Run returns the
// state's failure, or nil on a clean terminal.
func Run[S State](ctx context.Context, state S, stages map[string]Stage[S], router Router[S]) error {
	logger := slog.Default().With("component", "engine")

	maxSteps := 2 * (len(stages) + 1)
	lastStep := Terminal
	repeats := 0

	for step := 0; ; step++ {
		if state.Failed() {
			return state.Failure()
		}

		if err := ctx.Err(); err != nil {
			state.Fail(err)
			return state.Failure()
		}

		next := router(state)
		if next == Terminal {
			return nil
		}

		if next == lastStep {
			repeats++
			if repeats > 1 {
				state.Fail(fmt.Errorf("%w: stage %q left its triggering field empty", ErrNonProgress, next))
				return state.Failure()
			}
			logger.Warn("router repeated step, retrying once", "step", next)
		} else {
			lastStep = next
			repeats = 0
		}

		if step >= maxSteps {
			state.Fail(fmt.Errorf("%w: no terminal after %d steps", ErrNonProgress, step))
			return state.Failure()
		}

		stage, ok := stages[next]
		if !ok {
			state.Fail(fmt.Errorf("%w: %q", ErrNoSuchStage, next))
			return state.Failure()
		}

		if err := invoke(ctx, stage, state); err != nil {
			state.Fail(err)
		}
	}
}

// invoke runs one stage, converting a panic into a stage error.
func invoke[S State](ctx context.Context, stage Stage[S], state S) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panicked: %v", r)
		}
	}()
	return stage(ctx, state)
}
