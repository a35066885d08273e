package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countState is a minimal state for engine tests: two fields populated in
// order by two stages.
type countState struct {
	Fault
	first  string
	second string
}

func routeCount(s *countState) string {
	switch {
	case s.first == "":
		return "first"
	case s.second == "":
		return "second"
	default:
		return Terminal
	}
}

func countStages(firstRuns, secondRuns *int) map[string]Stage[*countState] {
	return map[string]Stage[*countState]{
		"first": func(ctx context.Context, s *countState) error {
			*firstRuns++
			s.first = "done"
			return nil
		},
		"second": func(ctx context.Context, s *countState) error {
			*secondRuns++
			s.second = "done"
			return nil
		},
	}
}

func TestRun_TerminatesInOrder(t *testing.T) {
	var firstRuns, secondRuns int
	state := &countState{}

	err := Run(context.Background(), state, countStages(&firstRuns, &secondRuns), routeCount)
	require.NoError(t, err)
	assert.Equal(t, 1, firstRuns, "first stage should run exactly once")
	assert.Equal(t, 1, secondRuns, "second stage should run exactly once")
	assert.Equal(t, "done", state.second)
}

func TestRun_SkipsPopulatedFields(t *testing.T) {
	var firstRuns, secondRuns int
	state := &countState{first: "already set"}

	err := Run(context.Background(), state, countStages(&firstRuns, &secondRuns), routeCount)
	require.NoError(t, err)
	assert.Equal(t, 0, firstRuns, "populated field should not trigger its stage")
	assert.Equal(t, 1, secondRuns)
}

func TestRun_TerminalStateIsNoOp(t *testing.T) {
	var firstRuns, secondRuns int
	state := &countState{first: "a", second: "b"}

	err := Run(context.Background(), state, countStages(&firstRuns, &secondRuns), routeCount)
	require.NoError(t, err)
	assert.Equal(t, 0, firstRuns+secondRuns, "terminal state should run no stages")
}

func TestRun_StageErrorShortCircuits(t *testing.T) {
	stageErr := errors.New("stage failed")
	var secondRuns int

	stages := map[string]Stage[*countState]{
		"first": func(ctx context.Context, s *countState) error {
			return stageErr
		},
		"second": func(ctx context.Context, s *countState) error {
			secondRuns++
			s.second = "done"
			return nil
		},
	}

	state := &countState{}
	err := Run(context.Background(), state, stages, routeCount)
	require.Error(t, err)
	assert.ErrorIs(t, err, stageErr)
	assert.Equal(t, 0, secondRuns, "no stage should run after a failure")
	assert.True(t, state.Failed())
	assert.ErrorIs(t, state.Failure(), stageErr)
}

func TestRun_NonProgressAfterOneRetry(t *testing.T) {
	runs := 0
	stages := map[string]Stage[*countState]{
		"first": func(ctx context.Context, s *countState) error {
			runs++
			return nil // never populates the field
		},
	}
	router := func(s *countState) string {
		if s.first == "" {
			return "first"
		}
		return Terminal
	}

	state := &countState{}
	err := Run(context.Background(), state, stages, router)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonProgress)
	assert.Equal(t, 2, runs, "stage should run once plus one controlled retry")
}

func TestRun_RetryCanSucceed(t *testing.T) {
	runs := 0
	stages := map[string]Stage[*countState]{
		"first": func(ctx context.Context, s *countState) error {
			runs++
			if runs == 2 {
				s.first = "done"
			}
			return nil
		},
	}
	router := func(s *countState) string {
		if s.first == "" {
			return "first"
		}
		return Terminal
	}

	state := &countState{}
	err := Run(context.Background(), state, stages, router)
	require.NoError(t, err)
	assert.Equal(t, 2, runs, "the controlled retry should be allowed to succeed")
}

func TestRun_UnknownStage(t *testing.T) {
	state := &countState{}
	router := func(s *countState) string { return "missing" }

	err := Run(context.Background(), state, map[string]Stage[*countState]{}, router)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSuchStage)
}

func TestRun_StagePanicBecomesError(t *testing.T) {
	stages := map[string]Stage[*countState]{
		"first": func(ctx context.Context, s *countState) error {
			panic("boom")
		},
	}
	router := func(s *countState) string {
		if s.first == "" {
			return "first"
		}
		return Terminal
	}

	state := &countState{}
	err := Run(context.Background(), state, stages, router)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, state.Failed())
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var firstRuns, secondRuns int
	state := &countState{}

	err := Run(ctx, state, countStages(&firstRuns, &secondRuns), routeCount)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, firstRuns+secondRuns, "no stage should run after cancellation")
}

func TestRun_CyclingRouterHitsStepCap(t *testing.T) {
	// Router alternates between two stages that never populate anything.
	toggle := false
	stages := map[string]Stage[*countState]{
		"a": func(ctx context.Context, s *countState) error { return nil },
		"b": func(ctx context.Context, s *countState) error { return nil },
	}
	router := func(s *countState) string {
		toggle = !toggle
		if toggle {
			return "a"
		}
		return "b"
	}

	state := &countState{}
	err := Run(context.Background(), state, stages, router)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonProgress)
}

func TestFault_FirstErrorWins(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	var f Fault
	assert.False(t, f.Failed())

	f.Fail(first)
	f.Fail(second)

	assert.True(t, f.Failed())
	assert.Equal(t, first, f.Failure(), "later errors must not overwrite the first")
}
