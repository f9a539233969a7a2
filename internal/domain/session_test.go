package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStatus_TransitionTable(t *testing.T) {
	all := []SessionStatus{SessionPlanned, SessionInProgress, SessionCompleted, SessionCancelled, SessionMissed}

	legal := map[SessionStatus]map[SessionStatus]bool{
		SessionPlanned:    {SessionInProgress: true, SessionCancelled: true, SessionMissed: true},
		SessionInProgress: {SessionCompleted: true, SessionCancelled: true},
		SessionCompleted:  {},
		SessionCancelled:  {},
		SessionMissed:     {},
	}

	// Exhaustive closure: every pair not in the table must be rejected.
	for _, from := range all {
		for _, to := range all {
			want := legal[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestSessionStatus_IsTerminal(t *testing.T) {
	assert.False(t, SessionPlanned.IsTerminal())
	assert.False(t, SessionInProgress.IsTerminal())
	assert.True(t, SessionCompleted.IsTerminal())
	assert.True(t, SessionCancelled.IsTerminal())
	assert.True(t, SessionMissed.IsTerminal())
}

func TestParseSessionStatus(t *testing.T) {
	for _, raw := range []string{"PLANNED", "IN_PROGRESS", "COMPLETED", "CANCELLED", "MISSED"} {
		status, err := ParseSessionStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, SessionStatus(raw), status)
	}

	for _, raw := range []string{"", "planned", "DONE", "IN-PROGRESS"} {
		_, err := ParseSessionStatus(raw)
		require.Error(t, err, "raw %q", raw)
	}
}

func TestParseGoalType(t *testing.T) {
	for _, raw := range []string{"LOSE_WEIGHT", "GAIN_MUSCLE", "MAINTAIN_HEALTH"} {
		goalType, err := ParseGoalType(raw)
		require.NoError(t, err)
		assert.Equal(t, GoalType(raw), goalType)
	}

	_, err := ParseGoalType("lose_weight")
	require.Error(t, err)
	_, err = ParseGoalType("BULK")
	require.Error(t, err)
}

func TestGoalStatus_IsTerminal(t *testing.T) {
	assert.False(t, GoalActive.IsTerminal())
	assert.False(t, GoalPaused.IsTerminal())
	assert.True(t, GoalCompleted.IsTerminal())
	assert.True(t, GoalCancelled.IsTerminal())
}

func TestExerciseLog_Volume(t *testing.T) {
	reps := 10
	weight := 50.0

	full := ExerciseLog{SetsCompleted: 3, RepsCompleted: &reps, WeightUsedKg: &weight}
	assert.Equal(t, 1500.0, full.Volume())

	noReps := ExerciseLog{SetsCompleted: 3, WeightUsedKg: &weight}
	assert.Zero(t, noReps.Volume())

	noWeight := ExerciseLog{SetsCompleted: 3, RepsCompleted: &reps}
	assert.Zero(t, noWeight.Volume())
}
