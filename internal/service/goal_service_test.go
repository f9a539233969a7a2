package service

import (
	"context"
	"testing"

	"fitlog/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type goalFixture struct {
	svc      GoalService
	goalRepo *fakeGoalRepo
	userRepo *fakeUserRepo
	userID   primitive.ObjectID
}

func newGoalFixture(t *testing.T) *goalFixture {
	t.Helper()
	goalRepo := newFakeGoalRepo()
	userRepo := newFakeUserRepo()
	userID := userRepo.add(domain.User{Name: "Goal User", Email: "goals@example.com"})
	return &goalFixture{
		svc:      NewGoalService(goalRepo, userRepo, fixedClock(testNow)),
		goalRepo: goalRepo,
		userRepo: userRepo,
		userID:   userID,
	}
}

func TestGoalService_Create_LoseWeightProjection(t *testing.T) {
	f := newGoalFixture(t)

	// 5 kg over 2 months: 8.66 timeframe weeks.
	goal, err := f.svc.Create(context.Background(), f.userID, GoalInput{
		GoalType:         "LOSE_WEIGHT",
		TargetWeightLoss: floatPtr(5),
		CurrentWeight:    floatPtr(80),
		TimeframeMonths:  intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalActive, goal.Status)

	require.NotNil(t, goal.TargetWeight)
	assert.Equal(t, 75.0, *goal.TargetWeight)

	require.NotNil(t, goal.WeeklyWeightChange)
	assert.Equal(t, -0.58, *goal.WeeklyWeightChange, "negative means loss")

	// 5 * 7700 kcal spread over 8.66 weeks of 7 days.
	require.NotNil(t, goal.DailyCalorieDeficit)
	assert.Equal(t, 635, *goal.DailyCalorieDeficit)

	assert.Nil(t, goal.DailyCalorieSurplus)
}

func TestGoalService_Create_GainMuscleProjection(t *testing.T) {
	f := newGoalFixture(t)

	// 3 kg over 3 months: 12.99 timeframe weeks, 3 * 5500 kcal total.
	goal, err := f.svc.Create(context.Background(), f.userID, GoalInput{
		GoalType:         "GAIN_MUSCLE",
		TargetWeightGain: floatPtr(3),
		CurrentWeight:    floatPtr(70),
		TimeframeMonths:  intPtr(3),
	})
	require.NoError(t, err)

	require.NotNil(t, goal.DailyCalorieSurplus)
	assert.Equal(t, 181, *goal.DailyCalorieSurplus) // round(16500 / 90.93)

	require.NotNil(t, goal.WeeklyWeightChange)
	assert.Equal(t, 0.23, *goal.WeeklyWeightChange, "positive means gain")

	require.NotNil(t, goal.TargetWeight)
	assert.Equal(t, 73.0, *goal.TargetWeight)

	assert.Nil(t, goal.DailyCalorieDeficit)
}

func TestGoalService_Create_MaintainHealthNoProjection(t *testing.T) {
	f := newGoalFixture(t)

	goal, err := f.svc.Create(context.Background(), f.userID, GoalInput{
		GoalType:      "MAINTAIN_HEALTH",
		CurrentWeight: floatPtr(70),
	})
	require.NoError(t, err)
	assert.Nil(t, goal.DailyCalorieDeficit)
	assert.Nil(t, goal.DailyCalorieSurplus)
	assert.Nil(t, goal.WeeklyWeightChange)
	assert.Nil(t, goal.TargetWeight)
}

func TestGoalService_Create_MissingInputsLeaveProjectionAbsent(t *testing.T) {
	f := newGoalFixture(t)

	// No timeframe: derived fields stay absent, but creation succeeds.
	goal, err := f.svc.Create(context.Background(), f.userID, GoalInput{
		GoalType:         "LOSE_WEIGHT",
		TargetWeightLoss: floatPtr(5),
		CurrentWeight:    floatPtr(80),
	})
	require.NoError(t, err)
	assert.Nil(t, goal.DailyCalorieDeficit)
	assert.Nil(t, goal.WeeklyWeightChange)
	assert.Nil(t, goal.TargetWeight)
}

func TestGoalService_Create_UnknownGoalType(t *testing.T) {
	f := newGoalFixture(t)

	_, err := f.svc.Create(context.Background(), f.userID, GoalInput{GoalType: "GET_SWOLE"})
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "goalType", invalid.Field)
}

func TestGoalService_Create_InvalidRanges(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	cases := []GoalInput{
		{GoalType: "LOSE_WEIGHT", TimeframeMonths: intPtr(0)},
		{GoalType: "LOSE_WEIGHT", TargetWeightLoss: floatPtr(-1)},
		{GoalType: "GAIN_MUSCLE", TargetWeightGain: floatPtr(-1)},
		{GoalType: "LOSE_WEIGHT", CurrentWeight: floatPtr(-80)},
	}
	for _, input := range cases {
		_, err := f.svc.Create(ctx, f.userID, input)
		var invalid *InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
	}
}

func TestGoalService_Create_UnknownUser(t *testing.T) {
	f := newGoalFixture(t)

	_, err := f.svc.Create(context.Background(), primitive.NewObjectID(), GoalInput{GoalType: "MAINTAIN_HEALTH"})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "user", notFound.Resource)
}

// The projection is a pure function of the declared fields: updating them
// recomputes everything, and stale derived values never survive.
func TestGoalService_Update_RecomputesProjection(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	goal, err := f.svc.Create(ctx, f.userID, GoalInput{
		GoalType:         "LOSE_WEIGHT",
		TargetWeightLoss: floatPtr(5),
		CurrentWeight:    floatPtr(80),
		TimeframeMonths:  intPtr(2),
	})
	require.NoError(t, err)
	require.NotNil(t, goal.DailyCalorieDeficit)

	// Switch to a gain goal: deficit must clear, surplus must appear.
	updated, err := f.svc.Update(ctx, goal.ID, GoalInput{
		GoalType:         "GAIN_MUSCLE",
		TargetWeightGain: floatPtr(2),
		CurrentWeight:    floatPtr(80),
		TimeframeMonths:  intPtr(4),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DailyCalorieDeficit)
	require.NotNil(t, updated.DailyCalorieSurplus)
	require.NotNil(t, updated.TargetWeight)
	assert.Equal(t, 82.0, *updated.TargetWeight)
}

func TestGoalService_ProjectionDeterministic(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	input := GoalInput{
		GoalType:         "LOSE_WEIGHT",
		TargetWeightLoss: floatPtr(5),
		CurrentWeight:    floatPtr(80),
		TimeframeMonths:  intPtr(2),
	}
	first, err := f.svc.Create(ctx, f.userID, input)
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.userID, input)
	require.NoError(t, err)

	assert.Equal(t, *first.DailyCalorieDeficit, *second.DailyCalorieDeficit)
	assert.Equal(t, *first.WeeklyWeightChange, *second.WeeklyWeightChange)
	assert.Equal(t, *first.TargetWeight, *second.TargetWeight)
}

func TestGoalService_MarkCompleted(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	goal, err := f.svc.Create(ctx, f.userID, GoalInput{GoalType: "MAINTAIN_HEALTH"})
	require.NoError(t, err)

	completed, err := f.svc.MarkCompleted(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, testNow, *completed.CompletedAt)

	// Completing again is illegal: COMPLETED is terminal.
	_, err = f.svc.MarkCompleted(ctx, goal.ID)
	var illegalState *IllegalStateError
	require.ErrorAs(t, err, &illegalState)
	assert.Equal(t, string(domain.GoalCompleted), illegalState.Current)
}

func TestGoalService_Delete(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	goal, err := f.svc.Create(ctx, f.userID, GoalInput{GoalType: "MAINTAIN_HEALTH"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, goal.ID))

	var notFound *NotFoundError
	_, err = f.svc.GetByID(ctx, goal.ID)
	require.ErrorAs(t, err, &notFound)

	err = f.svc.Delete(ctx, goal.ID)
	require.ErrorAs(t, err, &notFound)
}
