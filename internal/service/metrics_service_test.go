package service

import (
	"context"
	"testing"
	"time"

	"fitlog/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type metricsFixture struct {
	svc         MetricsService
	sessionRepo *fakeSessionRepo
	logRepo     *fakeLogRepo
	userID      primitive.ObjectID
	exerciseID  primitive.ObjectID
}

func newMetricsFixture(t *testing.T, now func() time.Time) *metricsFixture {
	t.Helper()
	sessionRepo := newFakeSessionRepo()
	logRepo := newFakeLogRepo()
	return &metricsFixture{
		svc:         NewMetricsService(logRepo, sessionRepo, now),
		sessionRepo: sessionRepo,
		logRepo:     logRepo,
		userID:      primitive.NewObjectID(),
		exerciseID:  primitive.NewObjectID(),
	}
}

func (f *metricsFixture) seedLog(sets int, reps *int, weight *float64) {
	f.logRepo.seed(domain.ExerciseLog{
		SessionID:     primitive.NewObjectID(),
		UserID:        f.userID,
		ExerciseID:    f.exerciseID,
		ExerciseOrder: 1,
		SetsCompleted: sets,
		RepsCompleted: reps,
		WeightUsedKg:  weight,
	})
}

func TestMetricsService_TotalVolume(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	f.seedLog(3, intPtr(10), floatPtr(50)) // 1500
	f.seedLog(5, intPtr(5), floatPtr(100)) // 2500

	total, err := f.svc.TotalVolume(context.Background(), f.userID, f.exerciseID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, total)
}

func TestMetricsService_TotalVolume_EmptyRangeIsZero(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))

	total, err := f.svc.TotalVolume(context.Background(), f.userID, f.exerciseID, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMetricsService_TotalVolume_MissingFactorsContributeZero(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	f.seedLog(3, intPtr(10), floatPtr(50)) // 1500
	f.seedLog(3, nil, floatPtr(50))        // no reps: 0
	f.seedLog(3, intPtr(10), nil)          // no weight: 0

	total, err := f.svc.TotalVolume(context.Background(), f.userID, f.exerciseID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, total)
}

func TestMetricsService_TotalVolume_DateRange(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	f.logRepo.seed(domain.ExerciseLog{
		UserID: f.userID, ExerciseID: f.exerciseID, SessionID: primitive.NewObjectID(),
		SetsCompleted: 1, RepsCompleted: intPtr(10), WeightUsedKg: floatPtr(100),
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	f.logRepo.seed(domain.ExerciseLog{
		UserID: f.userID, ExerciseID: f.exerciseID, SessionID: primitive.NewObjectID(),
		SetsCompleted: 1, RepsCompleted: intPtr(10), WeightUsedKg: floatPtr(200),
		CreatedAt: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	})

	from := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	total, err := f.svc.TotalVolume(context.Background(), f.userID, f.exerciseID, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, total)
}

func TestMetricsService_PersonalBests(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	ctx := context.Background()

	weight, err := f.svc.PersonalBestWeight(ctx, f.userID, f.exerciseID)
	require.NoError(t, err)
	assert.Nil(t, weight, "no data means absent, not zero")

	reps, err := f.svc.PersonalBestReps(ctx, f.userID, f.exerciseID)
	require.NoError(t, err)
	assert.Nil(t, reps)

	f.seedLog(3, intPtr(8), floatPtr(60))
	f.seedLog(3, intPtr(12), floatPtr(55))
	f.seedLog(3, nil, nil) // carries neither

	weight, err = f.svc.PersonalBestWeight(ctx, f.userID, f.exerciseID)
	require.NoError(t, err)
	require.NotNil(t, weight)
	assert.Equal(t, 60.0, *weight)

	reps, err = f.svc.PersonalBestReps(ctx, f.userID, f.exerciseID)
	require.NoError(t, err)
	require.NotNil(t, reps)
	assert.Equal(t, 12, *reps)
}

func TestMetricsService_ProgressPercentage_SingleLogAbsent(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	f.seedLog(3, intPtr(10), floatPtr(50))

	pct, err := f.svc.ProgressPercentage(context.Background(), f.userID, f.exerciseID)
	require.NoError(t, err)
	assert.Nil(t, pct, "one log has no basis for progress")
}

func TestMetricsService_ProgressPercentage_WeightBased(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	f.seedLog(3, intPtr(10), floatPtr(50))
	f.seedLog(3, intPtr(10), floatPtr(40)) // middle values are ignored: endpoints only
	f.seedLog(3, intPtr(10), floatPtr(60))

	pct, err := f.svc.ProgressPercentage(context.Background(), f.userID, f.exerciseID)
	require.NoError(t, err)
	require.NotNil(t, pct)
	assert.InDelta(t, 20.0, *pct, 1e-9) // (60-50)/50
}

func TestMetricsService_ProgressPercentage_RepsFallback(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	f.seedLog(3, intPtr(10), nil)
	f.seedLog(3, intPtr(15), nil)

	pct, err := f.svc.ProgressPercentage(context.Background(), f.userID, f.exerciseID)
	require.NoError(t, err)
	require.NotNil(t, pct)
	assert.InDelta(t, 50.0, *pct, 1e-9)
}

func TestMetricsService_ProgressPercentage_NoBasis(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	f.seedLog(3, nil, nil)
	f.seedLog(3, nil, nil)

	pct, err := f.svc.ProgressPercentage(context.Background(), f.userID, f.exerciseID)
	require.NoError(t, err)
	assert.Nil(t, pct)
}

func TestMetricsService_SessionSummary_InProgressElapsed(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	sessionID := f.sessionRepo.seed(domain.WorkoutSession{
		UserID:          f.userID,
		ScheduledDate:   testNow,
		Status:          domain.SessionInProgress,
		ActualStartTime: timePtr(testNow.Add(-25 * time.Minute)),
	})
	f.logRepo.seed(domain.ExerciseLog{
		SessionID: sessionID, UserID: f.userID, ExerciseID: f.exerciseID,
		ExerciseOrder: 1, SetsCompleted: 3, CaloriesBurned: intPtr(80),
	})
	f.logRepo.seed(domain.ExerciseLog{
		SessionID: sessionID, UserID: f.userID, ExerciseID: f.exerciseID,
		ExerciseOrder: 2, SetsCompleted: 4,
	})

	summary, err := f.svc.SessionSummary(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalExercises)
	assert.Equal(t, 7, summary.TotalSets)
	assert.Equal(t, 80, summary.EstimatedCalories)
	assert.Equal(t, 25, summary.ElapsedMinutes, "live elapsed while in progress")
}

func TestMetricsService_SessionSummary_CompletedUsesFrozenDuration(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	sessionID := f.sessionRepo.seed(domain.WorkoutSession{
		UserID:                f.userID,
		ScheduledDate:         testNow,
		Status:                domain.SessionCompleted,
		ActualStartTime:       timePtr(testNow.Add(-3 * time.Hour)),
		ActualEndTime:         timePtr(testNow.Add(-2 * time.Hour)),
		ActualDurationMinutes: intPtr(60),
	})

	summary, err := f.svc.SessionSummary(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, 60, summary.ElapsedMinutes)
}

func TestMetricsService_SessionSummary_PlannedElapsedZero(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	sessionID := f.sessionRepo.seed(domain.WorkoutSession{
		UserID:        f.userID,
		ScheduledDate: testNow,
		Status:        domain.SessionPlanned,
	})

	summary, err := f.svc.SessionSummary(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Zero(t, summary.ElapsedMinutes)
	assert.Zero(t, summary.TotalExercises)
}

func TestMetricsService_SessionSummary_NotFound(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))

	_, err := f.svc.SessionSummary(context.Background(), primitive.NewObjectID())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestMetricsService_UserStatistics(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))
	ctx := context.Background()

	otherExercise := primitive.NewObjectID()

	first := f.sessionRepo.seed(domain.WorkoutSession{
		UserID: f.userID, ScheduledDate: testNow, Status: domain.SessionCompleted,
		ActualDurationMinutes: intPtr(40), CaloriesBurned: intPtr(300),
	})
	second := f.sessionRepo.seed(domain.WorkoutSession{
		UserID: f.userID, ScheduledDate: testNow, Status: domain.SessionCompleted,
		ActualDurationMinutes: intPtr(60), CaloriesBurned: intPtr(500),
	})
	// Cancelled sessions never count toward statistics.
	f.sessionRepo.seed(domain.WorkoutSession{
		UserID: f.userID, ScheduledDate: testNow, Status: domain.SessionCancelled,
	})

	f.logRepo.seed(domain.ExerciseLog{SessionID: first, UserID: f.userID, ExerciseID: f.exerciseID, ExerciseOrder: 1, SetsCompleted: 3})
	f.logRepo.seed(domain.ExerciseLog{SessionID: second, UserID: f.userID, ExerciseID: f.exerciseID, ExerciseOrder: 1, SetsCompleted: 3})
	f.logRepo.seed(domain.ExerciseLog{SessionID: second, UserID: f.userID, ExerciseID: otherExercise, ExerciseOrder: 2, SetsCompleted: 3})

	stats, err := f.svc.UserStatistics(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CompletedSessions)
	assert.Equal(t, 50.0, stats.AverageDurationMinutes)
	assert.Equal(t, 800, stats.TotalCaloriesBurned)
	assert.Equal(t, 2, stats.DistinctExercises)
}

func TestMetricsService_UserStatistics_NoSessions(t *testing.T) {
	f := newMetricsFixture(t, fixedClock(testNow))

	stats, err := f.svc.UserStatistics(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Zero(t, stats.CompletedSessions)
	assert.Zero(t, stats.AverageDurationMinutes)
	assert.Zero(t, stats.DistinctExercises)
}
