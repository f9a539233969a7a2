package service

import (
	"context"
	"errors"
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionSummary aggregates a session's current logs.
type SessionSummary struct {
	TotalExercises    int `json:"totalExercises"`
	TotalSets         int `json:"totalSets"`
	EstimatedCalories int `json:"estimatedCalories"`
	ElapsedMinutes    int `json:"elapsedMinutes"`
}

// UserStatistics aggregates over a user's completed sessions only.
type UserStatistics struct {
	CompletedSessions      int     `json:"completedSessions"`
	AverageDurationMinutes float64 `json:"averageDurationMinutes"`
	TotalCaloriesBurned    int     `json:"totalCaloriesBurned"`
	DistinctExercises      int     `json:"distinctExercises"`
}

// MetricsService computes training metrics from logged exercise data. It is a
// read-only consumer: it never mutates lifecycle state, and absent or partial
// data degrades to 0/absent rather than erroring.
type MetricsService interface {
	TotalVolume(ctx context.Context, userID, exerciseID primitive.ObjectID, from, to *time.Time) (float64, error)
	PersonalBestWeight(ctx context.Context, userID, exerciseID primitive.ObjectID) (*float64, error)
	PersonalBestReps(ctx context.Context, userID, exerciseID primitive.ObjectID) (*int, error)
	ProgressPercentage(ctx context.Context, userID, exerciseID primitive.ObjectID) (*float64, error)
	SessionSummary(ctx context.Context, sessionID primitive.ObjectID) (*SessionSummary, error)
	UserStatistics(ctx context.Context, userID primitive.ObjectID) (*UserStatistics, error)
}

// metricsService implements the MetricsService interface.
type metricsService struct {
	logRepo     repository.ExerciseLogRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewMetricsService creates a new instance of metricsService.
func NewMetricsService(
	logRepo repository.ExerciseLogRepository,
	sessionRepo repository.SessionRepository,
	now func() time.Time,
) MetricsService {
	if now == nil {
		now = time.Now
	}
	return &metricsService{
		logRepo:     logRepo,
		sessionRepo: sessionRepo,
		now:         now,
	}
}

// TotalVolume sums sets x reps x weight over matching logs. Logs missing any
// factor contribute 0; an empty range yields 0, not an error.
func (s *metricsService) TotalVolume(ctx context.Context, userID, exerciseID primitive.ObjectID, from, to *time.Time) (float64, error) {
	logs, err := s.logRepo.GetByUserAndExercise(ctx, userID, exerciseID, from, to)
	if err != nil {
		return 0, err
	}
	var total float64
	for i := range logs {
		total += logs[i].Volume()
	}
	return total, nil
}

// PersonalBestWeight returns the maximum weight ever logged for the pair, or
// nil when no log carries a weight.
func (s *metricsService) PersonalBestWeight(ctx context.Context, userID, exerciseID primitive.ObjectID) (*float64, error) {
	logs, err := s.logRepo.GetByUserAndExercise(ctx, userID, exerciseID, nil, nil)
	if err != nil {
		return nil, err
	}
	var best *float64
	for i := range logs {
		w := logs[i].WeightUsedKg
		if w == nil {
			continue
		}
		if best == nil || *w > *best {
			v := *w
			best = &v
		}
	}
	return best, nil
}

// PersonalBestReps returns the maximum rep count ever logged for the pair, or
// nil when no log carries reps.
func (s *metricsService) PersonalBestReps(ctx context.Context, userID, exerciseID primitive.ObjectID) (*int, error) {
	logs, err := s.logRepo.GetByUserAndExercise(ctx, userID, exerciseID, nil, nil)
	if err != nil {
		return nil, err
	}
	var best *int
	for i := range logs {
		r := logs[i].RepsCompleted
		if r == nil {
			continue
		}
		if best == nil || *r > *best {
			v := *r
			best = &v
		}
	}
	return best, nil
}

// ProgressPercentage compares the chronologically first and last log of the
// pair (endpoints, not min/max). Weight-based comparison is preferred; reps
// serve as the fallback. Nil means no usable basis or fewer than two logs.
func (s *metricsService) ProgressPercentage(ctx context.Context, userID, exerciseID primitive.ObjectID) (*float64, error) {
	logs, err := s.logRepo.GetByUserAndExercise(ctx, userID, exerciseID, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(logs) < 2 {
		return nil, nil
	}
	first, last := &logs[0], &logs[len(logs)-1]

	if first.WeightUsedKg != nil && last.WeightUsedKg != nil && *first.WeightUsedKg > 0 {
		pct := (*last.WeightUsedKg - *first.WeightUsedKg) / *first.WeightUsedKg * 100
		return &pct, nil
	}
	if first.RepsCompleted != nil && last.RepsCompleted != nil && *first.RepsCompleted > 0 {
		pct := float64(*last.RepsCompleted-*first.RepsCompleted) / float64(*first.RepsCompleted) * 100
		return &pct, nil
	}
	return nil, nil
}

// SessionSummary aggregates the session's current logs. ElapsedMinutes is
// computed live while IN_PROGRESS and is the frozen duration once COMPLETED.
func (s *metricsService) SessionSummary(ctx context.Context, sessionID primitive.ObjectID) (*SessionSummary, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("session", sessionID.Hex())
		}
		return nil, err
	}
	logs, err := s.logRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := &SessionSummary{TotalExercises: len(logs)}
	for i := range logs {
		summary.TotalSets += logs[i].SetsCompleted
		if logs[i].CaloriesBurned != nil {
			summary.EstimatedCalories += *logs[i].CaloriesBurned
		}
	}

	switch {
	case session.Status == domain.SessionCompleted && session.ActualDurationMinutes != nil:
		summary.ElapsedMinutes = *session.ActualDurationMinutes
	case session.Status == domain.SessionInProgress && session.ActualStartTime != nil:
		summary.ElapsedMinutes = int(s.now().UTC().Sub(*session.ActualStartTime) / time.Minute)
	}
	// Not yet started, or start time unreadable: elapsed stays 0.

	return summary, nil
}

// UserStatistics computes aggregates across the user's COMPLETED sessions only.
func (s *metricsService) UserStatistics(ctx context.Context, userID primitive.ObjectID) (*UserStatistics, error) {
	completed, err := s.sessionRepo.GetByUserAndStatus(ctx, userID, domain.SessionCompleted)
	if err != nil {
		return nil, err
	}

	stats := &UserStatistics{CompletedSessions: len(completed)}
	var durationSum, durationCount int
	exercises := make(map[primitive.ObjectID]struct{})

	for i := range completed {
		sess := &completed[i]
		if sess.ActualDurationMinutes != nil {
			durationSum += *sess.ActualDurationMinutes
			durationCount++
		}
		if sess.CaloriesBurned != nil {
			stats.TotalCaloriesBurned += *sess.CaloriesBurned
		}

		logs, err := s.logRepo.GetBySessionID(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		for j := range logs {
			exercises[logs[j].ExerciseID] = struct{}{}
		}
	}

	if durationCount > 0 {
		stats.AverageDurationMinutes = float64(durationSum) / float64(durationCount)
	}
	stats.DistinctExercises = len(exercises)
	return stats, nil
}
