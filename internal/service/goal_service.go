package service

import (
	"context"
	"errors"
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/repository"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Projection constants. Calories-per-kg values are the conventional estimates
// for fat loss and lean mass gain.
const (
	weeksPerMonth     = 4.33
	caloriesPerKgLoss = 7700.0
	caloriesPerKgGain = 5500.0
)

// GoalInput carries the caller-declared goal fields. The projection fields on
// domain.Goal are never part of the input.
type GoalInput struct {
	GoalType         string // raw; parsed against the closed enumeration
	TargetWeightLoss *float64
	TargetWeightGain *float64
	CurrentWeight    *float64
	TimeframeMonths  *int
}

// GoalService manages body-composition goals and their derived projections.
type GoalService interface {
	Create(ctx context.Context, userID primitive.ObjectID, input GoalInput) (*domain.Goal, error)
	Update(ctx context.Context, goalID primitive.ObjectID, input GoalInput) (*domain.Goal, error)
	GetByID(ctx context.Context, goalID primitive.ObjectID) (*domain.Goal, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	MarkCompleted(ctx context.Context, goalID primitive.ObjectID) (*domain.Goal, error)
	Delete(ctx context.Context, goalID primitive.ObjectID) error
}

// goalService implements the GoalService interface.
type goalService struct {
	goalRepo repository.GoalRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewGoalService creates a new instance of goalService.
func NewGoalService(goalRepo repository.GoalRepository, userRepo repository.UserRepository, now func() time.Time) GoalService {
	if now == nil {
		now = time.Now
	}
	return &goalService{
		goalRepo: goalRepo,
		userRepo: userRepo,
		now:      now,
	}
}

// Create validates the declared fields, projects the derived ones, and stores
// the goal in ACTIVE state.
func (s *goalService) Create(ctx context.Context, userID primitive.ObjectID, input GoalInput) (*domain.Goal, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("user", userID.Hex())
		}
		return nil, err
	}

	goalType, err := validateGoalInput(input)
	if err != nil {
		return nil, err
	}

	goal := &domain.Goal{
		UserID:           userID,
		GoalType:         goalType,
		TargetWeightLoss: input.TargetWeightLoss,
		TargetWeightGain: input.TargetWeightGain,
		CurrentWeight:    input.CurrentWeight,
		TimeframeMonths:  input.TimeframeMonths,
		Status:           domain.GoalActive,
	}
	projectGoal(goal)

	id, err := s.goalRepo.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	goal.ID = id
	return goal, nil
}

// Update replaces the declared fields and recomputes the projection. The
// derived fields are never caller-writable; they always come out of the
// projector.
func (s *goalService) Update(ctx context.Context, goalID primitive.ObjectID, input GoalInput) (*domain.Goal, error) {
	goal, err := s.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	goalType, err := validateGoalInput(input)
	if err != nil {
		return nil, err
	}

	goal.GoalType = goalType
	goal.TargetWeightLoss = input.TargetWeightLoss
	goal.TargetWeightGain = input.TargetWeightGain
	goal.CurrentWeight = input.CurrentWeight
	goal.TimeframeMonths = input.TimeframeMonths
	projectGoal(goal)

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("goal", goalID.Hex())
		}
		return nil, err
	}
	return goal, nil
}

// GetByID retrieves a goal.
func (s *goalService) GetByID(ctx context.Context, goalID primitive.ObjectID) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("goal", goalID.Hex())
		}
		return nil, err
	}
	return goal, nil
}

// ListByUser retrieves all goals belonging to a user.
func (s *goalService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	return s.goalRepo.GetByUserID(ctx, userID)
}

// MarkCompleted moves a goal to COMPLETED. Legal from any non-terminal status.
func (s *goalService) MarkCompleted(ctx context.Context, goalID primitive.ObjectID) (*domain.Goal, error) {
	goal, err := s.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status.IsTerminal() {
		return nil, NewIllegalState("complete goal", string(goal.Status), "")
	}

	completedAt := s.now().UTC()
	goal.Status = domain.GoalCompleted
	goal.CompletedAt = &completedAt

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("goal", goalID.Hex())
		}
		return nil, err
	}
	return goal, nil
}

// Delete removes a goal unconditionally.
func (s *goalService) Delete(ctx context.Context, goalID primitive.ObjectID) error {
	if err := s.goalRepo.Delete(ctx, goalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("goal", goalID.Hex())
		}
		return err
	}
	return nil
}

func validateGoalInput(input GoalInput) (domain.GoalType, error) {
	goalType, err := domain.ParseGoalType(input.GoalType)
	if err != nil {
		return "", NewInvalidArgument("goalType", "unknown goal type")
	}
	if input.TimeframeMonths != nil && *input.TimeframeMonths <= 0 {
		return "", NewInvalidArgument("timeframeMonths", "must be > 0")
	}
	if input.TargetWeightLoss != nil && *input.TargetWeightLoss < 0 {
		return "", NewInvalidArgument("targetWeightLoss", "must be >= 0")
	}
	if input.TargetWeightGain != nil && *input.TargetWeightGain < 0 {
		return "", NewInvalidArgument("targetWeightGain", "must be >= 0")
	}
	if input.CurrentWeight != nil && *input.CurrentWeight < 0 {
		return "", NewInvalidArgument("currentWeight", "must be >= 0")
	}
	return goalType, nil
}

// projectGoal deterministically recomputes the derived calorie/weight fields
// from the declared ones. When required inputs are missing, or the goal is
// MAINTAIN_HEALTH, all derived fields stay absent; that is not an error.
func projectGoal(goal *domain.Goal) {
	goal.DailyCalorieDeficit = nil
	goal.DailyCalorieSurplus = nil
	goal.WeeklyWeightChange = nil
	goal.TargetWeight = nil

	switch goal.GoalType {
	case domain.GoalLoseWeight:
		if goal.TargetWeightLoss == nil || goal.CurrentWeight == nil || goal.TimeframeMonths == nil {
			return
		}
		timeframeWeeks := float64(*goal.TimeframeMonths) * weeksPerMonth
		totalCalories := *goal.TargetWeightLoss * caloriesPerKgLoss

		deficit := int(math.Round(totalCalories / (timeframeWeeks * 7)))
		weekly := -round2(*goal.TargetWeightLoss / timeframeWeeks)
		target := *goal.CurrentWeight - *goal.TargetWeightLoss

		goal.DailyCalorieDeficit = &deficit
		goal.WeeklyWeightChange = &weekly
		goal.TargetWeight = &target

	case domain.GoalGainMuscle:
		if goal.TargetWeightGain == nil || goal.TimeframeMonths == nil {
			return
		}
		timeframeWeeks := float64(*goal.TimeframeMonths) * weeksPerMonth
		totalCalories := *goal.TargetWeightGain * caloriesPerKgGain

		surplus := int(math.Round(totalCalories / (timeframeWeeks * 7)))
		weekly := round2(*goal.TargetWeightGain / timeframeWeeks)

		goal.DailyCalorieSurplus = &surplus
		goal.WeeklyWeightChange = &weekly
		if goal.CurrentWeight != nil {
			target := *goal.CurrentWeight + *goal.TargetWeightGain
			goal.TargetWeight = &target
		}

	case domain.GoalMaintainHealth:
		// Nothing to project.
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
