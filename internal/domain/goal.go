package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalType type for the closed set of body-composition goal kinds
type GoalType string

const (
	GoalLoseWeight     GoalType = "LOSE_WEIGHT"
	GoalGainMuscle     GoalType = "GAIN_MUSCLE"
	GoalMaintainHealth GoalType = "MAINTAIN_HEALTH"
)

// ParseGoalType converts a raw string into a GoalType, rejecting unknown values.
func ParseGoalType(raw string) (GoalType, error) {
	switch GoalType(raw) {
	case GoalLoseWeight, GoalGainMuscle, GoalMaintainHealth:
		return GoalType(raw), nil
	}
	return "", fmt.Errorf("unknown goal type %q", raw)
}

// GoalStatus type for goal lifecycle
type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalCompleted GoalStatus = "COMPLETED"
	GoalPaused    GoalStatus = "PAUSED"
	GoalCancelled GoalStatus = "CANCELLED"
)

// ParseGoalStatus converts a raw string into a GoalStatus, rejecting unknown values.
func ParseGoalStatus(raw string) (GoalStatus, error) {
	switch GoalStatus(raw) {
	case GoalActive, GoalCompleted, GoalPaused, GoalCancelled:
		return GoalStatus(raw), nil
	}
	return "", fmt.Errorf("unknown goal status %q", raw)
}

// IsTerminal reports whether the goal status admits no further transitions.
func (s GoalStatus) IsTerminal() bool {
	return s == GoalCompleted || s == GoalCancelled
}

// Goal represents a user's declared body-composition target.
//
// The calorie/weight projection fields are derived deterministically from the
// declared fields whenever those are set; they are never caller-writable.
type Goal struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	GoalType GoalType `bson:"goalType" json:"goalType"`

	// Declared fields.
	TargetWeightLoss *float64 `bson:"targetWeightLoss,omitempty" json:"targetWeightLoss,omitempty"` // kg
	TargetWeightGain *float64 `bson:"targetWeightGain,omitempty" json:"targetWeightGain,omitempty"` // kg
	CurrentWeight    *float64 `bson:"currentWeight,omitempty" json:"currentWeight,omitempty"`       // kg
	TimeframeMonths  *int     `bson:"timeframeMonths,omitempty" json:"timeframeMonths,omitempty"`

	// Derived fields, computed by the projector.
	DailyCalorieDeficit *int     `bson:"dailyCalorieDeficit,omitempty" json:"dailyCalorieDeficit,omitempty"`
	DailyCalorieSurplus *int     `bson:"dailyCalorieSurplus,omitempty" json:"dailyCalorieSurplus,omitempty"`
	WeeklyWeightChange  *float64 `bson:"weeklyWeightChange,omitempty" json:"weeklyWeightChange,omitempty"` // negative = loss
	TargetWeight        *float64 `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`

	Status      GoalStatus `bson:"status" json:"status"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
