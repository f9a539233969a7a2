package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the workout session lifecycle
type SessionStatus string

const (
	SessionPlanned    SessionStatus = "PLANNED"
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
	SessionCancelled  SessionStatus = "CANCELLED"
	SessionMissed     SessionStatus = "MISSED"
)

// ParseSessionStatus converts a raw string into a SessionStatus.
// Unknown values are rejected, never coerced.
func ParseSessionStatus(raw string) (SessionStatus, error) {
	switch SessionStatus(raw) {
	case SessionPlanned, SessionInProgress, SessionCompleted, SessionCancelled, SessionMissed:
		return SessionStatus(raw), nil
	}
	return "", fmt.Errorf("unknown session status %q", raw)
}

// sessionTransitions enumerates every legal edge of the lifecycle.
// Anything not listed here is an illegal transition.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionPlanned:    {SessionInProgress, SessionCancelled, SessionMissed},
	SessionInProgress: {SessionCompleted, SessionCancelled},
	SessionCompleted:  {},
	SessionCancelled:  {},
	SessionMissed:     {},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outbound transitions.
func (s SessionStatus) IsTerminal() bool {
	return len(sessionTransitions[s]) == 0
}

// WorkoutSession represents one scheduled/executed workout instance.
type WorkoutSession struct {
	ID     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID  `bson:"userId" json:"userId"`
	PlanID *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"` // Optional link to a workout plan template

	ScheduledDate time.Time `bson:"scheduledDate" json:"scheduledDate"`
	ScheduledTime *string   `bson:"scheduledTime,omitempty" json:"scheduledTime,omitempty"` // "HH:MM", optional

	Status SessionStatus `bson:"status" json:"status"`

	// Stamped exclusively by lifecycle transitions, never by direct edit.
	ActualStartTime       *time.Time `bson:"actualStartTime,omitempty" json:"actualStartTime,omitempty"`
	ActualEndTime         *time.Time `bson:"actualEndTime,omitempty" json:"actualEndTime,omitempty"`
	ActualDurationMinutes *int       `bson:"actualDurationMinutes,omitempty" json:"actualDurationMinutes,omitempty"`

	// Set only at completion.
	CaloriesBurned    *int `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	OverallRating     *int `bson:"overallRating,omitempty" json:"overallRating,omitempty"`         // 1-5
	EnergyLevelBefore *int `bson:"energyLevelBefore,omitempty" json:"energyLevelBefore,omitempty"` // 1-5
	EnergyLevelAfter  *int `bson:"energyLevelAfter,omitempty" json:"energyLevelAfter,omitempty"`   // 1-5

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
