package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLog records a single exercise's performance within a session.
// Logs are created only while the owning session is IN_PROGRESS and are
// owned exclusively by that session (cascade-deleted with it).
type ExerciseLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID  primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"` // Denormalized from the session for metrics queries
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`

	ExerciseOrder int `bson:"exerciseOrder" json:"exerciseOrder"` // Display ordering hint; duplicates permitted

	SetsCompleted    int      `bson:"setsCompleted" json:"setsCompleted"`
	RepsCompleted    *int     `bson:"repsCompleted,omitempty" json:"repsCompleted,omitempty"`
	WeightUsedKg     *float64 `bson:"weightUsedKg,omitempty" json:"weightUsedKg,omitempty"`
	DurationSeconds  *int     `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	DistanceMeters   *float64 `bson:"distanceMeters,omitempty" json:"distanceMeters,omitempty"`
	CaloriesBurned   *int     `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	DifficultyRating *int     `bson:"difficultyRating,omitempty" json:"difficultyRating,omitempty"` // 1-5

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Volume returns setsCompleted x repsCompleted x weightUsedKg, or 0 when any
// factor is missing. A zero contribution is not an error.
func (l *ExerciseLog) Volume() float64 {
	if l.RepsCompleted == nil || l.WeightUsedKg == nil {
		return 0
	}
	return float64(l.SetsCompleted) * float64(*l.RepsCompleted) * *l.WeightUsedKg
}
