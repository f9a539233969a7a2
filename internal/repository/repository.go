package repository

import (
	"context"
	"fitlog/fitness-tracker/internal/domain"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound       = RepositoryError("not found")
	ErrConflict       = RepositoryError("conflict") // Conditional write lost its race (or uniqueness violation)
	ErrUpdateFailed   = RepositoryError("update failed")
	ErrDeleteFailed   = RepositoryError("delete failed")
	ErrDuplicateEmail = RepositoryError("email already registered")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// SessionRepository defines the interface for interacting with workout session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	GetByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.SessionStatus) ([]domain.WorkoutSession, error)

	// ReplaceIfStatus persists the full new session state only if the stored
	// status still equals expected. Returns ErrConflict when the conditional
	// write matched nothing, which serializes concurrent transition attempts
	// on the same session.
	ReplaceIfStatus(ctx context.Context, session *domain.WorkoutSession, expected domain.SessionStatus) error

	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseLogRepository defines the interface for interacting with exercise log data.
type ExerciseLogRepository interface {
	Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error)

	// GetByUserAndExercise returns logs for the user/exercise pair ordered by
	// creation time ascending. Either bound may be nil for an open range.
	GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, from, to *time.Time) ([]domain.ExerciseLog, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ExerciseLog, error)

	Update(ctx context.Context, log *domain.ExerciseLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBySessionID(ctx context.Context, sessionID primitive.ObjectID) error
}

// GoalRepository defines the interface for interacting with goal data.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutPlanRepository defines the interface for interacting with workout plan data.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
}

// ExerciseRepository defines the interface for interacting with exercise catalog data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
}
