package service

import (
	"context"
	"errors"
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseService maintains the exercise catalog the logging core validates
// against.
type ExerciseService interface {
	CreateExercise(ctx context.Context, name, description, muscleGroup, difficulty string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

// CreateExercise adds a new exercise definition to the catalog.
func (s *exerciseService) CreateExercise(ctx context.Context, name, description, muscleGroup, difficulty string) (*domain.Exercise, error) {
	if name == "" {
		return nil, NewInvalidArgument("name", "is required")
	}

	exercise := &domain.Exercise{
		Name:        name,
		Description: description,
		MuscleGroup: muscleGroup,
		Difficulty:  difficulty,
	}
	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExerciseByID retrieves a single exercise definition.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("exercise", exerciseID.Hex())
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises retrieves the whole catalog.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}
