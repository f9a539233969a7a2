package service

import (
	"context"
	"errors"
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanService maintains workout plan templates. The session core only consumes
// it to validate plan existence and ownership at scheduling time.
type PlanService interface {
	CreatePlan(ctx context.Context, ownerID primitive.ObjectID, name, description string) (*domain.WorkoutPlan, error)
	GetPlanByID(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	ListPlansByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
}

// planService implements the PlanService interface.
type planService struct {
	planRepo repository.WorkoutPlanRepository
	userRepo repository.UserRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.WorkoutPlanRepository, userRepo repository.UserRepository) PlanService {
	return &planService{
		planRepo: planRepo,
		userRepo: userRepo,
	}
}

// CreatePlan stores a new plan template for the owner.
func (s *planService) CreatePlan(ctx context.Context, ownerID primitive.ObjectID, name, description string) (*domain.WorkoutPlan, error) {
	if name == "" {
		return nil, NewInvalidArgument("name", "is required")
	}
	if _, err := s.userRepo.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("user", ownerID.Hex())
		}
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Duplicate plan name for this owner; propagated, not generated, here.
			return nil, NewConflict("a plan with this name already exists")
		}
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// GetPlanByID retrieves a plan template.
func (s *planService) GetPlanByID(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("plan", planID.Hex())
		}
		return nil, err
	}
	return plan, nil
}

// ListPlansByOwner retrieves all plans owned by a user.
func (s *planService) ListPlansByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return s.planRepo.GetByOwnerID(ctx, ownerID)
}
