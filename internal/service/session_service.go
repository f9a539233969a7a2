package service

import (
	"context"
	"errors"
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompleteSessionInput carries the completion-time fields of a session.
// All fields are optional; present values are range-validated.
type CompleteSessionInput struct {
	CaloriesBurned    *int
	OverallRating     *int // 1-5
	EnergyLevelBefore *int // 1-5
	EnergyLevelAfter  *int // 1-5
}

// SessionPatch carries the fields editable while a session is still PLANNED.
// Nil fields are left untouched.
type SessionPatch struct {
	Notes         *string
	ScheduledDate *time.Time
	ScheduledTime *string
}

// SessionService owns the workout session lifecycle state machine.
type SessionService interface {
	Schedule(ctx context.Context, userID primitive.ObjectID, planID *primitive.ObjectID, date time.Time, timeOfDay *string) (*domain.WorkoutSession, error)
	Start(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	Complete(ctx context.Context, sessionID primitive.ObjectID, input CompleteSessionInput) (*domain.WorkoutSession, error)
	Cancel(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	Reschedule(ctx context.Context, sessionID primitive.ObjectID, newDate time.Time, newTime *string) (*domain.WorkoutSession, error)
	MarkMissed(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	Update(ctx context.Context, sessionID primitive.ObjectID, patch SessionPatch) (*domain.WorkoutSession, error)
	Delete(ctx context.Context, sessionID primitive.ObjectID) error

	GetByID(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
}

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo repository.SessionRepository
	logRepo     repository.ExerciseLogRepository
	userRepo    repository.UserRepository
	planRepo    repository.WorkoutPlanRepository
	now         func() time.Time
}

// NewSessionService creates a new instance of sessionService. The now function
// stamps every lifecycle transition; pass nil to use the wall clock.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	logRepo repository.ExerciseLogRepository,
	userRepo repository.UserRepository,
	planRepo repository.WorkoutPlanRepository,
	now func() time.Time,
) SessionService {
	if now == nil {
		now = time.Now
	}
	return &sessionService{
		sessionRepo: sessionRepo,
		logRepo:     logRepo,
		userRepo:    userRepo,
		planRepo:    planRepo,
		now:         now,
	}
}

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateScheduledTime(timeOfDay *string) error {
	if timeOfDay == nil {
		return nil
	}
	if _, err := time.Parse("15:04", *timeOfDay); err != nil {
		return NewInvalidArgument("scheduledTime", "must be in HH:MM format")
	}
	return nil
}

// Schedule creates a new session in state PLANNED.
func (s *sessionService) Schedule(ctx context.Context, userID primitive.ObjectID, planID *primitive.ObjectID, date time.Time, timeOfDay *string) (*domain.WorkoutSession, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("user", userID.Hex())
		}
		return nil, err
	}

	if planID != nil {
		plan, err := s.planRepo.GetByID(ctx, *planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewNotFound("plan", planID.Hex())
			}
			return nil, err
		}
		if plan.OwnerID != userID {
			return nil, NewInvalidArgument("planId", "plan does not belong to this user")
		}
	}

	if dateOnly(date).Before(dateOnly(s.now())) {
		return nil, NewInvalidArgument("scheduledDate", "must not be in the past")
	}
	if err := validateScheduledTime(timeOfDay); err != nil {
		return nil, err
	}

	session := &domain.WorkoutSession{
		UserID:        userID,
		PlanID:        planID,
		ScheduledDate: dateOnly(date),
		ScheduledTime: timeOfDay,
		Status:        domain.SessionPlanned,
	}
	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = id
	return session, nil
}

// Start moves a PLANNED session to IN_PROGRESS and stamps the actual start time.
func (s *sessionService) Start(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.transition(ctx, sessionID, "start session", domain.SessionPlanned, func(session *domain.WorkoutSession) error {
		startedAt := s.now().UTC()
		session.ActualStartTime = &startedAt
		session.Status = domain.SessionInProgress
		return nil
	})
}

// Complete moves an IN_PROGRESS session to COMPLETED, stamping the end time and
// the derived whole-minute duration (truncated, not rounded).
func (s *sessionService) Complete(ctx context.Context, sessionID primitive.ObjectID, input CompleteSessionInput) (*domain.WorkoutSession, error) {
	if input.CaloriesBurned != nil && *input.CaloriesBurned < 0 {
		return nil, NewInvalidArgument("caloriesBurned", "must be >= 0")
	}
	if err := validateRating("overallRating", input.OverallRating); err != nil {
		return nil, err
	}
	if err := validateRating("energyLevelBefore", input.EnergyLevelBefore); err != nil {
		return nil, err
	}
	if err := validateRating("energyLevelAfter", input.EnergyLevelAfter); err != nil {
		return nil, err
	}

	return s.transition(ctx, sessionID, "complete session", domain.SessionInProgress, func(session *domain.WorkoutSession) error {
		endedAt := s.now().UTC()
		session.ActualEndTime = &endedAt
		if session.ActualStartTime != nil {
			minutes := int(endedAt.Sub(*session.ActualStartTime) / time.Minute)
			session.ActualDurationMinutes = &minutes
		}
		session.CaloriesBurned = input.CaloriesBurned
		session.OverallRating = input.OverallRating
		session.EnergyLevelBefore = input.EnergyLevelBefore
		session.EnergyLevelAfter = input.EnergyLevelAfter
		session.Status = domain.SessionCompleted
		return nil
	})
}

// Cancel moves a PLANNED or IN_PROGRESS session to CANCELLED. Exercise logs
// already recorded are kept.
func (s *sessionService) Cancel(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(domain.SessionCancelled) {
		return nil, NewIllegalState("cancel session", string(session.Status), "")
	}
	from := session.Status
	session.Status = domain.SessionCancelled
	if err := s.replaceOrRecheck(ctx, session, from, "cancel session"); err != nil {
		return nil, err
	}
	return session, nil
}

// Reschedule replaces scheduledDate/scheduledTime in place. Legal only from PLANNED.
func (s *sessionService) Reschedule(ctx context.Context, sessionID primitive.ObjectID, newDate time.Time, newTime *string) (*domain.WorkoutSession, error) {
	if dateOnly(newDate).Before(dateOnly(s.now())) {
		return nil, NewInvalidArgument("scheduledDate", "must not be in the past")
	}
	if err := validateScheduledTime(newTime); err != nil {
		return nil, err
	}

	return s.transition(ctx, sessionID, "reschedule session", domain.SessionPlanned, func(session *domain.WorkoutSession) error {
		session.ScheduledDate = dateOnly(newDate)
		session.ScheduledTime = newTime
		return nil
	})
}

// MarkMissed moves a PLANNED session to MISSED. Typically invoked by a
// time-based sweep outside this core.
func (s *sessionService) MarkMissed(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.transition(ctx, sessionID, "mark session missed", domain.SessionPlanned, func(session *domain.WorkoutSession) error {
		session.Status = domain.SessionMissed
		return nil
	})
}

// Update edits notes/date/time of a session that has not started yet.
func (s *sessionService) Update(ctx context.Context, sessionID primitive.ObjectID, patch SessionPatch) (*domain.WorkoutSession, error) {
	if patch.ScheduledDate != nil && dateOnly(*patch.ScheduledDate).Before(dateOnly(s.now())) {
		return nil, NewInvalidArgument("scheduledDate", "must not be in the past")
	}
	if err := validateScheduledTime(patch.ScheduledTime); err != nil {
		return nil, err
	}

	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionPlanned {
		return nil, NewIllegalState("modify session", string(session.Status), "cannot modify an in-progress or completed session")
	}

	if patch.Notes != nil {
		session.Notes = *patch.Notes
	}
	if patch.ScheduledDate != nil {
		session.ScheduledDate = dateOnly(*patch.ScheduledDate)
	}
	if patch.ScheduledTime != nil {
		session.ScheduledTime = patch.ScheduledTime
	}

	if err := s.replaceOrRecheck(ctx, session, domain.SessionPlanned, "modify session"); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session and cascades to its exercise logs. Forbidden while
// the session is IN_PROGRESS.
func (s *sessionService) Delete(ctx context.Context, sessionID primitive.ObjectID) error {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status == domain.SessionInProgress {
		return NewIllegalState("delete session", string(session.Status), "an in-progress session cannot be deleted")
	}

	if err := s.logRepo.DeleteBySessionID(ctx, sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("session", sessionID.Hex())
		}
		return err
	}
	return nil
}

// GetByID retrieves a session.
func (s *sessionService) GetByID(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.getSession(ctx, sessionID)
}

// ListByUser retrieves all sessions belonging to a user.
func (s *sessionService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return s.sessionRepo.GetByUserID(ctx, userID)
}

// --- transition plumbing ---

func (s *sessionService) getSession(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("session", sessionID.Hex())
		}
		return nil, err
	}
	return session, nil
}

// transition performs the read-validate-mutate-CAS cycle shared by every
// lifecycle operation that is legal from exactly one state. The mutate
// function receives the current record and computes the full new state.
func (s *sessionService) transition(ctx context.Context, sessionID primitive.ObjectID, operation string, required domain.SessionStatus, mutate func(*domain.WorkoutSession) error) (*domain.WorkoutSession, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != required {
		return nil, NewIllegalState(operation, string(session.Status), "")
	}
	if err := mutate(session); err != nil {
		return nil, err
	}
	if err := s.replaceOrRecheck(ctx, session, required, operation); err != nil {
		return nil, err
	}
	return session, nil
}

// replaceOrRecheck applies the conditional write. When the CAS loses a race it
// re-reads the record so the returned IllegalState names the winner's state.
func (s *sessionService) replaceOrRecheck(ctx context.Context, session *domain.WorkoutSession, expected domain.SessionStatus, operation string) error {
	err := s.sessionRepo.ReplaceIfStatus(ctx, session, expected)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrConflict) {
		return err
	}

	current, readErr := s.sessionRepo.GetByID(ctx, session.ID)
	if readErr != nil {
		if errors.Is(readErr, repository.ErrNotFound) {
			return NewNotFound("session", session.ID.Hex())
		}
		return readErr
	}
	return NewIllegalState(operation, string(current.Status), "concurrent transition won")
}

func validateRating(field string, rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return NewInvalidArgument(field, "must be between 1 and 5")
	}
	return nil
}
