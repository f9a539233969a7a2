package service

import (
	"context"
	"errors"
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLogEntry is the caller-supplied payload for one exercise log.
type ExerciseLogEntry struct {
	ExerciseID       primitive.ObjectID
	ExerciseOrder    int
	SetsCompleted    int
	RepsCompleted    *int
	WeightUsedKg     *float64
	DurationSeconds  *int
	DistanceMeters   *float64
	CaloriesBurned   *int
	DifficultyRating *int // 1-5
	Notes            string
}

// ExerciseLogPatch carries updatable log fields. Nil fields are left untouched.
type ExerciseLogPatch struct {
	ExerciseOrder    *int
	SetsCompleted    *int
	RepsCompleted    *int
	WeightUsedKg     *float64
	DurationSeconds  *int
	DistanceMeters   *float64
	CaloriesBurned   *int
	DifficultyRating *int
	Notes            *string
}

// ExerciseLogService gates exercise log mutations on the owning session's
// lifecycle state.
type ExerciseLogService interface {
	// LogExercise admits a single log entry into an IN_PROGRESS session.
	LogExercise(ctx context.Context, sessionID primitive.ObjectID, entry ExerciseLogEntry) (*domain.ExerciseLog, error)

	// LogExercises admits a batch with per-entry validation. A failure on
	// entry k does not undo entries before k; the logs created so far are
	// returned alongside the error. Callers needing all-or-nothing semantics
	// must wrap the batch themselves.
	LogExercises(ctx context.Context, sessionID primitive.ObjectID, entries []ExerciseLogEntry) ([]domain.ExerciseLog, error)

	UpdateLog(ctx context.Context, logID primitive.ObjectID, patch ExerciseLogPatch) (*domain.ExerciseLog, error)
	DeleteLog(ctx context.Context, logID primitive.ObjectID) error

	GetBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error)
}

// exerciseLogService implements the ExerciseLogService interface.
type exerciseLogService struct {
	logRepo      repository.ExerciseLogRepository
	sessionRepo  repository.SessionRepository
	exerciseRepo repository.ExerciseRepository
	now          func() time.Time
}

// NewExerciseLogService creates a new instance of exerciseLogService.
func NewExerciseLogService(
	logRepo repository.ExerciseLogRepository,
	sessionRepo repository.SessionRepository,
	exerciseRepo repository.ExerciseRepository,
	now func() time.Time,
) ExerciseLogService {
	if now == nil {
		now = time.Now
	}
	return &exerciseLogService{
		logRepo:      logRepo,
		sessionRepo:  sessionRepo,
		exerciseRepo: exerciseRepo,
		now:          now,
	}
}

// LogExercise validates and records a single exercise performance.
func (s *exerciseLogService) LogExercise(ctx context.Context, sessionID primitive.ObjectID, entry ExerciseLogEntry) (*domain.ExerciseLog, error) {
	session, err := s.admitSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.createLog(ctx, session, entry)
}

// LogExercises records a batch of entries one at a time. The admission check
// runs once up front; each entry is validated and persisted independently.
func (s *exerciseLogService) LogExercises(ctx context.Context, sessionID primitive.ObjectID, entries []ExerciseLogEntry) ([]domain.ExerciseLog, error) {
	session, err := s.admitSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	created := make([]domain.ExerciseLog, 0, len(entries))
	for _, entry := range entries {
		log, err := s.createLog(ctx, session, entry)
		if err != nil {
			// Prior entries stay committed. Documented relaxed guarantee.
			return created, err
		}
		created = append(created, *log)
	}
	return created, nil
}

func (s *exerciseLogService) createLog(ctx context.Context, session *domain.WorkoutSession, entry ExerciseLogEntry) (*domain.ExerciseLog, error) {
	if err := validateLogEntry(entry); err != nil {
		return nil, err
	}

	if _, err := s.exerciseRepo.GetByID(ctx, entry.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("exercise", entry.ExerciseID.Hex())
		}
		return nil, err
	}

	log := &domain.ExerciseLog{
		SessionID:        session.ID,
		UserID:           session.UserID,
		ExerciseID:       entry.ExerciseID,
		ExerciseOrder:    entry.ExerciseOrder,
		SetsCompleted:    entry.SetsCompleted,
		RepsCompleted:    entry.RepsCompleted,
		WeightUsedKg:     entry.WeightUsedKg,
		DurationSeconds:  entry.DurationSeconds,
		DistanceMeters:   entry.DistanceMeters,
		CaloriesBurned:   entry.CaloriesBurned,
		DifficultyRating: entry.DifficultyRating,
		Notes:            entry.Notes,
	}
	id, err := s.logRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = id
	return log, nil
}

// UpdateLog applies field-level validation identical to creation. Legal while
// the owning session is IN_PROGRESS or COMPLETED, never after CANCELLED.
func (s *exerciseLogService) UpdateLog(ctx context.Context, logID primitive.ObjectID, patch ExerciseLogPatch) (*domain.ExerciseLog, error) {
	log, session, err := s.getLogWithSession(ctx, logID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionCancelled {
		return nil, NewIllegalState("update exercise log", string(session.Status), "logs of a cancelled session are frozen")
	}

	if patch.ExerciseOrder != nil {
		log.ExerciseOrder = *patch.ExerciseOrder
	}
	if patch.SetsCompleted != nil {
		log.SetsCompleted = *patch.SetsCompleted
	}
	if patch.RepsCompleted != nil {
		log.RepsCompleted = patch.RepsCompleted
	}
	if patch.WeightUsedKg != nil {
		log.WeightUsedKg = patch.WeightUsedKg
	}
	if patch.DurationSeconds != nil {
		log.DurationSeconds = patch.DurationSeconds
	}
	if patch.DistanceMeters != nil {
		log.DistanceMeters = patch.DistanceMeters
	}
	if patch.CaloriesBurned != nil {
		log.CaloriesBurned = patch.CaloriesBurned
	}
	if patch.DifficultyRating != nil {
		log.DifficultyRating = patch.DifficultyRating
	}
	if patch.Notes != nil {
		log.Notes = *patch.Notes
	}

	if err := validateLogEntry(ExerciseLogEntry{
		ExerciseID:       log.ExerciseID,
		ExerciseOrder:    log.ExerciseOrder,
		SetsCompleted:    log.SetsCompleted,
		RepsCompleted:    log.RepsCompleted,
		WeightUsedKg:     log.WeightUsedKg,
		DurationSeconds:  log.DurationSeconds,
		DistanceMeters:   log.DistanceMeters,
		CaloriesBurned:   log.CaloriesBurned,
		DifficultyRating: log.DifficultyRating,
	}); err != nil {
		return nil, err
	}

	if err := s.logRepo.Update(ctx, log); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("log", logID.Hex())
		}
		return nil, err
	}
	return log, nil
}

// DeleteLog removes a log. Legal only while the owning session is IN_PROGRESS.
func (s *exerciseLogService) DeleteLog(ctx context.Context, logID primitive.ObjectID) error {
	_, session, err := s.getLogWithSession(ctx, logID)
	if err != nil {
		return err
	}
	if session.Status != domain.SessionInProgress {
		return NewIllegalState("delete exercise log", string(session.Status), "exercise logs can only be deleted during an in-progress session")
	}

	if err := s.logRepo.Delete(ctx, logID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("log", logID.Hex())
		}
		return err
	}
	return nil
}

// GetBySession lists a session's logs in display order.
func (s *exerciseLogService) GetBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("session", sessionID.Hex())
		}
		return nil, err
	}
	return s.logRepo.GetBySessionID(ctx, sessionID)
}

// admitSession enforces the logging gate: entries are admitted if and only if
// the session is IN_PROGRESS at the instant of the check.
func (s *exerciseLogService) admitSession(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("session", sessionID.Hex())
		}
		return nil, err
	}
	if session.Status != domain.SessionInProgress {
		return nil, NewIllegalState("log exercise", string(session.Status), "exercise logging requires an in-progress session")
	}
	return session, nil
}

func (s *exerciseLogService) getLogWithSession(ctx context.Context, logID primitive.ObjectID) (*domain.ExerciseLog, *domain.WorkoutSession, error) {
	log, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFound("log", logID.Hex())
		}
		return nil, nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, log.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFound("session", log.SessionID.Hex())
		}
		return nil, nil, err
	}
	return log, session, nil
}

func validateLogEntry(entry ExerciseLogEntry) error {
	if entry.ExerciseID == primitive.NilObjectID {
		return NewInvalidArgument("exerciseId", "is required")
	}
	if entry.ExerciseOrder < 1 {
		return NewInvalidArgument("exerciseOrder", "must be >= 1")
	}
	if entry.SetsCompleted < 0 {
		return NewInvalidArgument("setsCompleted", "must be >= 0")
	}
	if entry.RepsCompleted != nil && *entry.RepsCompleted < 0 {
		return NewInvalidArgument("repsCompleted", "must be >= 0")
	}
	if entry.WeightUsedKg != nil && *entry.WeightUsedKg < 0 {
		return NewInvalidArgument("weightUsedKg", "must be >= 0")
	}
	if entry.DurationSeconds != nil && *entry.DurationSeconds < 0 {
		return NewInvalidArgument("durationSeconds", "must be >= 0")
	}
	if entry.DistanceMeters != nil && *entry.DistanceMeters < 0 {
		return NewInvalidArgument("distanceMeters", "must be >= 0")
	}
	if entry.CaloriesBurned != nil && *entry.CaloriesBurned < 0 {
		return NewInvalidArgument("caloriesBurned", "must be >= 0")
	}
	if entry.DifficultyRating != nil && (*entry.DifficultyRating < 1 || *entry.DifficultyRating > 5) {
		return NewInvalidArgument("difficultyRating", "must be between 1 and 5")
	}
	return nil
}
