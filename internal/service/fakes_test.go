package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the mongo implementations' contract:
// same sentinel errors, same ordering guarantees, value-copy semantics so a
// caller mutating a returned struct cannot corrupt the store.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateEmail
		}
	}
	id := primitive.NewObjectID()
	user.ID = id
	r.users[id] = *user
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *fakeUserRepo) add(user domain.User) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	user.ID = id
	r.users[id] = user
	return id
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]domain.WorkoutSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]domain.WorkoutSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	session.ID = id
	r.sessions[id] = *session
	return id, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := s
	return &out, nil
}

func (r *fakeSessionRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByUserAndStatus(_ context.Context, userID primitive.ObjectID, status domain.SessionStatus) ([]domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) ReplaceIfStatus(_ context.Context, session *domain.WorkoutSession, expected domain.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[session.ID]
	if !ok || stored.Status != expected {
		return repository.ErrConflict
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// seed stores a session as-is and returns its generated id.
func (r *fakeSessionRepo) seed(session domain.WorkoutSession) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	session.ID = id
	r.sessions[id] = session
	return id
}

// setStatus flips the stored status behind the service's back, simulating a
// concurrent transition that committed first.
func (r *fakeSessionRepo) setStatus(id primitive.ObjectID, status domain.SessionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.sessions[id]
	s.Status = status
	r.sessions[id] = s
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs map[primitive.ObjectID]domain.ExerciseLog
	seq  int

	failAfter int // fail the Nth Create (1-based); 0 disables
	creates   int
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{logs: make(map[primitive.ObjectID]domain.ExerciseLog)}
}

func (r *fakeLogRepo) Create(_ context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.failAfter > 0 && r.creates >= r.failAfter {
		return primitive.NilObjectID, repository.ErrUpdateFailed
	}
	id := primitive.NewObjectID()
	log.ID = id
	if log.CreatedAt.IsZero() {
		// Monotonic stamps keep chronological ordering deterministic.
		r.seq++
		log.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	}
	r.logs[id] = *log
	return id, nil
}

func (r *fakeLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := l
	return &out, nil
}

func (r *fakeLogRepo) GetBySessionID(_ context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ExerciseLog
	for _, l := range r.logs {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExerciseOrder != out[j].ExerciseOrder {
			return out[i].ExerciseOrder < out[j].ExerciseOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeLogRepo) GetByUserAndExercise(_ context.Context, userID, exerciseID primitive.ObjectID, from, to *time.Time) ([]domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ExerciseLog
	for _, l := range r.logs {
		if l.UserID != userID || l.ExerciseID != exerciseID {
			continue
		}
		if from != nil && l.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && l.CreatedAt.After(*to) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeLogRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ExerciseLog
	for _, l := range r.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeLogRepo) Update(_ context.Context, log *domain.ExerciseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[log.ID]; !ok {
		return repository.ErrNotFound
	}
	r.logs[log.ID] = *log
	return nil
}

func (r *fakeLogRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.logs, id)
	return nil
}

func (r *fakeLogRepo) DeleteBySessionID(_ context.Context, sessionID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.logs {
		if l.SessionID == sessionID {
			delete(r.logs, id)
		}
	}
	return nil
}

func (r *fakeLogRepo) seed(log domain.ExerciseLog) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	log.ID = id
	if log.CreatedAt.IsZero() {
		r.seq++
		log.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	}
	r.logs[id] = log
	return id
}

type fakeGoalRepo struct {
	mu    sync.Mutex
	goals map[primitive.ObjectID]domain.Goal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[primitive.ObjectID]domain.Goal)}
}

func (r *fakeGoalRepo) Create(_ context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	goal.ID = id
	r.goals[id] = *goal
	return id, nil
}

func (r *fakeGoalRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := g
	return &out, nil
}

func (r *fakeGoalRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Goal
	for _, g := range r.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) Update(_ context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[goal.ID]; !ok {
		return repository.ErrNotFound
	}
	r.goals[goal.ID] = *goal
	return nil
}

func (r *fakeGoalRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.WorkoutPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[primitive.ObjectID]domain.WorkoutPlan)}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.OwnerID == plan.OwnerID && p.Name == plan.Name {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	id := primitive.NewObjectID()
	plan.ID = id
	r.plans[id] = *plan
	return id, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := p
	return &out, nil
}

func (r *fakePlanRepo) GetByOwnerID(_ context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) seed(plan domain.WorkoutPlan) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	plan.ID = id
	r.plans[id] = plan
	return id
}

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	exercise.ID = id
	r.exercises[id] = *exercise
	return id, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := e
	return &out, nil
}

func (r *fakeExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeExerciseRepo) seed(name string) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	r.exercises[id] = domain.Exercise{ID: id, Name: name}
	return id
}

// fixedClock returns a now func pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func strPtr(v string) *string       { return &v }
func timePtr(v time.Time) *time.Time { return &v }
