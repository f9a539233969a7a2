package mongo

import (
	"context"
	"errors"
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "workout_sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new workout session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires userId")
	}
	if session.Status == "" {
		session.Status = domain.SessionPlanned
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByUserID retrieves all sessions belonging to a user, newest scheduled first.
func (r *mongoSessionRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: -1}})
	return r.findSessions(ctx, filter, findOptions)
}

// GetByUserAndStatus retrieves a user's sessions in a given lifecycle state.
func (r *mongoSessionRepository) GetByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.SessionStatus) ([]domain.WorkoutSession, error) {
	filter := bson.M{"userId": userID, "status": status}
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: -1}})
	return r.findSessions(ctx, filter, findOptions)
}

func (r *mongoSessionRepository) findSessions(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.WorkoutSession, error) {
	var sessions []domain.WorkoutSession
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ReplaceIfStatus writes the full new session state conditional on the stored
// status still matching expected. A lost race surfaces as ErrConflict rather
// than a second successful transition.
func (r *mongoSessionRepository) ReplaceIfStatus(ctx context.Context, session *domain.WorkoutSession, expected domain.SessionStatus) error {
	if session.ID == primitive.NilObjectID {
		return errors.New("session ID is required for update")
	}

	session.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": session.ID, "status": expected}

	result, err := r.collection.ReplaceOne(ctx, filter, session)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the session vanished or its status moved underneath us.
		return repository.ErrConflict
	}
	return nil
}

// Delete removes a session record.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "scheduledDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
