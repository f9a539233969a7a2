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

const exerciseLogCollectionName = "exercise_logs"

// mongoExerciseLogRepository implements repository.ExerciseLogRepository
type mongoExerciseLogRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseLogRepository creates a new exercise log repository backed by MongoDB.
func NewMongoExerciseLogRepository(db *mongo.Database) repository.ExerciseLogRepository {
	return &mongoExerciseLogRepository{
		collection: db.Collection(exerciseLogCollectionName),
	}
}

// Create inserts a new exercise log.
func (r *mongoExerciseLogRepository) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	if log.SessionID == primitive.NilObjectID || log.ExerciseID == primitive.NilObjectID || log.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise log requires sessionId, exerciseId, and userId")
	}

	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

// GetByID retrieves an exercise log by its ID.
func (r *mongoExerciseLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	var log domain.ExerciseLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetBySessionID retrieves all logs of a session ordered by exercise order.
// Duplicate order values are allowed; ties fall back to creation time.
func (r *mongoExerciseLogRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	filter := bson.M{"sessionId": sessionID}
	findOptions := options.Find().SetSort(bson.D{{Key: "exerciseOrder", Value: 1}, {Key: "createdAt", Value: 1}})
	return r.findLogs(ctx, filter, findOptions)
}

// GetByUserAndExercise retrieves logs for a user/exercise pair in chronological
// order. Nil bounds leave the range open on that side.
func (r *mongoExerciseLogRepository) GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, from, to *time.Time) ([]domain.ExerciseLog, error) {
	filter := bson.M{"userId": userID, "exerciseId": exerciseID}
	if from != nil || to != nil {
		dateRange := bson.M{}
		if from != nil {
			dateRange["$gte"] = *from
		}
		if to != nil {
			dateRange["$lte"] = *to
		}
		filter["createdAt"] = dateRange
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findLogs(ctx, filter, findOptions)
}

// GetByUserID retrieves every log a user has recorded, oldest first.
func (r *mongoExerciseLogRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findLogs(ctx, filter, findOptions)
}

func (r *mongoExerciseLogRepository) findLogs(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.ExerciseLog, error) {
	var logs []domain.ExerciseLog
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// Update modifies an existing exercise log in place.
func (r *mongoExerciseLogRepository) Update(ctx context.Context, log *domain.ExerciseLog) error {
	if log.ID == primitive.NilObjectID {
		return errors.New("log ID is required for update")
	}

	log.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": log.ID}, log)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single exercise log.
func (r *mongoExerciseLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteBySessionID removes every log owned by a session (cascade on session delete).
func (r *mongoExerciseLogRepository) DeleteBySessionID(ctx context.Context, sessionID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	return err
}

// EnsureExerciseLogIndexes creates necessary indexes. Call during startup.
func EnsureExerciseLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "exerciseOrder", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
