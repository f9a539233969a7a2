package service

import (
	"context"
	"encoding/json"
	"errors"
	"fitlog/fitness-tracker/internal/repository"
	"fitlog/fitness-tracker/internal/storage"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrReportUploadFailed = errors.New("failed to store report")
	ErrReportURLError     = errors.New("failed to generate report download URL")
)

// ReportExport is the result of exporting a user's training report.
type ReportExport struct {
	ObjectKey   string `json:"objectKey"`
	DownloadURL string `json:"downloadUrl"`
}

// trainingReport is the JSON document written to object storage.
type trainingReport struct {
	UserID        string                 `json:"userId"`
	GeneratedAt   time.Time              `json:"generatedAt"`
	Statistics    *UserStatistics        `json:"statistics"`
	PersonalBests []exercisePersonalBest `json:"personalBests"`
}

type exercisePersonalBest struct {
	ExerciseID   string   `json:"exerciseId"`
	BestWeightKg *float64 `json:"bestWeightKg,omitempty"`
	BestReps     *int     `json:"bestReps,omitempty"`
}

// ReportService renders a user's completed-session statistics as a JSON
// document in object storage and hands back a presigned download URL.
type ReportService interface {
	ExportUserReport(ctx context.Context, userID primitive.ObjectID) (*ReportExport, error)
}

// reportService implements the ReportService interface.
type reportService struct {
	metrics     MetricsService
	userRepo    repository.UserRepository
	logRepo     repository.ExerciseLogRepository
	fileStorage storage.FileStorage
	now         func() time.Time
}

// NewReportService creates a new instance of reportService.
func NewReportService(metrics MetricsService, userRepo repository.UserRepository, logRepo repository.ExerciseLogRepository, fileStorage storage.FileStorage, now func() time.Time) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{
		metrics:     metrics,
		userRepo:    userRepo,
		logRepo:     logRepo,
		fileStorage: fileStorage,
		now:         now,
	}
}

// ExportUserReport builds the statistics document, uploads it under a
// uuid-keyed object, and returns a temporary download URL.
func (s *reportService) ExportUserReport(ctx context.Context, userID primitive.ObjectID) (*ReportExport, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("user", userID.Hex())
		}
		return nil, err
	}

	stats, err := s.metrics.UserStatistics(ctx, userID)
	if err != nil {
		return nil, err
	}

	bests, err := s.personalBests(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := trainingReport{
		UserID:        userID.Hex(),
		GeneratedAt:   s.now().UTC(),
		Statistics:    stats,
		PersonalBests: bests,
	}
	body, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	objectKey := path.Join("reports", userID.Hex(), fmt.Sprintf("%s.json", uuid.NewString()))
	if err := s.fileStorage.PutObject(ctx, objectKey, "application/json", body); err != nil {
		return nil, ErrReportUploadFailed
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrReportURLError
	}

	return &ReportExport{
		ObjectKey:   objectKey,
		DownloadURL: downloadURL,
	}, nil
}

// personalBests collects the best recorded weight and reps for every exercise
// the user has logged, ordered by exercise ID for a stable document.
func (s *reportService) personalBests(ctx context.Context, userID primitive.ObjectID) ([]exercisePersonalBest, error) {
	logs, err := s.logRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]bool)
	var exerciseIDs []primitive.ObjectID
	for _, l := range logs {
		if !seen[l.ExerciseID] {
			seen[l.ExerciseID] = true
			exerciseIDs = append(exerciseIDs, l.ExerciseID)
		}
	}
	sort.Slice(exerciseIDs, func(i, j int) bool {
		return exerciseIDs[i].Hex() < exerciseIDs[j].Hex()
	})

	bests := make([]exercisePersonalBest, 0, len(exerciseIDs))
	for _, exerciseID := range exerciseIDs {
		weight, err := s.metrics.PersonalBestWeight(ctx, userID, exerciseID)
		if err != nil {
			return nil, err
		}
		reps, err := s.metrics.PersonalBestReps(ctx, userID, exerciseID)
		if err != nil {
			return nil, err
		}
		bests = append(bests, exercisePersonalBest{
			ExerciseID:   exerciseID.Hex(),
			BestWeightKg: weight,
			BestReps:     reps,
		})
	}
	return bests, nil
}
