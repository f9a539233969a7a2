package api

import (
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLogHandler holds the exercise log service dependency.
type ExerciseLogHandler struct {
	logService     service.ExerciseLogService
	sessionService service.SessionService
}

// NewExerciseLogHandler creates a new ExerciseLogHandler.
func NewExerciseLogHandler(logService service.ExerciseLogService, sessionService service.SessionService) *ExerciseLogHandler {
	return &ExerciseLogHandler{logService: logService, sessionService: sessionService}
}

// --- DTOs ---

// LogExerciseRequest defines the expected JSON for one log entry.
type LogExerciseRequest struct {
	ExerciseID       string   `json:"exerciseId" binding:"required"`
	ExerciseOrder    int      `json:"exerciseOrder" binding:"required"`
	SetsCompleted    int      `json:"setsCompleted"`
	RepsCompleted    *int     `json:"repsCompleted"`
	WeightUsedKg     *float64 `json:"weightUsedKg"`
	DurationSeconds  *int     `json:"durationSeconds"`
	DistanceMeters   *float64 `json:"distanceMeters"`
	CaloriesBurned   *int     `json:"caloriesBurned"`
	DifficultyRating *int     `json:"difficultyRating"`
	Notes            string   `json:"notes"`
}

// BatchLogRequest carries several entries logged in one call.
type BatchLogRequest struct {
	Entries []LogExerciseRequest `json:"entries" binding:"required,min=1"`
}

// UpdateLogRequest carries the updatable log fields; absent fields are untouched.
type UpdateLogRequest struct {
	ExerciseOrder    *int     `json:"exerciseOrder"`
	SetsCompleted    *int     `json:"setsCompleted"`
	RepsCompleted    *int     `json:"repsCompleted"`
	WeightUsedKg     *float64 `json:"weightUsedKg"`
	DurationSeconds  *int     `json:"durationSeconds"`
	DistanceMeters   *float64 `json:"distanceMeters"`
	CaloriesBurned   *int     `json:"caloriesBurned"`
	DifficultyRating *int     `json:"difficultyRating"`
	Notes            *string  `json:"notes"`
}

// ExerciseLogResponse is the DTO for returning a log.
type ExerciseLogResponse struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"sessionId"`
	ExerciseID       string    `json:"exerciseId"`
	ExerciseOrder    int       `json:"exerciseOrder"`
	SetsCompleted    int       `json:"setsCompleted"`
	RepsCompleted    *int      `json:"repsCompleted,omitempty"`
	WeightUsedKg     *float64  `json:"weightUsedKg,omitempty"`
	DurationSeconds  *int      `json:"durationSeconds,omitempty"`
	DistanceMeters   *float64  `json:"distanceMeters,omitempty"`
	CaloriesBurned   *int      `json:"caloriesBurned,omitempty"`
	DifficultyRating *int      `json:"difficultyRating,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BatchLogResponse reports the logs created before any failure. The relaxed
// batch guarantee means a partial result can accompany an error.
type BatchLogResponse struct {
	Created []ExerciseLogResponse `json:"created"`
	Error   string                `json:"error,omitempty"`
}

// MapLogToResponse converts a domain.ExerciseLog to its DTO.
func MapLogToResponse(l *domain.ExerciseLog) ExerciseLogResponse {
	if l == nil {
		return ExerciseLogResponse{}
	}
	return ExerciseLogResponse{
		ID:               l.ID.Hex(),
		SessionID:        l.SessionID.Hex(),
		ExerciseID:       l.ExerciseID.Hex(),
		ExerciseOrder:    l.ExerciseOrder,
		SetsCompleted:    l.SetsCompleted,
		RepsCompleted:    l.RepsCompleted,
		WeightUsedKg:     l.WeightUsedKg,
		DurationSeconds:  l.DurationSeconds,
		DistanceMeters:   l.DistanceMeters,
		CaloriesBurned:   l.CaloriesBurned,
		DifficultyRating: l.DifficultyRating,
		Notes:            l.Notes,
		CreatedAt:        l.CreatedAt,
	}
}

// MapLogsToResponse converts a slice of logs to DTOs.
func MapLogsToResponse(logs []domain.ExerciseLog) []ExerciseLogResponse {
	responses := make([]ExerciseLogResponse, len(logs))
	for i := range logs {
		responses[i] = MapLogToResponse(&logs[i])
	}
	return responses
}

func (r *LogExerciseRequest) toEntry() (service.ExerciseLogEntry, error) {
	exerciseID, err := primitive.ObjectIDFromHex(r.ExerciseID)
	if err != nil {
		return service.ExerciseLogEntry{}, err
	}
	return service.ExerciseLogEntry{
		ExerciseID:       exerciseID,
		ExerciseOrder:    r.ExerciseOrder,
		SetsCompleted:    r.SetsCompleted,
		RepsCompleted:    r.RepsCompleted,
		WeightUsedKg:     r.WeightUsedKg,
		DurationSeconds:  r.DurationSeconds,
		DistanceMeters:   r.DistanceMeters,
		CaloriesBurned:   r.CaloriesBurned,
		DifficultyRating: r.DifficultyRating,
		Notes:            r.Notes,
	}, nil
}

// --- Handler Methods ---

// LogExercise records one exercise performance in an in-progress session.
func (h *ExerciseLogHandler) LogExercise(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var req LogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	entry, err := req.toEntry()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	log, err := h.logService.LogExercise(c.Request.Context(), session.ID, entry)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapLogToResponse(log))
}

// LogExercisesBatch records several entries. Entries before a failing one stay
// committed; the response reports both the created logs and the error.
func (h *ExerciseLogHandler) LogExercisesBatch(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var req BatchLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entries := make([]service.ExerciseLogEntry, 0, len(req.Entries))
	for _, r := range req.Entries {
		entry, err := r.toEntry()
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
			return
		}
		entries = append(entries, entry)
	}

	created, err := h.logService.LogExercises(c.Request.Context(), session.ID, entries)
	if err != nil {
		c.JSON(http.StatusMultiStatus, BatchLogResponse{
			Created: MapLogsToResponse(created),
			Error:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, BatchLogResponse{Created: MapLogsToResponse(created)})
}

// ListSessionLogs returns a session's logs in display order.
func (h *ExerciseLogHandler) ListSessionLogs(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	logs, err := h.logService.GetBySession(c.Request.Context(), session.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapLogsToResponse(logs))
}

// UpdateLog patches a log while its session is IN_PROGRESS or COMPLETED.
func (h *ExerciseLogHandler) UpdateLog(c *gin.Context) {
	logID, err := primitive.ObjectIDFromHex(c.Param("logId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format")
		return
	}

	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	log, err := h.logService.UpdateLog(c.Request.Context(), logID, service.ExerciseLogPatch{
		ExerciseOrder:    req.ExerciseOrder,
		SetsCompleted:    req.SetsCompleted,
		RepsCompleted:    req.RepsCompleted,
		WeightUsedKg:     req.WeightUsedKg,
		DurationSeconds:  req.DurationSeconds,
		DistanceMeters:   req.DistanceMeters,
		CaloriesBurned:   req.CaloriesBurned,
		DifficultyRating: req.DifficultyRating,
		Notes:            req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapLogToResponse(log))
}

// DeleteLog removes a log while its session is IN_PROGRESS.
func (h *ExerciseLogHandler) DeleteLog(c *gin.Context) {
	logID, err := primitive.ObjectIDFromHex(c.Param("logId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format")
		return
	}
	if err := h.logService.DeleteLog(c.Request.Context(), logID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedSession resolves the :id path parameter to a session owned by the caller.
func (h *ExerciseLogHandler) ownedSession(c *gin.Context) (*domain.WorkoutSession, bool) {
	userID, ok := callerID(c)
	if !ok {
		return nil, false
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return nil, false
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if session.UserID != userID {
		abortWithError(c, http.StatusNotFound, "session "+sessionID.Hex()+" not found")
		return nil, false
	}
	return session, true
}
