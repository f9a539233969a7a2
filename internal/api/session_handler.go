package api

import (
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs ---

// ScheduleSessionRequest defines the expected JSON for scheduling a session.
type ScheduleSessionRequest struct {
	PlanID        *string `json:"planId"`
	ScheduledDate string  `json:"scheduledDate" binding:"required"` // YYYY-MM-DD
	ScheduledTime *string `json:"scheduledTime"`                    // HH:MM
}

// CompleteSessionRequest carries the completion-time fields.
type CompleteSessionRequest struct {
	CaloriesBurned    *int `json:"caloriesBurned"`
	OverallRating     *int `json:"overallRating"`
	EnergyLevelBefore *int `json:"energyLevelBefore"`
	EnergyLevelAfter  *int `json:"energyLevelAfter"`
}

// RescheduleSessionRequest replaces the scheduled date/time of a PLANNED session.
type RescheduleSessionRequest struct {
	ScheduledDate string  `json:"scheduledDate" binding:"required"`
	ScheduledTime *string `json:"scheduledTime"`
}

// UpdateSessionRequest edits notes/date/time of a PLANNED session.
type UpdateSessionRequest struct {
	Notes         *string `json:"notes"`
	ScheduledDate *string `json:"scheduledDate"`
	ScheduledTime *string `json:"scheduledTime"`
}

// SessionResponse is the DTO for returning session details.
type SessionResponse struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"userId"`
	PlanID                *string    `json:"planId,omitempty"`
	ScheduledDate         string     `json:"scheduledDate"`
	ScheduledTime         *string    `json:"scheduledTime,omitempty"`
	Status                string     `json:"status"`
	ActualStartTime       *time.Time `json:"actualStartTime,omitempty"`
	ActualEndTime         *time.Time `json:"actualEndTime,omitempty"`
	ActualDurationMinutes *int       `json:"actualDurationMinutes,omitempty"`
	CaloriesBurned        *int       `json:"caloriesBurned,omitempty"`
	OverallRating         *int       `json:"overallRating,omitempty"`
	EnergyLevelBefore     *int       `json:"energyLevelBefore,omitempty"`
	EnergyLevelAfter      *int       `json:"energyLevelAfter,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// MapSessionToResponse converts a domain.WorkoutSession to SessionResponse.
func MapSessionToResponse(s *domain.WorkoutSession) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	resp := SessionResponse{
		ID:                    s.ID.Hex(),
		UserID:                s.UserID.Hex(),
		ScheduledDate:         s.ScheduledDate.Format(dateLayout),
		ScheduledTime:         s.ScheduledTime,
		Status:                string(s.Status),
		ActualStartTime:       s.ActualStartTime,
		ActualEndTime:         s.ActualEndTime,
		ActualDurationMinutes: s.ActualDurationMinutes,
		CaloriesBurned:        s.CaloriesBurned,
		OverallRating:         s.OverallRating,
		EnergyLevelBefore:     s.EnergyLevelBefore,
		EnergyLevelAfter:      s.EnergyLevelAfter,
		Notes:                 s.Notes,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
	if s.PlanID != nil {
		planID := s.PlanID.Hex()
		resp.PlanID = &planID
	}
	return resp
}

// MapSessionsToResponse converts a slice of sessions to DTOs.
func MapSessionsToResponse(sessions []domain.WorkoutSession) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = MapSessionToResponse(&sessions[i])
	}
	return responses
}

// --- Handler Methods ---

// ScheduleSession creates a new PLANNED session for the authenticated user.
func (h *SessionHandler) ScheduleSession(c *gin.Context) {
	var req ScheduleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	date, err := time.Parse(dateLayout, req.ScheduledDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "scheduledDate must be in YYYY-MM-DD format")
		return
	}

	var planID *primitive.ObjectID
	if req.PlanID != nil {
		id, err := primitive.ObjectIDFromHex(*req.PlanID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
			return
		}
		planID = &id
	}

	session, err := h.sessionService.Schedule(c.Request.Context(), userID, planID, date, req.ScheduledTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// ListSessions returns the authenticated user's sessions.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	sessions, err := h.sessionService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionsToResponse(sessions))
}

// GetSession returns a single session owned by the caller.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// StartSession transitions PLANNED -> IN_PROGRESS.
func (h *SessionHandler) StartSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	updated, err := h.sessionService.Start(c.Request.Context(), session.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(updated))
}

// CompleteSession transitions IN_PROGRESS -> COMPLETED.
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var req CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	updated, err := h.sessionService.Complete(c.Request.Context(), session.ID, service.CompleteSessionInput{
		CaloriesBurned:    req.CaloriesBurned,
		OverallRating:     req.OverallRating,
		EnergyLevelBefore: req.EnergyLevelBefore,
		EnergyLevelAfter:  req.EnergyLevelAfter,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(updated))
}

// CancelSession transitions PLANNED or IN_PROGRESS -> CANCELLED.
func (h *SessionHandler) CancelSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	updated, err := h.sessionService.Cancel(c.Request.Context(), session.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(updated))
}

// RescheduleSession replaces scheduledDate/scheduledTime of a PLANNED session.
func (h *SessionHandler) RescheduleSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var req RescheduleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.ScheduledDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "scheduledDate must be in YYYY-MM-DD format")
		return
	}

	updated, err := h.sessionService.Reschedule(c.Request.Context(), session.ID, date, req.ScheduledTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(updated))
}

// MarkSessionMissed transitions PLANNED -> MISSED. Admin-gated in the routes:
// the sweep invoking it runs outside this service.
func (h *SessionHandler) MarkSessionMissed(c *gin.Context) {
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	updated, err := h.sessionService.MarkMissed(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(updated))
}

// UpdateSession edits notes/date/time of a PLANNED session.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	patch := service.SessionPatch{
		Notes:         req.Notes,
		ScheduledTime: req.ScheduledTime,
	}
	if req.ScheduledDate != nil {
		date, err := time.Parse(dateLayout, *req.ScheduledDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "scheduledDate must be in YYYY-MM-DD format")
			return
		}
		patch.ScheduledDate = &date
	}

	updated, err := h.sessionService.Update(c.Request.Context(), session.ID, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(updated))
}

// DeleteSession removes a session and its logs. Forbidden while IN_PROGRESS.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	if err := h.sessionService.Delete(c.Request.Context(), session.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- helpers ---

// callerID extracts the authenticated user's ObjectID from the request context.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ownedSession resolves the :id path parameter to a session owned by the
// caller. A session belonging to someone else reads as not found.
func (h *SessionHandler) ownedSession(c *gin.Context) (*domain.WorkoutSession, bool) {
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
