package api

import (
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalHandler holds the goal service dependency.
type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// --- DTOs ---

// GoalRequest defines the caller-declared fields for creating/updating a goal.
// The projection fields are computed server-side and never accepted as input.
type GoalRequest struct {
	GoalType         string   `json:"goalType" binding:"required"`
	TargetWeightLoss *float64 `json:"targetWeightLoss"`
	TargetWeightGain *float64 `json:"targetWeightGain"`
	CurrentWeight    *float64 `json:"currentWeight"`
	TimeframeMonths  *int     `json:"timeframeMonths"`
}

// GoalResponse is the DTO for returning goal details, projections included.
type GoalResponse struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	GoalType            string     `json:"goalType"`
	TargetWeightLoss    *float64   `json:"targetWeightLoss,omitempty"`
	TargetWeightGain    *float64   `json:"targetWeightGain,omitempty"`
	CurrentWeight       *float64   `json:"currentWeight,omitempty"`
	TimeframeMonths     *int       `json:"timeframeMonths,omitempty"`
	DailyCalorieDeficit *int       `json:"dailyCalorieDeficit,omitempty"`
	DailyCalorieSurplus *int       `json:"dailyCalorieSurplus,omitempty"`
	WeeklyWeightChange  *float64   `json:"weeklyWeightChange,omitempty"`
	TargetWeight        *float64   `json:"targetWeight,omitempty"`
	Status              string     `json:"status"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// MapGoalToResponse converts a domain.Goal to its DTO.
func MapGoalToResponse(g *domain.Goal) GoalResponse {
	if g == nil {
		return GoalResponse{}
	}
	return GoalResponse{
		ID:                  g.ID.Hex(),
		UserID:              g.UserID.Hex(),
		GoalType:            string(g.GoalType),
		TargetWeightLoss:    g.TargetWeightLoss,
		TargetWeightGain:    g.TargetWeightGain,
		CurrentWeight:       g.CurrentWeight,
		TimeframeMonths:     g.TimeframeMonths,
		DailyCalorieDeficit: g.DailyCalorieDeficit,
		DailyCalorieSurplus: g.DailyCalorieSurplus,
		WeeklyWeightChange:  g.WeeklyWeightChange,
		TargetWeight:        g.TargetWeight,
		Status:              string(g.Status),
		CompletedAt:         g.CompletedAt,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}

func (r *GoalRequest) toInput() service.GoalInput {
	return service.GoalInput{
		GoalType:         r.GoalType,
		TargetWeightLoss: r.TargetWeightLoss,
		TargetWeightGain: r.TargetWeightGain,
		CurrentWeight:    r.CurrentWeight,
		TimeframeMonths:  r.TimeframeMonths,
	}
}

// --- Handler Methods ---

// CreateGoal declares a new goal for the caller and projects its derived fields.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	goal, err := h.goalService.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapGoalToResponse(goal))
}

// ListGoals returns the caller's goals.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	goals, err := h.goalService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	responses := make([]GoalResponse, len(goals))
	for i := range goals {
		responses[i] = MapGoalToResponse(&goals[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateGoal replaces the declared fields and reprojects.
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	goal, ok := h.ownedGoal(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	updated, err := h.goalService.Update(c.Request.Context(), goal.ID, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(updated))
}

// CompleteGoal moves a goal to COMPLETED.
func (h *GoalHandler) CompleteGoal(c *gin.Context) {
	goal, ok := h.ownedGoal(c)
	if !ok {
		return
	}
	updated, err := h.goalService.MarkCompleted(c.Request.Context(), goal.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(updated))
}

// DeleteGoal removes a goal.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	goal, ok := h.ownedGoal(c)
	if !ok {
		return
	}
	if err := h.goalService.Delete(c.Request.Context(), goal.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedGoal resolves the :id path parameter to a goal owned by the caller.
func (h *GoalHandler) ownedGoal(c *gin.Context) (*domain.Goal, bool) {
	userID, ok := callerID(c)
	if !ok {
		return nil, false
	}
	goalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid goal ID format")
		return nil, false
	}

	goal, err := h.goalService.GetByID(c.Request.Context(), goalID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if goal.UserID != userID {
		abortWithError(c, http.StatusNotFound, "goal "+goalID.Hex()+" not found")
		return nil, false
	}
	return goal, true
}
