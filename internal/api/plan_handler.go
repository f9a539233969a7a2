package api

import (
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the workout plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlanRequest defines the expected JSON for creating a workout plan.
type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// PlanResponse is the DTO for returning workout plan details.
type PlanResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapPlanToResponse converts a domain.WorkoutPlan to PlanResponse DTO.
func MapPlanToResponse(plan *domain.WorkoutPlan) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:          plan.ID.Hex(),
		OwnerID:     plan.OwnerID.Hex(),
		Name:        plan.Name,
		Description: plan.Description,
		IsActive:    plan.IsActive,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}

// CreatePlan creates a workout plan owned by the authenticated user.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// ListPlans returns the plans owned by the authenticated user.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	plans, err := h.planService.ListPlansByOwner(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetPlan returns a single plan owned by the authenticated user.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	plan, err := h.planService.GetPlanByID(c.Request.Context(), planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if plan.OwnerID != userID {
		abortWithError(c, http.StatusNotFound, "Plan not found")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}
