package api

import (
	"fitlog/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricsHandler exposes the read-only metrics and report export endpoints.
type MetricsHandler struct {
	metricsService service.MetricsService
	reportService  service.ReportService
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService service.MetricsService, reportService service.ReportService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, reportService: reportService}
}

// ExerciseMetricsResponse bundles the per-exercise metrics for one user/exercise pair.
type ExerciseMetricsResponse struct {
	TotalVolume        float64  `json:"totalVolume"`
	PersonalBestWeight *float64 `json:"personalBestWeight,omitempty"`
	PersonalBestReps   *int     `json:"personalBestReps,omitempty"`
	ProgressPercentage *float64 `json:"progressPercentage,omitempty"`
}

// GetExerciseMetrics computes volume, personal bests, and progress for the
// caller and one exercise. Optional ?from=YYYY-MM-DD&to=YYYY-MM-DD bound the
// volume date range only; bests and progress always span all history.
func (h *MetricsHandler) GetExerciseMetrics(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}
	if to != nil {
		// Make the upper bound inclusive of the whole day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	ctx := c.Request.Context()
	volume, err := h.metricsService.TotalVolume(ctx, userID, exerciseID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	bestWeight, err := h.metricsService.PersonalBestWeight(ctx, userID, exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	bestReps, err := h.metricsService.PersonalBestReps(ctx, userID, exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	progress, err := h.metricsService.ProgressPercentage(ctx, userID, exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExerciseMetricsResponse{
		TotalVolume:        volume,
		PersonalBestWeight: bestWeight,
		PersonalBestReps:   bestReps,
		ProgressPercentage: progress,
	})
}

// GetSessionSummary aggregates a session's current logs.
func (h *MetricsHandler) GetSessionSummary(c *gin.Context) {
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	summary, err := h.metricsService.SessionSummary(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetUserStatistics aggregates over the caller's completed sessions.
func (h *MetricsHandler) GetUserStatistics(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	stats, err := h.metricsService.UserStatistics(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportReport writes the caller's statistics report to object storage and
// returns a temporary download URL.
func (h *MetricsHandler) ExportReport(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	export, err := h.reportService.ExportUserReport(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, export)
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, name+" must be in YYYY-MM-DD format")
		return nil, false
	}
	return &t, true
}
