package api

import (
	"fitlog/fitness-tracker/internal/domain"
	"fitlog/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	sessionService service.SessionService,
	logService service.ExerciseLogService,
	metricsService service.MetricsService,
	goalService service.GoalService,
	planService service.PlanService,
	exerciseService service.ExerciseService,
	reportService service.ReportService,
) {

	authHandler := NewAuthHandler(authService)
	sessionHandler := NewSessionHandler(sessionService)
	logHandler := NewExerciseLogHandler(logService, sessionService)
	metricsHandler := NewMetricsHandler(metricsService, reportService)
	goalHandler := NewGoalHandler(goalService)
	planHandler := NewPlanHandler(planService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Exercise Catalog Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			// POST /api/v1/exercises - catalog is curated by admins
			exerciseGroup.POST("", RoleMiddleware(domain.RoleAdmin), exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		}

		// --- Workout Session Routes ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.ScheduleSession)
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.PATCH("/:id", sessionHandler.UpdateSession)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)

			// Lifecycle transitions
			sessionGroup.POST("/:id/start", sessionHandler.StartSession)
			sessionGroup.POST("/:id/complete", sessionHandler.CompleteSession)
			sessionGroup.POST("/:id/cancel", sessionHandler.CancelSession)
			sessionGroup.POST("/:id/reschedule", sessionHandler.RescheduleSession)
			// Marking a session missed is a backfill operation for admins.
			sessionGroup.POST("/:id/missed", RoleMiddleware(domain.RoleAdmin), sessionHandler.MarkSessionMissed)

			// Exercise logs nested under their session
			sessionGroup.POST("/:id/logs", logHandler.LogExercise)
			sessionGroup.POST("/:id/logs/batch", logHandler.LogExercisesBatch)
			sessionGroup.GET("/:id/logs", logHandler.ListSessionLogs)

			// GET /api/v1/sessions/{id}/summary
			sessionGroup.GET("/:id/summary", metricsHandler.GetSessionSummary)
		}

		// Log mutations address the log directly.
		logGroup := protected.Group("/logs")
		{
			logGroup.PATCH("/:logId", logHandler.UpdateLog)
			logGroup.DELETE("/:logId", logHandler.DeleteLog)
		}

		// --- Metrics Routes ---
		metricsGroup := protected.Group("/metrics")
		{
			metricsGroup.GET("/exercises/:exerciseId", metricsHandler.GetExerciseMetrics)
			metricsGroup.GET("/statistics", metricsHandler.GetUserStatistics)
			metricsGroup.POST("/report", metricsHandler.ExportReport)
		}

		// --- Goal Routes ---
		goalGroup := protected.Group("/goals")
		{
			goalGroup.POST("", goalHandler.CreateGoal)
			goalGroup.GET("", goalHandler.ListGoals)
			goalGroup.PATCH("/:id", goalHandler.UpdateGoal)
			goalGroup.POST("/:id/complete", goalHandler.CompleteGoal)
			goalGroup.DELETE("/:id", goalHandler.DeleteGoal)
		}

		// --- Workout Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/:id", planHandler.GetPlan)
		}
	}
}
