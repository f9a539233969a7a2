package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitlog/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", service.NewNotFound("session", "abc"), http.StatusNotFound},
		{"invalid argument", service.NewInvalidArgument("overallRating", "must be between 1 and 5"), http.StatusBadRequest},
		{"illegal state", service.NewIllegalState("start session", "COMPLETED", ""), http.StatusConflict},
		{"conflict", service.NewConflict("a plan with this name already exists"), http.StatusConflict},
		{"infrastructure failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, tc.err)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

// Infrastructure failures must not leak their message to the client.
func TestRespondServiceError_OpaqueInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondServiceError(c, errors.New("mongo: topology closed"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mongo")
}
