package api

import (
	"errors"
	"fitlog/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the four domain error kinds onto HTTP statuses.
// Anything unrecognized is an unexpected infrastructure failure and stays a
// generic 500, never disguised as a domain error.
func respondServiceError(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	var invalidArg *service.InvalidArgumentError
	var illegalState *service.IllegalStateError
	var conflict *service.ConflictError

	switch {
	case errors.As(err, &notFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &invalidArg):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &illegalState):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &conflict):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
