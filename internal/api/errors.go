package api

import (
	"errors"
	"log"
	"net/http"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/repository"
	"gymovoo/workout-engine/internal/service"

	"github.com/gin-gonic/gin"
)

// abortWithServiceError maps engine and service errors onto HTTP responses.
func abortWithServiceError(c *gin.Context, err error) {
	var (
		invalid      *domain.InvalidProfileError
		insufficient *domain.InsufficientCatalogError
		full         *service.SlotsFullError
	)
	switch {
	case errors.As(err, &invalid):
		abortWithError(c, http.StatusBadRequest, invalid.Error())
	case errors.As(err, &insufficient):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":   insufficient.Error(),
			"message": "No plan can be built for this setup. Try selecting different equipment or another goal.",
		})
	case errors.As(err, &full):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error": full.Error(),
			"slots": full.Slots,
		})
	case errors.Is(err, repository.ErrDuplicate):
		abortWithError(c, http.StatusConflict, "Your plan slots changed while saving. Please try again.")
	case errors.Is(err, service.ErrInvalidSlot), errors.Is(err, service.ErrInvalidTier):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrExerciseNotFound), errors.Is(err, service.ErrSmartUnavailable):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSubscriptionRequired):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrExportUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred. Please contact support if it persists.")
	}
}
