package api

import (
	"net/http"
	"strings"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves read-only exercise catalog lookups.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListExercises godoc
// @Summary Browse the exercise catalog
// @Description Without location every exercise is returned; with it only exercises the resolved equipment covers.
// @Tags Catalog
// @Produce json
// @Param location query string false "home_bodyweight, home_equipment or gym"
// @Param equipment query string false "Comma separated equipment ids"
// @Param level query string false "Only exercises this level may be assigned"
// @Param category query string false "Exercise category"
// @Param muscle query string false "Target muscle group"
// @Success 200 {object} service.ExerciseListing
// @Router /catalog/exercises [get]
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	filter := service.ExerciseFilter{
		Location: domain.Location(c.Query("location")),
		Level:    domain.Level(c.Query("level")),
		Category: domain.Category(c.Query("category")),
		Muscle:   domain.MuscleGroup(c.Query("muscle")),
	}
	for _, id := range strings.Split(c.Query("equipment"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			filter.Equipment = append(filter.Equipment, id)
		}
	}

	listing, err := h.catalogService.ListExercises(c.Request.Context(), filter)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetExercise returns one catalog exercise.
// @Router /catalog/exercises/{id} [get]
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	ex, err := h.catalogService.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}
