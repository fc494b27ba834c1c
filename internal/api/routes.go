package api

import (
	"net/http"

	"gymovoo/workout-engine/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	planService service.PlanService,
	catalogService service.CatalogService,
) {
	planHandler := NewPlanHandler(planService)
	catalogHandler := NewCatalogHandler(catalogService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		// The catalog is public: it holds no user data.
		catalogGroup := apiV1.Group("/catalog")
		{
			catalogGroup.GET("/exercises", catalogHandler.ListExercises)
			catalogGroup.GET("/exercises/:id", catalogHandler.GetExercise)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			sub, _ := getSubscriptionFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "subscription": sub})
		})
		protected.GET("/profile", planHandler.GetProfile)

		planGroup := protected.Group("/plans")
		{
			planGroup.POST("/preview", planHandler.PreviewPlans)
			planGroup.POST("", planHandler.GeneratePlans)
			planGroup.POST("/regenerate", planHandler.RegeneratePlans)
			planGroup.GET("", planHandler.ListPlans)

			planGroup.GET("/:slot", planHandler.GetBasicPlan)
			planGroup.GET("/:slot/smart", RequireSubscription(), planHandler.GetSmartPlan)
			planGroup.DELETE("/:slot", planHandler.DeletePlan)
			planGroup.POST("/:slot/export", planHandler.ExportPlan)
		}
	}
}
