package routes

import (
	"github.com/gin-gonic/gin"

	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
)

// SetupTourRoutes wires the tour endpoints, including the review
// routes nested under a tour.
func SetupTourRoutes(api *gin.RouterGroup, tourHandler *handlers.TourHandler, reviewHandler *handlers.ReviewHandler, protect gin.HandlerFunc) {
	tours := api.Group("/tours")
	{
		// Public reads
		tours.GET("", tourHandler.GetAllTours)
		tours.GET("/top-5-cheap", tourHandler.AliasTopTours, tourHandler.GetAllTours)
		tours.GET("/tour-stats", tourHandler.GetTourStats)
		tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", tourHandler.GetToursWithin)
		tours.GET("/distances/:latlng/unit/:unit", tourHandler.GetDistances)
		tours.GET("/:id", tourHandler.GetTour)

		// Staff only
		tours.GET("/monthly-plan/:year", protect,
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide),
			tourHandler.GetMonthlyPlan)
		tours.POST("", protect,
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide),
			tourHandler.CreateTour)
		tours.PATCH("/:id", protect,
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide),
			tourHandler.UpdateTour)
		tours.DELETE("/:id", protect,
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide),
			tourHandler.DeleteTour)

		// Reviews nested under a tour
		tours.GET("/:id/reviews", protect, reviewHandler.GetAllReviews)
		tours.POST("/:id/reviews", protect,
			middleware.RestrictTo(models.RoleUser),
			reviewHandler.CreateReview)
	}
}
