package routes

import (
	"github.com/gin-gonic/gin"

	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
)

// SetupReviewRoutes wires the flat review endpoints. Every review
// route requires a logged-in user.
func SetupReviewRoutes(api *gin.RouterGroup, reviewHandler *handlers.ReviewHandler, protect gin.HandlerFunc) {
	reviews := api.Group("/reviews", protect)
	{
		reviews.GET("", reviewHandler.GetAllReviews)
		reviews.POST("",
			middleware.RestrictTo(models.RoleUser),
			reviewHandler.CreateReview)
		reviews.GET("/:id", reviewHandler.GetReview)
		reviews.PATCH("/:id",
			middleware.RestrictTo(models.RoleUser, models.RoleAdmin),
			reviewHandler.UpdateReview)
		reviews.DELETE("/:id",
			middleware.RestrictTo(models.RoleUser, models.RoleAdmin),
			reviewHandler.DeleteReview)
	}
}
