package routes

import (
	"github.com/gin-gonic/gin"

	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
)

// SetupUserRoutes wires the auth flows, the self-service profile
// endpoints and the admin user management.
func SetupUserRoutes(api *gin.RouterGroup, authHandler *handlers.AuthHandler, userHandler *handlers.UserHandler, protect gin.HandlerFunc) {
	users := api.Group("/users")
	{
		// Auth flows, no token required
		users.POST("/signup", authHandler.Signup)
		users.POST("/login", authHandler.Login)
		users.GET("/logout", authHandler.Logout)
		users.POST("/forgotPassword", authHandler.ForgotPassword)
		users.PATCH("/resetPassword/:token", authHandler.ResetPassword)

		// Logged-in self service
		authed := users.Group("", protect)
		{
			authed.PATCH("/updateMyPassword", authHandler.UpdatePassword)
			authed.GET("/me", userHandler.GetMe)
			authed.PATCH("/updateMe", userHandler.UpdateMe)
			authed.DELETE("/deleteMe", userHandler.DeleteMe)

			// Admin user management
			admin := authed.Group("", middleware.RestrictTo(models.RoleAdmin))
			{
				admin.GET("", userHandler.GetAllUsers)
				admin.POST("", userHandler.CreateUser)
				admin.GET("/:id", userHandler.GetUser)
				admin.PATCH("/:id", userHandler.UpdateUser)
				admin.DELETE("/:id", userHandler.DeleteUser)
			}
		}
	}
}
