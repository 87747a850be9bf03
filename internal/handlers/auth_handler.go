package handlers

import (
	"github.com/gin-gonic/gin"

	"gotours/internal/apperrors"
	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/internal/services"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

type AuthHandler struct {
	authService *services.AuthService
	config      *config.Config
	logger      *logger.Logger
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
		logger:      log,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setTokenCookie(c, token)
	utils.CreatedResponse(c, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setTokenCookie(c, token)
	utils.SuccessResponse(c, gin.H{"token": token, "user": user})
}

// Logout overwrites the jwt cookie with a short-lived dummy value.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("jwt", "loggedout", 10, "/", "", h.config.Security.CookieSecure, true)
	utils.SuccessResponse(c, nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("Please provide your email address"))
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email, c.ClientIP()); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, utils.APIResponse{
		Status:  utils.StatusSuccess,
		Message: "Token sent to email",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), &req, c.ClientIP())
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setTokenCookie(c, token)
	utils.SuccessResponse(c, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	var req services.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	updated, token, err := h.authService.UpdatePassword(c.Request.Context(), user.ID, &req, c.ClientIP())
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setTokenCookie(c, token)
	utils.SuccessResponse(c, gin.H{"token": token, "user": updated})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	maxAge := int(h.config.Security.JWTTokenTTL.Seconds())
	c.SetCookie("jwt", token, maxAge, "/", "", h.config.Security.CookieSecure, true)
}

func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
