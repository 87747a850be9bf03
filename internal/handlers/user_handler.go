package handlers

import (
	"github.com/gin-gonic/gin"

	"gotours/internal/apperrors"
	"gotours/internal/services"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

type UserHandler struct {
	userService *services.UserService
	logger      *logger.Logger
}

func NewUserHandler(userService *services.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      log,
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}
	utils.SuccessResponse(c, gin.H{"user": user})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	var req services.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	updated, err := h.userService.UpdateMe(c.Request.Context(), user.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"user": updated})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	if err := h.userService.DeleteMe(c.Request.Context(), user.ID); err != nil {
		_ = c.Error(err)
		return
	}
	utils.NoContentResponse(c)
}

// CreateUser exists for route symmetry only. Accounts are created
// through signup so the password flow always applies.
func (h *UserHandler) CreateUser(c *gin.Context) {
	_ = c.Error(apperrors.BadRequest("This route is not defined. Please use /signup instead"))
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, total, err := h.userService.ListUsers(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.ListResponse(c, total, gin.H{"users": users})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"user": user})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	updates, err := bindUpdates(c, "_id", "password", "password_confirm", "created_at")
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, updates)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"user": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	utils.NoContentResponse(c)
}
