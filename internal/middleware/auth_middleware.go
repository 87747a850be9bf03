package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
)

const (
	ContextUser     = "user"
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// Protect rejects requests without a valid token belonging to a live
// user. It accepts a Bearer header or the jwt cookie and stores the
// authenticated user in the request context.
func Protect(userRepo interfaces.UserRepository, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortWith(c, apperrors.Unauthorized(utils.ErrNotLoggedIn))
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			abortWith(c, apperrors.FromToken(err))
			return
		}

		userID, err := claims.SubjectID()
		if err != nil {
			abortWith(c, apperrors.Unauthorized("Invalid token"))
			return
		}

		// The user must still exist: tokens outlive deleted accounts.
		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortWith(c, apperrors.Unauthorized(utils.ErrUserGone))
			return
		}

		// Tokens issued before a password change are dead.
		if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			abortWith(c, apperrors.Unauthorized(utils.ErrPasswordChanged))
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}

// RestrictTo allows only the listed roles past. Must run after Protect.
func RestrictTo(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists || !allowed[role.(models.Role)] {
			abortWith(c, apperrors.Forbidden(utils.ErrNoPermission))
			return
		}
		c.Next()
	}
}

// IsLoggedIn is the soft variant of Protect: it stores the user in the
// context when a valid token is present and never rejects.
func IsLoggedIn(userRepo interfaces.UserRepository, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		userID, err := claims.SubjectID()
		if err != nil {
			c.Next()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil || user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			c.Next()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Protect.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie
	}
	return ""
}

func abortWith(c *gin.Context, err *apperrors.Error) {
	_ = c.Error(err)
	c.Abort()
}
