package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gotours/internal/apperrors"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// ErrorHandler recovers panics, normalizes every error pushed onto the
// context into the API error envelope and renders exactly one
// response. In development the underlying error is included; in
// production non-operational errors collapse to a generic message and
// are logged server side.
func ErrorHandler(log *logger.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := apperrors.Internal(fmt.Errorf("panic: %v", r))
				renderError(c, err, log, development)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		renderError(c, apperrors.As(c.Errors.Last().Err), log, development)
	}
}

func renderError(c *gin.Context, appErr *apperrors.Error, log *logger.Logger, development bool) {
	if c.Writer.Written() {
		return
	}

	entry := log.WithFields(map[string]interface{}{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"code":   appErr.Code,
	})
	if appErr.Operational {
		entry.WithError(appErr).Debug("request failed")
	} else {
		entry.WithError(appErr.Err).Error("unexpected error")
	}

	resp := errorResponse{
		Status:  appErr.Status,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	}

	if development && appErr.Err != nil {
		resp.Error = appErr.Err.Error()
	}
	if !development && !appErr.Operational {
		resp.Message = utils.ErrInternalServer
		resp.Fields = nil
	}

	c.AbortWithStatusJSON(appErr.Code, resp)
}

// NotFoundHandler answers routes that match nothing.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{
			Status:  utils.StatusFail,
			Message: fmt.Sprintf("Can't find %s on this server", c.Request.URL.Path),
		})
	}
}
