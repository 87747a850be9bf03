package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope for every JSON reply.
type APIResponse struct {
	Status      string      `json:"status"`
	Message     string      `json:"message,omitempty"`
	Results     *int64      `json:"results,omitempty"`
	RequestedAt *time.Time  `json:"requested_at,omitempty"`
	Data        interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status: StatusSuccess,
		Data:   data,
	})
}

// ListResponse carries the result count and request timestamp alongside
// the collection. An empty list is still a success.
func ListResponse(c *gin.Context, results int64, data interface{}) {
	now := time.Now().UTC()
	c.JSON(http.StatusOK, APIResponse{
		Status:      StatusSuccess,
		Results:     &results,
		RequestedAt: &now,
		Data:        data,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status: StatusSuccess,
		Data:   data,
	})
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
