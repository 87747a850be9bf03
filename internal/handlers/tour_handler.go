package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/services"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

type TourHandler struct {
	tourService *services.TourService
	logger      *logger.Logger
}

func NewTourHandler(tourService *services.TourService, log *logger.Logger) *TourHandler {
	return &TourHandler{
		tourService: tourService,
		logger:      log,
	}
}

// AliasTopTours rewrites the query for the top-5-cheap shortcut before
// the normal list handler runs.
func (h *TourHandler) AliasTopTours(c *gin.Context) {
	query := c.Request.URL.Query()
	query.Set("limit", strconv.Itoa(utils.TopToursLimit))
	query.Set("sort", "-ratings_average,price")
	query.Set("fields", "name,price,ratings_average,summary,difficulty")
	c.Request.URL.RawQuery = query.Encode()
	c.Next()
}

func (h *TourHandler) GetAllTours(c *gin.Context) {
	tours, total, err := h.tourService.ListTours(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.ListResponse(c, total, gin.H{"tours": tours})
}

func (h *TourHandler) GetTour(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	tour, err := h.tourService.GetTour(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"tour": tour})
}

func (h *TourHandler) CreateTour(c *gin.Context) {
	var tour models.Tour
	if err := c.ShouldBindJSON(&tour); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := h.tourService.CreateTour(c.Request.Context(), &tour); err != nil {
		_ = c.Error(err)
		return
	}
	utils.CreatedResponse(c, gin.H{"tour": tour})
}

func (h *TourHandler) UpdateTour(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	updates, err := bindUpdates(c, "_id", "created_at")
	if err != nil {
		_ = c.Error(err)
		return
	}

	tour, err := h.tourService.UpdateTour(c.Request.Context(), id, updates)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"tour": tour})
}

func (h *TourHandler) DeleteTour(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.tourService.DeleteTour(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *TourHandler) GetTourStats(c *gin.Context) {
	stats, err := h.tourService.GetStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"stats": stats})
}

func (h *TourHandler) GetMonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		_ = c.Error(apperrors.BadRequest("Please provide a valid year"))
		return
	}

	plan, err := h.tourService.GetMonthlyPlan(c.Request.Context(), year)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"plan": plan})
}

// GetToursWithin handles /tours-within/:distance/center/:latlng/unit/:unit.
func (h *TourHandler) GetToursWithin(c *gin.Context) {
	tours, err := h.tourService.GetToursWithin(c.Request.Context(),
		c.Param("distance"), c.Param("latlng"), c.Param("unit"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.ListResponse(c, int64(len(tours)), gin.H{"tours": tours})
}

// GetDistances handles /distances/:latlng/unit/:unit.
func (h *TourHandler) GetDistances(c *gin.Context) {
	distances, err := h.tourService.GetDistances(c.Request.Context(),
		c.Param("latlng"), c.Param("unit"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"distances": distances})
}

// parseObjectID reads a hex object id path parameter.
func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, apperrors.BadRequest("Invalid ID: " + c.Param(param))
	}
	return id, nil
}

// bindUpdates binds the request body as a partial update document,
// stripping fields that must never be patched directly.
func bindUpdates(c *gin.Context, blocked ...string) (bson.M, error) {
	updates := bson.M{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		return nil, apperrors.BadRequest("Invalid request body")
	}
	for _, field := range blocked {
		delete(updates, field)
	}
	if len(updates) == 0 {
		return nil, apperrors.BadRequest("No fields to update")
	}
	return updates, nil
}
