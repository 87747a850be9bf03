package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/services"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	logger        *logger.Logger
}

func NewReviewHandler(reviewService *services.ReviewService, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        log,
	}
}

type createReviewRequest struct {
	Review string  `json:"review"`
	Rating float64 `json:"rating"`
	Tour   string  `json:"tour"`
}

// GetAllReviews lists reviews. Mounted both at /reviews and nested
// under a tour, where the tour id path parameter scopes the list.
func (h *ReviewHandler) GetAllReviews(c *gin.Context) {
	tourID, err := nestedTourID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	reviews, total, err := h.reviewService.ListReviews(c.Request.Context(), c.Request.URL.Query(), tourID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.ListResponse(c, total, gin.H{"reviews": reviews})
}

// CreateReview stores a review for the logged-in user. The tour comes
// from the nested route when present, otherwise from the body.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	tourID, err := nestedTourID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if tourID.IsZero() {
		tourID, err = primitive.ObjectIDFromHex(req.Tour)
		if err != nil {
			_ = c.Error(apperrors.BadRequest("Please provide a tour for the review"))
			return
		}
	}

	review := &models.Review{
		Review: req.Review,
		Rating: req.Rating,
		TourID: tourID,
		UserID: user.ID,
	}
	if err := h.reviewService.CreateReview(c.Request.Context(), review); err != nil {
		_ = c.Error(err)
		return
	}
	utils.CreatedResponse(c, gin.H{"review": review})
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"review": review})
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	updates, err := bindUpdates(c, "_id", "tour", "user", "created_at")
	if err != nil {
		_ = c.Error(err)
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), id, updates)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, gin.H{"review": review})
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	utils.NoContentResponse(c)
}

// nestedTourID reads the tour id path parameter of the nested review
// routes. Zero when the route is not nested.
func nestedTourID(c *gin.Context) (primitive.ObjectID, error) {
	raw := c.Param("id")
	if raw == "" {
		return primitive.NilObjectID, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.BadRequest("Invalid ID: " + raw)
	}
	return id, nil
}
