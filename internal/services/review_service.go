package services

import (
	"context"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

type ReviewService struct {
	reviewRepo interfaces.ReviewRepository
	tourRepo   interfaces.TourRepository
	logger     *logger.Logger
}

func NewReviewService(reviewRepo interfaces.ReviewRepository, tourRepo interfaces.TourRepository, log *logger.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		tourRepo:   tourRepo,
		logger:     log,
	}
}

// CreateReview stores a review and recomputes the tour's rating
// aggregates. The unique (tour, user) index rejects a second review
// from the same user.
func (s *ReviewService) CreateReview(ctx context.Context, review *models.Review) error {
	// The tour must exist and be visible.
	if _, err := s.tourRepo.GetByID(ctx, review.TourID); err != nil {
		return err
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return err
	}
	return s.recalcRating(ctx, review.TourID)
}

func (s *ReviewService) GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

func (s *ReviewService) UpdateReview(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Review, error) {
	review, err := s.reviewRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if err := s.recalcRating(ctx, review.TourID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	// Fetch first: the tour id is needed for the recalculation after
	// the review is gone.
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.recalcRating(ctx, review.TourID)
}

// ListReviews lists reviews, restricted to one tour when tourID is
// non-zero (the nested route).
func (s *ReviewService) ListReviews(ctx context.Context, params url.Values, tourID primitive.ObjectID) ([]*models.Review, int64, error) {
	features := utils.NewFeatures(params).Filter().Sort().LimitFields().Paginate()

	var scope bson.M
	if !tourID.IsZero() {
		scope = bson.M{"tour": tourID}
	}
	return s.reviewRepo.Find(ctx, features, scope)
}

func (s *ReviewService) recalcRating(ctx context.Context, tourID primitive.ObjectID) error {
	quantity, average, err := s.reviewRepo.CalcRatingStats(ctx, tourID)
	if err != nil {
		return err
	}
	if err := s.tourRepo.UpdateRatingStats(ctx, tourID, quantity, average); err != nil {
		return err
	}

	s.logger.WithTourID(tourID).WithFields(map[string]interface{}{
		"ratings_quantity": quantity,
		"ratings_average":  average,
	}).Debug("tour rating stats updated")
	return nil
}
