package services

import (
	"context"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
)

func TestCreateReviewUpdatesTourRating(t *testing.T) {
	tour := &models.Tour{ID: primitive.NewObjectID(), Name: "The Forest Hiker"}
	tourRepo := newFakeTourRepo(tour)
	reviewRepo := newFakeReviewRepo()
	svc := NewReviewService(reviewRepo, tourRepo, testLogger(t))

	review := &models.Review{
		Review: "Absolutely loved every single day of this tour",
		Rating: 4,
		TourID: tour.ID,
		UserID: primitive.NewObjectID(),
	}
	if err := svc.CreateReview(context.Background(), review); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if tourRepo.statsQty != 1 || tourRepo.statsAverage != 4 {
		t.Errorf("stats = (%d, %v), want (1, 4)", tourRepo.statsQty, tourRepo.statsAverage)
	}

	second := &models.Review{
		Review: "A wonderful experience from start to finish",
		Rating: 5,
		TourID: tour.ID,
		UserID: primitive.NewObjectID(),
	}
	if err := svc.CreateReview(context.Background(), second); err != nil {
		t.Fatalf("CreateReview second: %v", err)
	}

	if tourRepo.statsQty != 2 || tourRepo.statsAverage != 4.5 {
		t.Errorf("stats = (%d, %v), want (2, 4.5)", tourRepo.statsQty, tourRepo.statsAverage)
	}
}

func TestCreateReviewUnknownTour(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), newFakeTourRepo(), testLogger(t))

	review := &models.Review{
		Review: "Absolutely loved every single day of this tour",
		Rating: 4,
		TourID: primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
	}
	err := svc.CreateReview(context.Background(), review)
	if err == nil {
		t.Fatal("expected error for missing tour")
	}
	if appErr := apperrors.As(err); appErr.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", appErr.Code)
	}
}

func TestCreateReviewSecondFromSameUserRejected(t *testing.T) {
	tour := &models.Tour{ID: primitive.NewObjectID()}
	svc := NewReviewService(newFakeReviewRepo(), newFakeTourRepo(tour), testLogger(t))
	author := primitive.NewObjectID()

	first := &models.Review{
		Review: "Absolutely loved every single day of this tour",
		Rating: 4, TourID: tour.ID, UserID: author,
	}
	if err := svc.CreateReview(context.Background(), first); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	dup := &models.Review{
		Review: "Trying to leave a second review on the same tour",
		Rating: 1, TourID: tour.ID, UserID: author,
	}
	err := svc.CreateReview(context.Background(), dup)
	if err == nil {
		t.Fatal("expected conflict for duplicate review")
	}
	if appErr := apperrors.As(err); appErr.Code != http.StatusConflict {
		t.Errorf("code = %d, want 409", appErr.Code)
	}
}

func TestDeleteLastReviewFallsBackToDefaults(t *testing.T) {
	tour := &models.Tour{ID: primitive.NewObjectID()}
	tourRepo := newFakeTourRepo(tour)
	review := &models.Review{
		ID:     primitive.NewObjectID(),
		Review: "Absolutely loved every single day of this tour",
		Rating: 3,
		TourID: tour.ID,
		UserID: primitive.NewObjectID(),
	}
	svc := NewReviewService(newFakeReviewRepo(review), tourRepo, testLogger(t))

	if err := svc.DeleteReview(context.Background(), review.ID); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}

	if tourRepo.statsQty != 0 || tourRepo.statsAverage != 4.5 {
		t.Errorf("stats = (%d, %v), want fallback (0, 4.5)", tourRepo.statsQty, tourRepo.statsAverage)
	}
}

func TestUpdateReviewRecomputesRating(t *testing.T) {
	tour := &models.Tour{ID: primitive.NewObjectID()}
	tourRepo := newFakeTourRepo(tour)
	review := &models.Review{
		ID:     primitive.NewObjectID(),
		Review: "Absolutely loved every single day of this tour",
		Rating: 2,
		TourID: tour.ID,
		UserID: primitive.NewObjectID(),
	}
	svc := NewReviewService(newFakeReviewRepo(review), tourRepo, testLogger(t))

	if _, err := svc.UpdateReview(context.Background(), review.ID, map[string]interface{}{"rating": 5.0}); err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}

	if tourRepo.statsQty != 1 || tourRepo.statsAverage != 5 {
		t.Errorf("stats = (%d, %v), want (1, 5)", tourRepo.statsQty, tourRepo.statsAverage)
	}
}
