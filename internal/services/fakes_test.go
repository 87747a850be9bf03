package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	return log
}

// fakeUserRepo keeps users in a map keyed by id.
type fakeUserRepo struct {
	users   map[primitive.ObjectID]*models.User
	saved   int
	updates bson.M
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperrors.Conflict("Duplicate field value for email: please use another value")
		}
	}
	user.PrePersist()
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := f.users[id]; ok && user.Active {
		return user, nil
	}
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email && user.Active {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) GetByResetToken(_ context.Context, hashed string) (*models.User, error) {
	for _, user := range f.users {
		if user.PasswordResetToken == hashed && user.PasswordResetExpires != nil {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, updates bson.M) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	f.updates = updates
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = email
	}
	return user, nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	f.saved++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id primitive.ObjectID) error {
	user, ok := f.users[id]
	if !ok || !user.Active {
		return apperrors.NotFound("user")
	}
	user.Active = false
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.NotFound("user")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Find(context.Context, *utils.Features, bson.M) ([]*models.User, int64, error) {
	users := make([]*models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

// fakeTourRepo records the rating stats pushed into it.
type fakeTourRepo struct {
	tours        map[primitive.ObjectID]*models.Tour
	statsTour    primitive.ObjectID
	statsQty     int64
	statsAverage float64
}

func newFakeTourRepo(tours ...*models.Tour) *fakeTourRepo {
	repo := &fakeTourRepo{tours: map[primitive.ObjectID]*models.Tour{}}
	for _, tour := range tours {
		repo.tours[tour.ID] = tour
	}
	return repo
}

func (f *fakeTourRepo) Create(_ context.Context, tour *models.Tour) error {
	tour.ID = primitive.NewObjectID()
	f.tours[tour.ID] = tour
	return nil
}

func (f *fakeTourRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Tour, error) {
	if tour, ok := f.tours[id]; ok {
		return tour, nil
	}
	return nil, apperrors.NotFound("tour")
}

func (f *fakeTourRepo) Update(_ context.Context, id primitive.ObjectID, _ bson.M) (*models.Tour, error) {
	if tour, ok := f.tours[id]; ok {
		return tour, nil
	}
	return nil, apperrors.NotFound("tour")
}

func (f *fakeTourRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.tours[id]; !ok {
		return apperrors.NotFound("tour")
	}
	delete(f.tours, id)
	return nil
}

func (f *fakeTourRepo) Find(context.Context, *utils.Features, bson.M) ([]*models.Tour, int64, error) {
	tours := make([]*models.Tour, 0, len(f.tours))
	for _, tour := range f.tours {
		tours = append(tours, tour)
	}
	return tours, int64(len(tours)), nil
}

func (f *fakeTourRepo) GetStats(context.Context) ([]*models.TourStats, error) { return nil, nil }
func (f *fakeTourRepo) GetMonthlyPlan(context.Context, int) ([]*models.MonthlyPlanEntry, error) {
	return nil, nil
}
func (f *fakeTourRepo) GetToursWithin(context.Context, float64, float64, float64) ([]*models.Tour, error) {
	return nil, nil
}
func (f *fakeTourRepo) GetDistances(context.Context, float64, float64, float64) ([]*models.TourDistance, error) {
	return nil, nil
}

func (f *fakeTourRepo) UpdateRatingStats(_ context.Context, id primitive.ObjectID, quantity int64, average float64) error {
	f.statsTour = id
	f.statsQty = quantity
	f.statsAverage = average
	if tour, ok := f.tours[id]; ok {
		tour.RatingsQuantity = quantity
		tour.RatingsAverage = average
	}
	return nil
}

// fakeReviewRepo computes rating stats straight from its map.
type fakeReviewRepo struct {
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo(reviews ...*models.Review) *fakeReviewRepo {
	repo := &fakeReviewRepo{reviews: map[primitive.ObjectID]*models.Review{}}
	for _, review := range reviews {
		repo.reviews[review.ID] = review
	}
	return repo
}

func (f *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	for _, existing := range f.reviews {
		if existing.TourID == review.TourID && existing.UserID == review.UserID {
			return apperrors.Conflict("Duplicate field value for tour: please use another value")
		}
	}
	review.ID = primitive.NewObjectID()
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	if review, ok := f.reviews[id]; ok {
		return review, nil
	}
	return nil, apperrors.NotFound("review")
}

func (f *fakeReviewRepo) Update(_ context.Context, id primitive.ObjectID, updates bson.M) (*models.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review")
	}
	if rating, ok := updates["rating"].(float64); ok {
		review.Rating = rating
	}
	return review, nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.reviews[id]; !ok {
		return apperrors.NotFound("review")
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) Find(context.Context, *utils.Features, bson.M) ([]*models.Review, int64, error) {
	reviews := make([]*models.Review, 0, len(f.reviews))
	for _, review := range f.reviews {
		reviews = append(reviews, review)
	}
	return reviews, int64(len(reviews)), nil
}

func (f *fakeReviewRepo) CalcRatingStats(_ context.Context, tourID primitive.ObjectID) (int64, float64, error) {
	var count int64
	var sum float64
	for _, review := range f.reviews {
		if review.TourID == tourID {
			count++
			sum += review.Rating
		}
	}
	if count == 0 {
		return 0, utils.DefaultRatingAverage, nil
	}
	return count, sum / float64(count), nil
}
