package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
)

type reviewRepository struct {
	*Repository[models.Review]
	users *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) interfaces.ReviewRepository {
	return &reviewRepository{
		Repository: NewRepository[models.Review](db, "reviews", "review"),
		users:      db.Collection("users"),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.PrePersist()
	if err := review.Validate(); err != nil {
		return apperrors.Validation(err)
	}

	id, err := r.InsertOne(ctx, review)
	if err != nil {
		return err
	}
	review.ID = id
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	review, err := r.FindByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if err := r.populateUser(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (r *reviewRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Review, error) {
	updates["updated_at"] = time.Now()

	merged, err := r.PreviewUpdate(ctx, id, updates, nil)
	if err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, apperrors.Validation(err)
	}

	return r.UpdateByID(ctx, id, updates, nil)
}

func (r *reviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.DeleteByID(ctx, id, nil)
}

func (r *reviewRepository) Find(ctx context.Context, features *utils.Features, scope bson.M) ([]*models.Review, int64, error) {
	reviews, total, err := r.Repository.Find(ctx, features, scope)
	if err != nil {
		return nil, 0, err
	}
	for _, review := range reviews {
		if err := r.populateUser(ctx, review); err != nil {
			return nil, 0, err
		}
	}
	return reviews, total, nil
}

// CalcRatingStats aggregates the review count and average rating for a
// tour. With no reviews left it falls back to a zero count and the
// default average.
func (r *reviewRepository) CalcRatingStats(ctx context.Context, tourID primitive.ObjectID) (int64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$tour",
			"num_rating": bson.M{"$sum": 1},
			"avg_rating": bson.M{"$avg": "$rating"},
		}}},
	}

	var stats []struct {
		NumRating int64   `bson:"num_rating"`
		AvgRating float64 `bson:"avg_rating"`
	}
	if err := r.Aggregate(ctx, pipeline, &stats); err != nil {
		return 0, 0, err
	}

	if len(stats) == 0 {
		return 0, utils.DefaultRatingAverage, nil
	}
	return stats[0].NumRating, stats[0].AvgRating, nil
}

func (r *reviewRepository) populateUser(ctx context.Context, review *models.Review) error {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": review.UserID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return apperrors.FromDatabase(err, "user")
	}
	review.User = &user
	return nil
}
