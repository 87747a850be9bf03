package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/models"
	"gotours/internal/utils"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, features *utils.Features, scope bson.M) ([]*models.Review, int64, error)

	// CalcRatingStats aggregates review count and average rating for a tour.
	CalcRatingStats(ctx context.Context, tourID primitive.ObjectID) (quantity int64, average float64, err error)
}
