package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/models"
	"gotours/internal/utils"
)

type TourRepository interface {
	Create(ctx context.Context, tour *models.Tour) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Tour, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, features *utils.Features, scope bson.M) ([]*models.Tour, int64, error)

	GetStats(ctx context.Context) ([]*models.TourStats, error)
	GetMonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error)
	GetToursWithin(ctx context.Context, lng, lat, radiusRadians float64) ([]*models.Tour, error)
	GetDistances(ctx context.Context, lng, lat, multiplier float64) ([]*models.TourDistance, error)
	UpdateRatingStats(ctx context.Context, id primitive.ObjectID, quantity int64, average float64) error
}
