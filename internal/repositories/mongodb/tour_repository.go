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

type tourRepository struct {
	*Repository[models.Tour]
	users   *mongo.Collection
	reviews *mongo.Collection
	cache   CacheService
}

func NewTourRepository(db *mongo.Database, cache CacheService) interfaces.TourRepository {
	return &tourRepository{
		Repository: NewRepository[models.Tour](db, "tours", "tour"),
		users:      db.Collection("users"),
		reviews:    db.Collection("reviews"),
		cache:      cache,
	}
}

// secretScope hides secret tours from every read path.
func secretScope() bson.M {
	return bson.M{"secret_tour": bson.M{"$ne": true}}
}

func (r *tourRepository) Create(ctx context.Context, tour *models.Tour) error {
	tour.PrePersist()
	if err := tour.Validate(); err != nil {
		return apperrors.Validation(err)
	}

	id, err := r.InsertOne(ctx, tour)
	if err != nil {
		return err
	}
	tour.ID = id
	return nil
}

func (r *tourRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	tour, err := r.FindByID(ctx, id, secretScope())
	if err != nil {
		return nil, err
	}

	if err := r.populateGuides(ctx, tour); err != nil {
		return nil, err
	}
	if err := r.populateReviews(ctx, tour); err != nil {
		return nil, err
	}
	return tour, nil
}

func (r *tourRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Tour, error) {
	updates["updated_at"] = time.Now()
	if name, ok := updates["name"].(string); ok {
		updates["slug"] = utils.Slugify(name)
	}

	merged, err := r.PreviewUpdate(ctx, id, updates, secretScope())
	if err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, apperrors.Validation(err)
	}

	tour, err := r.UpdateByID(ctx, id, updates, secretScope())
	if err != nil {
		return nil, err
	}

	r.invalidateStats(ctx)
	return tour, nil
}

func (r *tourRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := r.DeleteByID(ctx, id, secretScope()); err != nil {
		return err
	}
	r.invalidateStats(ctx)
	return nil
}

func (r *tourRepository) Find(ctx context.Context, features *utils.Features, scope bson.M) ([]*models.Tour, int64, error) {
	return r.Repository.Find(ctx, features, mergeScope(scope, secretScope()))
}

// GetStats groups non-secret tours with an average rating of at least
// 4.5 by difficulty and reports count, rating and price aggregates.
func (r *tourRepository) GetStats(ctx context.Context) ([]*models.TourStats, error) {
	cacheKey := utils.CacheTourStatsPrefix + "difficulty"
	var cached []*models.TourStats
	if r.cache != nil && r.cache.Get(ctx, cacheKey, &cached) == nil {
		return cached, nil
	}

	match := mergeScope(bson.M{"ratings_average": bson.M{"$gte": utils.MinStatsRating}}, secretScope())
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":         bson.M{"$toUpper": "$difficulty"},
			"num_tours":   bson.M{"$sum": 1},
			"num_ratings": bson.M{"$sum": "$ratings_quantity"},
			"avg_rating":  bson.M{"$avg": "$ratings_average"},
			"avg_price":   bson.M{"$avg": "$price"},
			"min_price":   bson.M{"$min": "$price"},
			"max_price":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avg_price", Value: 1}}}},
	}

	stats := make([]*models.TourStats, 0)
	if err := r.Aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, cacheKey, stats, utils.TourCacheTTL)
	}
	return stats, nil
}

// GetMonthlyPlan unwinds start dates within the given year and counts
// tour starts per month, busiest month first.
func (r *tourRepository) GetMonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: secretScope()}},
		{{Key: "$unwind", Value: "$start_dates"}},
		{{Key: "$match", Value: bson.M{
			"start_dates": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":             bson.M{"$month": "$start_dates"},
			"num_tour_starts": bson.M{"$sum": 1},
			"tours":           bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "num_tour_starts", Value: -1}}}},
		{{Key: "$limit", Value: 12}},
	}

	plan := make([]*models.MonthlyPlanEntry, 0)
	if err := r.Aggregate(ctx, pipeline, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetToursWithin returns tours whose start location lies inside the
// sphere centered on lng/lat with the given radius in radians.
func (r *tourRepository) GetToursWithin(ctx context.Context, lng, lat, radiusRadians float64) ([]*models.Tour, error) {
	filter := mergeScope(bson.M{
		"start_location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radiusRadians},
			},
		},
	}, secretScope())

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.FromDatabase(err, r.resource)
	}
	defer cursor.Close(ctx)

	tours := make([]*models.Tour, 0)
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, apperrors.FromDatabase(err, r.resource)
	}
	return tours, nil
}

// GetDistances computes the distance from lng/lat to every tour's
// start location. The multiplier converts meters to the caller's unit.
func (r *tourRepository) GetDistances(ctx context.Context, lng, lat, multiplier float64) ([]*models.TourDistance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
			"query":              secretScope(),
		}}},
		{{Key: "$project", Value: bson.M{"distance": 1, "name": 1}}},
		{{Key: "$sort", Value: bson.D{{Key: "distance", Value: 1}}}},
	}

	distances := make([]*models.TourDistance, 0)
	if err := r.Aggregate(ctx, pipeline, &distances); err != nil {
		return nil, err
	}
	return distances, nil
}

func (r *tourRepository) UpdateRatingStats(ctx context.Context, id primitive.ObjectID, quantity int64, average float64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"ratings_quantity": quantity,
			"ratings_average":  average,
			"updated_at":       time.Now(),
		},
	})
	if err != nil {
		return apperrors.FromDatabase(err, r.resource)
	}
	r.invalidateStats(ctx)
	return nil
}

func (r *tourRepository) populateGuides(ctx context.Context, tour *models.Tour) error {
	if len(tour.GuideIDs) == 0 {
		return nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": tour.GuideIDs}})
	if err != nil {
		return apperrors.FromDatabase(err, "user")
	}
	defer cursor.Close(ctx)

	guides := make([]*models.User, 0, len(tour.GuideIDs))
	if err := cursor.All(ctx, &guides); err != nil {
		return apperrors.FromDatabase(err, "user")
	}
	tour.Guides = guides
	return nil
}

func (r *tourRepository) populateReviews(ctx context.Context, tour *models.Tour) error {
	cursor, err := r.reviews.Find(ctx, bson.M{"tour": tour.ID})
	if err != nil {
		return apperrors.FromDatabase(err, "review")
	}
	defer cursor.Close(ctx)

	reviews := make([]*models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return apperrors.FromDatabase(err, "review")
	}
	tour.Reviews = reviews
	return nil
}

func (r *tourRepository) invalidateStats(ctx context.Context) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, utils.CacheTourStatsPrefix+"difficulty")
}
