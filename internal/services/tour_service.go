package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

type TourService struct {
	tourRepo interfaces.TourRepository
	logger   *logger.Logger
}

func NewTourService(tourRepo interfaces.TourRepository, log *logger.Logger) *TourService {
	return &TourService{
		tourRepo: tourRepo,
		logger:   log,
	}
}

func (s *TourService) CreateTour(ctx context.Context, tour *models.Tour) error {
	if err := s.tourRepo.Create(ctx, tour); err != nil {
		return err
	}
	s.logger.WithTourID(tour.ID).Info("tour created")
	return nil
}

func (s *TourService) GetTour(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	return s.tourRepo.GetByID(ctx, id)
}

func (s *TourService) UpdateTour(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Tour, error) {
	return s.tourRepo.Update(ctx, id, updates)
}

func (s *TourService) DeleteTour(ctx context.Context, id primitive.ObjectID) error {
	if err := s.tourRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithTourID(id).Info("tour deleted")
	return nil
}

func (s *TourService) ListTours(ctx context.Context, params url.Values) ([]*models.Tour, int64, error) {
	features := utils.NewFeatures(params).Filter().Sort().LimitFields().Paginate()
	return s.tourRepo.Find(ctx, features, nil)
}

func (s *TourService) GetStats(ctx context.Context) ([]*models.TourStats, error) {
	return s.tourRepo.GetStats(ctx)
}

func (s *TourService) GetMonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error) {
	return s.tourRepo.GetMonthlyPlan(ctx, year)
}

// GetToursWithin finds tours starting within distance of the lat,lng
// center, unit "mi" or "km".
func (s *TourService) GetToursWithin(ctx context.Context, distanceParam, latlng, unit string) ([]*models.Tour, error) {
	distance, err := strconv.ParseFloat(distanceParam, 64)
	if err != nil || distance < 0 {
		return nil, apperrors.BadRequest("Please provide a valid distance")
	}

	lat, lng, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	radius, err := earthRadius(unit)
	if err != nil {
		return nil, err
	}

	return s.tourRepo.GetToursWithin(ctx, lng, lat, distance/radius)
}

// GetDistances reports the distance from lat,lng to every tour's start
// location, in the requested unit.
func (s *TourService) GetDistances(ctx context.Context, latlng, unit string) ([]*models.TourDistance, error) {
	lat, lng, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	var multiplier float64
	switch unit {
	case "mi":
		multiplier = utils.MetersPerMile
	case "km":
		multiplier = utils.MetersPerKM
	default:
		return nil, apperrors.BadRequest("Please provide the unit as mi or km")
	}

	return s.tourRepo.GetDistances(ctx, lng, lat, multiplier)
}

func parseLatLng(latlng string) (lat, lng float64, err error) {
	parts := strings.Split(latlng, ",")
	if len(parts) != 2 {
		return 0, 0, apperrors.BadRequest("Please provide latitude and longitude in the format lat,lng")
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, apperrors.BadRequest("Please provide latitude and longitude in the format lat,lng")
	}
	return lat, lng, nil
}

func earthRadius(unit string) (float64, error) {
	switch unit {
	case "mi":
		return utils.EarthRadiusMiles, nil
	case "km":
		return utils.EarthRadiusKM, nil
	default:
		return 0, apperrors.BadRequest("Please provide the unit as mi or km")
	}
}
