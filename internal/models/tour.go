package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/utils"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

type Tour struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name" validate:"required,min=10,max=40"`
	Slug            string               `json:"slug" bson:"slug"`
	Duration        int                  `json:"duration" bson:"duration" validate:"required,min=1"`
	MaxGroupSize    int                  `json:"max_group_size" bson:"max_group_size" validate:"required,min=1"`
	Difficulty      Difficulty           `json:"difficulty" bson:"difficulty" validate:"required,difficulty"`
	RatingsAverage  float64              `json:"ratings_average" bson:"ratings_average" validate:"omitempty,rating"`
	RatingsQuantity int64                `json:"ratings_quantity" bson:"ratings_quantity"`
	Price           float64              `json:"price" bson:"price" validate:"required,gt=0"`
	PriceDiscount   float64              `json:"price_discount,omitempty" bson:"price_discount,omitempty" validate:"omitempty,gt=0,ltfield=Price"`
	Summary         string               `json:"summary" bson:"summary" validate:"required"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string               `json:"image_cover" bson:"image_cover" validate:"required"`
	Images          []string             `json:"images,omitempty" bson:"images,omitempty"`
	StartDates      []time.Time          `json:"start_dates,omitempty" bson:"start_dates,omitempty"`
	SecretTour      bool                 `json:"secret_tour,omitempty" bson:"secret_tour"`
	StartLocation   *GeoPoint            `json:"start_location,omitempty" bson:"start_location,omitempty"`
	Locations       []TourLocation       `json:"locations,omitempty" bson:"locations,omitempty"`
	GuideIDs        []primitive.ObjectID `json:"guide_ids,omitempty" bson:"guides,omitempty"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`

	// Populated relations, never persisted.
	Guides  []*User   `json:"guides,omitempty" bson:"-"`
	Reviews []*Review `json:"reviews,omitempty" bson:"-"`
}

// DurationWeeks is the derived duration in weeks.
func (t *Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

// PrePersist runs before the tour is written: slug derivation from the
// name, rating default for new documents, timestamps.
func (t *Tour) PrePersist() {
	t.Slug = utils.Slugify(t.Name)

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
		if t.RatingsAverage == 0 {
			t.RatingsAverage = utils.DefaultRatingAverage
		}
	}
	t.UpdatedAt = now

	if t.StartLocation != nil && t.StartLocation.Type == "" {
		t.StartLocation.Type = "Point"
	}
	for i := range t.Locations {
		if t.Locations[i].Type == "" {
			t.Locations[i].Type = "Point"
		}
	}
}

// Validate re-runs schema validation, including the discount invariant.
func (t *Tour) Validate() error {
	return utils.ValidateStruct(t)
}
