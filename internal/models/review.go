package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/utils"
)

type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Review    string             `json:"review" bson:"review" validate:"required,min=20,max=500"`
	Rating    float64            `json:"rating" bson:"rating" validate:"omitempty,rating"`
	TourID    primitive.ObjectID `json:"tour_id" bson:"tour" validate:"required"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user" validate:"required"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`

	// Populated author, never persisted.
	User *User `json:"user,omitempty" bson:"-"`
}

// PrePersist applies the rating default and timestamps before a write.
func (r *Review) PrePersist() {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
		if r.Rating == 0 {
			r.Rating = utils.DefaultRatingAverage
		}
	}
	r.UpdatedAt = now
}

func (r *Review) Validate() error {
	return utils.ValidateStruct(r)
}
