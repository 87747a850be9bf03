package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// TourStats is one aggregation bucket of the tour-stats pipeline,
// grouped by difficulty.
type TourStats struct {
	Difficulty string  `json:"difficulty" bson:"_id"`
	NumTours   int64   `json:"num_tours" bson:"num_tours"`
	NumRatings int64   `json:"num_ratings" bson:"num_ratings"`
	AvgRating  float64 `json:"avg_rating" bson:"avg_rating"`
	AvgPrice   float64 `json:"avg_price" bson:"avg_price"`
	MinPrice   float64 `json:"min_price" bson:"min_price"`
	MaxPrice   float64 `json:"max_price" bson:"max_price"`
}

// MonthlyPlanEntry is one month's bucket of the monthly-plan pipeline.
type MonthlyPlanEntry struct {
	Month         int      `json:"month" bson:"month"`
	NumTourStarts int64    `json:"num_tour_starts" bson:"num_tour_starts"`
	Tours         []string `json:"tours" bson:"tours"`
}

// TourDistance is a tour paired with its distance from a query point.
type TourDistance struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Name     string             `json:"name" bson:"name"`
	Distance float64            `json:"distance" bson:"distance"`
}
