package models

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type" validate:"omitempty,eq=Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,coordinates"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
}

// TourLocation is a stop on the tour itinerary.
type TourLocation struct {
	GeoPoint `bson:",inline"`
	Day      int `json:"day" bson:"day"`
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) >= 1 {
		return p.Coordinates[0]
	}
	return 0
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) >= 2 {
		return p.Coordinates[1]
	}
	return 0
}
